package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [file]",
	Short: "Transcribe an audio file",
	Long:  `Sends an audio file to the speech-to-text model and prints the text.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	svc, err := requireServices()
	if err != nil {
		return err
	}
	if svc.Synthesis == nil {
		return fmt.Errorf("%w: transcription is not configured", domain.ErrSynthesisUnavailable)
	}

	text, err := svc.Synthesis.Transcribe(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	cmd.Println(text)
	return nil
}
