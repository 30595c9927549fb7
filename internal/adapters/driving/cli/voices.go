package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the speech voices",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		current := config.Speech.Voice.OrDefault()
		cmd.Println("Voices:")
		for _, v := range domain.AllVoices() {
			marker := " "
			if v == current {
				marker = "*"
			}
			cmd.Printf(" %s %-8s %s\n", marker, v, v.Description())
		}
	},
}

func init() {
	rootCmd.AddCommand(voicesCmd)
}
