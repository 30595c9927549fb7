package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [title]",
	Short: "Print the full summary of a book",
	Long:  `Looks up a book by its exact title and prints the stored summary.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	svc, err := requireServices()
	if err != nil {
		return err
	}

	text, err := svc.Librarian.SummaryByTitle(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	cmd.Println(text)
	return nil
}
