package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var recommendJSON bool

var recommendCmd = &cobra.Command{
	Use:   "recommend [query]",
	Short: "Recommend one book for a query",
	Long: `Runs a single turn of the recommendation pipeline: safety check,
retrieval, selection and the full summary of the pick.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "output the turn as JSON")
	addSynthesisFlags(recommendCmd)
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	applySynthesisFlags(cmd)
	svc, err := requireServices()
	if err != nil {
		return err
	}

	turn, err := svc.Librarian.Recommend(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("recommend failed: %w", err)
	}

	if recommendJSON {
		return outputJSON(cmd, turn)
	}
	printTurn(cmd, turn, config.Admin)
	return nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
