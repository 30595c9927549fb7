package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexReset bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the book dataset",
	Long: `Embeds every summary in the dataset and stores it in the collection
for the configured embedding model. Existing books are overwritten in
place; --reset drops the whole index first.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

var indexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index status",
	Args:  cobra.NoArgs,
	RunE:  runIndexStatus,
}

func init() {
	indexCmd.Flags().BoolVar(&indexReset, "reset", false, "delete all index data before indexing")
	indexCmd.AddCommand(indexStatusCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	svc, err := requireServices()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var n int
	if indexReset {
		n, err = svc.Index.ResetAndRebuild(ctx)
	} else {
		n, err = svc.Index.IndexBooks(ctx)
	}
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	cmd.Printf("Indexed %d books into %s.\n", n, svc.Index.Collection())
	return nil
}

func runIndexStatus(cmd *cobra.Command, _ []string) error {
	svc, err := requireServices()
	if err != nil {
		return err
	}

	n, err := svc.Index.Count(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Collection: %s\n", svc.Index.Collection())
	cmd.Printf("Documents:  %d\n", n)
	cmd.Printf("Dataset:    %s\n", config.DataFile)
	cmd.Printf("Index dir:  %s\n", config.Index.Dir)
	return nil
}
