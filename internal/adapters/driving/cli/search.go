package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

const snippetLength = 100

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the book index",
	Long: `Embeds the query and returns the nearest books from the index,
closest first, without asking the judge model to pick one.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, err := requireServices()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if _, err := svc.Librarian.Prepare(ctx); err != nil {
		return err
	}

	hits, err := svc.Search.Search(ctx, strings.Join(args, " "), searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		if hits == nil {
			hits = []domain.SearchHit{}
		}
		return outputJSON(cmd, hits)
	}

	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	cmd.Println("Results:")
	cmd.Println()
	printHits(cmd, hits)
	return nil
}

// printHits writes hits as "[rank] title (score)" with a summary snippet.
func printHits(cmd *cobra.Command, hits []domain.SearchHit) {
	for i := range hits {
		cmd.Printf("  [%d] %s (%.2f)\n", hits[i].Rank, hits[i].Title, hits[i].Score)
		if s := snippet(hits[i].Summary); s != "" {
			cmd.Printf("      %s\n", s)
		}
	}
}

func snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= snippetLength {
		return text
	}
	return string(r[:snippetLength]) + "..."
}
