package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
)

var coverWhy string

var coverCmd = &cobra.Command{
	Use:   "cover [title]",
	Short: "Generate a cover image for a book",
	Long: `Generates a poster-style cover for a title. The imagery is guided by
--why, or by the stored summary when --why is not given. Covers are
cached in the output directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCover,
}

func init() {
	coverCmd.Flags().StringVar(&coverWhy, "why", "", "text guiding the imagery")
	rootCmd.AddCommand(coverCmd)
}

func runCover(cmd *cobra.Command, args []string) error {
	svc, err := requireServices()
	if err != nil {
		return err
	}
	if svc.Synthesis == nil {
		return fmt.Errorf("%w: image generation is not configured", domain.ErrSynthesisUnavailable)
	}
	ctx := cmd.Context()
	title := strings.Join(args, " ")

	why := coverWhy
	if why == "" {
		summary, err := svc.Librarian.SummaryByTitle(ctx, title)
		if err == nil && summary != driving.NoExactMatch {
			why = summary
		} else {
			why = title
		}
	}

	path, err := svc.Synthesis.Cover(ctx, title, why)
	if err != nil {
		return err
	}
	cmd.Printf("Cover image saved to: %s\n", path)
	return nil
}
