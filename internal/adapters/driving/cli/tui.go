package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/watch"
)

var tuiWatch bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

Controls:
  Enter    - Ask / Select
  ↑/↓      - Scroll the answer or navigate titles
  Ctrl+T   - Next speech voice
  Ctrl+R   - Rebuild the index
  Esc      - Back (quits from the menu)
  Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiWatch, "watch", false, "reindex when the dataset file changes")
	addSynthesisFlags(tuiCmd)
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	applySynthesisFlags(cmd)
	svc, err := requireServices()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ports := &tui.Ports{
		Librarian: svc.Librarian,
		Index:     svc.Index,
		Synthesis: svc.Synthesis,
	}

	app, err := tui.NewApp(ports, tui.Options{Admin: config.Admin})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	if tuiWatch {
		wctx, cancel := context.WithCancel(ctx)
		defer cancel()

		w := watch.New(config.DataFile, svc.Index).OnReindex(func(n int, err error) {
			p.Send(messages.IndexCompleted{Count: n, Err: err, Watched: true})
		})
		go func() {
			if err := w.Run(wctx); err != nil {
				p.Send(messages.ErrorOccurred{Err: fmt.Errorf("watcher stopped: %w", err)})
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
