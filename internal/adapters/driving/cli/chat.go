package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/watch"
	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

const chatPrompt = "You> "

var (
	chatVoiceFile string
	chatWatch     bool
	flagSpeak     bool
	flagCover     bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive recommendation chat",
	Long: `Starts an interactive loop. Describe what you feel like reading and
the librarian recommends one book from the collection.

Type exit or quit to leave.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatVoiceFile, "voice-file", "", "transcribe an audio file as the first query")
	chatCmd.Flags().BoolVar(&chatWatch, "watch", false, "reindex when the dataset file changes")
	addSynthesisFlags(chatCmd)
	rootCmd.AddCommand(chatCmd)
}

// addSynthesisFlags registers the flags that switch artifact generation on.
func addSynthesisFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagSpeak, "speak", false, "synthesise the recommendation as audio")
	cmd.Flags().BoolVar(&flagCover, "cover", false, "generate a cover image for the recommendation")
}

func applySynthesisFlags(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("speak"); f != nil && f.Changed {
		config.Speech.Enabled = flagSpeak
	}
	if f := cmd.Flags().Lookup("cover"); f != nil && f.Changed {
		config.Image.Enabled = flagCover
	}
}

func runChat(cmd *cobra.Command, _ []string) error {
	applySynthesisFlags(cmd)
	svc, err := requireServices()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	n, err := svc.Librarian.Prepare(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Indexed %d books.\n", n)

	if chatWatch && cmd.Flags().Lookup("watch") != nil {
		stop := startWatcher(ctx, cmd, svc)
		defer stop()
	}

	if chatVoiceFile != "" && cmd.Flags().Lookup("voice-file") != nil {
		if svc.Synthesis == nil {
			return fmt.Errorf("%w: transcription is not configured", domain.ErrSynthesisUnavailable)
		}
		text, err := svc.Synthesis.Transcribe(ctx, chatVoiceFile)
		if err != nil {
			return err
		}
		cmd.Printf("You (voice)> %s\n", text)
		if err := chatTurn(ctx, cmd, svc, text); err != nil {
			return err
		}
	}

	echo := !isTerminal(cmd.InOrStdin())
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print(chatPrompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			cmd.Println()
			cmd.Println("Bye!")
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if echo {
			cmd.Println(line)
		}
		if line == "" {
			continue
		}
		if isExit(line) {
			cmd.Println("Bye!")
			return nil
		}

		if err := chatTurn(ctx, cmd, svc, line); err != nil {
			return err
		}
	}
}

// chatTurn runs one query. Only a malformed dataset ends the chat.
func chatTurn(ctx context.Context, cmd *cobra.Command, svc *Services, query string) error {
	turn, err := svc.Librarian.Recommend(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedShape) {
			return err
		}
		cmd.PrintErrf("Error: %v\n", err)
		if errors.Is(err, domain.ErrIndexUnavailable) {
			cmd.PrintErrln("Try again, or rebuild the index with: librarian index --reset")
		}
		return nil
	}
	printTurn(cmd, turn, config.Admin)
	return nil
}

func startWatcher(ctx context.Context, cmd *cobra.Command, svc *Services) func() {
	wctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	w := watch.New(config.DataFile, svc.Index).OnReindex(func(n int, err error) {
		if err != nil {
			cmd.PrintErrf("\nReindex failed: %v\n", err)
			return
		}
		cmd.PrintErrf("\nIndexed/updated %d books.\n", n)
	})

	go func() {
		defer close(done)
		if err := w.Run(wctx); err != nil {
			cmd.PrintErrf("Watcher stopped: %v\n", err)
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// printTurn writes one pipeline result in the chat layout.
func printTurn(cmd *cobra.Command, turn *domain.Turn, admin bool) {
	if turn.Blocked {
		cmd.Printf("Assistant> %s\n", turn.Refusal)
		return
	}

	if admin && len(turn.Hits) > 0 {
		cmd.Println()
		printHits(cmd, turn.Hits)
	}

	rec := turn.Recommendation
	if rec != nil {
		cmd.Printf("\nRecommendation: %s\nWhy: %s\n", rec.Title, rec.Why)
		if turn.AudioPath != "" {
			cmd.Printf("Audio saved to: %s\n", turn.AudioPath)
		}
		if turn.CoverPath != "" {
			cmd.Printf("Cover image saved to: %s\n", turn.CoverPath)
		}
	}

	for _, n := range turn.Notices {
		cmd.Printf("Note: %s\n", n)
	}

	if rec != nil {
		cmd.Printf("\nFull summary:\n%s\n\n", turn.Summary)
	}
}

func isExit(line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit":
		return true
	default:
		return false
	}
}

// isTerminal reports whether r is an interactive terminal. Piped input
// is echoed after the prompt so transcripts stay readable.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
