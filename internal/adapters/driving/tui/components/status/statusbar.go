// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateIndexing State = "indexing"
	StateError    State = "error"
	StateDone     State = "done"
)

// Bar displays the pipeline state, the active voice and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	books   int
	voice   string
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (b *Bar) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the bar is driven by its setters.
func (b *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	return b, nil
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := max(b.width-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (b *Bar) renderLeft() string {
	var parts []string
	switch b.state {
	case StateThinking:
		parts = append(parts, b.styles.Muted.Render("Thinking..."))
	case StateIndexing:
		parts = append(parts, b.styles.Muted.Render("Indexing..."))
	case StateError:
		msg := "Error"
		if b.message != "" {
			msg = fmt.Sprintf("Error: %s", b.message)
		}
		parts = append(parts, b.styles.Error.Render(msg))
	case StateReady, StateDone:
		msg := "Ready"
		if b.message != "" {
			msg = b.message
		}
		parts = append(parts, b.styles.Normal.Render(msg))
	}

	if b.books > 0 {
		parts = append(parts, b.styles.Muted.Render(fmt.Sprintf("%d books", b.books)))
	}
	if b.voice != "" {
		parts = append(parts, b.styles.Muted.Render("voice "+b.voice))
	}
	return strings.Join(parts, b.styles.Muted.Render(" | "))
}

func (b *Bar) renderRight() string {
	bindings := b.keymap.RecommendHelp()

	hints := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		hints = append(hints, hint(binding))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

func hint(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("%s: %s", h.Key, h.Desc)
}

// SetState sets the current state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// SetMessage sets the message shown for the current state.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetBooks sets the indexed book count.
func (b *Bar) SetBooks(n int) {
	b.books = n
}

// Books returns the indexed book count.
func (b *Bar) Books() int {
	return b.books
}

// SetVoice sets the voice shown in the bar.
func (b *Bar) SetVoice(voice string) {
	b.voice = voice
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the current width.
func (b *Bar) Width() int {
	return b.width
}

// Clear resets state and message.
func (b *Bar) Clear() {
	b.state = StateReady
	b.message = ""
}
