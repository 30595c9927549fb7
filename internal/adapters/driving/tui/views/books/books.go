// Package books provides the catalog browser view for the TUI.
package books

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
)

// View lists catalog titles and shows the summary of the selected one.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.List
	librarian driving.LibrarianService
	ctx       context.Context

	title   string
	summary string
	err     error
	width   int
	height  int
	ready   bool
}

// NewView creates the books view.
func NewView(s *styles.Styles, km *keymap.KeyMap, librarian driving.LibrarianService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		list:      list.New(s, "Books"),
		librarian: librarian,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the titles.
func (v *View) Init() tea.Cmd {
	return func() tea.Msg {
		titles, err := v.librarian.Titles(v.ctx)
		return messages.BooksLoaded{Titles: titles, Err: err}
	}
}

// Update handles messages for the view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.BooksLoaded:
		v.err = msg.Err
		v.list.SetItems(list.FromTitles(msg.Titles))
		v.title, v.summary = "", ""
		return v, nil

	case messages.SummaryLoaded:
		v.err = msg.Err
		v.title, v.summary = msg.Title, msg.Summary
		return v, nil

	case tea.KeyMsg:
		key := msg.String()
		switch {
		case keymap.Matches(key, v.keymap.Back):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case keymap.Matches(key, v.keymap.Select):
			if item := v.list.SelectedItem(); item != nil {
				return v, v.loadSummary(item.Title)
			}
			return v, nil
		}
		v.list, _ = v.list.Update(msg)
		return v, nil
	}

	return v, nil
}

func (v *View) loadSummary(title string) tea.Cmd {
	return func() tea.Msg {
		summary, err := v.librarian.SummaryByTitle(v.ctx, title)
		return messages.SummaryLoaded{Title: title, Summary: summary, Err: err}
	}
}

// View renders the list and, when loaded, the selected summary.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("Librarian"), "", v.list.View()}

	if v.err != nil {
		sections = append(sections, "", v.styles.Error.Render("Error: "+v.err.Error()))
	}
	if v.title != "" {
		body := lipgloss.NewStyle().Width(max(v.width-4, 20)).Render(v.summary)
		sections = append(sections, "", v.styles.Subtitle.Render(v.title), v.styles.Normal.Render(body))
	}

	sections = append(sections, "", v.styles.Help.Render("[j/k] Navigate  [Enter] Summary  [Esc] Back"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.list.SetDimensions(width, max(height/2, 4))
}

// Selected returns the title under the cursor, or "".
func (v *View) Selected() string {
	if item := v.list.SelectedItem(); item != nil {
		return item.Title
	}
	return ""
}

// Summary returns the loaded title and summary.
func (v *View) Summary() (string, string) {
	return v.title, v.summary
}
