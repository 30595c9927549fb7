package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/views/books"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/views/recommend"
)

// Options tunes the TUI.
type Options struct {
	// Admin shows the retrieved candidates with their distances.
	Admin bool
}

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports *Ports
	ctx   context.Context

	styles *styles.Styles

	menuView      *menu.View
	recommendView *recommend.View
	booksView     *books.View

	currentView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports, opts Options) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		menuView:      menu.NewView(s),
		recommendView: recommend.NewView(s, km, ports.Librarian, ports.Index, ports.Synthesis, opts.Admin),
		booksView:     books.NewView(s, km, ports.Librarian),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.recommendView.WithContext(ctx)
	a.booksView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("librarian"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.forwardKey(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewRecommend:
			a.recommendView.Reset()
			return a, a.recommendView.Init()
		case messages.ViewBooks:
			return a, a.booksView.Init()
		case messages.ViewMenu, messages.ViewHelp:
		}
		return a, nil

	// Pipeline results land in the recommend view even when another view
	// is showing, so the status stays current.
	case messages.TurnCompleted, messages.IndexCompleted, messages.VoiceChanged, messages.ErrorOccurred:
		a.recommendView, cmd = a.recommendView.Update(msg)
		return a, cmd

	case messages.BooksLoaded, messages.SummaryLoaded:
		a.booksView, cmd = a.booksView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewRecommend:
		a.recommendView, cmd = a.recommendView.Update(msg)
	case messages.ViewBooks:
		a.booksView, cmd = a.booksView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

func (a *App) forwardKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewRecommend:
		a.recommendView, cmd = a.recommendView.Update(msg)
	case messages.ViewBooks:
		a.booksView, cmd = a.booksView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewRecommend:
		return a.recommendView.View()
	case messages.ViewBooks:
		return a.booksView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Navigation:
  esc         Back to menu (quits from the menu)
  ctrl+c      Quit

Ask the librarian:
  (type)      Describe what you feel like reading
  enter       Ask for a recommendation
  ↑/↓, pgup   Scroll the answer
  ctrl+t      Next speech voice
  ctrl+r      Rebuild the index

Browse books:
  j/k, ↑/↓    Navigate titles
  enter       Show the full summary

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// Recommend returns the recommendation view.
func (a *App) Recommend() *recommend.View {
	return a.recommendView
}

// Books returns the books view.
func (a *App) Books() *books.View {
	return a.booksView
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.recommendView.SetDimensions(width, height)
	a.booksView.SetDimensions(width, height)
}
