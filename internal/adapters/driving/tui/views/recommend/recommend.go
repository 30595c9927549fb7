// Package recommend provides the query and recommendation view for the TUI.
package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
)

const (
	// rows taken by the header, input, spacing and status bar
	chromeHeight = 9
	hitsHeight   = 8
)

// View reads a query, runs the pipeline and renders the pick.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	spinner   spinner.Model
	result    viewport.Model
	hits      *list.List
	statusbar *status.Bar
	renderer  *glamour.TermRenderer

	librarian driving.LibrarianService
	index     driving.IndexService
	synthesis driving.SynthesisService
	ctx       context.Context

	admin  bool
	busy   bool
	turn   *domain.Turn
	err    error
	width  int
	height int
	ready  bool
}

// NewView creates the recommendation view. synthesis may be nil, which
// disables voice cycling.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	librarian driving.LibrarianService,
	index driving.IndexService,
	synthesis driving.SynthesisService,
	admin bool,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Spinner

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewQueryInput(s, "Ask:"),
		spinner:   sp,
		result:    viewport.New(80, 10),
		hits:      list.New(s, "Candidates"),
		statusbar: status.NewBar(s, km),
		librarian: librarian,
		index:     index,
		synthesis: synthesis,
		ctx:       context.Background(),
		admin:     admin,
		width:     80,
		height:    24,
	}
	if synthesis != nil {
		v.statusbar.SetVoice(synthesis.Voice().String())
	}
	v.setRenderer(80)
	return v
}

// WithContext sets the context for pipeline calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init prepares the index and starts the cursor blink.
func (v *View) Init() tea.Cmd {
	v.busy = true
	v.statusbar.SetState(status.StateIndexing)
	return tea.Batch(v.input.Init(), v.spinner.Tick, v.prepare())
}

// Update handles messages for the view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.TurnCompleted:
		v.handleTurn(msg)
		return v, nil

	case messages.IndexCompleted:
		v.handleIndexed(msg)
		return v, nil

	case messages.VoiceChanged:
		v.statusbar.SetVoice(msg.Voice.String())
		v.statusbar.SetState(status.StateDone)
		v.statusbar.SetMessage("Voice set to " + msg.Voice.String())
		return v, nil

	case messages.ErrorOccurred:
		v.busy = false
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(key, v.keymap.NextVoice):
		return v, v.nextVoice()

	case keymap.Matches(key, v.keymap.Reindex):
		if v.busy {
			return v, nil
		}
		v.busy = true
		v.statusbar.SetState(status.StateIndexing)
		return v, tea.Batch(v.spinner.Tick, v.reindex())

	case keymap.Matches(key, v.keymap.Submit):
		query := v.input.Value()
		if query == "" || v.busy {
			return v, nil
		}
		v.busy = true
		v.err = nil
		v.statusbar.SetState(status.StateThinking)
		return v, tea.Batch(v.spinner.Tick, v.ask(query))

	case key == "pgup" || key == "pgdown" || key == "up" || key == "down":
		var cmd tea.Cmd
		v.result, cmd = v.result.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) ask(query string) tea.Cmd {
	return func() tea.Msg {
		turn, err := v.librarian.Recommend(v.ctx, query)
		return messages.TurnCompleted{Turn: turn, Err: err}
	}
}

func (v *View) prepare() tea.Cmd {
	return func() tea.Msg {
		n, err := v.librarian.Prepare(v.ctx)
		return messages.IndexCompleted{Count: n, Err: err}
	}
}

func (v *View) reindex() tea.Cmd {
	return func() tea.Msg {
		n, err := v.index.ResetAndRebuild(v.ctx)
		return messages.IndexCompleted{Count: n, Err: err}
	}
}

func (v *View) nextVoice() tea.Cmd {
	if v.synthesis == nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage("speech is not configured")
		return nil
	}

	voices := v.synthesis.Voices()
	current := v.synthesis.Voice()
	next := voices[0]
	for i, voice := range voices {
		if voice == current {
			next = voices[(i+1)%len(voices)]
			break
		}
	}
	v.synthesis.SetVoice(next)
	return func() tea.Msg {
		return messages.VoiceChanged{Voice: next}
	}
}

func (v *View) handleTurn(msg messages.TurnCompleted) {
	v.busy = false
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.turn = msg.Turn
	v.input.Reset()
	v.hits.SetItems(list.FromHits(msg.Turn.Hits))
	v.result.SetContent(v.render(msg.Turn))
	v.result.GotoTop()

	v.statusbar.SetState(status.StateDone)
	switch {
	case msg.Turn.Blocked:
		v.statusbar.SetMessage("Query blocked")
	case msg.Turn.Recommendation != nil:
		v.statusbar.SetMessage("Recommended " + msg.Turn.Recommendation.Title)
	default:
		v.statusbar.SetMessage("No recommendation")
	}
}

func (v *View) handleIndexed(msg messages.IndexCompleted) {
	v.busy = false
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.statusbar.SetBooks(msg.Count)
	v.statusbar.SetState(status.StateDone)
	if msg.Watched {
		v.statusbar.SetMessage(fmt.Sprintf("Indexed/updated %d books.", msg.Count))
	} else {
		v.statusbar.SetMessage(fmt.Sprintf("Indexed %d books.", msg.Count))
	}
}

// Markdown returns the turn in the markdown layout rendered by the view.
func Markdown(turn *domain.Turn) string {
	var b strings.Builder
	if turn.Blocked {
		fmt.Fprintf(&b, "> **Assistant:** %s\n", turn.Refusal)
		return b.String()
	}

	rec := turn.Recommendation
	if rec != nil {
		fmt.Fprintf(&b, "# %s\n\n**Why:** %s\n\n", rec.Title, rec.Why)
		if turn.AudioPath != "" {
			fmt.Fprintf(&b, "Audio saved to: `%s`\n\n", turn.AudioPath)
		}
		if turn.CoverPath != "" {
			fmt.Fprintf(&b, "Cover image saved to: `%s`\n\n", turn.CoverPath)
		}
	}
	for _, n := range turn.Notices {
		fmt.Fprintf(&b, "> %s\n\n", n)
	}
	if rec != nil {
		fmt.Fprintf(&b, "## Full summary\n\n%s\n", turn.Summary)
	}
	return b.String()
}

func (v *View) render(turn *domain.Turn) string {
	md := Markdown(turn)
	if v.renderer == nil {
		return md
	}
	out, err := v.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

func (v *View) setRenderer(width int) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(v.styles.Theme().Markdown),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		v.renderer = nil
		return
	}
	v.renderer = r
}

// View renders the view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Librarian"), "")

	prompt := v.input.View()
	if v.busy {
		prompt = lipgloss.JoinHorizontal(lipgloss.Center, prompt, " ", v.spinner.View())
	}
	sections = append(sections, prompt, "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.admin && v.hits.Len() > 0 {
		sections = append(sections, v.hits.View(), "")
	}

	if v.turn != nil {
		sections = append(sections, v.result.View())
	} else {
		sections = append(sections, v.styles.Muted.Render("Ask for a book by mood, theme or plot."))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	resultHeight := height - chromeHeight
	if v.admin {
		resultHeight -= hitsHeight
		v.hits.SetDimensions(width, hitsHeight)
	}
	v.input.SetWidth(width)
	v.result.Width = width
	v.result.Height = max(resultHeight, 3)
	v.statusbar.SetWidth(width)
	v.setRenderer(width)
	if v.turn != nil {
		v.result.SetContent(v.render(v.turn))
	}
}

// Reset clears the input and focuses it, keeping the last turn.
func (v *View) Reset() {
	v.input.Reset()
	v.input.Focus()
}

// Turn returns the last completed turn.
func (v *View) Turn() *domain.Turn {
	return v.turn
}

// Busy reports whether a pipeline call is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}

// Query returns the current input value.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the input value.
func (v *View) SetQuery(q string) {
	v.input.SetValue(q)
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.statusbar
}
