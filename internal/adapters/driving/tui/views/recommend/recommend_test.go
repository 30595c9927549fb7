package recommend

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

func newTestView(lib *mockLibrarian, synth *mockSynthesis, admin bool) (*View, *mockIndex) {
	idx := &mockIndex{count: 4}
	var v *View
	if synth != nil {
		v = NewView(nil, nil, lib, idx, synth, admin)
	} else {
		v = NewView(nil, nil, lib, idx, nil, admin)
	}
	v.SetDimensions(100, 40)
	return v, idx
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestView_InitPreparesIndex(t *testing.T) {
	v, _ := newTestView(&mockLibrarian{count: 4}, nil, false)

	cmd := v.Init()

	require.NotNil(t, cmd)
	assert.True(t, v.Busy())
	assert.Equal(t, status.StateIndexing, v.Status().State())

	msg := v.prepare()()
	v.Update(msg)

	assert.False(t, v.Busy())
	assert.Equal(t, 4, v.Status().Books())
	assert.Equal(t, "Indexed 4 books.", v.Status().Message())
}

func TestView_SubmitRunsPipeline(t *testing.T) {
	lib := &mockLibrarian{turn: duneTurn()}
	v, _ := newTestView(lib, nil, false)
	v.SetQuery("a desert planet")

	_, cmd := v.Update(key("enter"))

	require.NotNil(t, cmd)
	assert.True(t, v.Busy())
	assert.Equal(t, status.StateThinking, v.Status().State())

	v.Update(v.ask("a desert planet")())

	assert.False(t, v.Busy())
	require.NotNil(t, v.Turn())
	assert.Equal(t, "Dune", v.Turn().Recommendation.Title)
	assert.Equal(t, "", v.Query())
	assert.Equal(t, "Recommended Dune", v.Status().Message())
	assert.Contains(t, v.View(), "Dune")
	assert.Equal(t, []string{"a desert planet"}, lib.queries)
}

func TestView_SubmitIgnoredWhenEmptyOrBusy(t *testing.T) {
	v, _ := newTestView(&mockLibrarian{}, nil, false)

	_, cmd := v.Update(key("enter"))
	assert.Nil(t, cmd)
	assert.False(t, v.Busy())

	v.SetQuery("dune")
	v.busy = true
	_, cmd = v.Update(key("enter"))
	assert.Nil(t, cmd)
}

func TestView_TurnError(t *testing.T) {
	v, _ := newTestView(&mockLibrarian{}, nil, false)
	v.busy = true

	v.Update(messages.TurnCompleted{Err: domain.ErrIndexUnavailable})

	assert.False(t, v.Busy())
	assert.ErrorIs(t, v.Err(), domain.ErrIndexUnavailable)
	assert.Equal(t, status.StateError, v.Status().State())
	assert.Contains(t, v.View(), "Error:")
}

func TestView_BlockedTurn(t *testing.T) {
	v, _ := newTestView(&mockLibrarian{}, nil, false)

	v.Update(messages.TurnCompleted{Turn: &domain.Turn{Blocked: true, Refusal: "Let's keep it respectful."}})

	assert.Equal(t, "Query blocked", v.Status().Message())
	assert.Contains(t, v.View(), "respectful")
}

func TestView_AdminShowsHits(t *testing.T) {
	v, _ := newTestView(&mockLibrarian{}, nil, true)

	v.Update(messages.TurnCompleted{Turn: duneTurn()})

	view := v.View()
	assert.Contains(t, view, "Candidates (2)")
	assert.Contains(t, view, "d=0.500 s=0.500")
}

func TestView_NonAdminHidesHits(t *testing.T) {
	v, _ := newTestView(&mockLibrarian{}, nil, false)

	v.Update(messages.TurnCompleted{Turn: duneTurn()})

	assert.NotContains(t, v.View(), "Candidates")
}

func TestView_NextVoiceCycles(t *testing.T) {
	synth := &mockSynthesis{voice: domain.VoiceAlloy}
	v, _ := newTestView(&mockLibrarian{}, synth, false)

	_, cmd := v.Update(key("ctrl+t"))

	require.NotNil(t, cmd)
	assert.Equal(t, domain.AllVoices()[1], synth.voice)

	v.Update(cmd())
	assert.Contains(t, v.Status().Message(), string(synth.voice))

	last := domain.AllVoices()[len(domain.AllVoices())-1]
	synth.voice = last
	v.Update(key("ctrl+t"))
	assert.Equal(t, domain.AllVoices()[0], synth.voice, "wraps around")
}

func TestView_NextVoiceWithoutSynthesis(t *testing.T) {
	v, _ := newTestView(&mockLibrarian{}, nil, false)

	_, cmd := v.Update(key("ctrl+t"))

	assert.Nil(t, cmd)
	assert.Equal(t, status.StateError, v.Status().State())
}

func TestView_Reindex(t *testing.T) {
	v, idx := newTestView(&mockLibrarian{}, nil, false)

	_, cmd := v.Update(key("ctrl+r"))

	require.NotNil(t, cmd)
	assert.True(t, v.Busy())

	v.Update(v.reindex()())
	assert.Equal(t, 1, idx.resets)
	assert.False(t, v.Busy())
	assert.Equal(t, 4, v.Status().Books())
}

func TestView_WatchedReindex(t *testing.T) {
	v, _ := newTestView(&mockLibrarian{}, nil, false)

	v.Update(messages.IndexCompleted{Count: 5, Watched: true})

	assert.Equal(t, "Indexed/updated 5 books.", v.Status().Message())
}

func TestView_IndexError(t *testing.T) {
	v, _ := newTestView(&mockLibrarian{}, nil, false)

	v.Update(messages.IndexCompleted{Err: errors.New("disk full")})

	assert.Equal(t, status.StateError, v.Status().State())
	assert.Equal(t, "disk full", v.Status().Message())
}

func TestView_EscGoesToMenu(t *testing.T) {
	v, _ := newTestView(&mockLibrarian{}, nil, false)

	_, cmd := v.Update(key("esc"))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_TypingGoesToInput(t *testing.T) {
	v, _ := newTestView(&mockLibrarian{}, nil, false)

	for _, r := range "sea" {
		v.Update(key(string(r)))
	}

	assert.Equal(t, "sea", v.Query())
}

func TestView_NotReady(t *testing.T) {
	v := NewView(nil, nil, &mockLibrarian{}, &mockIndex{}, nil, false)

	assert.Equal(t, "Initialising...", v.View())
}

func TestMarkdown(t *testing.T) {
	t.Run("recommendation", func(t *testing.T) {
		turn := duneTurn()
		turn.AudioPath = "out/speech.mp3"
		turn.Notices = []string{"Cover unavailable: no key"}

		md := Markdown(turn)

		assert.Contains(t, md, "# Dune")
		assert.Contains(t, md, "**Why:** It is set on a desert planet.")
		assert.Contains(t, md, "Audio saved to: `out/speech.mp3`")
		assert.Contains(t, md, "> Cover unavailable: no key")
		assert.Contains(t, md, "## Full summary\n\nPaul Atreides travels to Arrakis.")
	})

	t.Run("blocked", func(t *testing.T) {
		md := Markdown(&domain.Turn{Blocked: true, Refusal: "No."})

		assert.Equal(t, "> **Assistant:** No.\n", md)
	})

	t.Run("no matches", func(t *testing.T) {
		md := Markdown(&domain.Turn{Notices: []string{"No matching books found."}})

		assert.Equal(t, "> No matching books found.\n\n", md)
	})
}
