// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

// Item is one row of the list.
type Item struct {
	Title string

	// Meta is shown right of the title, e.g. a score.
	Meta string

	// Preview is an optional second line.
	Preview string
}

// FromHits builds rows showing rank, distance and score for each hit.
func FromHits(hits []domain.SearchHit) []Item {
	items := make([]Item, len(hits))
	for i, h := range hits {
		items[i] = Item{
			Title:   fmt.Sprintf("%d. %s", h.Rank, h.Title),
			Meta:    fmt.Sprintf("d=%.3f s=%.3f", h.Distance, h.Score),
			Preview: h.Summary,
		}
	}
	return items
}

// FromTitles builds one row per title.
func FromTitles(titles []string) []Item {
	items := make([]Item, len(titles))
	for i, t := range titles {
		items[i] = Item{Title: t}
	}
	return items
}

// List displays items in a navigable, scrolling list.
type List struct {
	heading  string
	items    []Item
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// New creates an empty list with a heading.
func New(s *styles.Styles, heading string) *List {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &List{
		heading: heading,
		styles:  s,
		width:   80,
		height:  10,
	}
}

// Init initialises the list.
func (l *List) Init() tea.Cmd {
	return nil
}

// Update handles list navigation keys.
func (l *List) Update(msg tea.Msg) (*List, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the visible window of items.
func (l *List) View() string {
	if len(l.items) == 0 {
		return l.styles.Muted.Render("Nothing to show")
	}

	lines := make([]string, 0, len(l.items)*2+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", l.heading, len(l.items))), "")

	rowHeight := 1
	if l.hasPreviews() {
		rowHeight = 2
	}
	visible := max((l.height-2)/rowHeight, 1)

	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.items))

	for i := start; i < end; i++ {
		lines = append(lines, l.renderItem(i))
	}
	return strings.Join(lines, "\n")
}

func (l *List) renderItem(index int) string {
	item := l.items[index]
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	titleWidth := max(l.width-len(item.Meta)-6, 10)
	title := truncate(item.Title, titleWidth)

	var line string
	if index == l.selected {
		line = l.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, titleWidth, title, item.Meta))
	} else {
		line = l.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, titleWidth, title)) +
			l.styles.Muted.Render(item.Meta)
	}

	if item.Preview == "" {
		return line
	}
	preview := truncate(strings.Join(strings.Fields(item.Preview), " "), max(l.width-6, 20))
	return line + "\n" + l.styles.Muted.Render("    "+preview)
}

func (l *List) hasPreviews() bool {
	for _, it := range l.items {
		if it.Preview != "" {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetItems replaces the items and resets the selection.
func (l *List) SetItems(items []Item) {
	l.items = items
	l.selected = 0
}

// Items returns the current items.
func (l *List) Items() []Item {
	return l.items
}

// Selected returns the index of the selected item.
func (l *List) Selected() int {
	return l.selected
}

// SelectedItem returns the selected item, or nil if the list is empty.
func (l *List) SelectedItem() *Item {
	if len(l.items) == 0 {
		return nil
	}
	return &l.items[l.selected]
}

// MoveUp moves selection up.
func (l *List) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *List) MoveDown() {
	if l.selected < len(l.items)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *List) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.items)
}
