package domain

import "sort"

// ModerationSource identifies which classifier produced a result.
type ModerationSource string

// Available moderation sources.
const (
	// ModerationSourceRemote is the hosted moderation classifier.
	ModerationSourceRemote ModerationSource = "remote"

	// ModerationSourceLocal is the offline word-list heuristic.
	ModerationSourceLocal ModerationSource = "local"

	// ModerationSourceSkipped means moderation is switched off.
	ModerationSourceSkipped ModerationSource = "skipped"
)

// Refusal messages surfaced when a query is blocked.
const (
	RefusalDisrespectful = "Let's keep it respectful. Try another question."
	RefusalFlagged       = "Your message was flagged by the safety filter. Try rephrasing."
)

// DisrespectfulCategories are the classifier categories that indicate insults or slurs.
var DisrespectfulCategories = []string{
	"harassment",
	"harassment/threatening",
	"hate",
	"hate/threatening",
	"abusive",
}

// ModerationResult is the safety classification of a piece of text.
type ModerationResult struct {
	Flagged    bool               `json:"flagged"`
	Categories map[string]bool    `json:"categories,omitempty"`
	Scores     map[string]float64 `json:"scores,omitempty"`
	Source     ModerationSource   `json:"source"`
}

// Disrespectful reports whether any disrespectful category is set.
func (r ModerationResult) Disrespectful() bool {
	for _, c := range DisrespectfulCategories {
		if r.Categories[c] {
			return true
		}
	}
	return false
}

// FlaggedCategories returns the names of the categories set to true.
func (r ModerationResult) FlaggedCategories() []string {
	var out []string
	for name, on := range r.Categories {
		if on {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Refusal returns the message shown when this result blocks a query.
func (r ModerationResult) Refusal() string {
	if r.Disrespectful() {
		return RefusalDisrespectful
	}
	return RefusalFlagged
}
