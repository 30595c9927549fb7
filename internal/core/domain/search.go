package domain

// FallbackRationale is the rationale attached when the best-score hit is picked
// without a usable judge answer.
const FallbackRationale = "Top semantic match from your query."

// SearchHit is a nearest-neighbour candidate for one query.
type SearchHit struct {
	// ID is the stable document id.
	ID string `json:"id"`

	Title   string `json:"title"`
	Summary string `json:"summary"`

	// Distance is the cosine distance to the query; lower is closer.
	Distance float64 `json:"distance"`

	// Score is 1 - Distance.
	Score float64 `json:"score"`

	// Rank is the 1-based position in ascending-distance order.
	Rank int `json:"rank"`
}

// Recommendation is the single title picked for a query.
// Title is always one of the hit titles of the same query.
type Recommendation struct {
	Title string `json:"title"`
	Why   string `json:"why"`

	// Fallback is true when the best-score hit was taken without a judge answer.
	Fallback bool `json:"fallback"`
}

// Turn is the outcome of one pass of the recommendation pipeline.
type Turn struct {
	ID    string `json:"id"`
	Query string `json:"query"`

	// Blocked is true when the safety gate stopped the turn before retrieval.
	Blocked bool   `json:"blocked"`
	Refusal string `json:"refusal,omitempty"`

	Moderation *ModerationResult `json:"moderation,omitempty"`

	Hits           []SearchHit     `json:"hits"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`

	// Summary is the full stored summary for the recommended title.
	Summary string `json:"summary,omitempty"`

	AudioPath string `json:"audio_path,omitempty"`
	CoverPath string `json:"cover_path,omitempty"`

	// Notices are user-facing messages about degraded or skipped steps.
	Notices []string `json:"notices,omitempty"`
}

// Notify appends a user-facing notice to the turn.
func (t *Turn) Notify(msg string) {
	t.Notices = append(t.Notices, msg)
}
