package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurn_Notify(t *testing.T) {
	turn := &Turn{Query: "q"}
	turn.Notify("first")
	turn.Notify("second")

	assert.Equal(t, []string{"first", "second"}, turn.Notices)
}

func TestTurn_JSONOmitsEmptyArtifacts(t *testing.T) {
	turn := Turn{
		ID:    "t-1",
		Query: "surveillance",
		Hits:  []SearchHit{{ID: "x", Title: "1984", Distance: 0.2, Score: 0.8, Rank: 1}},
		Recommendation: &Recommendation{
			Title: "1984",
			Why:   FallbackRationale,
		},
	}

	data, err := json.Marshal(turn)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"title":"1984"`)
	assert.Contains(t, s, `"why":"Top semantic match from your query."`)
	assert.NotContains(t, s, "audio_path")
	assert.NotContains(t, s, "cover_path")
	assert.NotContains(t, s, "refusal")
}
