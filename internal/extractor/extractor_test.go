package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CompanyInsights/internal/model"
)

func TestExtract_PreservesOrder(t *testing.T) {
	raw := `Sure! Here you go:
[{"competitor": "Dunkin", "reasoning": "Cut 800 jobs on 2019-04-02"},
 {"competitor":"Tim Hortons","reasoning":"Restructuring in 2020"},
 { "competitor" : "Costa Coffee" , "reasoning" : "Layoffs after acquisition" }]
Hope this helps.`

	got := Extract(raw)
	require.Len(t, got, 3)
	assert.Equal(t, []model.Candidate{
		{Competitor: "Dunkin", Reasoning: "Cut 800 jobs on 2019-04-02"},
		{Competitor: "Tim Hortons", Reasoning: "Restructuring in 2020"},
		{Competitor: "Costa Coffee", Reasoning: "Layoffs after acquisition"},
	}, got)
}

func TestExtract_NoMatchesReturnsEmpty(t *testing.T) {
	tests := []string{
		"",
		"I could not find any competitors.",
		`[{"name": "Dunkin", "reason": "wrong keys"}]`,
		`{"competitor": "Dunkin"}`,
		`{"competitor": "Dunkin", "reasoning": "truncated`,
	}
	for _, raw := range tests {
		got := Extract(raw)
		assert.NotNil(t, got, "input %q", raw)
		assert.Empty(t, got, "input %q", raw)
	}
}

func TestExtract_MalformedFragmentContributesNothing(t *testing.T) {
	raw := `[{"competitor": "A", "reasoning": "one"},
{"competitor": "B", "reasoning": "two"},
{"competitor": "Broken", "reason": "missing key"},
{"competitor": "C", "reasoning": "three"}]`

	got := Extract(raw)
	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Competitor)
	assert.Equal(t, "B", got[1].Competitor)
	assert.Equal(t, "C", got[2].Competitor)
}

func TestExtract_DropsBlankCompetitor(t *testing.T) {
	raw := `[{"competitor": "", "reasoning": "nobody"}, {"competitor": "  ", "reasoning": "spaces"}, {"competitor": "Peet's", "reasoning": "ok"}]`
	got := Extract(raw)
	require.Len(t, got, 1)
	assert.Equal(t, "Peet's", got[0].Competitor)
}

func TestExtract_EscapedQuotes(t *testing.T) {
	raw := `{"competitor": "McDonald's", "reasoning": "Announced \"Accelerating the Arches\" cuts"}`
	got := Extract(raw)
	require.Len(t, got, 1)
	assert.Equal(t, `Announced "Accelerating the Arches" cuts`, got[0].Reasoning)
}

func TestExtract_BrokenEscapeKeepsRawText(t *testing.T) {
	raw := `{"competitor": "Acme", "reasoning": "bad \q escape"}`
	got := Extract(raw)
	require.Len(t, got, 1)
	assert.Equal(t, `bad \q escape`, got[0].Reasoning)
}
