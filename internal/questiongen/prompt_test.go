package questiongen

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sourceSection(prompt string) string {
	_, after, _ := strings.Cut(prompt, "### TEXT:\n")
	return strings.TrimSuffix(after, "\n")
}

func TestBuildPrompt_TruncatesSource(t *testing.T) {
	long := strings.Repeat("a", SourceLimit) + "SHOULD-NOT-APPEAR"
	prompt := BuildPrompt(long, 10, L1)

	assert.NotContains(t, prompt, "SHOULD-NOT-APPEAR")
	assert.Equal(t, strings.Repeat("a", SourceLimit), sourceSection(prompt))
}

func TestBuildPrompt_ShortSourceKeptWhole(t *testing.T) {
	prompt := BuildPrompt("Photosynthesis converts light to energy.", 5, L2)
	assert.Equal(t, "Photosynthesis converts light to energy.", sourceSection(prompt))
}

func TestBuildPrompt_TruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", SourceLimit+10)
	section := sourceSection(BuildPrompt(long, 3, L3))

	require.True(t, utf8.ValidString(section))
	assert.Equal(t, SourceLimit, utf8.RuneCountInString(section))
}

func TestBuildPrompt_EmbedsTaxonomyAndFormat(t *testing.T) {
	prompt := BuildPrompt("text", 7, L3)

	for _, want := range []string{
		"Generate 7 academic questions",
		"The selected level for this paper is L3.",
		"L1 (Remember & Understand)",
		"- Define, List, Identify, Name, What is, State, Mention. Assign 2 or 5 marks.",
		"L2 (Apply & Analyze)",
		"- Explain, Describe, Compare, Why, How, Illustrate, Interpret. Assign 5 or 8 marks.",
		"L3 (Evaluate & Create)",
		"- Analyze, Justify, Evaluate, Prove, Derive, Assess, Design. Assign 10 or 15 marks.",
		"Aim for a balanced distribution across the levels.",
		"DO NOT NUMBER THE QUESTIONS",
		"<question> (L<level>) [<marks>m]",
		"What is a neural network? (L1) [5m]",
		"Explain the difference between supervised and unsupervised learning. (L2) [8m]",
		"Design a system to predict stock prices. (L3) [15m]",
		`Do NOT output incomplete tags like "(L" or "( L".`,
	} {
		assert.Contains(t, prompt, want)
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	a := BuildPrompt("same source", 4, L2)
	b := BuildPrompt("same source", 4, L2)
	assert.Equal(t, a, b)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "", truncateRunes("abc", 0))
	assert.Equal(t, "ab", truncateRunes("abc", 2))
	assert.Equal(t, "abc", truncateRunes("abc", 3))
	assert.Equal(t, "abc", truncateRunes("abc", 10))
	assert.Equal(t, "日本", truncateRunes("日本語", 2))
}
