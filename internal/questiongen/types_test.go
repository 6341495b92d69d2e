package questiongen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"L1", L1, false},
		{"l2", L2, false},
		{"3", L3, false},
		{" L3 ", L3, false},
		{"L4", "", true},
		{"", "", true},
		{"easy", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTaxonomyMarks(t *testing.T) {
	want := map[Level][]int{L1: {2, 5}, L2: {5, 8}, L3: {10, 15}}
	for level, marks := range want {
		tier, ok := level.Tier()
		require.True(t, ok)
		assert.Equal(t, marks, tier.Marks)
		assert.Len(t, tier.Verbs, 7)
	}
	_, ok := Level("L9").Tier()
	assert.False(t, ok)
}

func TestQuestionAccessors(t *testing.T) {
	q := Question{Line: "Explain photosynthesis. (L2) [8m]"}
	level, ok := q.Level()
	require.True(t, ok)
	assert.Equal(t, L2, level)
	marks, ok := q.Marks()
	require.True(t, ok)
	assert.Equal(t, 8, marks)

	repaired := Question{Line: "What is gravity? (L2)"}
	level, ok = repaired.Level()
	require.True(t, ok)
	assert.Equal(t, L2, level)
	_, ok = repaired.Marks()
	assert.False(t, ok, "repaired lines have no marks")

	sentinelQ := Question{Line: FailureMessage, Sentinel: true}
	_, ok = sentinelQ.Level()
	assert.False(t, ok)
	_, ok = sentinelQ.Marks()
	assert.False(t, ok)
}

func TestRequestValidate(t *testing.T) {
	assert.NoError(t, Request{Count: 1, Level: L1}.Validate())
	assert.Error(t, Request{Count: 0, Level: L1}.Validate())
	assert.Error(t, Request{Count: -3, Level: L2}.Validate())
	assert.Error(t, Request{Count: 5, Level: "L7"}.Validate())
}

func TestBrandingWithDefaults(t *testing.T) {
	b := Branding{}.WithDefaults()
	assert.Equal(t, "Subject", b.Subject)
	assert.Equal(t, "College Name", b.Institution)

	b = Branding{Subject: "Physics", Institution: "City College"}.WithDefaults()
	assert.Equal(t, "Physics", b.Subject)
	assert.Equal(t, "City College", b.Institution)
}

func TestQuestionSetHelpers(t *testing.T) {
	set := &QuestionSet{Questions: []Question{{Line: "a (L1) [2m]"}, {Line: "b (L1) [5m]"}}}
	assert.False(t, set.Failed())
	assert.Equal(t, []string{"a (L1) [2m]", "b (L1) [5m]"}, set.Lines())

	failed := &QuestionSet{Questions: sentinel(APIFailureMessage)}
	assert.True(t, failed.Failed())
}
