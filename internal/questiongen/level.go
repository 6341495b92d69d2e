package questiongen

import (
	"fmt"
	"strings"
)

// Level is a Bloom's taxonomy tier used as the difficulty of a paper.
type Level string

const (
	// L1 is Remember & Understand.
	L1 Level = "L1"
	// L2 is Apply & Analyze.
	L2 Level = "L2"
	// L3 is Evaluate & Create.
	L3 Level = "L3"
)

// Tier describes one level of the taxonomy: its cognitive skills, the
// action verbs a question at that level should open with, and the mark
// values it may carry.
type Tier struct {
	Level Level
	Name  string
	Verbs []string
	Marks []int
}

// Taxonomy is the static tier table, ordered L1 to L3.
var Taxonomy = []Tier{
	{
		Level: L1,
		Name:  "Remember & Understand",
		Verbs: []string{"Define", "List", "Identify", "Name", "What is", "State", "Mention"},
		Marks: []int{2, 5},
	},
	{
		Level: L2,
		Name:  "Apply & Analyze",
		Verbs: []string{"Explain", "Describe", "Compare", "Why", "How", "Illustrate", "Interpret"},
		Marks: []int{5, 8},
	},
	{
		Level: L3,
		Name:  "Evaluate & Create",
		Verbs: []string{"Analyze", "Justify", "Evaluate", "Prove", "Derive", "Assess", "Design"},
		Marks: []int{10, 15},
	},
}

// ParseLevel accepts "L1", "l2", "3" and similar, and rejects anything
// outside the taxonomy.
func ParseLevel(s string) (Level, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(v, "L") {
		v = "L" + v
	}
	l := Level(v)
	if !l.Valid() {
		return "", fmt.Errorf("unknown difficulty level %q (want L1, L2 or L3)", s)
	}
	return l, nil
}

// Valid reports whether l is one of the taxonomy levels.
func (l Level) Valid() bool {
	_, ok := l.Tier()
	return ok
}

// Tier returns the taxonomy entry for l.
func (l Level) Tier() (Tier, bool) {
	for _, t := range Taxonomy {
		if t.Level == l {
			return t, true
		}
	}
	return Tier{}, false
}

func (l Level) String() string {
	return string(l)
}
