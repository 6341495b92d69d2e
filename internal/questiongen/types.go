package questiongen

import (
	"fmt"
	"strconv"
)

// Question is one line of a paper, "<text> (L<n>) [<m>m]" when the model
// produced a complete tag. It is a value type; nothing mutates it after
// normalization.
type Question struct {
	Line string `json:"line"`

	// Sentinel marks the synthetic line substituted for a whole set when
	// generation fails.
	Sentinel bool `json:"sentinel,omitempty"`
}

// Level returns the level carried by the line's trailing tag.
func (q Question) Level() (Level, bool) {
	m := levelTagRe.FindStringSubmatch(q.Line)
	if m == nil {
		return "", false
	}
	return Level(m[1]), true
}

// Marks returns the mark value of the trailing tag. Repaired lines carry a
// level but no marks.
func (q Question) Marks() (int, bool) {
	m := levelTagRe.FindStringSubmatch(q.Line)
	if m == nil || m[2] == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return n, true
}

func (q Question) String() string {
	return q.Line
}

// Branding is the presentation metadata printed on every paper.
type Branding struct {
	Subject     string `json:"subject"`
	Institution string `json:"institution"`
	Logo        []byte `json:"-"`
}

const (
	defaultSubject     = "Subject"
	defaultInstitution = "College Name"
)

// WithDefaults fills an empty subject or institution with the placeholder
// text used on exported papers.
func (b Branding) WithDefaults() Branding {
	if b.Subject == "" {
		b.Subject = defaultSubject
	}
	if b.Institution == "" {
		b.Institution = defaultInstitution
	}
	return b
}

// QuestionSet is the ordered output of one generation request together with
// its branding. Its length never exceeds the requested count.
type QuestionSet struct {
	Questions []Question `json:"questions"`
	Branding  Branding   `json:"branding"`
	Level     Level      `json:"level"`
	Requested int        `json:"requested"`
}

// Failed reports whether the set is a single sentinel line.
func (s *QuestionSet) Failed() bool {
	return len(s.Questions) == 1 && s.Questions[0].Sentinel
}

// Lines returns the question lines in order.
func (s *QuestionSet) Lines() []string {
	out := make([]string, len(s.Questions))
	for i, q := range s.Questions {
		out[i] = q.Line
	}
	return out
}

// Request is the input to one generation call.
type Request struct {
	Source string
	Count  int
	Level  Level
}

// Validate rejects a non-positive count or an unknown level.
func (r Request) Validate() error {
	if r.Count < 1 {
		return fmt.Errorf("question count must be at least 1, got %d", r.Count)
	}
	if !r.Level.Valid() {
		return fmt.Errorf("unknown difficulty level %q", r.Level)
	}
	return nil
}
