package questiongen

import (
	"regexp"
	"strings"
)

// TagState classifies the trailing tag of a generated line.
type TagState int

const (
	// TagOther covers lines with no trailing tag, or one broken in a way
	// repair does not recognize. They pass through untouched.
	TagOther TagState = iota
	// TagComplete is a well-formed " (L<n>) [<m>m]" suffix.
	TagComplete
	// TagBroken is an opening "(L" at the end of the line with nothing
	// after it but whitespace.
	TagBroken
)

func (s TagState) String() string {
	switch s {
	case TagComplete:
		return "complete"
	case TagBroken:
		return "broken"
	default:
		return "other"
	}
}

var (
	completeTagRe = regexp.MustCompile(`\s\(L[1-3]\)\s\[\d+m\]$`)
	brokenTagRe   = regexp.MustCompile(`\(L\s*$`)

	// Used by Question accessors.
	levelTagRe = regexp.MustCompile(`\s\((L[1-3])\)(?:\s\[(\d+)m\])?$`)
)

// ClassifyTag reports the state of line's trailing tag. Only the end of
// the line is inspected; an "(L" mid-sentence is not a broken tag.
func ClassifyTag(line string) TagState {
	switch {
	case completeTagRe.MatchString(line):
		return TagComplete
	case brokenTagRe.MatchString(line):
		return TagBroken
	default:
		return TagOther
	}
}

// RepairTag replaces a broken trailing tag with " (<level>)". The marks
// suffix is not reconstructed. Lines that are not TagBroken are returned
// unchanged, so RepairTag is idempotent.
func RepairTag(line string, level Level) string {
	if ClassifyTag(line) != TagBroken {
		return line
	}
	i := strings.LastIndex(line, "(L")
	return strings.TrimSpace(line[:i]) + " (" + string(level) + ")"
}

// Normalize turns raw model output into at most count questions: one per
// non-empty trimmed line, in model order, with broken tags repaired for
// level. Under-fill is returned as is.
func Normalize(raw string, level Level, count int) []Question {
	questions := make([]Question, 0)
	if count <= 0 {
		return questions
	}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		questions = append(questions, Question{Line: RepairTag(line, level)})
		if len(questions) == count {
			break
		}
	}
	return questions
}
