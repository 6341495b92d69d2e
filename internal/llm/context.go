package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

// PurposeQuestionGen labels calls that generate a question paper.
const PurposeQuestionGen = "question-gen"

// WithPurpose attaches a purpose label to the context. The logging
// decorator stores it with each request event.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the purpose label, or "unknown" when none was set.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
