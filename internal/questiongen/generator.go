package questiongen

import (
	"context"

	"github.com/abhisek/papergen/internal/llm"
	"github.com/abhisek/papergen/internal/logger"
)

// Sentinel lines substituted for the whole set when generation fails.
const (
	APIFailureMessage = "Error: Could not generate questions due to an API issue."
	FailureMessage    = "Error generating AI questions."
)

// Generator runs the prompt, generate, normalize pipeline. It holds no
// mutable state and is safe for concurrent use.
type Generator struct {
	provider llm.Provider
	config   Config
	log      *logger.Logger
}

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{provider: provider, config: cfg, log: log}
}

// Produce generates a question set for req. It never returns an error:
// every failure yields a set holding a single sentinel question.
func (g *Generator) Produce(ctx context.Context, req Request, branding Branding) *QuestionSet {
	set := &QuestionSet{
		Branding:  branding,
		Level:     req.Level,
		Requested: req.Count,
	}

	if err := req.Validate(); err != nil {
		g.log.Error("invalid generation request", "error", err)
		set.Questions = sentinel(FailureMessage)
		return set
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionGen)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: BuildPrompt(req.Source, req.Count, req.Level)},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		if apiErr, ok := llm.AsAPIFailure(err); ok {
			g.log.Error("question generation API error",
				"status", apiErr.StatusCode,
				"body", apiErr.Body,
			)
			set.Questions = sentinel(APIFailureMessage)
			return set
		}
		g.log.Error("question generation failed", "error", err)
		set.Questions = sentinel(FailureMessage)
		return set
	}

	set.Questions = Normalize(resp.Text, req.Level, req.Count)
	g.log.Info("questions generated",
		"level", req.Level,
		"requested", req.Count,
		"produced", len(set.Questions),
	)
	return set
}

func sentinel(msg string) []Question {
	return []Question{{Line: msg, Sentinel: true}}
}
