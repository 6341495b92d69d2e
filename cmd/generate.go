package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/papergen/internal/extract"
	"github.com/abhisek/papergen/internal/llm"
	"github.com/abhisek/papergen/internal/questiongen"
	"github.com/abhisek/papergen/internal/render"
	"github.com/abhisek/papergen/internal/server"
	"github.com/abhisek/papergen/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a question paper from a document",
	Long: `Extract the text of a PDF, DOCX or text file, generate questions at the
chosen Bloom's level and write the paper as PDF and/or DOCX.

Every LLM call and every generated paper is recorded in the event database.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("source", "", "Source document: .pdf, .docx, .txt or .md (required)")
	generateCmd.Flags().Int("count", 10, "Number of questions to generate")
	generateCmd.Flags().String("difficulty", "L1", "Bloom's level: L1, L2 or L3")
	generateCmd.Flags().String("subject", "", "Subject shown in the paper heading")
	generateCmd.Flags().String("institution", "", "Institution name shown at the top of the paper")
	generateCmd.Flags().String("logo", "", "Optional logo image")
	generateCmd.Flags().String("out", ".", "Directory to write the documents to")
	generateCmd.Flags().String("format", "pdf,docx", "Comma-separated output formats")
	_ = generateCmd.MarkFlagRequired("source")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	sourcePath, _ := cmd.Flags().GetString("source")
	count, _ := cmd.Flags().GetInt("count")
	difficulty, _ := cmd.Flags().GetString("difficulty")
	subject, _ := cmd.Flags().GetString("subject")
	institution, _ := cmd.Flags().GetString("institution")
	logoPath, _ := cmd.Flags().GetString("logo")
	outDir, _ := cmd.Flags().GetString("out")
	formatList, _ := cmd.Flags().GetString("format")

	level, err := questiongen.ParseLevel(difficulty)
	if err != nil {
		return err
	}
	if count < 1 || count > server.MaxQuestions {
		return fmt.Errorf("--count must be between 1 and %d", server.MaxQuestions)
	}
	renderers, err := renderersFor(formatList)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	source, err := extract.Text(filepath.Base(sourcePath), data)
	if err != nil {
		return fmt.Errorf("extract source: %w", err)
	}

	branding := questiongen.Branding{Subject: subject, Institution: institution}
	if logoPath != "" {
		if branding.Logo, err = os.ReadFile(logoPath); err != nil {
			return fmt.Errorf("read logo: %w", err)
		}
	}

	cfg, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := cfg.ValidateLLM(); err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	repo := st.EventRepo()
	provider, err := llm.NewProvider(ctx, cfg.LLMConfig(), repo, log)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	gen := questiongen.New(provider, cfg.GeneratorConfig(), log)
	fmt.Printf("Generating %d %s questions from %s (%d chars)...\n\n",
		count, level, filepath.Base(sourcePath), utf8.RuneCountInString(source))

	qs := gen.Produce(ctx, questiongen.Request{Source: source, Count: count, Level: level}, branding)

	if err := repo.AppendPaper(ctx, store.PaperEventData{
		SessionID:   "cli-" + uuid.NewString(),
		Subject:     subject,
		Institution: institution,
		Level:       level.String(),
		Requested:   count,
		Produced:    len(qs.Questions),
		Sentinel:    qs.Failed(),
		SourceChars: utf8.RuneCountInString(source),
	}); err != nil {
		log.Warn("failed to record paper event", "error", err)
	}

	for i, line := range qs.Lines() {
		fmt.Printf("Q%d. %s\n", i+1, line)
	}
	if qs.Failed() {
		return errors.New("question generation failed; no documents written")
	}
	if len(qs.Questions) < count {
		fmt.Printf("\nNote: the model returned %d of %d requested questions.\n", len(qs.Questions), count)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	opts := render.Options{FontDir: cfg.Render.FontDir, Log: log}
	fmt.Println()
	for _, format := range renderers {
		r, _ := render.ForFormat(format, opts)
		path := filepath.Join(outDir, r.Filename())
		if err := writeDocument(path, r, qs); err != nil {
			return err
		}
		fmt.Println("Wrote", path)
	}
	return nil
}

// renderersFor validates a comma-separated format list and drops duplicates.
func renderersFor(list string) ([]string, error) {
	var formats []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(list, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		if _, err := render.ForFormat(f, render.Options{}); err != nil {
			return nil, err
		}
		seen[f] = true
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return nil, errors.New("--format must name at least one of pdf, docx")
	}
	return formats, nil
}

func writeDocument(path string, r render.Renderer, qs *questiongen.QuestionSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := r.Render(f, qs); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
