// Package server serves the upload form, generated papers and their PDF and
// DOCX downloads over HTTP.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/papergen/internal/logger"
	"github.com/abhisek/papergen/internal/questiongen"
	"github.com/abhisek/papergen/internal/render"
	"github.com/abhisek/papergen/internal/store"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	// MaxQuestions bounds the number of questions one paper may request.
	MaxQuestions = 50

	defaultMaxUpload = 16 << 20
)

// Producer turns a request into a question set. *questiongen.Generator
// satisfies it.
type Producer interface {
	Produce(ctx context.Context, req questiongen.Request, branding questiongen.Branding) *questiongen.QuestionSet
}

// Options configures a Server.
type Options struct {
	Generator Producer
	Sessions  *SessionStore

	// Repo records an audit row per generated paper. Optional.
	Repo store.EventRepo

	Render render.Options
	Log    *logger.Logger

	// MaxUploadBytes bounds the multipart request body. Default 16 MiB.
	MaxUploadBytes int64
}

// HTTPConfig holds listener timeouts for Run.
type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Server is the papergen web surface.
type Server struct {
	engine    *gin.Engine
	gen       Producer
	sessions  *SessionStore
	repo      store.EventRepo
	render    render.Options
	log       *logger.Logger
	maxUpload int64
}

// New wires routes and templates.
func New(opts Options) (*Server, error) {
	if opts.Generator == nil {
		return nil, errors.New("server: generator is required")
	}
	if opts.Sessions == nil {
		opts.Sessions = NewSessionStore(DefaultSessionTTL)
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUpload
	}

	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("server: parse templates: %w", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(opts.Log))
	engine.SetHTMLTemplate(tmpl)

	s := &Server{
		engine:    engine,
		gen:       opts.Generator,
		sessions:  opts.Sessions,
		repo:      opts.Repo,
		render:    opts.Render,
		log:       opts.Log,
		maxUpload: opts.MaxUploadBytes,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.engine.GET("/", s.indexPage)
	s.engine.GET("/healthz", s.healthz)

	papers := s.engine.Group("/papers")
	{
		papers.POST("", s.createPaper)
		papers.GET("/:id", s.showPaper)
		papers.GET("/:id/pdf", s.download("pdf"))
		papers.GET("/:id/docx", s.download("docx"))
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, cfg HTTPConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.sessions.RunJanitor(janitorCtx, time.Minute)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("web UI listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down web UI")
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
