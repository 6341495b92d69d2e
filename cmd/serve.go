package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/papergen/internal/llm"
	"github.com/abhisek/papergen/internal/questiongen"
	"github.com/abhisek/papergen/internal/render"
	"github.com/abhisek/papergen/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address host:port (overrides server.host/port)")
}

func runServe(cmd *cobra.Command, args []string) error {
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

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo := st.EventRepo()
	provider, err := llm.NewProvider(ctx, cfg.LLMConfig(), repo, log)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	srv, err := server.New(server.Options{
		Generator:      questiongen.New(provider, cfg.GeneratorConfig(), log),
		Sessions:       server.NewSessionStore(cfg.Server.SessionTTL),
		Repo:           repo,
		Render:         render.Options{FontDir: cfg.Render.FontDir, Log: log},
		Log:            log,
		MaxUploadBytes: cfg.Server.MaxUploadBytes(),
	})
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.Addr()
	}
	log.Info("starting papergen",
		"version", version,
		"provider", cfg.LLMConfig().Provider,
		"model", provider.ModelID(),
	)
	return srv.Run(ctx, server.HTTPConfig{
		Addr:            addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
}
