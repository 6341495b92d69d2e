package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/papergen/internal/config"
	"github.com/abhisek/papergen/internal/logger"
	"github.com/abhisek/papergen/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "papergen",
	Short: "Generate exam question papers from study material",
	Long: "papergen reads a document, asks an LLM for Bloom's-taxonomy questions at the\n" +
		"chosen difficulty and lays them out as a printable PDF or DOCX paper.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides PAPERGEN_CONFIG env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PAPERGEN_DB env var)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(papersCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(cfg.Log.Mode, cfg.Log.Level)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured store path (file or PAPERGEN_DB), then the default XDG
// path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}

// openStore loads configuration and opens the event store.
func openStore(cmd *cobra.Command) (*config.Config, *store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, s, nil
}
