package cmd

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/papergen/internal/config"
)

func TestRenderersFor(t *testing.T) {
	got, err := renderersFor("PDF, docx,pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"pdf", "docx"}, got)

	_, err = renderersFor("pdf,odt")
	assert.Error(t, err)

	_, err = renderersFor(" , ")
	assert.Error(t, err)
}

func newFlagCmd() *cobra.Command {
	c := &cobra.Command{}
	c.Flags().String("db", "", "")
	return c
}

func TestResolveDBPath(t *testing.T) {
	dir := t.TempDir()

	c := newFlagCmd()
	flagPath := filepath.Join(dir, "flag", "a.db")
	require.NoError(t, c.Flags().Set("db", flagPath))
	got, err := resolveDBPath(c, &config.Config{Store: config.StoreConfig{Path: "ignored.db"}})
	require.NoError(t, err)
	assert.Equal(t, flagPath, got)
	assert.DirExists(t, filepath.Join(dir, "flag"))

	cfgPath := filepath.Join(dir, "cfg", "b.db")
	got, err = resolveDBPath(newFlagCmd(), &config.Config{Store: config.StoreConfig{Path: cfgPath}})
	require.NoError(t, err)
	assert.Equal(t, cfgPath, got)

	t.Setenv("PAPERGEN_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	got, err = resolveDBPath(newFlagCmd(), &config.Config{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "papergen", "papergen.db"), got)
}

func TestOrDashAndTruncate(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "Physics", orDash("Physics"))
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "ab", truncate("ab", 3))
}
