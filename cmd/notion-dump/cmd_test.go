package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime/debug"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toothbrush/notion-dump/internal/config"
	"github.com/toothbrush/notion-dump/internal/syncerr"
	"github.com/toothbrush/notion-dump/localdump"
)

func TestShortVersion(t *testing.T) {
	assert.Equal(t, "devel", shortVersion("(devel)", nil))
	assert.Equal(t, "v1.2.0", shortVersion("v1.2.0", nil))
	assert.Equal(t, "v1.2.0-rev-abc123-dirty", shortVersion("v1.2.0", []debug.BuildSetting{
		{Key: "vcs.revision", Value: "abc123"},
		{Key: "vcs.modified", Value: "true"},
	}))
	assert.Equal(t, "rev-abc123", shortVersion("unknown", []debug.BuildSetting{
		{Key: "vcs.revision", Value: "abc123"},
		{Key: "vcs.modified", Value: "false"},
	}))
}

func TestBindFlags_FileValuesFillUnsetFlags(t *testing.T) {
	var (
		workers int
		vcr     bool
		logFile string
		cmdArgs []string
	)
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().IntVar(&workers, "workers", 4, "")
	cmd.Flags().BoolVar(&vcr, "with-vcr", false, "")
	cmd.Flags().StringVar(&logFile, "log-file", "", "")
	cmd.Flags().StringSliceVar(&cmdArgs, "auth-token-cmd", nil, "")
	require.NoError(t, cmd.Flags().Set("log-file", "from-flag.log"))

	yes := true
	cfg := config.Config{
		Workers:      8,
		WithVCR:      &yes,
		LogFile:      "from-file.log",
		AuthTokenCmd: []string{"pass", "notion"},
		Sources:      []config.Source{{DatabaseID: "x"}},
	}
	require.NoError(t, bindFlags(cmd, cfg))

	assert.Equal(t, 8, workers)
	assert.True(t, vcr)
	assert.Equal(t, "from-flag.log", logFile, "command line wins")
	assert.Equal(t, []string{"pass", "notion"}, cmdArgs)
}

func TestAuthToken(t *testing.T) {
	AuthTokenCmd = nil
	t.Setenv("NOTION_TOKEN", " secret_abc \n")
	token, err := authToken()
	require.NoError(t, err)
	assert.Equal(t, "secret_abc", token)

	t.Setenv("NOTION_TOKEN", "")
	_, err = authToken()
	assert.True(t, syncerr.Is(err, syncerr.KindConfig), err)

	AuthTokenCmd = []string{"echo", "from-cmd"}
	t.Cleanup(func() { AuthTokenCmd = nil })
	token, err = authToken()
	require.NoError(t, err)
	assert.Equal(t, "from-cmd", token)
}

func TestInitializeConfig_MissingFileIsConfigError(t *testing.T) {
	Config = filepath.Join(t.TempDir(), "nope.yaml")
	t.Cleanup(func() { Config = "" })

	err := initializeConfig(&cobra.Command{Use: "test"})
	assert.Equal(t, 7, syncerr.ExitCode(err))
}

func TestInitializeConfig_LoadsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notion-dump.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
sources:
  - database-id: 11111111-1111-1111-1111-111111111111
    output-dir: `+filepath.Join(dir, "posts")+`
    base-path: /blog
    layout: post
`), 0640))
	Config = file
	t.Cleanup(func() { Config = "" })

	require.NoError(t, initializeConfig(&cobra.Command{Use: "test"}))
	assert.Equal(t, file, ConfigActual)
	require.Len(t, ParsedConfig.Sources, 1)
	assert.Equal(t, "/blog/{slug}/", ParsedConfig.Sources[0].Permalink)
}

func TestPrintSummary(t *testing.T) {
	NoColor = true
	t.Cleanup(func() { NoColor = false })

	var buf bytes.Buffer
	printSummary(&buf, []localdump.SyncResult{
		{SourceID: "a", SourceTitle: "Posts", PageCount: 2, FilesWritten: []string{"x", "y"}, FilesDeleted: []string{"z"}},
		{SourceID: "c", SourceTitle: "Docs", PageCount: 3, FilesWritten: []string{"p", "q", "r"}, PagesFailed: 1, AssetsFailed: 2},
		{SourceID: "b", PageCount: 1, Err: errors.New("disk full")},
	})
	assert.Equal(t, "ok Posts: 2 pages, 2 files written, 1 deleted\n"+
		"ok Docs: 3 pages, 3 files written, 0 deleted, 1 pages failed, 2 assets failed\n"+
		"failed b: 1 pages, 0 files written, 0 deleted\n"+
		"    disk full\n", buf.String())
}
