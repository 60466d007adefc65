/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toothbrush/notion-dump/internal/logfields"
	"github.com/toothbrush/notion-dump/internal/metrics"
	"github.com/toothbrush/notion-dump/internal/syncerr"
	"github.com/toothbrush/notion-dump/internal/termfmt"
	"github.com/toothbrush/notion-dump/localdump"
)

var syncUsage = strings.TrimSpace(`
Export every configured database.  All sources are listed first so that links between pages, even
across databases, can be pointed at their local permalinks; then page bodies and images are
downloaded and the output directories are brought in line with what's in Notion.

Exits 7 on a configuration problem, 8 when a database couldn't be listed (nothing is written in
that case), and 11 when any source failed to write.
`)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror the configured Notion databases into local Markdown",
	Long:  syncUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd)
	},
}

var (
	WithVCR         bool
	Workers         int
	MetricsTextfile string
	NoProgress      bool
)

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to cache responses")
	syncCmd.Flags().IntVar(&Workers, "workers", 4, "number of concurrent page and image downloads")
	syncCmd.Flags().StringVar(&MetricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file when done")
	syncCmd.Flags().BoolVar(&NoProgress, "no-progress", false, "don't draw progress bars")
}

func runSync(cmd *cobra.Command) error {
	api, stop, err := newAPI(WithVCR)
	if err != nil {
		return err
	}
	defer func() {
		if err := stop(); err != nil {
			logger.Warn("Couldn't save VCR cassette", logfields.Error(err))
		}
	}()

	recorder := metrics.NewPrometheusRecorder(nil)
	syncer := &localdump.Syncer{
		Remote:  api,
		Workers: Workers,
		Logger:  logger,
		Metrics: recorder,
	}
	if !NoProgress {
		syncer.ProgressOutput = os.Stderr
	}

	results, err := syncer.Run(cmd.Context(), ParsedConfig.Sources)
	printSummary(cmd.OutOrStdout(), results)
	if err != nil {
		return err
	}

	if MetricsTextfile != "" {
		if err := recorder.WriteTextfile(MetricsTextfile); err != nil {
			logger.Warn("Couldn't write metrics", logfields.Path(MetricsTextfile), logfields.Error(err))
		}
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return syncerr.New(syncerr.KindFilesystem, "", "%d of %d sources failed", failed, len(results))
	}
	return nil
}

func printSummary(w io.Writer, results []localdump.SyncResult) {
	termfmt.SetEnabled(!NoColor && os.Getenv("NO_COLOR") == "")

	for _, r := range results {
		name := r.SourceTitle
		if name == "" {
			name = r.SourceID
		}

		status := termfmt.Fg(termfmt.Green).Bold().V("ok")
		if r.Err != nil {
			status = termfmt.Fg(termfmt.Red).Bold().V("failed")
		}
		fmt.Fprintf(w, "%s %s: %d pages, %d files written, %d deleted",
			status, termfmt.Bold().V(name), r.PageCount, len(r.FilesWritten), len(r.FilesDeleted))
		if r.PagesFailed > 0 {
			fmt.Fprintf(w, ", %d pages failed", r.PagesFailed)
		}
		if r.AssetsFailed > 0 {
			fmt.Fprintf(w, ", %d assets failed", r.AssetsFailed)
		}
		fmt.Fprintln(w)
		if r.Err != nil {
			fmt.Fprintf(w, "    %v\n", r.Err)
		}
	}
}
