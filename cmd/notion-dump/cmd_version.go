/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

var versionUsage = strings.TrimSpace(`
Show version information
`)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: versionUsage,
	Long:  versionUsage,
	RunE:  versionRun,
	Args:  cobra.ExactArgs(0),
	// no config needed to say who we are
	PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return nil },
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Version will be the version tag if the binary is built with "go install url/tool@version".
// It can also be set at build time with -ldflags "-X main.Version=...".
var Version = "unknown"

func versionRun(cmd *cobra.Command, args []string) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return fmt.Errorf("cmd_version: could not read build info")
	}
	version := Version
	if version == "unknown" {
		version = info.Main.Version
	}
	fmt.Fprintf(cmd.OutOrStdout(), "notion-dump version %s\n", shortVersion(version, info.Settings))
	return nil
}

// shortVersion joins the release tag and the VCS revision, e.g. v1.2.0-rev-abc123-dirty.
func shortVersion(version string, settings []debug.BuildSetting) string {
	revision, dirty := "", false
	for _, kv := range settings {
		switch kv.Key {
		case "vcs.revision":
			revision = kv.Value
		case "vcs.modified":
			dirty = kv.Value == "true"
		}
	}

	parts := make([]string, 0, 4)
	if version != "" && version != "unknown" && version != "(devel)" {
		parts = append(parts, version)
	}
	if revision != "" {
		parts = append(parts, "rev", revision)
		if dirty {
			parts = append(parts, "dirty")
		}
	}
	if len(parts) == 0 {
		return "devel"
	}
	return strings.Join(parts, "-")
}
