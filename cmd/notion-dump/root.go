/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"strconv"
	"syscall"

	"github.com/fatih/structs"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/toothbrush/notion-dump/internal/config"
	"github.com/toothbrush/notion-dump/internal/syncerr"
)

var (
	// Store the result of binding cobra flags
	Config  string
	Debug   bool
	NoColor bool

	// Command to run to retrieve the Notion integration token, instead of NOTION_TOKEN
	AuthTokenCmd []string

	// Also write JSON logs here, rotated
	LogFile string

	// Where the config was actually read from, after env and homedir expansion
	ConfigActual string

	ParsedConfig config.Config
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "notion-dump",
	Short: "Mirror Notion databases into a static-site Markdown tree",
	Long: `
Ever wanted to write in Notion and publish with a static site generator?  This tool exports every
page of the configured Notion databases into a Markdown file with YAML front matter, downloads the
images they use, and rewrites links between pages to point at the local permalinks.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("notion-dump: failed to initialise config: %w", err)
		}
		if err := setupLogging(); err != nil {
			return fmt.Errorf("notion-dump: failed to set up logging: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogging()
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location, YAML or .toml (default: ~/.config/notion-dump.yaml, respects NOTION_DUMP_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().BoolVar(&NoColor, "no-color", false, "don't use terminal colours (also respects NO_COLOR)")
	rootCmd.PersistentFlags().StringSliceVar(&AuthTokenCmd, "auth-token-cmd", []string{}, "shell command to retrieve the Notion integration token (default: $NOTION_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&LogFile, "log-file", "", "also write JSON logs to this file, rotated")
}

func initializeConfig(cmd *cobra.Command) error {
	// a missing .env is fine, it only supplies NOTION_TOKEN and friends
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("notion-dump: couldn't read .env: %w", err)
	}

	if Config == "" {
		// Did the user provide an ENV?
		envConfig := os.Getenv("NOTION_DUMP_CONFIG")
		if envConfig != "" {
			Config = envConfig
		} else {
			// As fallback, search for config in home XDG-ish directory
			Config = "~/.config/notion-dump.yaml"
		}
	}
	expanded, err := homedir.Expand(Config)
	if err != nil {
		return syncerr.Wrap(err, syncerr.KindConfig, "", "unable to expand homedir")
	}
	ConfigActual = expanded

	if _, err := os.Stat(ConfigActual); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Couldn't read config file %s, does it exist?  Override with --config.\n", ConfigActual)
		return syncerr.Wrap(err, syncerr.KindConfig, "", "specified config file does not exist")
	}

	cfg, err := config.LoadAndValidate(ConfigActual)
	if err != nil {
		return err
	}
	ParsedConfig = *cfg

	// Bind the file's values onto the current command's flags
	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return syncerr.Wrap(err, syncerr.KindConfig, "", "failed to bind flags")
	}

	return nil
}

// Bind each cobra flag to its associated config file value, unless set on the command line.
func bindFlags(cmd *cobra.Command, v config.Config) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("notion-dump: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			// hmm... the flag is unknown.  but that can legitimately happen if you're running
			// e.g. `list sources` which has no `with-vcr` flag but your config file does
			// define that key...  `sources` itself never has a flag.
			continue
		}
		if cmd.Flags().Changed(key) {
			continue
		}

		switch field.Kind() {
		case reflect.Ptr:
			// only bools are pointers in config.Config
			b, ok := field.Value().(*bool)
			if !ok {
				return fmt.Errorf("notion-dump: found unrecognised field: %s", field.Name())
			}
			if b != nil {
				if err := cmd.Flags().Set(key, strconv.FormatBool(*b)); err != nil {
					return err
				}
			}

		case reflect.Int:
			n, ok := field.Value().(int)
			if !ok {
				return fmt.Errorf("notion-dump: found unrecognised field: %s", field.Name())
			}
			if n != 0 {
				if err := cmd.Flags().Set(key, strconv.Itoa(n)); err != nil {
					return err
				}
			}

		case reflect.String:
			s, ok := field.Value().(string)
			if !ok {
				return fmt.Errorf("notion-dump: found unrecognised field: %s", field.Name())
			}
			if s != "" {
				if err := cmd.Flags().Set(key, s); err != nil {
					return err
				}
			}

		case reflect.Slice:
			ss, ok := field.Value().([]string)
			if !ok {
				return fmt.Errorf("notion-dump: found unrecognised field: %s", field.Name())
			}
			for _, s := range ss {
				// yes, repeatedly calling Set() appends to the slice...
				if err := cmd.Flags().Set(key, s); err != nil {
					return err
				}
			}

		default:
			return fmt.Errorf("notion-dump: found unrecognised field: %s", field.Name())
		}
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Flags are only available after (or inside, presumably) the .Execute() thing.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("notion-dump: execution error: %w", err)
	}

	return nil
}
