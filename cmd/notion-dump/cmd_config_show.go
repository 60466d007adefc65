/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Output current config",
	Long: `
Is something not working for you?  Have a look whether your config is as you expect.  Sources are
shown with their defaults filled in.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Note, you can only talk about persistent flags here.  Command-specific ones won't be
		// visible.
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Dump current config state:\n\n")

		fmt.Fprintf(out, "  Config file: %s\n", ConfigActual)
		fmt.Fprintf(out, "  Debug: %v\n", Debug)
		fmt.Fprintf(out, "  AuthTokenCmd: %v\n", AuthTokenCmd)
		fmt.Fprintf(out, "  LogFile: %s\n", LogFile)
		fmt.Fprintln(out)

		parsed, err := yaml.Marshal(ParsedConfig)
		if err != nil {
			return fmt.Errorf("config: couldn't marshal config: %w", err)
		}
		fmt.Fprintf(out, "  Parsed config:\n%s", parsed)
		return nil
	},
}

func init() {
	configCmd.AddCommand(showCmd)
}
