package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fomod",
	Short: "fomod runs FOMOD installer wizards",
	Long: `fomod reads a module's fomod/ModuleConfig.xml, walks its install steps and
produces the ordered list of files the host installer should copy.

It runs interactively in a terminal, scripted from a choices file, or as an
HTTP or MCP service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "", "Log level for diagnostics on stderr (debug, info, warn, error); empty disables logging")
}

// addEngineFlags registers the flags that feed file dependencies.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().String("data-dir", "", "Game data directory used to answer file dependencies")
	cmd.Flags().String("plugins", "", "Active plugin list (plugins.txt format); requires --data-dir")
	cmd.Flags().Bool("debug", false, "Log every wizard lifecycle event")
}

// moduleArg returns the module path argument, defaulting to the working directory.
func moduleArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
