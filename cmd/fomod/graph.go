package main

import (
	"os"

	"github.com/aretw0/fomod/internal/cli"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph [archive-dir | ModuleConfig.xml]",
	Short: "Print the install steps as a Mermaid flowchart",
	Long: `Renders the module's steps, their visibility conditions and the conditional
installs as a Mermaid diagram. Steps visible after applying --choices (or the
defaults) are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.GraphOptions{Path: moduleArg(args)}
		opts.DataDir, _ = cmd.Flags().GetString("data-dir")
		opts.PluginsFile, _ = cmd.Flags().GetString("plugins")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.ChoicesPath, _ = cmd.Flags().GetString("choices")
		opts.LogLevel, _ = cmd.Flags().GetString("log-level")
		if opts.Debug && opts.LogLevel == "" {
			opts.LogLevel = "debug"
		}
		return cli.Graph(opts, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	addEngineFlags(graphCmd)
	graphCmd.Flags().StringP("choices", "c", "", "YAML file with the selections to apply")
}
