package main

import (
	"os"

	"github.com/aretw0/fomod/internal/cli"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan [archive-dir | ModuleConfig.xml]",
	Short: "Resolve the install plan without prompting",
	Long: `Answers the wizard from a YAML choices file (or the module defaults when
none is given) and prints the resulting manifest.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.PlanOptions{Path: moduleArg(args)}
		opts.DataDir, _ = cmd.Flags().GetString("data-dir")
		opts.PluginsFile, _ = cmd.Flags().GetString("plugins")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.ChoicesPath, _ = cmd.Flags().GetString("choices")
		opts.Format, _ = cmd.Flags().GetString("format")
		opts.LogLevel, _ = cmd.Flags().GetString("log-level")
		if opts.Debug && opts.LogLevel == "" {
			opts.LogLevel = "debug"
		}
		return cli.Plan(opts, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	addEngineFlags(planCmd)

	planCmd.Flags().StringP("choices", "c", "", "YAML file with the selections to apply")
	planCmd.Flags().StringP("format", "f", cli.FormatText, "Output format: text, json or yaml")
}
