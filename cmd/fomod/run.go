package main

import (
	"os"

	"github.com/aretw0/fomod/internal/cli"
	"github.com/aretw0/fomod/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [archive-dir | ModuleConfig.xml]",
	Short: "Run the installer wizard interactively",
	Long: `Walks the install steps in the terminal. Type an option number to toggle it,
n to continue, b to go back and q to quit.

With --session the wizard is saved when you quit and resumed on the next run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RunOptions{Path: moduleArg(args)}
		opts.DataDir, _ = cmd.Flags().GetString("data-dir")
		opts.PluginsFile, _ = cmd.Flags().GetString("plugins")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.LogLevel, _ = cmd.Flags().GetString("log-level")
		opts.Headless, _ = cmd.Flags().GetBool("headless")
		opts.Format, _ = cmd.Flags().GetString("format")
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.SessionDir, _ = cmd.Flags().GetString("session-dir")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		if opts.Debug && opts.LogLevel == "" {
			opts.LogLevel = "debug"
		}

		if !opts.Headless && tui.IsTerminal(os.Stdout) {
			if render, err := tui.NewRenderer(tui.Width(os.Stdout)); err == nil {
				opts.Renderer = render
			}
		}
		return cli.Run(opts, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addEngineFlags(runCmd)

	runCmd.Flags().Bool("headless", false, "Run in headless mode (no banner or prompts, strict IO)")
	runCmd.Flags().StringP("format", "f", cli.FormatText, "Manifest format once finished: text, json or yaml")
	runCmd.Flags().StringP("session", "s", "", "Session ID for Stop & Resume")
	runCmd.Flags().String("session-dir", ".fomod/sessions", "Directory holding saved sessions")
	runCmd.Flags().Bool("fresh", false, "Discard the saved session and start over")
}
