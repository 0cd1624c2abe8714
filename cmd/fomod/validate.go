package main

import (
	"fmt"
	"os"

	"github.com/aretw0/fomod/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [archive-dir | ModuleConfig.xml]",
	Short: "Check a module configuration for errors",
	Long: `Parses the module configuration and reports every structural problem found.

It then lints the module: flags checked but never set, steps that can never
become visible and install sources missing from the archive are listed as
warnings. Use --strict to fail on warnings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")
		if err := cli.Validate(cli.ValidateOptions{Path: moduleArg(args), Strict: strict}, os.Stdout); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Treat lint warnings as errors")
}
