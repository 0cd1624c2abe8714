package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/fomod"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fomod",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fomod version %s\n", strings.TrimSpace(fomod.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
