package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ppt-checker version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
