package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/komerce-shop/komerce/utils"
)

var RootCmd = &cobra.Command{
	Use:   "komerce",
	Short: "Komerce storefront backend",
	Run: func(cmd *cobra.Command, args []string) {
		serverCmd.Run(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("komerce %s (hash: %s)\n", utils.CurrentVersion, utils.VersionHash)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
