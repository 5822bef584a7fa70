package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudbill/admind/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "admind",
	Short: "Customer & budget administration service",
	Long:  "admind serves the admin console backend: customers, usage budgets, and the session gate.",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Printf("admind %s (%s)\n", version.Version, version.Commit)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
