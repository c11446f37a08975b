package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "bradhook",
	Short: "Webhook receiver for brad deployments",
	Long: `Bradhook receives deployment triggers from GitHub and Bitbucket webhooks.

Callers are authorized by source address against the providers' published
network ranges. A valid trigger runs the brad executable for the requested
project and environment and answers once it exits.`,
	Version: version,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Register subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(rangesCmd)
	rootCmd.AddCommand(checkCmd)
}
