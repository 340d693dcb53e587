package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nidhi-cli",
	Short: "Financial calculators from the command line",
	Long:  "Run the fixed deposit, goal projection, and fund return calculators without a server.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
