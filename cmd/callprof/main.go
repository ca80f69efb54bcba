// Command callprof demonstrates the call-level execution profiler on a
// sample workload and can serve live profiler statistics over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use: "callprof",
	Short: "callprof runs sample workloads under the call-level execution " +
		"profiler.",
	Long: `callprof runs sample workloads under the call-level execution ` +
		`profiler. It can print a ranked report, export the report to CSV ` +
		`or SQLite, and serve live statistics over HTTP.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadDotEnv()
	},
}

// loadDotEnv reads configuration from a .env file when one exists. Missing
// files are fine; the environment stays as it is.
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
	}
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
