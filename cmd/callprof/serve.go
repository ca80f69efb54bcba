package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/callprof/monitoring"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sample workload repeatedly and serve live statistics.",
	Run: func(cmd *cobra.Command, _ []string) {
		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = envInt("CALLPROF_PORT", 0)
		}

		p, dom := buildDemoProfiler()
		p.Start()

		monitor := monitoring.NewMonitor()
		if port > 0 {
			monitor.WithPortNumber(port)
		}
		monitor.RegisterProfiler(p)
		monitor.StartServer()

		open, _ := cmd.Flags().GetBool("open")
		if open {
			monitor.OpenInBrowser()
		}

		for {
			runDemoWorkload(dom)
			time.Sleep(100 * time.Millisecond)
		}
	},
}

func init() {
	serveCmd.Flags().Int("port", 0,
		"port of the monitoring server (0 picks a random port, "+
			"CALLPROF_PORT applies when unset)")
	serveCmd.Flags().Bool("open", false,
		"open the live report in the default browser")

	rootCmd.AddCommand(serveCmd)
}
