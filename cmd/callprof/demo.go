package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/callprof/instrument"
	"github.com/sarchlab/callprof/profiling"
	"github.com/sarchlab/callprof/recording"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the sample workload and print the report.",
	Run: func(cmd *cobra.Command, _ []string) {
		sortKey := sortKeyFromFlag(cmd)
		limit, _ := cmd.Flags().GetInt("limit")

		p, dom := buildDemoProfiler()

		p.Start()
		runDemoWorkload(dom)
		p.Stop()

		p.Combine()

		fmt.Print(p.Report(sortKey, limit))

		exportReport(cmd, p, sortKey, limit)
	},
}

func init() {
	demoCmd.Flags().String("sort", "time", "ranking metric: time or calls")
	demoCmd.Flags().Int("limit", profiling.NoLimit,
		"number of entries to report")
	demoCmd.Flags().String("csv", "", "export the report to <name>.csv")
	demoCmd.Flags().String("sqlite", "",
		"export the report to <name>.sqlite3")

	rootCmd.AddCommand(demoCmd)
}

func sortKeyFromFlag(cmd *cobra.Command) profiling.SortKey {
	sortName, _ := cmd.Flags().GetString("sort")
	if sortName == "calls" {
		return profiling.SortByCalls
	}

	return profiling.SortByTime
}

func buildDemoProfiler() (*profiling.Profiler, *instrument.Domain) {
	dom := instrument.NewDomain("demo")
	p := profiling.MakeBuilder().
		WithEventSource(dom).
		Build()

	return p, dom
}

// runDemoWorkload exercises the cases the profiler is built for: a plain
// function, a recursive function, and closures instantiated in a loop that
// fragment one logical function across many identities.
func runDemoWorkload(dom *instrument.Domain) {
	for i := 0; i < 5; i++ {
		demoLeaf(dom)
	}

	demoFib(dom, 12)

	for i := 0; i < 3; i++ {
		worker := makeDemoWorker(dom)
		worker()
	}
}

func demoLeaf(dom *instrument.Domain) {
	defer dom.Span()()

	sum := 0
	for i := 0; i < 1000; i++ {
		sum += i * i
	}
	_ = sum
}

func demoFib(dom *instrument.Domain, n int) int {
	defer dom.Span()()

	if n < 2 {
		return n
	}

	return demoFib(dom, n-1) + demoFib(dom, n-2)
}

func makeDemoWorker(dom *instrument.Domain) func() {
	probe := dom.NewProbe("demoWorker")

	return func() {
		defer probe.Span()()

		product := 1
		for i := 1; i < 100; i++ {
			product = product * i % 1000003
		}
		_ = product
	}
}

func exportReport(
	cmd *cobra.Command,
	p *profiling.Profiler,
	key profiling.SortKey,
	limit int,
) {
	csvName, _ := cmd.Flags().GetString("csv")
	if csvName != "" {
		recording.Export(p, key, limit, recording.NewCSVBackend(csvName))
		fmt.Fprintf(os.Stderr, "Report exported to %s.csv\n", csvName)
	}

	sqliteName, _ := cmd.Flags().GetString("sqlite")
	if sqliteName != "" {
		recording.Export(p, key, limit,
			recording.NewSQLiteBackend(sqliteName))
		fmt.Fprintf(os.Stderr, "Report exported to %s.sqlite3\n", sqliteName)
	}
}

// envInt reads an integer environment variable, falling back when it is
// absent or malformed.
func envInt(name string, fallback int) int {
	value := os.Getenv(name)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ignoring %s=%q: %v\n", name, value, err)
		return fallback
	}

	return parsed
}
