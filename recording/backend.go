// Package recording exports finished profile reports to files. Backends
// receive the ranked entries of one report; they do not persist profiler
// state and nothing can be loaded back into a profiler.
package recording

import (
	"github.com/sarchlab/callprof/profiling"
)

// A ReportEntry is one ranked row of an exported report.
type ReportEntry struct {
	Rank       int
	Function   string
	Calls      uint64
	ElapsedSec float64
	DefinedAt  string
}

// Backend is a sink that can store report entries.
type Backend interface {
	AddEntry(entry ReportEntry)
	Flush()
}

// Export ranks the profiler's records and writes every entry to the
// backend, flushing at the end.
func Export(
	p *profiling.Profiler,
	key profiling.SortKey,
	limit int,
	backend Backend,
) {
	ranking := p.Query(key, limit)
	rank := 0

	for {
		entry, ok := ranking.Next()
		if !ok {
			break
		}

		rank++
		backend.AddEntry(ReportEntry{
			Rank:       rank,
			Function:   entry.DisplayName,
			Calls:      entry.CallCount,
			ElapsedSec: entry.Elapsed.Seconds(),
			DefinedAt:  entry.DefSite,
		})
	}

	backend.Flush()
}
