package profiling

import (
	"sort"
	"time"
)

// SortKey selects the metric that ranks query results.
type SortKey int

const (
	// SortByTime ranks by accumulated elapsed time.
	SortByTime SortKey = iota

	// SortByCalls ranks by call count.
	SortByCalls
)

// NoLimit makes Query return every record.
const NoLimit = -1

// An Entry is one ranked query result.
type Entry struct {
	DisplayName string
	CallCount   uint64
	Elapsed     time.Duration
	DefSite     string
}

// A Ranking is a lazy, single-pass cursor over one ranking snapshot. It is
// not restartable; take a new Query for a fresh snapshot. Iterating two
// Rankings concurrently is not synchronized and has no defined interleaving.
type Ranking struct {
	entries []Entry
	pos     int
}

// Next yields the next entry, highest rank first. The second return value is
// false once the ranking is exhausted.
func (r *Ranking) Next() (Entry, bool) {
	if r.pos >= len(r.entries) {
		return Entry{}, false
	}

	entry := r.entries[r.pos]
	r.pos++

	return entry, true
}

// Query ranks the live records by the chosen metric, descending. Ties break
// on the other metric, ascending, which makes the order a deterministic
// total order. A non-negative limit smaller than the record count keeps only
// the top entries.
func (p *Profiler) Query(key SortKey, limit int) *Ranking {
	entries := make([]Entry, 0, len(p.registry.order))

	for _, rec := range p.registry.list() {
		entries = append(entries, Entry{
			DisplayName: rec.displayName(),
			CallCount:   rec.CallCount,
			Elapsed:     rec.Elapsed,
			DefSite:     rec.DefSite,
		})
	}

	sort.SliceStable(entries, rankLess(entries, key))

	if limit >= 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	return &Ranking{entries: entries}
}

func rankLess(entries []Entry, key SortKey) func(i, j int) bool {
	if key == SortByCalls {
		return func(i, j int) bool {
			if entries[i].CallCount != entries[j].CallCount {
				return entries[i].CallCount > entries[j].CallCount
			}

			return entries[i].Elapsed < entries[j].Elapsed
		}
	}

	return func(i, j int) bool {
		if entries[i].Elapsed != entries[j].Elapsed {
			return entries[i].Elapsed > entries[j].Elapsed
		}

		return entries[i].CallCount < entries[j].CallCount
	}
}
