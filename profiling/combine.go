package profiling

// Combine merges records that are distinct closures of one logical function.
//
// Some programs mint a fresh identity per closure instantiation, for example
// a function value created anew inside a loop or a factory, which fragments
// one logical function's statistics across many identities that share a
// label and definition site. Combine groups all live records by
// (label-or-placeholder, definition site), elects the first record of each
// group in registry order as canonical, sums the call counts and elapsed
// times of the remaining members into it, and permanently removes the
// absorbed records.
//
// Combine is destructive and not reversible. Running it a second time
// changes nothing, as every group is already a singleton.
func (p *Profiler) Combine() {
	canonical := make(map[string]*FuncRecord)

	for _, rec := range p.registry.list() {
		key := rec.groupKey()

		first, ok := canonical[key]
		if !ok {
			canonical[key] = rec
			continue
		}

		first.CallCount += rec.CallCount
		first.Elapsed += rec.Elapsed

		p.registry.remove(rec.ID)
	}
}
