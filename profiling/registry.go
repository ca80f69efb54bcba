package profiling

import "github.com/sarchlab/callprof/hooking"

// registry holds one FuncRecord per tracked identity. Iteration follows
// insertion order so that Combine's canonical election is deterministic.
type registry struct {
	records map[FuncID]*FuncRecord
	order   []FuncID
}

func newRegistry() *registry {
	return &registry{
		records: make(map[FuncID]*FuncRecord),
	}
}

func (r *registry) get(funcID FuncID) *FuncRecord {
	return r.records[funcID]
}

// ensure returns the record for the frame's identity, creating it on first
// sight. Label and DefSite are taken from the frame at creation time and are
// never revised afterwards.
func (r *registry) ensure(frame hooking.FrameInfo) *FuncRecord {
	funcID := FuncID(frame.ID)

	rec, ok := r.records[funcID]
	if ok {
		return rec
	}

	rec = &FuncRecord{
		ID:      funcID,
		Label:   frame.Label,
		DefSite: defSiteOf(frame),
		Kind:    frame.Kind,
	}
	r.records[funcID] = rec
	r.order = append(r.order, funcID)

	return rec
}

// remove deletes a record from the registry. Only Combine removes records.
func (r *registry) remove(funcID FuncID) {
	if _, ok := r.records[funcID]; !ok {
		return
	}

	delete(r.records, funcID)

	for i, listed := range r.order {
		if listed == funcID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// list returns all live records in insertion order.
func (r *registry) list() []*FuncRecord {
	recs := make([]*FuncRecord, 0, len(r.order))
	for _, funcID := range r.order {
		recs = append(recs, r.records[funcID])
	}

	return recs
}
