package profiling

import (
	"fmt"
	"time"

	"github.com/sarchlab/callprof/hooking"
)

// FuncID is the opaque, stable handle that distinguishes one callable entity
// from another. Equality is by handle only. Two closures that carry the same
// display name remain distinct entities until Combine merges them.
type FuncID string

// anonymousLabel substitutes for an absent label when records are grouped.
const anonymousLabel = "<anonymous>"

// A FuncRecord keeps the statistics of one callable entity.
//
// Label and DefSite are fixed when the record is created and are never
// revised by later events. The only exceptions are Exclude, which clears the
// label, and Combine, which removes absorbed records altogether.
type FuncRecord struct {
	ID      FuncID
	Label   string
	DefSite string
	Kind    hooking.FuncKind

	CallCount uint64
	Elapsed   time.Duration

	hookState  HookState
	depth      int
	openSince  time.Time
	windowOpen bool
}

// groupKey is the key that Combine groups records by.
func (r *FuncRecord) groupKey() string {
	label := r.Label
	if label == "" {
		label = anonymousLabel
	}

	return label + "@" + r.DefSite
}

// displayName returns the label, falling back to the definition site for
// anonymous functions.
func (r *FuncRecord) displayName() string {
	if r.Label != "" {
		return r.Label
	}

	return r.DefSite
}

// closeWindow settles the open timing window, if any, at the given time.
// A non-monotonic clock can make the window span negative; the span is
// clamped so the accumulated elapsed time never decreases.
func (r *FuncRecord) closeWindow(now time.Time) {
	if !r.windowOpen {
		return
	}

	span := now.Sub(r.openSince)
	if span > 0 {
		r.Elapsed += span
	}

	r.windowOpen = false
	r.openSince = time.Time{}
}

// defSiteOf renders the definition site of a frame, degrading to a
// placeholder when the source location is unknown.
func defSiteOf(frame hooking.FrameInfo) string {
	if frame.File == "" {
		return hooking.UnknownFile
	}

	return fmt.Sprintf("%s:%d", frame.File, frame.Line)
}
