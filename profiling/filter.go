package profiling

import "github.com/sarchlab/callprof/hooking"

// HookState is the per-identity override of the filter policy.
type HookState int

// Possible hook states. HookStateUnset defers to the active FilterMode.
const (
	HookStateUnset HookState = iota
	HookStateIncluded
	HookStateExcluded
)

// FilterMode decides which call and return events are observed.
type FilterMode int

const (
	// FilterUnrestricted observes every event.
	FilterUnrestricted FilterMode = iota

	// FilterHookedOnly observes only explicitly included identities.
	FilterHookedOnly

	// FilterInternalOnly observes only the profiler's own routines, so the
	// profiler can measure itself.
	FilterInternalOnly

	// FilterByKind observes only identities of a chosen function kind.
	FilterByKind
)

// internalRoutines is the statically maintained list of labels that belong
// to the profiler's own implementation. The profiler never enumerates its
// own exports at run time; implementations register their routines here.
var internalRoutines = map[string]bool{
	"Profiler.Combine": true,
	"Profiler.Query":   true,
	"Profiler.Report":  true,
	"dispatcher.Func":  true,
}

// RegisterInternalRoutine adds a label to the set of routines considered
// part of the profiler's own implementation.
func RegisterInternalRoutine(label string) {
	internalRoutines[label] = true
}

func isInternalRoutine(label string) bool {
	return internalRoutines[label]
}

// admits applies the filter policy to one frame. The rec argument is the
// frame's record if one already exists; a nil rec means the identity has
// never been seen, so its hook state is unset.
func (p *Profiler) admits(rec *FuncRecord, frame hooking.FrameInfo) bool {
	state := HookStateUnset
	if rec != nil {
		state = rec.hookState
	}

	// Explicit exclusion wins over every mode.
	if state == HookStateExcluded {
		return false
	}

	switch p.mode {
	case FilterUnrestricted:
		return true
	case FilterHookedOnly:
		return state == HookStateIncluded
	case FilterInternalOnly:
		return isInternalRoutine(frame.Label)
	case FilterByKind:
		return frame.Kind == p.kindFilter
	default:
		return false
	}
}
