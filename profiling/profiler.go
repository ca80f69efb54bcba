// Package profiling implements a call-level execution profiler. It counts
// the calls and accumulates the elapsed wall time of instrumented functions,
// handling recursion so that one top-level invocation contributes one
// wall-clock span regardless of how deeply it re-enters itself.
package profiling

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/xid"
	"github.com/sarchlab/callprof/hooking"
)

// ErrInvalidArgument is returned when an operation is given an argument that
// cannot serve its purpose, such as a nil clock or an empty identity.
var ErrInvalidArgument = errors.New("invalid argument")

// A Profiler owns the registry of function statistics and observes call and
// return events through a hook installed on an event source.
//
// The Profiler assumes a single logical thread of execution drives all call
// and return events. Per-goroutine depth bookkeeping is not implemented; the
// statistics of functions called concurrently from multiple goroutines are
// unspecified.
type Profiler struct {
	instanceID string

	registry   *registry
	clock      TimeTeller
	mode       FilterMode
	kindFilter hooking.FuncKind

	source     hooking.Hookable
	dispatcher *dispatcher
	installed  bool
	running    bool

	release func()
}

// Builder can be used to build a profiler.
type Builder struct {
	clock   TimeTeller
	mode    FilterMode
	kind    hooking.FuncKind
	source  hooking.Hookable
	release func()
}

// MakeBuilder creates a builder with the default configuration: wall clock,
// unrestricted filter, and garbage-collection-based memory release.
func MakeBuilder() Builder {
	return Builder{
		clock:   NewWallClock(),
		mode:    FilterUnrestricted,
		release: runtime.GC,
	}
}

// WithClock sets the time source of the profiler.
func (b Builder) WithClock(t TimeTeller) Builder {
	b.clock = t
	return b
}

// WithFilterMode sets the initial filter mode.
func (b Builder) WithFilterMode(mode FilterMode) Builder {
	b.mode = mode
	return b
}

// WithKindFilter sets the kind matched by FilterByKind.
func (b Builder) WithKindFilter(kind hooking.FuncKind) Builder {
	b.kind = kind
	return b
}

// WithEventSource sets the hookable that delivers call and return events.
// Start installs the profiler's dispatcher on this source.
func (b Builder) WithEventSource(source hooking.Hookable) Builder {
	b.source = source
	return b
}

// WithReleaseFunc sets the fire-and-forget memory reclamation call made
// after Stop and Reset.
func (b Builder) WithReleaseFunc(release func()) Builder {
	b.release = release
	return b
}

// Build builds the profiler.
func (b Builder) Build() *Profiler {
	p := &Profiler{
		instanceID: xid.New().String(),
		registry:   newRegistry(),
		clock:      b.clock,
		mode:       b.mode,
		kindFilter: b.kind,
		source:     b.source,
		release:    b.release,
	}
	p.dispatcher = &dispatcher{profiler: p}

	return p
}

// InstanceID returns the unique ID of this profiler instance.
func (p *Profiler) InstanceID() string {
	return p.instanceID
}

// Dispatcher returns the hook that receives call and return events. It is
// exposed so that event sources other than the configured one can deliver
// events directly.
func (p *Profiler) Dispatcher() hooking.Hook {
	return p.dispatcher
}

// SetClock replaces the time source.
func (p *Profiler) SetClock(t TimeTeller) error {
	if t == nil {
		return fmt.Errorf("%w: clock must not be nil", ErrInvalidArgument)
	}

	p.clock = t

	return nil
}

// Start begins observing call and return events. The first Start installs
// the dispatcher on the event source; later Start calls only re-enable
// observation.
func (p *Profiler) Start() {
	if p.source != nil && !p.installed {
		p.source.AcceptHook(p.dispatcher)
		p.installed = true
	}

	p.running = true
}

// Stop ends observation. Every open timing window is closed at the current
// clock reading, treating the abrupt stop as an implicit return, and every
// recursion depth is reset to zero. Call counts and elapsed times are
// preserved.
func (p *Profiler) Stop() {
	p.running = false

	now := p.clock.Now()
	for _, rec := range p.registry.list() {
		rec.closeWindow(now)
		rec.depth = 0
	}

	p.releaseMemory()
}

// Reset zeroes the call count, elapsed time, and recursion depth of every
// record and closes open timing windows. Labels and definition sites are
// retained, so a later Query still lists the functions with zero counts.
func (p *Profiler) Reset() {
	for _, rec := range p.registry.list() {
		rec.CallCount = 0
		rec.Elapsed = 0
		rec.depth = 0
		rec.windowOpen = false
		rec.openSince = time.Time{}
	}

	p.releaseMemory()
}

func (p *Profiler) releaseMemory() {
	if p.release != nil {
		p.release()
	}
}

// Include marks the frame's identity as explicitly included, assigns the
// given label if the identity has none, and creates its record if absent.
// Explicit inclusion narrows the active filter to FilterHookedOnly.
func (p *Profiler) Include(frame hooking.FrameInfo, label ...string) error {
	if frame.ID == "" {
		return fmt.Errorf(
			"%w: frame does not identify a callable entity",
			ErrInvalidArgument)
	}

	if len(label) > 0 && label[0] == "" {
		return fmt.Errorf("%w: label must not be empty", ErrInvalidArgument)
	}

	if len(label) > 0 && frame.Label == "" {
		frame.Label = label[0]
	}

	rec := p.registry.ensure(frame)
	rec.hookState = HookStateIncluded

	if rec.Label == "" && len(label) > 0 {
		rec.Label = label[0]
	}

	p.mode = FilterHookedOnly

	return nil
}

// Exclude marks the frame's identity as explicitly excluded and clears its
// stored label. Accumulated counters are retained, not deleted.
func (p *Profiler) Exclude(frame hooking.FrameInfo) error {
	if frame.ID == "" {
		return fmt.Errorf(
			"%w: frame does not identify a callable entity",
			ErrInvalidArgument)
	}

	rec := p.registry.ensure(frame)
	rec.hookState = HookStateExcluded
	rec.Label = ""

	return nil
}

// SetFilterMode switches the active filter mode. Switching to
// FilterInternalOnly additionally includes every known identity that
// belongs to the profiler's own implementation.
func (p *Profiler) SetFilterMode(mode FilterMode) {
	p.mode = mode

	if mode == FilterInternalOnly {
		for _, rec := range p.registry.list() {
			if isInternalRoutine(rec.Label) {
				rec.hookState = HookStateIncluded
			}
		}
	}
}

// SetKindFilter sets the kind matched by FilterByKind.
func (p *Profiler) SetKindFilter(kind hooking.FuncKind) {
	p.kindFilter = kind
}

// Records returns the live records in registry order. The returned slice is
// a snapshot; the records themselves are live.
func (p *Profiler) Records() []*FuncRecord {
	return p.registry.list()
}
