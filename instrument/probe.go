package instrument

import (
	"runtime"

	"github.com/sarchlab/callprof/hooking"
)

// A Probe carries one freshly minted identity. Creating a probe inside a
// closure factory gives every closure instantiation its own identity while
// all instantiations share a label and definition site, which is exactly
// the fragmentation that profiling.Combine merges:
//
//	makeWorker := func() func() {
//		probe := dom.NewProbe("worker")
//		return func() {
//			defer probe.Span()()
//			// ...
//		}
//	}
type Probe struct {
	domain *Domain
	frame  hooking.FrameInfo
}

// NewProbe mints a new identity. The definition site is the call site of
// NewProbe; the label defaults to the creating function's name when none is
// given. Anonymous probes (empty label, unknown creator) are allowed.
func (d *Domain) NewProbe(label ...string) *Probe {
	frame := hooking.FrameInfo{
		ID:   d.idGen.Generate(),
		Kind: hooking.KindClosure,
	}

	pc, file, line, ok := runtime.Caller(1)
	if ok {
		frame.File = file
		frame.Line = line

		if fn := runtime.FuncForPC(pc); fn != nil {
			frame.Label = shortFuncName(fn.Name())
		}
	}

	if len(label) > 0 {
		frame.Label = label[0]
	}

	d.probeFrameMustBeUsable(frame)

	return &Probe{domain: d, frame: frame}
}

func (d *Domain) probeFrameMustBeUsable(frame hooking.FrameInfo) {
	if frame.ID == "" {
		panic("probe frame must carry an identity")
	}
}

// Frame returns the introspected frame of this probe. It is what Include
// and Exclude take to address the probe's identity.
func (p *Probe) Frame() hooking.FrameInfo {
	return p.frame
}

// Begin emits the call event of one activation.
func (p *Probe) Begin() {
	p.domain.emit(hooking.HookPosFuncCall, p.frame)
}

// End emits the return event of one activation.
func (p *Probe) End() {
	p.domain.emit(hooking.HookPosFuncReturn, p.frame)
}

// Span emits the call event and returns the function that emits the
// matching return event, for use with defer.
func (p *Probe) Span() func() {
	p.Begin()
	return p.End
}
