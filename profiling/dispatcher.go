package profiling

import "github.com/sarchlab/callprof/hooking"

// dispatcher receives call and return events from the instrumented program.
// It runs inline on every monitored call and return, so it must never
// propagate a failure into the host program.
type dispatcher struct {
	profiler *Profiler
}

// Func handles one hook invocation. Malformed events are dropped; any
// internal panic is swallowed.
func (d *dispatcher) Func(ctx hooking.HookCtx) {
	defer func() {
		_ = recover()
	}()

	if !d.profiler.running {
		return
	}

	frame, ok := ctx.Item.(hooking.FrameInfo)
	if !ok || frame.ID == "" {
		return
	}

	switch ctx.Pos {
	case hooking.HookPosFuncCall:
		d.onCall(frame)
	case hooking.HookPosFuncReturn:
		d.onReturn(frame)
	}
}

func (d *dispatcher) onCall(frame hooking.FrameInfo) {
	p := d.profiler

	rec := p.registry.get(FuncID(frame.ID))
	if !p.admits(rec, frame) {
		return
	}

	if rec == nil {
		rec = p.registry.ensure(frame)
	}

	rec.CallCount++
	rec.depth++

	// The timer starts only on the outermost entry. Re-entrant calls keep
	// the window that is already open.
	if !rec.windowOpen {
		rec.openSince = p.clock.Now()
		rec.windowOpen = true
	}
}

func (d *dispatcher) onReturn(frame hooking.FrameInfo) {
	p := d.profiler

	rec := p.registry.get(FuncID(frame.ID))
	if !p.admits(rec, frame) {
		return
	}

	if rec == nil {
		rec = p.registry.ensure(frame)
	}

	// A return with no matching call is clamped to a no-op on depth.
	if rec.depth == 0 {
		return
	}

	if rec.depth == 1 {
		rec.closeWindow(p.clock.Now())
	}

	rec.depth--
}
