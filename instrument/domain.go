// Package instrument marks function boundaries in the host program and
// emits call and return events through the hooking mechanism. Go has no
// generic call/return interception, so instrumentation is explicit: the
// instrumented function opens a span on entry and closes it on return,
// usually with a single deferred call.
package instrument

import (
	"runtime"
	"strings"
	"sync"

	"github.com/sarchlab/callprof/hooking"
	"github.com/sarchlab/callprof/id"
)

// A Domain is the event source that instrumented functions report to.
// Profilers observe a domain by installing their dispatcher hook on it.
type Domain struct {
	hooking.HookableBase

	name  string
	idGen id.Generator

	lock     sync.Mutex
	pcFrames map[uintptr]hooking.FrameInfo
}

// NewDomain creates a named event source.
func NewDomain(name string) *Domain {
	return &Domain{
		name:     name,
		idGen:    id.NewGenerator(),
		pcFrames: make(map[uintptr]hooking.FrameInfo),
	}
}

// Name returns the name of the domain.
func (d *Domain) Name() string {
	return d.name
}

// Span instruments the calling function. It emits a call event and returns
// the function that emits the matching return event, so one line covers the
// whole activation:
//
//	defer dom.Span()()
//
// The identity is keyed by the caller's entry point and is therefore stable
// across all calls of the same function, including recursive ones.
func (d *Domain) Span() func() {
	frame := d.callerFrame()

	d.emit(hooking.HookPosFuncCall, frame)

	return func() {
		d.emit(hooking.HookPosFuncReturn, frame)
	}
}

// callerFrame introspects the function two frames up (the caller of Span)
// and resolves its stable identity, minting one on first sight. Failed
// introspection degrades to placeholder values.
func (d *Domain) callerFrame() hooking.FrameInfo {
	pc, _, _, ok := runtime.Caller(2)
	if !ok {
		return hooking.FrameInfo{ID: d.idGen.Generate()}
	}

	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return hooking.FrameInfo{ID: d.idGen.Generate()}
	}

	entry := fn.Entry()

	d.lock.Lock()
	defer d.lock.Unlock()

	frame, found := d.pcFrames[entry]
	if found {
		return frame
	}

	file, line := fn.FileLine(entry)
	frame = hooking.FrameInfo{
		ID:    d.idGen.Generate(),
		Label: shortFuncName(fn.Name()),
		File:  file,
		Line:  line,
		Kind:  kindOfFuncName(fn.Name()),
	}
	d.pcFrames[entry] = frame

	return frame
}

func (d *Domain) emit(pos *hooking.HookPos, frame hooking.FrameInfo) {
	if d.NumHooks() == 0 {
		return
	}

	d.InvokeHook(hooking.HookCtx{
		Domain: d,
		Pos:    pos,
		Item:   frame,
	})
}

// shortFuncName strips the package import path, keeping the package name
// and function name.
func shortFuncName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	return name
}

// kindOfFuncName tells closures apart from declared functions. The runtime
// names function literals with a ".funcN" suffix.
func kindOfFuncName(name string) hooking.FuncKind {
	base := name
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}

	if strings.Contains(base, ".func") {
		return hooking.KindClosure
	}

	return hooking.KindFunction
}
