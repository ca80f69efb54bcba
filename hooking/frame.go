package hooking

// A list of hook poses for the hooks to apply to.
var (
	// HookPosFuncCall is triggered when an instrumented function activation
	// begins.
	HookPosFuncCall = &HookPos{Name: "HookPosFuncCall"}

	// HookPosFuncReturn is triggered when an instrumented function activation
	// ends.
	HookPosFuncReturn = &HookPos{Name: "HookPosFuncReturn"}
)

// FuncKind tells what kind of callable entity a frame belongs to.
type FuncKind int

// Possible function kinds. Closures are anonymous functions minted at
// runtime; a fresh instantiation of the same closure body is a distinct
// callable entity.
const (
	KindUnknown FuncKind = iota
	KindFunction
	KindClosure
)

func (k FuncKind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindClosure:
		return "closure"
	default:
		return "unknown"
	}
}

// UnknownFile is the definition-site placeholder used when the source
// location of a function cannot be determined.
const UnknownFile = "<unknown>"

// FrameInfo describes one activation of a callable entity. It is carried as
// the Item of a HookCtx at HookPosFuncCall and HookPosFuncReturn.
//
// ID is an opaque stable handle. Two frames describe the same callable
// entity if and only if their IDs are equal; labels are display names and
// never define identity.
type FrameInfo struct {
	ID    string
	Label string
	File  string
	Line  int
	Kind  FuncKind
}
