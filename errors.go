package disasm8

import "fmt"

// Kind classifies a FatalError by the contract it violates.
type Kind int

const (
	// KindInput covers malformed or out-of-range user input: a load that
	// overflows memory, an md5 mismatch, a malformed DFS catalog.
	KindInput Kind = iota
	// KindContract covers a caller violating a package API precondition:
	// an overlapping Load, defining a label twice at the same move, an invalid
	// move ID.
	KindContract
	// KindInconsistency covers an internal invariant failure discovered
	// during tracing or emission that the caller cannot have prevented
	// from outside the package.
	KindInconsistency
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindContract:
		return "contract"
	case KindInconsistency:
		return "inconsistency"
	default:
		return "unknown"
	}
}

// FatalError aborts the current run. Analysis cannot usefully continue past
// one of these, unlike a Diagnostic.
type FatalError struct {
	Kind Kind
	Msg  string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func fatalf(kind Kind, format string, args ...interface{}) *FatalError {
	return &FatalError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Diagnostic is a non-fatal warning recorded against a Context. It never
// alters control flow; callers may inspect Context.Diagnostics after a run.
type Diagnostic struct {
	Addr RuntimeAddr
	Msg  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Addr, d.Msg)
}
