package disasm8

// Formatter is the pluggable per-assembler-syntax backend spec.md §4.8
// describes, grounded directly on py8dis's beebasm.py/acme.py/xa.py
// modules (the original implements these as free functions in a
// per-assembler module selected at startup; Go renders that as an
// interface with three concrete implementations).
type Formatter interface {
	// Hex2/Hex4/Hex render an 8-bit, 16-bit, and natural-width hex
	// literal respectively.
	Hex2(v byte) string
	Hex4(v uint16) string
	Hex(v uint16) string

	// InlineLabel renders a label definition meant to be emitted as the
	// first token of its own line (beebasm's ".name", acme's bare name).
	InlineLabel(name string) string
	// ExplicitLabel renders a standalone "name = value" definition line.
	ExplicitLabel(name string, addr BinaryAddr) string

	CommentPrefix() string

	DisassemblyStart() string
	DisassemblyEnd(asserts []string) string

	CodeStart(addr RuntimeAddr) string
	CodeEnd() string

	// PseudopcStart/PseudopcEnd bracket a relocated (moved) region: the
	// assembler is told to assemble as if at runtimeAddr while actually
	// placing bytes at the binary location, and to restore normal
	// placement afterward, per beebasm's COPYBLOCK/ORG/GUARD dance.
	PseudopcStart(runtimeAddr RuntimeAddr) string
	PseudopcEnd() string

	BytePrefix() string
	WordPrefix() string
	StringPrefix() string
	// StringChar returns the source text for byte b within a string
	// literal, or false if b cannot be represented and the caller should
	// fall back to splitting the run at a numeric byte.
	StringChar(b byte) (string, bool)

	// ForceAbsInstruction reports whether this assembler needs an
	// explicit directive to keep an absolute-mode instruction from being
	// reassembled as zero-page when its operand fits in a byte. beebasm's
	// org/guard model never does zero-page substitution so it returns
	// false; acme and xa do the substitution and so need the byte-data
	// fallback path in Emitter (SPEC_FULL.md §5).
	ForceAbsInstruction() bool

	AssertExpr(expr string) string
}
