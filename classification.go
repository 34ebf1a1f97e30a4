package disasm8

// Classification is the tagged-variant contract every classified span of
// memory implements: ByteRun, WordRun, StringRun and Instruction
// (instructionset.go). Grounded on classification.py's Byte/Word/String
// classes and spec.md §4.2.
type Classification interface {
	// Length is the number of bytes this classification occupies.
	Length() int
	// IsCode reports whether this span should be treated as executable
	// when the Tracer decides whether to continue decoding past it.
	IsCode() bool
	// Emit writes this classification's listing lines via e, covering
	// exactly Length() bytes starting at loc.
	Emit(e *Emitter, loc BinaryLocation) error
}

// InsideClassification is the sentinel installed (conceptually) for the
// second and subsequent bytes of a multi-byte classification: the
// MemoryModel's classifications map simply has no entry for those
// addresses, and Emitter treats "classified at a lower address, with
// enough Length() to cover this one" as equivalent to py8dis's
// disassembly.py partial_classification sentinel. InsideClassification
// exists so call sites can name the concept instead of open-coding "this
// byte has no classification of its own but is not free".
type InsideClassification struct{}

func (InsideClassification) Length() int                                  { return 0 }
func (InsideClassification) IsCode() bool                                 { return false }
func (InsideClassification) Emit(*Emitter, BinaryLocation) error          { return nil }

// ByteRun is n raw data bytes emitted via the Formatter's byte directive,
// eight items per line (emitter.go: bytesPerLine), the way
// classification.py's Byte.as_string_list lays bytes out multiple-per-line.
type ByteRun struct {
	N        int
	Exprs    map[int]string // byte offset within the run -> override expression
}

func (b *ByteRun) Length() int  { return b.N }
func (b *ByteRun) IsCode() bool { return false }

func (b *ByteRun) Emit(e *Emitter, loc BinaryLocation) error {
	return e.emitByteRun(b, loc)
}

// WordRun is n little-endian 16-bit words emitted via the Formatter's word
// directive (classification.py: Word).
type WordRun struct {
	N     int
	Exprs map[int]string // word index within the run -> override expression
}

func (w *WordRun) Length() int  { return w.N * 2 }
func (w *WordRun) IsCode() bool { return false }

func (w *WordRun) Emit(e *Emitter, loc BinaryLocation) error {
	return e.emitWordRun(w, loc)
}

// StringTerminator selects how a StringRun knows where it ends, mirroring
// classification.py's stringterm/stringcr/stringz/string/stringhi/
// stringhiz/stringn/autostring family.
type StringTerminator int

const (
	// TermExplicit means Length is given directly (classification.py:
	// string(addr, n)).
	TermExplicit StringTerminator = iota
	// TermChar means the string runs up to and including the first byte
	// equal to TermByte (stringterm).
	TermChar
	// TermCR means the string runs up to and including a 0x0D byte
	// (stringcr).
	TermCR
	// TermZero means the string runs up to and including a 0x00 byte
	// (stringz).
	TermZero
	// TermHighBit means the string runs up to and including the first
	// byte with bit 7 set, which is also stripped for display (stringhi).
	TermHighBit
	// TermHighBitZero is TermHighBit but the terminator byte's low 7
	// bits must additionally be zero (stringhiz).
	TermHighBitZero
	// TermLengthPrefixed means the byte immediately before the string
	// holds its length (spec §4.7's stringn, not present in the
	// original; see DESIGN.md).
	TermLengthPrefixed
)

// StringRun is a run of ASCII text emitted via the Formatter's string
// directive, terminator semantics per Term.
type StringRun struct {
	Term     StringTerminator
	TermByte byte
	N        int // byte length, resolved by StringClassifier before install
}

func (s *StringRun) Length() int  { return s.N }
func (s *StringRun) IsCode() bool { return false }

func (s *StringRun) Emit(e *Emitter, loc BinaryLocation) error {
	return e.emitStringRun(s, loc)
}
