package disasm8

import (
	"fmt"
	"io"
)

// Load reads filename into memory at addr, optionally verifying its md5
// digest. Grounded directly on commands.py: load().
func (ctx *Context) Load(addr BinaryAddr, filename string, md5sum string) error {
	return ctx.Memory.Load(addr, filename, md5sum)
}

// LoadFromDFS extracts entry's bytes from a parsed DFS image and loads
// them at the catalog's own load address, the new SPEC_FULL.md §5 entry
// point built on top of the teacher's dfs.go.
func (ctx *Context) LoadFromDFS(img *DiskImage, entry CatalogEntry) error {
	data, err := ExtractFromDFS(img.raw, entry)
	if err != nil {
		return err
	}
	return ctx.Memory.LoadBytes(entry.LoadAddr, data, "")
}

// Constant registers a named constant with no associated address.
// Grounded on commands.py: constant(value, name).
func (ctx *Context) Constant(value int, name string) {
	ctx.Labels.AddConstant(name, value)
}

// Label registers name as the definitive name for addr under the
// currently active move. Grounded on commands.py: label(addr, name).
func (ctx *Context) Label(addr BinaryAddr, name string) error {
	l := ctx.Labels.GetOrCreateLabel(addr)
	return l.AddExplicitName(ctx.Moves.ActiveMoveID(), name)
}

// LocalLabel registers name as valid only for references whose binary
// address is in [start, end), under the currently active move. Grounded
// on label.py: add_local_label.
func (ctx *Context) LocalLabel(addr, start, end BinaryAddr, name string) {
	l := ctx.Labels.GetOrCreateLabel(addr)
	l.AddLocalLabel(ctx.Moves.ActiveMoveID(), start, end, name)
}

// OptionalLabel registers name as the preferred synthesized name for addr,
// only materializing if something references addr. Grounded on
// commands.py: optional_label(addr, name).
func (ctx *Context) OptionalLabel(addr BinaryAddr, name string) {
	ctx.Labels.AddOptionalLabel(addr, name, true)
}

// Comment attaches a free-text annotation at addr. Grounded on
// commands.py: comment(addr, text).
func (ctx *Context) Comment(addr BinaryAddr, text string) {
	ctx.Labels.AddAnnotation(addr, text)
}

// Expr registers a non-simple-name expression usable at addr. Grounded on
// commands.py: expr(addr, s) / classification.add_expression.
func (ctx *Context) Expr(addr BinaryAddr, s string) error {
	l := ctx.Labels.GetOrCreateLabel(addr)
	return l.AddExpression(ctx.Moves.ActiveMoveID(), s)
}

// Byte classifies n bytes starting at addr as raw data. Grounded on
// commands.py: byte(addr, n=1).
func (ctx *Context) Byte(addr BinaryAddr, n int) error {
	loc := BinaryLocation{Addr: addr, MoveID: ctx.Moves.ActiveMoveID()}
	return ctx.Memory.AddClassification(loc, &ByteRun{N: n})
}

// Word classifies n little-endian 16-bit words starting at addr.
// Grounded on commands.py: word(addr, n=1).
func (ctx *Context) Word(addr BinaryAddr, n int) error {
	loc := BinaryLocation{Addr: addr, MoveID: ctx.Moves.ActiveMoveID()}
	return ctx.Memory.AddClassification(loc, &WordRun{N: n})
}

// String classifies an explicit-length string at addr. Grounded on
// classification.py: string(addr, n).
func (ctx *Context) String(addr BinaryAddr, n int) error {
	loc := BinaryLocation{Addr: addr, MoveID: ctx.Moves.ActiveMoveID()}
	return ctx.Memory.AddClassification(loc, &StringRun{Term: TermExplicit, N: n})
}

// StringTerm classifies a string at addr terminated by (and including) the
// first byte equal to term. Grounded on classification.py: stringterm.
func (ctx *Context) StringTerm(addr BinaryAddr, term byte) error {
	sc := NewStringClassifier(ctx.Memory)
	run, err := sc.Classify(addr, TermChar, term)
	if err != nil {
		return err
	}
	loc := BinaryLocation{Addr: addr, MoveID: ctx.Moves.ActiveMoveID()}
	return ctx.Memory.AddClassification(loc, run)
}

// StringCR classifies a CR-terminated string at addr. Grounded on
// classification.py: stringcr.
func (ctx *Context) StringCR(addr BinaryAddr) error {
	sc := NewStringClassifier(ctx.Memory)
	run, err := sc.Classify(addr, TermCR, 0)
	if err != nil {
		return err
	}
	loc := BinaryLocation{Addr: addr, MoveID: ctx.Moves.ActiveMoveID()}
	return ctx.Memory.AddClassification(loc, run)
}

// StringZ classifies a NUL-terminated string at addr. Grounded on
// classification.py: stringz.
func (ctx *Context) StringZ(addr BinaryAddr) error {
	sc := NewStringClassifier(ctx.Memory)
	run, err := sc.Classify(addr, TermZero, 0)
	if err != nil {
		return err
	}
	loc := BinaryLocation{Addr: addr, MoveID: ctx.Moves.ActiveMoveID()}
	return ctx.Memory.AddClassification(loc, run)
}

// StringHi classifies a high-bit-terminated string at addr. Grounded on
// classification.py: stringhi.
func (ctx *Context) StringHi(addr BinaryAddr, zeroLow7 bool) error {
	term := TermHighBit
	if zeroLow7 {
		term = TermHighBitZero
	}
	sc := NewStringClassifier(ctx.Memory)
	run, err := sc.Classify(addr, term, 0)
	if err != nil {
		return err
	}
	loc := BinaryLocation{Addr: addr, MoveID: ctx.Moves.ActiveMoveID()}
	return ctx.Memory.AddClassification(loc, run)
}

// StringN classifies a length-prefixed string at addr: the byte at addr
// gives the string's length, and the string itself follows immediately.
// Not present in the original; added per spec §4.7.
func (ctx *Context) StringN(addr BinaryAddr) error {
	sc := NewStringClassifier(ctx.Memory)
	run, err := sc.Classify(addr, TermLengthPrefixed, 0)
	if err != nil {
		return err
	}
	loc := BinaryLocation{Addr: addr, MoveID: ctx.Moves.ActiveMoveID()}
	return ctx.Memory.AddClassification(loc, run)
}

// AutoString classifies the one run starting at addr as a string if it
// looks like printable text (see StringClassifier.AutoString), up to maxLen
// bytes and no shorter than minLen; no other run is examined. Grounded on
// classification.py: autostring.
func (ctx *Context) AutoString(addr BinaryAddr, maxLen, minLen int) (bool, error) {
	sc := NewStringClassifier(ctx.Memory)
	run, ok := sc.AutoString(addr, maxLen, minLen)
	if !ok {
		return false, nil
	}
	loc := BinaryLocation{Addr: addr, MoveID: ctx.Moves.ActiveMoveID()}
	return true, ctx.Memory.AddClassification(loc, run)
}

// Entry seeds the tracer with addr as a code entry point, optionally
// giving it name. Grounded on commands.py: entry(addr, label=None) /
// trace.add_entry.
func (ctx *Context) Entry(addr BinaryAddr, name string) error {
	if name != "" {
		if err := ctx.Label(addr, name); err != nil {
			return err
		}
	}
	loc := BinaryLocation{Addr: addr, MoveID: ctx.Moves.ActiveMoveID()}
	ctx.entries = append(ctx.entries, loc)
	ctx.Tracer.AddEntry(loc)
	return nil
}

// HookSubroutine registers addr as a named entry point whose JSR call
// sites are passed through hook, which may redirect where tracing resumes
// after the call returns. Grounded on commands.py: hook_subroutine.
func (ctx *Context) HookSubroutine(addr BinaryAddr, name string, hook JSRHook) error {
	if err := ctx.Entry(addr, name); err != nil {
		return err
	}
	ctx.Tracer.AddJSRHook(addr, hook)
	return nil
}

// AddSequenceHook registers hook to observe every decoded instruction
// alongside its preceding abstract CPU state, used to recognize
// argument-loading idioms before an OS call. Grounded on trace6502.py:
// subroutine_argument_finder.
func (ctx *Context) AddSequenceHook(hook SequenceHook) {
	ctx.Tracer.AddSequenceHook(hook)
}

// RtsAddress implements the "RTS address" idiom used to encode a JSR
// table entry as target-1 immediately before an RTS: reads the word at
// addr, registers that word plus one (the target) as an entry point,
// classifies addr as a word,
// and annotates it with an expression referencing the resolved label
// minus one. Grounded on commands.py: rts_address(addr).
func (ctx *Context) RtsAddress(addr BinaryAddr) (BinaryAddr, error) {
	target := BinaryAddr(ctx.Memory.Word(addr)) + 1
	if err := ctx.Entry(target, ""); err != nil {
		return 0, err
	}
	if err := ctx.Word(addr, 1); err != nil {
		return 0, err
	}
	name := ctx.Labels.ResolveReference(target, BinaryLocation{Addr: addr, MoveID: ctx.Moves.ActiveMoveID()}, true)
	if err := ctx.Expr(addr, fmt.Sprintf("%s-1", name)); err != nil {
		return 0, err
	}
	return addr + 2, nil
}

// SplitJumpTableEntry implements a jump table whose entry point's low and
// high bytes are stored in two separate parallel tables rather than as one
// consecutive word. Grounded on commands.py: split_jump_table_entry.
func (ctx *Context) SplitJumpTableEntry(lowAddr, highAddr BinaryAddr, offset int) error {
	entryPoint := BinaryAddr(int(ctx.Memory.Byte(highAddr))<<8+int(ctx.Memory.Byte(lowAddr))) + BinaryAddr(offset)
	if err := ctx.Entry(entryPoint, ""); err != nil {
		return err
	}
	loc := BinaryLocation{Addr: lowAddr, MoveID: ctx.Moves.ActiveMoveID()}
	name := ctx.Labels.ResolveReference(entryPoint, loc, true)
	offsetStr := ""
	if offset != 0 {
		offsetStr = fmt.Sprintf("-%d", offset)
	}
	if err := ctx.Expr(highAddr, fmt.Sprintf(">(%s%s)", name, offsetStr)); err != nil {
		return err
	}
	return ctx.Expr(lowAddr, fmt.Sprintf("<(%s%s)", name, offsetStr))
}

// Move registers a relocation move and returns its ID, for scoping with
// Moved. Grounded on movemanager.py: add_move.
func (ctx *Context) Move(binaryStart BinaryAddr, length int, runtimeStart RuntimeAddr) MoveID {
	return ctx.Moves.AddMove(binaryStart, length, runtimeStart)
}

// Moved scopes subsequent Label/Expr/Entry calls to id until the returned
// function is called, typically with defer. Grounded on movemanager.py:
// moved().
func (ctx *Context) Moved(id MoveID) func() {
	return ctx.Moves.Moved(id)
}

// Go runs the full trace-then-emit pipeline: Tracer.Run followed by
// Emitter.Run, writing the final listing to w via f. Grounded on
// commands.py: go().
func (ctx *Context) Go(w io.Writer, f Formatter) error {
	if err := ctx.Tracer.Run(ctx.Memory, ctx.ISet); err != nil {
		return err
	}
	return NewEmitter(ctx, w, f).Run()
}

// Go2 runs only the emit phase, skipping tracing — used when every
// classification was installed explicitly and no code discovery is
// needed. Grounded on commands.py: go2().
func (ctx *Context) Go2(w io.Writer, f Formatter) error {
	return NewEmitter(ctx, w, f).Run()
}

// Assert registers an assembly-time assertion to be emitted just before
// the final SAVE/output directive. Grounded on beebasm.py's
// disassembly_end asserting the expected start/end addresses.
func (ctx *Context) Assert(expr string) {
	ctx.asserts = append(ctx.asserts, expr)
}
