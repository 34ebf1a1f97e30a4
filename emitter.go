package disasm8

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Emitter walks a fully-traced Context's memory and writes the final
// listing through a Formatter. Grounded on disassembly.py's
// emit()/disassemble_range()/isolate_range()/split_classification() for
// move-range computation and straddling-classification splitting, and the
// teacher's Disassemble()/printInstruction/printData for per-line column
// layout.
type Emitter struct {
	ctx *Context
	w   io.Writer
	f   Formatter
}

// NewEmitter returns an Emitter writing to w using f.
func NewEmitter(ctx *Context, w io.Writer, f Formatter) *Emitter {
	return &Emitter{ctx: ctx, w: w, f: f}
}

func (e *Emitter) printf(format string, args ...interface{}) {
	fmt.Fprintf(e.w, format, args...)
}

// Run performs the full emission sequence: banner, per-move-range walk
// with label definitions and annotations, leftover explicit label
// definitions, and the autogenerated-label listing if configured. It does
// not emit a reference histogram.
func (e *Emitter) Run() error {
	e.printf("%s", e.f.DisassemblyStart())
	loaded := e.ctx.Memory.LoadedRanges()
	if len(loaded) == 0 {
		return fatalf(KindContract, "emit called before Load")
	}

	var ranges []moveRange
	for _, lr := range loaded {
		ranges = append(ranges, e.computeMoveRanges(lr.Start, lr.End)...)
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })
	for _, r := range ranges {
		if err := e.emitRange(r); err != nil {
			return err
		}
	}

	e.emitLabelDefinitions()

	if e.ctx.Config.ShowAutogeneratedLabels {
		e.printf("\n%s autogenerated labels\n", e.f.CommentPrefix())
		for _, line := range e.ctx.Labels.AutogeneratedLabelListing(e.isCodeAt) {
			e.printf("%s %s\n", e.f.CommentPrefix(), line)
		}
	}

	e.printf("%s", e.f.DisassemblyEnd(e.ctx.asserts))
	return nil
}

// moveRange is one contiguous span of binary addresses sharing a move ID;
// the emitter walks base and moved ranges together in ascending start
// address order — grounded on disassembly.py:
// emit()'s move_offset-driven range computation.
type moveRange struct {
	moveID MoveID
	start  BinaryAddr
	end    BinaryAddr
}

func (e *Emitter) computeMoveRanges(loadStart, loadEnd BinaryAddr) []moveRange {
	var ranges []moveRange
	covered := make(map[BinaryAddr]bool)
	var moves []Move
	for _, m := range e.ctx.Moves.moves {
		if m.BinaryStart >= loadStart && m.binaryEnd() <= loadEnd {
			moves = append(moves, m)
		}
	}
	sort.Slice(moves, func(i, j int) bool { return moves[i].BinaryStart < moves[j].BinaryStart })
	for _, m := range moves {
		ranges = append(ranges, moveRange{moveID: m.ID, start: m.BinaryStart, end: m.binaryEnd()})
		for a := m.BinaryStart; a < m.binaryEnd(); a++ {
			covered[a] = true
		}
	}
	// Base-move gaps: everything loaded but not covered by any move.
	var base []moveRange
	inGap := false
	var gapStart BinaryAddr
	for a := loadStart; a < loadEnd; a++ {
		if covered[a] {
			if inGap {
				base = append(base, moveRange{moveID: BaseMoveID, start: gapStart, end: a})
				inGap = false
			}
			continue
		}
		if !inGap {
			inGap = true
			gapStart = a
		}
	}
	if inGap {
		base = append(base, moveRange{moveID: BaseMoveID, start: gapStart, end: loadEnd})
	}
	ranges = append(ranges, base...)
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })
	return ranges
}

func (e *Emitter) isCodeAt(addr BinaryAddr) bool {
	loc := BinaryLocation{Addr: addr, MoveID: BaseMoveID}
	c, ok := e.ctx.Memory.GetClassification(loc)
	if !ok {
		return false
	}
	return c.IsCode()
}

// emitRange walks [r.start, r.end) under r.moveID, splitting any
// classification that straddles the range boundary (disassembly.py:
// split_classification/isolate_range), printing pseudopc brackets for a
// non-base move, and code/data directives via each Classification's Emit.
func (e *Emitter) emitRange(r moveRange) error {
	end := e.ctx.Moves.Moved(r.moveID)
	defer end()

	if r.moveID != BaseMoveID {
		m, _ := e.ctx.Moves.moveByID(r.moveID)
		e.printf("%s", e.f.PseudopcStart(m.RuntimeStart))
	} else {
		e.printf("%s", e.f.CodeStart(e.ctx.Moves.B2R(r.start)))
	}

	addr := r.start
	for addr < r.end {
		loc := BinaryLocation{Addr: addr, MoveID: r.moveID}
		e.emitAnnotationsAt(loc)
		e.emitLabelAt(loc)

		c, ok := e.ctx.Memory.GetClassification(loc)
		if !ok {
			// Unclassified leftover byte: emit as a single byte run,
			// matching disassembly.py: finalise()'s leftover sweep.
			c = &ByteRun{N: 1}
		}
		length := c.Length()
		if addr+BinaryAddr(length) > r.end {
			length = int(r.end - addr)
			c = &ByteRun{N: length}
		}
		// A label can land strictly inside a multi-byte classification
		// (e.g. a table entry midway through a word run). An inline
		// definition here would take the head's address, so these
		// addresses are only recorded as emit opportunities; their names
		// are defined explicitly (name = address) by emitLabelDefinitions.
		for i := 1; i < length; i++ {
			if l, ok := e.ctx.Labels.Label(addr + BinaryAddr(i)); ok {
				l.NotifyEmitOpportunity(r.moveID)
			}
		}
		if err := c.Emit(e, loc); err != nil {
			return err
		}
		if inst, ok := c.(*instructionClassification); ok && (inst.desc.IsBlockEnd) && e.ctx.Config.BlankLineAtBlockEnd {
			e.printf("\n")
		}
		addr += BinaryAddr(length)
	}

	if r.moveID != BaseMoveID {
		e.printf("%s", e.f.PseudopcEnd())
	} else {
		e.printf("%s", e.f.CodeEnd())
	}
	return nil
}

func (e *Emitter) emitAnnotationsAt(loc BinaryLocation) {
	for _, a := range e.ctx.Labels.AnnotationsAt(loc.Addr) {
		e.printf("%s %s\n", e.f.CommentPrefix(), a.Text)
	}
}

func (e *Emitter) emitLabelAt(loc BinaryLocation) {
	l, ok := e.ctx.Labels.Label(loc.Addr)
	if !ok {
		return
	}
	l.NotifyEmitOpportunity(loc.MoveID)
	names := l.ExplicitNames[loc.MoveID]
	if len(names) == 0 {
		return
	}
	// Prefer the highest-priority not-yet-emitted name for inline
	// definition; the rest are surfaced later as explicit definitions
	// (label.py: collate_explicit_names_for_move_id).
	var best *Name
	for _, n := range names {
		if n.Emitted {
			continue
		}
		if best == nil || n.priorityOrInf() < best.priorityOrInf() {
			best = n
		}
	}
	if best == nil || !l.DefinableInline {
		return
	}
	e.printf("%s\n", e.f.InlineLabel(best.Text))
	best.Emitted = true
}

// emitLabelDefinitions prints, as explicit "name = address" lines, every
// explicit name not defined inline during the main walk, whatever move ID
// it was registered under (SPEC_FULL.md §5).
func (e *Emitter) emitLabelDefinitions() {
	var lines []string
	for _, addr := range e.ctx.Labels.AllLabelAddrs() {
		l, _ := e.ctx.Labels.Label(addr)
		if !l.HasUnemittedNames() {
			continue
		}
		var ids []MoveID
		for id := range l.ExplicitNames {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			lines = append(lines, l.DefinitionStrings(id, e.f)...)
		}
	}
	if len(lines) == 0 {
		return
	}
	e.printf("\n")
	for _, line := range lines {
		e.printf("%s\n", line)
	}
}

const bytesPerLine = 8

func (e *Emitter) emitByteRun(b *ByteRun, loc BinaryLocation) error {
	var parts []string
	for i := 0; i < b.N; i++ {
		if expr, ok := b.Exprs[i]; ok {
			parts = append(parts, expr)
			continue
		}
		parts = append(parts, e.f.Hex2(e.ctx.Memory.Byte(loc.Addr+BinaryAddr(i))))
	}
	return e.emitWrapped(e.f.BytePrefix(), parts)
}

func (e *Emitter) emitWordRun(w *WordRun, loc BinaryLocation) error {
	var parts []string
	for i := 0; i < w.N; i++ {
		if expr, ok := w.Exprs[i]; ok {
			parts = append(parts, expr)
			continue
		}
		parts = append(parts, e.f.Hex4(e.ctx.Memory.Word(loc.Addr+BinaryAddr(i*2))))
	}
	return e.emitWrapped(e.f.WordPrefix(), parts)
}

// emitWrapped writes parts comma-separated, wrapping to a new line with
// prefix repeated every bytesPerLine items, matching classification.py's
// Byte/Word.as_string_list multi-item-per-line layout.
func (e *Emitter) emitWrapped(prefix string, parts []string) error {
	for i := 0; i < len(parts); i += bytesPerLine {
		end := i + bytesPerLine
		if end > len(parts) {
			end = len(parts)
		}
		e.printf("%s%s\n", prefix, strings.Join(parts[i:end], ", "))
	}
	return nil
}

func (e *Emitter) emitStringRun(s *StringRun, loc BinaryLocation) error {
	var b strings.Builder
	i := 0
	flush := func() {
		if b.Len() > 0 {
			e.printf("%s\"%s\"\n", e.f.StringPrefix(), b.String())
			b.Reset()
		}
	}
	for i < s.N {
		raw := e.ctx.Memory.Byte(loc.Addr + BinaryAddr(i))
		display := raw
		if (s.Term == TermHighBit || s.Term == TermHighBitZero) && display&0x80 != 0 {
			display &^= 0x80
		}
		ch, ok := e.f.StringChar(display)
		if !ok {
			flush()
			e.printf("%s%s\n", e.f.BytePrefix(), e.f.Hex2(raw))
			i++
			continue
		}
		b.WriteString(ch)
		i++
	}
	flush()
	return nil
}

// emitInstruction renders one decoded instruction, including the
// force_abs_instruction byte-data fallback for zero-page ambiguity
// (SPEC_FULL.md §5) and char-literal annotation on immediate operands.
func (e *Emitter) emitInstruction(inst *instructionClassification, loc BinaryLocation) error {
	mnemonic := inst.desc.Name
	needsFallback := (inst.desc.Mode == ModeAbsolute || inst.desc.Mode == ModeAbsoluteX || inst.desc.Mode == ModeAbsoluteY) &&
		!willAssembleIdentically(inst.desc.Mode, inst.operand) && e.f.ForceAbsInstruction()

	if needsFallback {
		lo := byte(inst.operand)
		hi := byte(inst.operand >> 8)
		e.printf("%s%s, %s, %s %s %s+2 operand\n", e.f.BytePrefix(), e.f.Hex2(inst.desc.Value), e.f.Hex2(lo), e.f.Hex2(hi), e.f.CommentPrefix(), mnemonic)
		return nil
	}

	operandStr := e.operandString(inst, loc)
	line := mnemonic
	if operandStr != "" {
		line += " " + operandStr
	}
	e.printf("    %s\n", line)
	return nil
}

func (e *Emitter) operandString(inst *instructionClassification, loc BinaryLocation) string {
	switch inst.desc.Mode {
	case ModeImplied, ModeAccumulator:
		return ""
	case ModeImmediate:
		var s string
		if name, ok := e.ctx.Labels.ConstantName(int(inst.operand)); ok {
			s = "#" + name
		} else {
			s = "#" + e.f.Hex2(byte(inst.operand))
		}
		if e.ctx.Config.ShowCharLiterals && inst.operand >= 0x20 && inst.operand <= 0x7E {
			s += fmt.Sprintf(" %s '%c'", e.f.CommentPrefix(), byte(inst.operand))
		}
		return s
	case ModeZeroPage:
		return e.f.Hex2(byte(inst.operand))
	case ModeZeroPageX:
		return e.f.Hex2(byte(inst.operand)) + ",X"
	case ModeZeroPageY:
		return e.f.Hex2(byte(inst.operand)) + ",Y"
	case ModeIndirectX:
		return "(" + e.f.Hex2(byte(inst.operand)) + ",X)"
	case ModeIndirectY:
		return "(" + e.f.Hex2(byte(inst.operand)) + "),Y"
	case ModeAbsolute, ModeJmpAbs, ModeJsr:
		return e.labelOrHex(BinaryAddr(inst.operand), loc, inst.desc.Mode == ModeJsr)
	case ModeAbsoluteX:
		return e.labelOrHex(BinaryAddr(inst.operand), loc, false) + ",X"
	case ModeAbsoluteY:
		return e.labelOrHex(BinaryAddr(inst.operand), loc, false) + ",Y"
	case ModeIndirect, ModeJmpInd:
		return "(" + e.f.Hex4(inst.operand) + ")"
	case ModeRelative:
		return e.labelOrHex(BinaryAddr(inst.operand), loc, false)
	default:
		return ""
	}
}

func (e *Emitter) labelOrHex(target BinaryAddr, loc BinaryLocation, isJSR bool) string {
	return e.ctx.Labels.ResolveReference(target, loc, e.isCodeAt(target))
}
