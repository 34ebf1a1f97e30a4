package disasm8

// UndocumentedInstructions lists mnemonics the 6502 executes but which are
// not part of the documented instruction set, carried verbatim from the
// teacher's opcodes.go.
var UndocumentedInstructions = []string{"ANC", "SRE", "SLO"}

func isUndocumentedMnemonic(name string) bool {
	for _, u := range UndocumentedInstructions {
		if u == name {
			return true
		}
	}
	return false
}

// InstructionSet6502 implements InstructionSet for the NMOS 6502. The
// opcode table shape (Value/Name/Length/AddrMode) is grounded on the
// teacher's opcodes.go OpCodes table; UpdateState closures and the
// documented/undocumented split are grounded on trace6502.py's per-opcode
// classes and opcodes dict.
type InstructionSet6502 struct {
	table map[byte]OpcodeDesc
}

// NewInstructionSet6502 builds the full NMOS 6502 opcode table.
func NewInstructionSet6502() *InstructionSet6502 {
	is := &InstructionSet6502{table: make(map[byte]OpcodeDesc)}
	for _, op := range opcodes6502Table() {
		op.UpdateState = updateStateFor(op)
		is.table[op.Value] = op
	}
	return is
}

// updateStateFor returns the CPUState-mutating closure for d, grounded on
// trace6502.py's per-opcode update_cpu_state: immediate loads into
// A/X/Y remember their source address, register transfers copy the whole
// RegValue, increments/decrements track a known value when possible, and
// everything else that writes a register without a statically-known
// result corrupts it so a stale earlier load doesn't leak past it.
func updateStateFor(d OpcodeDesc) func(cs *CPUState, addr BinaryAddr, operand uint16, haveOperand bool) {
	switch d.Name {
	case "LDA":
		if d.Mode == ModeImmediate {
			return updateLoadImmediate('A')
		}
		return updateCorrupt('A')
	case "LDX":
		if d.Mode == ModeImmediate {
			return updateLoadImmediate('X')
		}
		return updateCorrupt('X')
	case "LDY":
		if d.Mode == ModeImmediate {
			return updateLoadImmediate('Y')
		}
		return updateCorrupt('Y')
	case "TAX":
		return updateTransfer('X', 'A')
	case "TXA":
		return updateTransfer('A', 'X')
	case "TAY":
		return updateTransfer('Y', 'A')
	case "TYA":
		return updateTransfer('A', 'Y')
	case "TSX":
		return updateCorrupt('X')
	case "INX":
		return updateIncrement('X', 1)
	case "DEX":
		return updateIncrement('X', -1)
	case "INY":
		return updateIncrement('Y', 1)
	case "DEY":
		return updateIncrement('Y', -1)
	case "ADC", "SBC", "AND", "ORA", "EOR", "PLA", "ANC", "SLO", "SRE":
		return updateCorrupt('A')
	case "ASL", "LSR", "ROL", "ROR":
		if d.Mode == ModeAccumulator {
			return updateCorrupt('A')
		}
		return nil
	default:
		return nil
	}
}

func updateLoadImmediate(reg byte) func(cs *CPUState, addr BinaryAddr, operand uint16, haveOperand bool) {
	return func(cs *CPUState, addr BinaryAddr, operand uint16, haveOperand bool) {
		loadImmediate(regByLetter(cs, reg), byte(operand), addr)
		updateFlagsNZ(cs, byte(operand), true)
	}
}

func updateCorrupt(reg byte) func(cs *CPUState, addr BinaryAddr, operand uint16, haveOperand bool) {
	return func(cs *CPUState, addr BinaryAddr, operand uint16, haveOperand bool) {
		corruptRNZ(regByLetter(cs, reg))
		updateFlagsNZ(cs, 0, false)
	}
}

func updateTransfer(dst, src byte) func(cs *CPUState, addr BinaryAddr, operand uint16, haveOperand bool) {
	return func(cs *CPUState, addr BinaryAddr, operand uint16, haveOperand bool) {
		d := regByLetter(cs, dst)
		transfer(d, regByLetter(cs, src))
		updateFlagsNZ(cs, d.Value, d.Known)
	}
}

func updateIncrement(reg byte, delta int) func(cs *CPUState, addr BinaryAddr, operand uint16, haveOperand bool) {
	return func(cs *CPUState, addr BinaryAddr, operand uint16, haveOperand bool) {
		r := regByLetter(cs, reg)
		if !r.Known {
			updateFlagsNZ(cs, 0, false)
			return
		}
		r.Value = byte(int(r.Value) + delta)
		r.Source = addr
		updateFlagsNZ(cs, r.Value, true)
	}
}

func (is *InstructionSet6502) Name() string { return "6502" }

func modeLength(mode AddressingMode) int {
	switch mode {
	case ModeImplied, ModeAccumulator:
		return 1
	case ModeImmediate, ModeZeroPage, ModeZeroPageX, ModeZeroPageY,
		ModeIndirectX, ModeIndirectY, ModeRelative:
		return 2
	case ModeAbsolute, ModeAbsoluteX, ModeAbsoluteY, ModeIndirect, ModeJmpAbs, ModeJmpInd, ModeJsr:
		return 3
	default:
		return 1
	}
}

// Decode implements InstructionSet. It reads the opcode byte, looks up its
// descriptor, pulls any operand bytes out of mem, and computes successor
// addresses for the Tracer's worklist — grounded on trace6502.py's
// per-subclass disassemble()/update_references() and the teacher's
// findBranchTargets/decode().
func (is *InstructionSet6502) Decode(mem *MemoryModel, addr BinaryAddr) (DecodedInstruction, bool) {
	opByte := mem.Byte(addr)
	desc, ok := is.table[opByte]
	if !ok {
		return DecodedInstruction{}, false
	}
	di := DecodedInstruction{Desc: desc}
	length := desc.Length
	if length == 0 {
		length = modeLength(desc.Mode)
	}
	fallthroughAddr := addr + BinaryAddr(length)

	switch desc.Mode {
	case ModeImplied, ModeAccumulator:
		// no operand
	case ModeImmediate:
		di.Operand = uint16(mem.Byte(addr + 1))
		di.HaveOperand = true
	case ModeZeroPage, ModeZeroPageX, ModeZeroPageY, ModeIndirectX, ModeIndirectY:
		di.Operand = uint16(mem.Byte(addr + 1))
		di.HaveOperand = true
	case ModeAbsolute, ModeAbsoluteX, ModeAbsoluteY, ModeIndirect:
		di.Operand = mem.Word(addr + 1)
		di.HaveOperand = true
	case ModeRelative:
		offset := signed8(mem.Byte(addr + 1))
		target := int(fallthroughAddr) + offset
		di.Operand = uint16(target)
		di.HaveOperand = true
	case ModeJmpAbs:
		di.Operand = mem.Word(addr + 1)
		di.HaveOperand = true
	case ModeJmpInd:
		di.Operand = mem.Word(addr + 1)
		di.HaveOperand = true
	case ModeJsr:
		di.Operand = mem.Word(addr + 1)
		di.HaveOperand = true
	}

	switch desc.Mode {
	case ModeJmpAbs:
		di.Successors = []BinaryAddr{BinaryAddr(di.Operand)}
	case ModeJmpInd:
		// indirect target is not statically known; no successor pushed
		// (trace6502.py: OpcodeJmpInd.update_references is a no-op).
	case ModeJsr:
		di.Successors = []BinaryAddr{fallthroughAddr, BinaryAddr(di.Operand)}
	case ModeRelative:
		di.Successors = []BinaryAddr{fallthroughAddr, BinaryAddr(di.Operand)}
	default:
		if desc.IsBlockEnd {
			// RTS/RTI/BRK: no fall-through successor.
		} else {
			di.Successors = []BinaryAddr{fallthroughAddr}
		}
	}

	return di, true
}

func signed8(b byte) int {
	if b >= 0x80 {
		return int(b) - 0x100
	}
	return int(b)
}

func op(value byte, name string, mode AddressingMode, documented bool) OpcodeDesc {
	return OpcodeDesc{
		Value:      value,
		Name:       name,
		Length:     modeLength(mode),
		Mode:       mode,
		Documented: documented,
	}
}

func opBlockEnd(value byte, name string, mode AddressingMode, isReturn bool) OpcodeDesc {
	d := op(value, name, mode, true)
	d.IsBlockEnd = true
	d.IsReturn = isReturn
	return d
}

// opcodes6502Table is the full documented (plus a handful of commonly
// disassembled undocumented) NMOS 6502 opcode table, grounded on the
// teacher's opcodes.go OpCodes slice.
func opcodes6502Table() []OpcodeDesc {
	return []OpcodeDesc{
		opBlockEnd(0x00, "BRK", ModeImplied, false),
		op(0x01, "ORA", ModeIndirectX, true),
		op(0x05, "ORA", ModeZeroPage, true),
		op(0x06, "ASL", ModeZeroPage, true),
		op(0x08, "PHP", ModeImplied, true),
		op(0x09, "ORA", ModeImmediate, true),
		op(0x0A, "ASL", ModeAccumulator, true),
		op(0x0D, "ORA", ModeAbsolute, true),
		op(0x0E, "ASL", ModeAbsolute, true),
		op(0x10, "BPL", ModeRelative, true),
		op(0x11, "ORA", ModeIndirectY, true),
		op(0x15, "ORA", ModeZeroPageX, true),
		op(0x16, "ASL", ModeZeroPageX, true),
		op(0x18, "CLC", ModeImplied, true),
		op(0x19, "ORA", ModeAbsoluteY, true),
		op(0x1D, "ORA", ModeAbsoluteX, true),
		op(0x1E, "ASL", ModeAbsoluteX, true),
		op(0x20, "JSR", ModeJsr, true),
		op(0x21, "AND", ModeIndirectX, true),
		op(0x24, "BIT", ModeZeroPage, true),
		op(0x25, "AND", ModeZeroPage, true),
		op(0x26, "ROL", ModeZeroPage, true),
		op(0x28, "PLP", ModeImplied, true),
		op(0x29, "AND", ModeImmediate, true),
		op(0x2A, "ROL", ModeAccumulator, true),
		op(0x2C, "BIT", ModeAbsolute, true),
		op(0x2D, "AND", ModeAbsolute, true),
		op(0x2E, "ROL", ModeAbsolute, true),
		op(0x30, "BMI", ModeRelative, true),
		op(0x31, "AND", ModeIndirectY, true),
		op(0x35, "AND", ModeZeroPageX, true),
		op(0x36, "ROL", ModeZeroPageX, true),
		op(0x38, "SEC", ModeImplied, true),
		op(0x39, "AND", ModeAbsoluteY, true),
		op(0x3D, "AND", ModeAbsoluteX, true),
		op(0x3E, "ROL", ModeAbsoluteX, true),
		opBlockEnd(0x40, "RTI", ModeImplied, true),
		op(0x41, "EOR", ModeIndirectX, true),
		op(0x45, "EOR", ModeZeroPage, true),
		op(0x46, "LSR", ModeZeroPage, true),
		op(0x48, "PHA", ModeImplied, true),
		op(0x49, "EOR", ModeImmediate, true),
		op(0x4A, "LSR", ModeAccumulator, true),
		opBlockEnd(0x4C, "JMP", ModeJmpAbs, false),
		op(0x4D, "EOR", ModeAbsolute, true),
		op(0x4E, "LSR", ModeAbsolute, true),
		op(0x50, "BVC", ModeRelative, true),
		op(0x51, "EOR", ModeIndirectY, true),
		op(0x55, "EOR", ModeZeroPageX, true),
		op(0x56, "LSR", ModeZeroPageX, true),
		op(0x58, "CLI", ModeImplied, true),
		op(0x59, "EOR", ModeAbsoluteY, true),
		op(0x5D, "EOR", ModeAbsoluteX, true),
		op(0x5E, "LSR", ModeAbsoluteX, true),
		opBlockEnd(0x60, "RTS", ModeImplied, true),
		op(0x61, "ADC", ModeIndirectX, true),
		op(0x65, "ADC", ModeZeroPage, true),
		op(0x66, "ROR", ModeZeroPage, true),
		op(0x68, "PLA", ModeImplied, true),
		op(0x69, "ADC", ModeImmediate, true),
		op(0x6A, "ROR", ModeAccumulator, true),
		opBlockEnd(0x6C, "JMP", ModeJmpInd, false),
		op(0x6D, "ADC", ModeAbsolute, true),
		op(0x6E, "ROR", ModeAbsolute, true),
		op(0x70, "BVS", ModeRelative, true),
		op(0x71, "ADC", ModeIndirectY, true),
		op(0x75, "ADC", ModeZeroPageX, true),
		op(0x76, "ROR", ModeZeroPageX, true),
		op(0x78, "SEI", ModeImplied, true),
		op(0x79, "ADC", ModeAbsoluteY, true),
		op(0x7D, "ADC", ModeAbsoluteX, true),
		op(0x7E, "ROR", ModeAbsoluteX, true),
		op(0x81, "STA", ModeIndirectX, true),
		op(0x84, "STY", ModeZeroPage, true),
		op(0x85, "STA", ModeZeroPage, true),
		op(0x86, "STX", ModeZeroPage, true),
		op(0x88, "DEY", ModeImplied, true),
		op(0x8A, "TXA", ModeImplied, true),
		op(0x8C, "STY", ModeAbsolute, true),
		op(0x8D, "STA", ModeAbsolute, true),
		op(0x8E, "STX", ModeAbsolute, true),
		op(0x90, "BCC", ModeRelative, true),
		op(0x91, "STA", ModeIndirectY, true),
		op(0x94, "STY", ModeZeroPageX, true),
		op(0x95, "STA", ModeZeroPageX, true),
		op(0x96, "STX", ModeZeroPageY, true),
		op(0x98, "TYA", ModeImplied, true),
		op(0x99, "STA", ModeAbsoluteY, true),
		op(0x9A, "TXS", ModeImplied, true),
		op(0x9D, "STA", ModeAbsoluteX, true),
		op(0xA0, "LDY", ModeImmediate, true),
		op(0xA1, "LDA", ModeIndirectX, true),
		op(0xA2, "LDX", ModeImmediate, true),
		op(0xA4, "LDY", ModeZeroPage, true),
		op(0xA5, "LDA", ModeZeroPage, true),
		op(0xA6, "LDX", ModeZeroPage, true),
		op(0xA8, "TAY", ModeImplied, true),
		op(0xA9, "LDA", ModeImmediate, true),
		op(0xAA, "TAX", ModeImplied, true),
		op(0xAC, "LDY", ModeAbsolute, true),
		op(0xAD, "LDA", ModeAbsolute, true),
		op(0xAE, "LDX", ModeAbsolute, true),
		op(0xB0, "BCS", ModeRelative, true),
		op(0xB1, "LDA", ModeIndirectY, true),
		op(0xB4, "LDY", ModeZeroPageX, true),
		op(0xB5, "LDA", ModeZeroPageX, true),
		op(0xB6, "LDX", ModeZeroPageY, true),
		op(0xB8, "CLV", ModeImplied, true),
		op(0xB9, "LDA", ModeAbsoluteY, true),
		op(0xBA, "TSX", ModeImplied, true),
		op(0xBC, "LDY", ModeAbsoluteX, true),
		op(0xBD, "LDA", ModeAbsoluteX, true),
		op(0xBE, "LDX", ModeAbsoluteY, true),
		op(0xC0, "CPY", ModeImmediate, true),
		op(0xC1, "CMP", ModeIndirectX, true),
		op(0xC4, "CPY", ModeZeroPage, true),
		op(0xC5, "CMP", ModeZeroPage, true),
		op(0xC6, "DEC", ModeZeroPage, true),
		op(0xC8, "INY", ModeImplied, true),
		op(0xC9, "CMP", ModeImmediate, true),
		op(0xCA, "DEX", ModeImplied, true),
		op(0xCC, "CPY", ModeAbsolute, true),
		op(0xCD, "CMP", ModeAbsolute, true),
		op(0xCE, "DEC", ModeAbsolute, true),
		op(0xD0, "BNE", ModeRelative, true),
		op(0xD1, "CMP", ModeIndirectY, true),
		op(0xD5, "CMP", ModeZeroPageX, true),
		op(0xD6, "DEC", ModeZeroPageX, true),
		op(0xD8, "CLD", ModeImplied, true),
		op(0xD9, "CMP", ModeAbsoluteY, true),
		op(0xDD, "CMP", ModeAbsoluteX, true),
		op(0xDE, "DEC", ModeAbsoluteX, true),
		op(0xE0, "CPX", ModeImmediate, true),
		op(0xE1, "SBC", ModeIndirectX, true),
		op(0xE4, "CPX", ModeZeroPage, true),
		op(0xE5, "SBC", ModeZeroPage, true),
		op(0xE6, "INC", ModeZeroPage, true),
		op(0xE8, "INX", ModeImplied, true),
		op(0xE9, "SBC", ModeImmediate, true),
		op(0xEA, "NOP", ModeImplied, true),
		op(0xEC, "CPX", ModeAbsolute, true),
		op(0xED, "SBC", ModeAbsolute, true),
		op(0xEE, "INC", ModeAbsolute, true),
		op(0xF0, "BEQ", ModeRelative, true),
		op(0xF1, "SBC", ModeIndirectY, true),
		op(0xF5, "SBC", ModeZeroPageX, true),
		op(0xF6, "INC", ModeZeroPageX, true),
		op(0xF8, "SED", ModeImplied, true),
		op(0xF9, "SBC", ModeAbsoluteY, true),
		op(0xFD, "SBC", ModeAbsoluteX, true),
		op(0xFE, "INC", ModeAbsoluteX, true),
		// A handful of commonly-seen undocumented opcodes, per
		// UndocumentedInstructions.
		op(0x03, "SLO", ModeIndirectX, false),
		op(0x07, "SLO", ModeZeroPage, false),
		op(0x43, "SRE", ModeIndirectX, false),
		op(0x0B, "ANC", ModeImmediate, false),
	}
}

// willAssembleIdentically reports whether an absolute-mode instruction
// whose operand happens to fall in zero page ($00-$FF) will still assemble
// to the 3-byte absolute encoding rather than the shorter 2-byte zero-page
// encoding a naive re-assembly might prefer. Grounded directly on the
// teacher's willAssembleIdentically in disassemble.go; used by
// Formatter.ForceAbsInstruction callers (emitter.go) to decide whether an
// absolute instruction needs the byte-data fallback described in
// SPEC_FULL.md §5.
func willAssembleIdentically(mode AddressingMode, operand uint16) bool {
	if operand > 0xFF {
		return true
	}
	switch mode {
	case ModeAbsolute, ModeAbsoluteX, ModeAbsoluteY:
		return false
	default:
		return true
	}
}
