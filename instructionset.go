package disasm8

// AddressingMode names how an opcode's operand bytes are interpreted.
// Grounded on the teacher's opcodes.go AddressingMode enum, generalized to
// also cover py8dis trace6502.py's control-flow-relevant split (JmpAbs,
// JmpInd, Jsr, ConditionalBranch, Return) so the Tracer can dispatch on
// control flow without a type switch on mnemonic strings.
type AddressingMode int

const (
	ModeImplied AddressingMode = iota
	ModeAccumulator
	ModeImmediate
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageY
	ModeAbsolute
	ModeAbsoluteX
	ModeAbsoluteY
	ModeIndirect
	ModeIndirectX
	ModeIndirectY
	ModeRelative // conditional branches
	ModeJmpAbs
	ModeJmpInd
	ModeJsr
)

// OpcodeDesc is one row of an InstructionSet's table: a single opcode
// value's mnemonic, length and addressing mode, generalized from the
// teacher's Opcode struct (opcodes.go).
type OpcodeDesc struct {
	Value       byte
	Name        string
	Length      int
	Mode        AddressingMode
	Documented  bool
	IsBlockEnd  bool // JMP/RTS/RTI/BRK/BRA: Tracer stops walking straight-line here
	IsReturn    bool
	// UpdateState mutates cs to reflect this instruction's effect on the
	// abstract register/flag snapshot the Tracer carries down straight-line
	// code, given the instruction's own address (so a register load can
	// remember where it came from), operand and whether it has one. nil
	// for instructions whose effect on the CPUState is not tracked.
	UpdateState func(cs *CPUState, addr BinaryAddr, operand uint16, haveOperand bool)
}

// DecodedInstruction is what InstructionSet.Decode produces for one
// instruction at a BinaryLocation.
type DecodedInstruction struct {
	Desc       OpcodeDesc
	Operand    uint16
	HaveOperand bool
	// Successors are the BinaryAddr values the Tracer should push onto its
	// worklist as a result of decoding this instruction (fall-through,
	// branch target, JSR target, and so on) — computed by InstructionSet
	// since only it knows which operand bytes are addresses.
	Successors []BinaryAddr
}

// InstructionSet abstracts over a concrete 8-bit CPU's opcode table so the
// Tracer, Emitter and StringClassifier never hardcode 6502 — the seam
// SPEC_FULL.md §6 calls out as staying open for another target even though
// only 6502 ships concretely.
type InstructionSet interface {
	// Decode reads the instruction at binary address addr from mem and
	// returns its decoding. ok is false if the byte at addr is not a
	// valid opcode for this instruction set.
	Decode(mem *MemoryModel, addr BinaryAddr) (DecodedInstruction, bool)
	// Name identifies the instruction set for diagnostics ("6502").
	Name() string
}
