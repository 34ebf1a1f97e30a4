package disasm8

// RegValue tracks a register's last-known value together with the binary
// address that last set it, so a later instruction (or JSR hook) can say
// "X was last loaded with an immediate value at this address" — grounded
// on trace6502.py's CpuState, whose a/x/y fields are [value, source_addr]
// pairs.
type RegValue struct {
	Value  byte
	Source BinaryAddr
	Known  bool
}

// CPUState is an abstract, optimistic straight-line snapshot of the 6502's
// registers and flags at one point in the trace. It is never used to
// resolve an indirect jump or decide a branch direction (that would make
// this an emulator, out of scope per SPEC_FULL.md §7) — it exists purely
// so AddSequenceHook callbacks can answer "what was last loaded into X".
// Cleared after every block-ending instruction, JSR and conditional branch,
// and whenever the Tracer skips an address it does not decode; it is not
// cleared at labels.
type CPUState struct {
	A, X, Y    RegValue
	N, V, D, I, Z, C bool
	FlagsKnown bool
}

// Reset clears all tracked register/flag knowledge, called by the Tracer
// after a block-ending instruction, a JSR or a conditional branch, and when
// it skips an address it does not decode.
func (cs *CPUState) Reset() {
	*cs = CPUState{}
}

// regByLetter returns the register named by r ('A', 'X' or 'Y') within cs,
// the small lookup the per-opcode UpdateState closures in opcodes6502.go
// are built around.
func regByLetter(cs *CPUState, r byte) *RegValue {
	switch r {
	case 'A':
		return &cs.A
	case 'X':
		return &cs.X
	case 'Y':
		return &cs.Y
	}
	return nil
}

func loadImmediate(reg *RegValue, val byte, addr BinaryAddr) {
	reg.Value = val
	reg.Source = addr
	reg.Known = true
}

func corruptRNZ(reg *RegValue) {
	reg.Known = false
}

func transfer(dst, src *RegValue) {
	*dst = *src
}

func updateFlagsNZ(cs *CPUState, val byte, known bool) {
	if !known {
		cs.N = false
		cs.Z = false
		cs.FlagsKnown = false
		return
	}
	cs.Z = val == 0
	cs.N = val&0x80 != 0
	cs.FlagsKnown = true
}
