package disasm8

// JSRHook is called whenever the Tracer decodes a JSR to targetRuntime
// from callerRuntime. Returning a non-nil address overrides where the
// Tracer should resume tracing after the call returns (nil means "resume
// at the instruction after the JSR", the normal case) — grounded on
// trace6502.py's jsr_hooks / hook_subroutine.
type JSRHook func(ctx *Context, targetRuntime, callerRuntime RuntimeAddr) *RuntimeAddr

// SequenceHook is called after decoding each instruction, given the
// abstract CPUState snapshot immediately before it executed, so a hook can
// recognize a pattern like "LDX #n ; JSR OSBYTE" and annotate the call
// site. Grounded on trace6502.py's subroutine_argument_finder.
type SequenceHook func(ctx *Context, loc BinaryLocation, di DecodedInstruction, cpu CPUState)

// Tracer performs the worklist-driven control-flow walk described in
// spec.md §4.4, generalized from the teacher's single-pass
// findBranchTargets/Disassemble loop (disassemble.go).
type Tracer struct {
	ctx          *Context
	worklist     []BinaryLocation
	explored     map[BinaryLocation]bool
	jsrHooks     map[BinaryAddr]JSRHook
	sequenceHooks []SequenceHook

	// CPUStateOptimistic snapshots the abstract CPU state immediately
	// before the instruction at each explored location. It is recorded as
	// Run decodes each instruction; there is no separate post-trace pass.
	CPUStateOptimistic map[BinaryLocation]CPUState
}

// NewTracer returns a Tracer operating against ctx.
func NewTracer(ctx *Context) *Tracer {
	return &Tracer{
		ctx:                ctx,
		explored:           make(map[BinaryLocation]bool),
		jsrHooks:           make(map[BinaryAddr]JSRHook),
		CPUStateOptimistic: make(map[BinaryLocation]CPUState),
	}
}

// AddEntry seeds the worklist with a starting address to trace as code.
func (t *Tracer) AddEntry(loc BinaryLocation) {
	t.worklist = append(t.worklist, loc)
}

// AddJSRHook registers hook to run whenever a JSR to target is decoded.
func (t *Tracer) AddJSRHook(target BinaryAddr, hook JSRHook) {
	t.jsrHooks[target] = hook
}

// AddSequenceHook registers hook to run after every instruction decode.
func (t *Tracer) AddSequenceHook(hook SequenceHook) {
	t.sequenceHooks = append(t.sequenceHooks, hook)
}

func (t *Tracer) markExplored(loc BinaryLocation) bool {
	if t.explored[loc] {
		return false
	}
	t.explored[loc] = true
	return true
}

// Run drains the worklist, decoding instructions via is and installing
// Instruction classifications into mem, until no more addresses remain to
// explore. Grounded on disassembly_range walking in disassembly.py and the
// teacher's findBranchTargets loop.
func (t *Tracer) Run(mem *MemoryModel, is InstructionSet) error {
	var cpu CPUState
	for len(t.worklist) > 0 {
		loc := t.worklist[len(t.worklist)-1]
		t.worklist = t.worklist[:len(t.worklist)-1]

		if !t.markExplored(loc) {
			cpu.Reset()
			continue
		}
		if mem.IsClassified(loc) {
			// Overlap: something else already classified this address.
			// Non-fatal per spec — recorded as a diagnostic and this
			// branch of the trace simply stops here.
			t.ctx.Diagnostics = append(t.ctx.Diagnostics, Diagnostic{
				Addr: RuntimeAddr(loc.Addr),
				Msg:  "control flow reached an already-classified address; trace stopped",
			})
			cpu.Reset()
			continue
		}

		di, ok := is.Decode(mem, loc.Addr)
		if !ok {
			t.ctx.Diagnostics = append(t.ctx.Diagnostics, Diagnostic{
				Addr: RuntimeAddr(loc.Addr),
				Msg:  "invalid opcode encountered while tracing; trace stopped",
			})
			cpu.Reset()
			continue
		}

		t.CPUStateOptimistic[loc] = cpu
		for _, h := range t.sequenceHooks {
			h(t.ctx, loc, di, cpu)
		}

		inst := &instructionClassification{desc: di.Desc, operand: di.Operand, haveOperand: di.HaveOperand}
		if err := mem.AddClassification(loc, inst); err != nil {
			return err
		}

		isJSR := di.Desc.Mode == ModeJsr
		isBranch := di.Desc.Mode == ModeRelative
		for i, succ := range di.Successors {
			succLoc := BinaryLocation{Addr: succ, MoveID: loc.MoveID}
			// Only the operand target is a reference; a fall-through
			// successor is not.
			if (di.Desc.Mode == ModeJmpAbs || isJSR || isBranch) && succ == BinaryAddr(di.Operand) {
				t.ctx.Labels.NoteReference(succ, loc.Addr, isJSR, isBranch && succ < loc.Addr)
			}
			// Successors[0] of a JSR is its fall-through; a hook registered
			// for the called address may replace it.
			if isJSR && i == 0 {
				target := BinaryAddr(di.Operand)
				if hook, ok := t.jsrHooks[target]; ok {
					if override := hook(t.ctx, RuntimeAddr(target), RuntimeAddr(loc.Addr)); override != nil {
						t.worklist = append(t.worklist, BinaryLocation{Addr: BinaryAddr(*override), MoveID: loc.MoveID})
						continue
					}
				}
			}
			t.worklist = append(t.worklist, succLoc)
		}

		if di.Desc.IsBlockEnd || isBranch || isJSR {
			cpu.Reset()
		} else if di.Desc.UpdateState != nil {
			di.Desc.UpdateState(&cpu, loc.Addr, di.Operand, di.HaveOperand)
		}
	}
	return nil
}

// instructionClassification is the Classification implementation for a
// decoded instruction, the fourth Classification variant named in
// spec.md §4.2 alongside ByteRun/WordRun/StringRun.
type instructionClassification struct {
	desc        OpcodeDesc
	operand     uint16
	haveOperand bool
}

func (i *instructionClassification) Length() int {
	if i.desc.Length > 0 {
		return i.desc.Length
	}
	return modeLength(i.desc.Mode)
}

func (i *instructionClassification) IsCode() bool { return true }

func (i *instructionClassification) Emit(e *Emitter, loc BinaryLocation) error {
	return e.emitInstruction(i, loc)
}
