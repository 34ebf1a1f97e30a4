package disasm8

// Config mirrors py8dis's config.py module-level settings as plain struct
// fields, per SPEC_FULL.md §2 — the one structural departure from the
// original's globals, letting a Context be re-entrant.
type Config struct {
	LowerCase              bool
	HexDump                bool
	LabelReferences        bool
	InlineCommentColumn    int
	WordWrapCommentColumn  int
	IndentString           string
	HexDumpMaxBytes        int
	HexDumpShowASCII       bool
	IndentLoops            bool
	BlankLineAtBlockEnd    bool
	LoopLimit              int
	ShowCPUState           bool
	ShowAutogeneratedLabels bool
	ShowCharLiterals       bool
	ShowAllLabels          bool
	ConstantsAreDecimal    bool
	ShowCycles             bool
	SubroutineHeader       string
	SubroutineFooter       string
}

// DefaultConfig returns a Config with py8dis's config.py defaults.
func DefaultConfig() Config {
	return Config{
		LowerCase:               true,
		InlineCommentColumn:     70,
		WordWrapCommentColumn:   87,
		IndentString:            "  ",
		HexDumpMaxBytes:         3,
		BlankLineAtBlockEnd:     true,
		LoopLimit:               32,
		ShowAutogeneratedLabels: true,
		ShowCharLiterals:        true,
		ConstantsAreDecimal:     true,
	}
}

// Context is a single, self-contained disassembly analysis: its own
// memory, labels, moves, instruction set and tracer, so multiple analyses
// can run concurrently in the same process without sharing state —
// replacing py8dis's module-level globals (spec §9 DESIGN NOTES).
type Context struct {
	Config Config
	Memory *MemoryModel
	Labels *LabelManager
	Moves  *MoveManager
	Tracer *Tracer
	ISet   InstructionSet

	Diagnostics []Diagnostic
	asserts     []string

	entries []BinaryLocation
}

// NewContext returns a Context configured with cfg, ready for Load.
func NewContext(cfg Config, iset InstructionSet) *Context {
	ctx := &Context{
		Config: cfg,
		Memory: NewMemoryModel(),
		Moves:  NewMoveManager(),
		ISet:   iset,
	}
	ctx.Labels = NewLabelManager(cfg.LoopLimit)
	ctx.Tracer = NewTracer(ctx)
	return ctx
}
