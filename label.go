package disasm8

import (
	"fmt"
	"sort"
)

// isSimpleName reports whether name is a valid bare identifier, or one of
// acme's all-"+"/all-"-" local label spellings, per disassembly.py:
// is_simple_name.
func isSimpleName(name string) bool {
	if name == "" {
		return false
	}
	allPlus, allMinus := true, true
	for _, r := range name {
		if r != '+' {
			allPlus = false
		}
		if r != '-' {
			allMinus = false
		}
	}
	if allPlus || allMinus {
		return true
	}
	for i, r := range name {
		ok := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9')
		if !ok {
			return false
		}
	}
	return true
}

// Name is one candidate spelling for a Label, carrying whether it has
// already been emitted as a definition and its priority for inline-vs-
// explicit selection (lower priority value wins; default is "no
// preference", rendered here as a pointer so it can be nil).
type Name struct {
	Text     string
	Emitted  bool
	Priority *int
}

func (n *Name) priorityOrInf() float64 {
	if n.Priority == nil {
		return inf
	}
	return float64(*n.Priority)
}

const inf = 1e18

// Label is the full per-address naming record: explicit names and
// expressions registered per move ID, local labels with a binary-address
// visibility window, and the bookkeeping needed to decide inline vs.
// explicit emission. Grounded on label.py's Label class (the fuller,
// later draft — see DESIGN.md's Open Questions resolution).
type Label struct {
	BaseAddr BinaryAddr

	// ExplicitNames[moveID] is the append-only, insertion-ordered list of
	// names explicitly registered for this address under moveID.
	ExplicitNames map[MoveID][]*Name
	// LocalLabels[moveID] holds (binaryRangeStart, binaryRangeEnd, name)
	// triples: name is only valid for inline use by a reference whose
	// binary address falls in [start, end).
	LocalLabels map[MoveID][]localLabel
	// Expressions[moveID] are non-simple-name expression strings
	// (e.g. "table+4") usable at this address but never as an inline
	// definition.
	Expressions map[MoveID][]string

	// EmitOpportunities records every move ID for which the emitter has
	// actually walked code/data at this address. Names not defined inline
	// during the walk are defined explicitly afterwards, whatever their
	// move ID (Emitter.emitLabelDefinitions).
	EmitOpportunities map[MoveID]bool

	References []BinaryLocation

	DefinableInline bool
}

type localLabel struct {
	start, end BinaryAddr
	name       string
}

// NewLabel returns an empty Label at baseAddr, DefinableInline by default
// (commands.go:Label always creates with this true; nothing in the package
// sets it false).
func NewLabel(baseAddr BinaryAddr) *Label {
	return &Label{
		BaseAddr:          baseAddr,
		ExplicitNames:     make(map[MoveID][]*Name),
		LocalLabels:       make(map[MoveID][]localLabel),
		Expressions:       make(map[MoveID][]string),
		EmitOpportunities: make(map[MoveID]bool),
		DefinableInline:   true,
	}
}

// AddReference records that loc refers to this label.
func (l *Label) AddReference(loc BinaryLocation) {
	l.References = append(l.References, loc)
}

// AllNames returns every explicit name registered for this label across
// all move IDs, in move-ID then insertion order.
func (l *Label) AllNames() []string {
	var ids []MoveID
	for id := range l.ExplicitNames {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var out []string
	for _, id := range ids {
		for _, n := range l.ExplicitNames[id] {
			out = append(out, n.Text)
		}
	}
	return out
}

// AddExplicitName registers name under moveID. It is a contract violation
// for name to already be registered anywhere on this label, or for name
// not to be a simple identifier (label.py: add_explicit_name).
func (l *Label) AddExplicitName(moveID MoveID, name string) error {
	if !isSimpleName(name) {
		return fatalf(KindContract, "label name %q is not a simple name", name)
	}
	for _, existing := range l.AllNames() {
		if existing == name {
			return fatalf(KindContract, "label name %q already registered", name)
		}
	}
	l.ExplicitNames[moveID] = append(l.ExplicitNames[moveID], &Name{Text: name})
	return nil
}

// AddLocalLabel registers name as valid only for references whose binary
// address is in [start, end), under moveID.
func (l *Label) AddLocalLabel(moveID MoveID, start, end BinaryAddr, name string) {
	l.LocalLabels[moveID] = append(l.LocalLabels[moveID], localLabel{start: start, end: end, name: name})
}

// AddExpression registers a non-simple-name expression under moveID. It is
// a contract violation for s to actually be a simple name (label.py:
// add_expression asserts NOT is_simple_name).
func (l *Label) AddExpression(moveID MoveID, s string) error {
	if isSimpleName(s) {
		return fatalf(KindContract, "expression %q is a simple name, use AddExplicitName", s)
	}
	l.Expressions[moveID] = append(l.Expressions[moveID], s)
	return nil
}

// NotifyEmitOpportunity records that the emitter walked this label's
// address under moveID.
func (l *Label) NotifyEmitOpportunity(moveID MoveID) {
	l.EmitOpportunities[moveID] = true
}

// localNameFor returns a local label name usable for a reference at
// refAddr under moveID, if one is in scope.
func (l *Label) localNameFor(moveID MoveID, refAddr BinaryAddr) (string, bool) {
	for _, ll := range l.LocalLabels[moveID] {
		if refAddr >= ll.start && refAddr < ll.end {
			return ll.name, true
		}
	}
	return "", false
}

// bestExplicitName returns the highest-priority (lowest Priority value,
// ties broken by insertion order) explicit name registered under moveID,
// if any — label.py's collate_explicit_names_for_move_id ordering.
func (l *Label) bestExplicitName(moveID MoveID) (string, bool) {
	names := l.ExplicitNames[moveID]
	if len(names) == 0 {
		return "", false
	}
	best := names[0]
	for _, n := range names[1:] {
		if n.priorityOrInf() < best.priorityOrInf() {
			best = n
		}
	}
	return best.Text, true
}

// registerSynthesizedName records name as an explicit BaseMoveID name for
// l, unless an explicit name under any move ID already spells this label
// that way — the memoization step of get_final_label: once a
// reference resolves to a name, every later resolution of the same target
// must return the identical name.
func (l *Label) registerSynthesizedName(name string) {
	for _, existing := range l.AllNames() {
		if existing == name {
			return
		}
	}
	l.ExplicitNames[BaseMoveID] = append(l.ExplicitNames[BaseMoveID], &Name{Text: name})
}

// DefinitionStrings returns the explicit-name definition lines this label
// still owes for moveID — every registered name not yet marked Emitted —
// marking them Emitted as a side effect, per label.py:
// explicit_definition_string_list.
func (l *Label) DefinitionStrings(moveID MoveID, f Formatter) []string {
	names := l.ExplicitNames[moveID]
	var pending []*Name
	for _, n := range names {
		if !n.Emitted {
			pending = append(pending, n)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Text < pending[j].Text })
	var out []string
	for _, n := range pending {
		out = append(out, f.ExplicitLabel(n.Text, l.BaseAddr))
		n.Emitted = true
	}
	return out
}

// LowestEmitOpportunity returns the lowest move ID that has ever had an
// emit opportunity notified.
func (l *Label) LowestEmitOpportunity() (MoveID, bool) {
	var ids []MoveID
	for id, ok := range l.EmitOpportunities {
		if ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, false
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids[0], true
}

// HasUnemittedNames reports whether any move ID still has a pending
// (unemitted) explicit name.
func (l *Label) HasUnemittedNames() bool {
	for _, names := range l.ExplicitNames {
		for _, n := range names {
			if !n.Emitted {
				return true
			}
		}
	}
	return false
}

// OptionalLabel is a name suggested for an address but only actually used
// (and defined) if something ends up referencing that address, per
// optionallabel.py.
type OptionalLabel struct {
	Name            string
	BaseAddr        BinaryAddr
	DefinableInline bool
}

// Constant is a named value with no associated address, registered via
// Context.Constant / commands.py: constant().
type Constant struct {
	Name  string
	Value int
}

// Annotation is a free-text comment attached to a binary address,
// registered via Context.Comment / commands.py: comment().
type Annotation struct {
	Addr BinaryAddr
	Text string
}

// LabelManager owns every Label, OptionalLabel, Constant and Annotation in
// a Context, and implements the our_label_maker/label_maker resolution
// algorithm from disassembly.py.
type LabelManager struct {
	labels         map[BinaryAddr]*Label
	optionalLabels map[BinaryAddr]*OptionalLabel
	constants      []*Constant
	annotations    map[BinaryAddr][]*Annotation

	// refKinds[addr] records, for each reference ever registered at addr,
	// whether it came from a JSR (used by the sub_ naming heuristic) and
	// whether it was a backward conditional branch within LoopLimit bytes
	// (used by the loop_ naming heuristic).
	refKinds map[BinaryAddr]refKindSet

	loopLimit int

	// hook, if set, is consulted by labelMaker for every name it is about
	// to synthesize and may override the suggestion — disassembly.py:
	// user_label_maker_hook / set_user_label_maker_hook.
	hook LabelMakerHook
}

// LabelMakerHook lets caller code override the name ourLabelMaker would
// otherwise synthesize for addr. Returning ok=false leaves the suggestion
// untouched.
type LabelMakerHook func(addr BinaryAddr, isCode bool, suggestion string) (name string, ok bool)

type refKindSet struct {
	allJSR          bool
	anyRef          bool
	backwardInLoop  bool
	total           int
}

// NewLabelManager returns an empty LabelManager. loopLimit mirrors
// config.py's _loop_limit (default 32).
func NewLabelManager(loopLimit int) *LabelManager {
	return &LabelManager{
		labels:         make(map[BinaryAddr]*Label),
		optionalLabels: make(map[BinaryAddr]*OptionalLabel),
		annotations:    make(map[BinaryAddr][]*Annotation),
		refKinds:       make(map[BinaryAddr]refKindSet),
		loopLimit:      loopLimit,
	}
}

// GetOrCreateLabel returns the Label at addr, creating it if necessary.
func (lm *LabelManager) GetOrCreateLabel(addr BinaryAddr) *Label {
	l, ok := lm.labels[addr]
	if !ok {
		l = NewLabel(addr)
		lm.labels[addr] = l
	}
	return l
}

// Label returns the Label at addr if one has been created.
func (lm *LabelManager) Label(addr BinaryAddr) (*Label, bool) {
	l, ok := lm.labels[addr]
	return l, ok
}

// AddOptionalLabel registers name as the preferred synthesized name for
// addr, only materializing if something references addr.
func (lm *LabelManager) AddOptionalLabel(addr BinaryAddr, name string, definableInline bool) {
	lm.optionalLabels[addr] = &OptionalLabel{Name: name, BaseAddr: addr, DefinableInline: definableInline}
}

// AddConstant registers a named constant.
func (lm *LabelManager) AddConstant(name string, value int) {
	lm.constants = append(lm.constants, &Constant{Name: name, Value: value})
}

// SetLabelMakerHook installs hook to be consulted by every future
// ResolveReference call that needs to synthesize a name.
func (lm *LabelManager) SetLabelMakerHook(hook LabelMakerHook) {
	lm.hook = hook
}

// AddAnnotation attaches a comment at addr.
func (lm *LabelManager) AddAnnotation(addr BinaryAddr, text string) {
	lm.annotations[addr] = append(lm.annotations[addr], &Annotation{Addr: addr, Text: text})
}

// AnnotationsAt returns the annotations attached to addr, in
// registration order.
func (lm *LabelManager) AnnotationsAt(addr BinaryAddr) []*Annotation {
	return lm.annotations[addr]
}

// NoteReference records that target is referenced from source, of kind
// isJSR, and whether it is a backward conditional branch within loopLimit
// bytes — feeding our_label_maker's sub_/loop_ heuristics.
func (lm *LabelManager) NoteReference(target, source BinaryAddr, isJSR, isConditionalBranch bool) {
	rk := lm.refKinds[target]
	if rk.total == 0 {
		rk.allJSR = isJSR
	} else if !isJSR {
		rk.allJSR = false
	}
	rk.total++
	rk.anyRef = true
	if isConditionalBranch && source > target && int(source-target) <= lm.loopLimit && rk.total == 1 {
		rk.backwardInLoop = true
	}
	lm.refKinds[target] = rk
}

// ourLabelMaker implements disassembly.py's our_label_maker: the
// registered OptionalLabel wins if one exists, else a synthesized
// l%04x/c%04x, with a sub_ prefix if every known reference is a JSR and a
// loop_ prefix if there is exactly one backward conditional-branch
// reference within LoopLimit bytes. Explicit names are handled by
// ResolveReference before this is ever reached.
func (lm *LabelManager) ourLabelMaker(addr BinaryAddr, isCode bool) string {
	if ol, ok := lm.optionalLabels[addr]; ok {
		return ol.Name
	}
	rk := lm.refKinds[addr]
	prefix := "l"
	if isCode {
		prefix = "c"
	}
	if rk.total > 0 && rk.allJSR {
		return fmt.Sprintf("sub_%04x", uint32(addr))
	}
	if rk.total == 1 && rk.backwardInLoop {
		return fmt.Sprintf("loop_%04x", uint32(addr))
	}
	return fmt.Sprintf("%s%04x", prefix, uint32(addr))
}

// labelMaker is disassembly.py's label_maker: ourLabelMaker's suggestion,
// overridable by the installed LabelMakerHook.
func (lm *LabelManager) labelMaker(addr BinaryAddr, isCode bool) string {
	suggestion := lm.ourLabelMaker(addr, isCode)
	if lm.hook != nil {
		if name, ok := lm.hook(addr, isCode, suggestion); ok {
			return name
		}
	}
	return suggestion
}

// ResolveReference returns the name to use when formatting a reference
// from refLoc to target, implementing spec §4.6 steps 2-10
// (label.py/disassembly.py: label_maker / get_final_label):
//  1. a local label in scope for refLoc wins outright;
//  2. else an explicit name registered for refLoc's own move ID;
//  3. else an explicit name registered for the BASE move, so a name given
//     without reference to any particular move is visible everywhere;
//  4. else labelMaker synthesizes one (optional label, hook override, or
//     our_label_maker's l/c/sub_/loop_ default), which is then memoized as
//     a BASE explicit name so every later resolution of the same target
//     returns the identical string (get_final_label's add_explicit_name
//     call, which is itself idempotent).
func (lm *LabelManager) ResolveReference(target BinaryAddr, refLoc BinaryLocation, isCode bool) string {
	l := lm.GetOrCreateLabel(target)

	if name, ok := l.localNameFor(refLoc.MoveID, refLoc.Addr); ok {
		return name
	}
	if name, ok := l.bestExplicitName(refLoc.MoveID); ok {
		return name
	}
	if refLoc.MoveID != BaseMoveID {
		if name, ok := l.bestExplicitName(BaseMoveID); ok {
			return name
		}
	}

	name := lm.labelMaker(target, isCode)
	l.registerSynthesizedName(name)
	return name
}

// ConstantName returns the name of the first registered Constant equal to
// value, if any, so an immediate operand matching a known constant can
// render as that name instead of a raw hex literal (spec §8 scenario 4).
func (lm *LabelManager) ConstantName(value int) (string, bool) {
	for _, c := range lm.constants {
		if c.Value == value {
			return c.Name, true
		}
	}
	return "", false
}

// SortedConstants returns the constants sorted by name for deterministic
// output. Names compare byte-wise, so runs of digits are not ordered
// numerically; constants with equal names keep their declaration order.
func (lm *LabelManager) SortedConstants() []*Constant {
	out := append([]*Constant(nil), lm.constants...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AllLabelAddrs returns every binary address that has a Label record, in
// ascending order.
func (lm *LabelManager) AllLabelAddrs() []BinaryAddr {
	var out []BinaryAddr
	for a := range lm.labels {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FindMaxExplicitNameLength returns the longest explicit name length over
// all labels, used by Emitter to align "=" in explicit definitions
// (label.py: find_max_explicit_name_length).
func (lm *LabelManager) FindMaxExplicitNameLength() int {
	max := 0
	for _, l := range lm.labels {
		for _, names := range l.ExplicitNames {
			for _, n := range names {
				if len(n.Text) > max {
					max = len(n.Text)
				}
			}
		}
	}
	return max
}

// AutogeneratedLabelListing returns a sorted "addr: name" listing of every
// label that was never given an explicit name, for the
// ShowAutogeneratedLabels banner (disassembly.py: emit()'s trailing
// listing).
func (lm *LabelManager) AutogeneratedLabelListing(isCode func(BinaryAddr) bool) []string {
	var lines []string
	for _, addr := range lm.AllLabelAddrs() {
		l := lm.labels[addr]
		if len(l.AllNames()) > 0 {
			continue
		}
		name := lm.ourLabelMaker(addr, isCode(addr))
		lines = append(lines, fmt.Sprintf("%04X: %s", uint32(addr), name))
	}
	return lines
}

// ReferenceHistogram returns, for diagnostics, the length of each label's
// References, in descending-count order (disassembly.py: emit()'s
// reference histogram). References grows only through Label.AddReference;
// the Tracer records references with NoteReference instead, so after a
// trace every count is zero unless AddReference was called directly.
func (lm *LabelManager) ReferenceHistogram() []string {
	type row struct {
		addr  BinaryAddr
		count int
	}
	var rows []row
	for addr, l := range lm.labels {
		rows = append(rows, row{addr, len(l.References)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].addr < rows[j].addr
	})
	var lines []string
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%04X: %d references", uint32(r.addr), r.count))
	}
	return lines
}
