package disasm8

import "sort"

// MoveID identifies a relocation move. BaseMoveID (0) is always valid and
// denotes "no relocation in effect" — binary and runtime addresses coincide.
type MoveID int

// BaseMoveID is the implicit move every binary address belongs to before any
// explicit Move is registered.
const BaseMoveID MoveID = 0

// Move records that the byte range [BinaryStart, BinaryStart+Length) is
// relocated so that it executes starting at RuntimeStart — the pseudopc
// idiom used by beebasm/acme/xa's COPYBLOCK / !pseudopc / .pseudopc
// directives (py8dis movemanager.py: add_move).
type Move struct {
	ID          MoveID
	BinaryStart BinaryAddr
	Length      int
	RuntimeStart RuntimeAddr
}

func (m Move) binaryEnd() BinaryAddr {
	return m.BinaryStart + BinaryAddr(m.Length)
}

func (m Move) contains(b BinaryAddr) bool {
	return b >= m.BinaryStart && b < m.binaryEnd()
}

func (m Move) b2r(b BinaryAddr) RuntimeAddr {
	return m.RuntimeStart + RuntimeAddr(b-m.BinaryStart)
}

func (m Move) r2b(r RuntimeAddr) BinaryAddr {
	return m.BinaryStart + BinaryAddr(r-m.RuntimeStart)
}

// MoveManager tracks the set of registered Moves and the stack of move IDs
// currently "active" for nested relocated regions, following
// movemanager.py's active_move_ids stack exactly. The active stack is what
// lets a move nested inside another move's range resolve r2b ambiguity when
// more than one move's runtime range covers the same address: the
// innermost active move wins.
type MoveManager struct {
	moves         []Move
	nextID        MoveID
	activeMoveIDs []MoveID

	// moveIDForBinaryAddr is the total, deterministic ownership array
	// movemanager.py drives b2r from: moveIDForBinaryAddr[b] is the move
	// that "owns" binary address b, BaseMoveID until some AddMove claims
	// it. A later AddMove call "steals" any addresses its range overlaps
	// from an earlier move (movemanager.py: add_move's comment on
	// stealing sources) — last AddMove wins, independent of which move is
	// active.
	moveIDForBinaryAddr []MoveID
}

// NewMoveManager returns a MoveManager with only BaseMoveID registered.
func NewMoveManager() *MoveManager {
	return &MoveManager{nextID: BaseMoveID + 1, moveIDForBinaryAddr: make([]MoveID, MemSize+1)}
}

// AddMove registers a new move and returns its ID.
func (mm *MoveManager) AddMove(binaryStart BinaryAddr, length int, runtimeStart RuntimeAddr) MoveID {
	id := mm.nextID
	mm.nextID++
	m := Move{ID: id, BinaryStart: binaryStart, Length: length, RuntimeStart: runtimeStart}
	mm.moves = append(mm.moves, m)
	for a := binaryStart; a < m.binaryEnd(); a++ {
		mm.moveIDForBinaryAddr[a] = id
	}
	return id
}

// MoveIDForBinaryAddr returns the move that owns binary address b, per
// moveIDForBinaryAddr above.
func (mm *MoveManager) MoveIDForBinaryAddr(b BinaryAddr) MoveID {
	return mm.moveIDForBinaryAddr[b]
}

// IsValidMoveID reports whether id is BaseMoveID or a previously registered
// move.
func (mm *MoveManager) IsValidMoveID(id MoveID) bool {
	if id == BaseMoveID {
		return true
	}
	for _, m := range mm.moves {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (mm *MoveManager) moveByID(id MoveID) (Move, bool) {
	for _, m := range mm.moves {
		if m.ID == id {
			return m, true
		}
	}
	return Move{}, false
}

// Moved pushes id onto the active-move stack and returns a function that
// pops it. The idiomatic Go rendering of movemanager.py's
// @contextlib.contextmanager moved(): callers write
//
//	end := mm.Moved(id)
//	defer end()
func (mm *MoveManager) Moved(id MoveID) func() {
	mm.activeMoveIDs = append(mm.activeMoveIDs, id)
	return func() {
		mm.activeMoveIDs = mm.activeMoveIDs[:len(mm.activeMoveIDs)-1]
	}
}

// ActiveMoveID returns the innermost currently active move ID, or
// BaseMoveID if none is active.
func (mm *MoveManager) ActiveMoveID() MoveID {
	if len(mm.activeMoveIDs) == 0 {
		return BaseMoveID
	}
	return mm.activeMoveIDs[len(mm.activeMoveIDs)-1]
}

// B2R converts a binary address to a runtime address. b2r is total and
// deterministic: it is driven entirely by which move owns b
// (moveIDForBinaryAddr), never by the currently active move stack, so
// b2r(s+i) == d+i holds for every move regardless of what is active
// (movemanager.py: b2r, spec §3/§8).
func (mm *MoveManager) B2R(b BinaryAddr) RuntimeAddr {
	id := mm.MoveIDForBinaryAddr(b)
	if id == BaseMoveID {
		return RuntimeAddr(b)
	}
	m, ok := mm.moveByID(id)
	if !ok {
		return RuntimeAddr(b)
	}
	return m.b2r(b)
}

// MoveIDsForRuntimeAddr returns every real move (never BaseMoveID) whose
// runtime range covers r, ordered by MoveID (movemanager.py:
// move_ids_for_runtime_addr, which explicitly excludes base_move_id).
func (mm *MoveManager) MoveIDsForRuntimeAddr(r RuntimeAddr) []MoveID {
	var ids []MoveID
	for _, m := range mm.moves {
		lo := m.RuntimeStart
		hi := m.RuntimeStart + RuntimeAddr(m.Length)
		if r >= lo && r < hi {
			ids = append(ids, m.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// R2B converts a runtime address back to a binary address. With no
// covering move it is the identity BASE mapping; with exactly one covering
// move that move resolves it unambiguously; with several, the innermost
// active move that covers r wins; otherwise the mapping is ambiguous and
// ok is false (movemanager.py: r2b, which returns (None, None) in that
// case).
func (mm *MoveManager) R2B(r RuntimeAddr) (BinaryAddr, bool) {
	ids := mm.MoveIDsForRuntimeAddr(r)
	switch len(ids) {
	case 0:
		return BinaryAddr(r), true
	case 1:
		m, _ := mm.moveByID(ids[0])
		return m.r2b(r), true
	default:
		for i := len(mm.activeMoveIDs) - 1; i >= 0; i-- {
			active := mm.activeMoveIDs[i]
			for _, id := range ids {
				if id == active {
					m, _ := mm.moveByID(id)
					return m.r2b(r), true
				}
			}
		}
		return 0, false
	}
}

// BinaryLocation pairs a binary address with the move ID it should be
// interpreted under, the unit LabelManager and Classification key by.
type BinaryLocation struct {
	Addr   BinaryAddr
	MoveID MoveID
}
