package disasm8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveManagerB2RIdentityUnderBaseMove(t *testing.T) {
	mm := NewMoveManager()
	assert.Equal(t, RuntimeAddr(0x1000), mm.B2R(BinaryAddr(0x1000)))
}

func TestMoveManagerB2RUnderActiveMove(t *testing.T) {
	mm := NewMoveManager()
	id := mm.AddMove(0x2000, 0x100, 0x8000)

	end := mm.Moved(id)
	defer end()

	assert.Equal(t, RuntimeAddr(0x8010), mm.B2R(BinaryAddr(0x2010)))
}

func TestMoveManagerMovedPopRestoresBaseMove(t *testing.T) {
	mm := NewMoveManager()
	id := mm.AddMove(0x2000, 0x100, 0x8000)

	end := mm.Moved(id)
	require.Equal(t, id, mm.ActiveMoveID())
	end()

	assert.Equal(t, BaseMoveID, mm.ActiveMoveID())
}

func TestMoveManagerR2BPrefersActiveMove(t *testing.T) {
	mm := NewMoveManager()
	id1 := mm.AddMove(0x2000, 0x100, 0x8000)
	id2 := mm.AddMove(0x3000, 0x100, 0x8000)

	end := mm.Moved(id2)
	defer end()

	b, ok := mm.R2B(0x8010)
	require.True(t, ok)
	assert.Equal(t, BinaryAddr(0x3010), b)
	assert.NotEqual(t, id1, id2)
}

func TestMoveManagerR2BAmbiguousWithoutActiveMoveFails(t *testing.T) {
	mm := NewMoveManager()
	mm.AddMove(0x2000, 0x100, 0x8000)
	mm.AddMove(0x3000, 0x100, 0x8000)

	_, ok := mm.R2B(0x8010)
	assert.False(t, ok)
}

func TestMoveManagerR2BSingleCoveringMoveResolvesWithoutActiveMove(t *testing.T) {
	mm := NewMoveManager()
	id := mm.AddMove(0x2000, 0x100, 0x8000)

	b, ok := mm.R2B(0x8010)
	require.True(t, ok)
	assert.Equal(t, BinaryAddr(0x2010), b)
	_ = id
}

func TestMoveManagerB2RIsTotalRegardlessOfActiveMove(t *testing.T) {
	mm := NewMoveManager()
	mm.AddMove(0x2000, 0x100, 0x8000)

	assert.Equal(t, RuntimeAddr(0x8010), mm.B2R(0x2010))
}

func TestMoveManagerAddMoveRecordsBinaryAddrOwnership(t *testing.T) {
	mm := NewMoveManager()
	id1 := mm.AddMove(0x1900, 10, 0x70)
	id2 := mm.AddMove(0x2000, 8, 0x70)

	assert.Equal(t, BaseMoveID, mm.MoveIDForBinaryAddr(0x70))
	assert.Equal(t, id1, mm.MoveIDForBinaryAddr(0x1900))
	assert.Equal(t, id2, mm.MoveIDForBinaryAddr(0x2000))
	assert.Equal(t, BaseMoveID, mm.MoveIDForBinaryAddr(0x2008))
}

func TestMoveManagerIsValidMoveID(t *testing.T) {
	mm := NewMoveManager()
	id := mm.AddMove(0x2000, 0x10, 0x8000)

	assert.True(t, mm.IsValidMoveID(BaseMoveID))
	assert.True(t, mm.IsValidMoveID(id))
	assert.False(t, mm.IsValidMoveID(id+100))
}

func TestMoveManagerMoveIDsForRuntimeAddr(t *testing.T) {
	mm := NewMoveManager()
	id := mm.AddMove(0x2000, 0x10, 0x8000)

	ids := mm.MoveIDsForRuntimeAddr(0x8005)
	assert.Equal(t, []MoveID{id}, ids)

	ids = mm.MoveIDsForRuntimeAddr(0x9000)
	assert.Empty(t, ids)
}
