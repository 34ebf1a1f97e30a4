package disasm8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSimpleName(t *testing.T) {
	assert.True(t, isSimpleName("loop1"))
	assert.True(t, isSimpleName("_foo"))
	assert.True(t, isSimpleName("+++"))
	assert.True(t, isSimpleName("--"))
	assert.False(t, isSimpleName("1foo"))
	assert.False(t, isSimpleName("table+4"))
	assert.False(t, isSimpleName(""))
}

func TestLabelAddExplicitNameRejectsDuplicate(t *testing.T) {
	l := NewLabel(0x1000)
	require.NoError(t, l.AddExplicitName(BaseMoveID, "start"))
	err := l.AddExplicitName(BaseMoveID, "start")
	require.Error(t, err)
}

func TestLabelAddExplicitNameRejectsNonSimpleName(t *testing.T) {
	l := NewLabel(0x1000)
	err := l.AddExplicitName(BaseMoveID, "table+4")
	require.Error(t, err)
}

func TestLabelAddExpressionRejectsSimpleName(t *testing.T) {
	l := NewLabel(0x1000)
	err := l.AddExpression(BaseMoveID, "start")
	require.Error(t, err)
}

func TestLabelManagerResolveReferenceSynthesizesCodeLabel(t *testing.T) {
	lm := NewLabelManager(32)
	loc := BinaryLocation{Addr: 0x3000, MoveID: BaseMoveID}
	name := lm.ResolveReference(0x4000, loc, true)
	assert.Equal(t, "c4000", name)
}

func TestLabelManagerResolveReferenceSynthesizesDataLabel(t *testing.T) {
	lm := NewLabelManager(32)
	loc := BinaryLocation{Addr: 0x3000, MoveID: BaseMoveID}
	name := lm.ResolveReference(0x4000, loc, false)
	assert.Equal(t, "l4000", name)
}

func TestLabelManagerPrefersExplicitName(t *testing.T) {
	lm := NewLabelManager(32)
	l := lm.GetOrCreateLabel(0x4000)
	require.NoError(t, l.AddExplicitName(BaseMoveID, "myroutine"))

	loc := BinaryLocation{Addr: 0x3000, MoveID: BaseMoveID}
	assert.Equal(t, "myroutine", lm.ResolveReference(0x4000, loc, true))
}

func TestLabelManagerSubPrefixWhenAllReferencesAreJSR(t *testing.T) {
	lm := NewLabelManager(32)
	lm.NoteReference(0x4000, 0x1000, true, false)
	lm.NoteReference(0x4000, 0x1010, true, false)

	loc := BinaryLocation{Addr: 0x1000, MoveID: BaseMoveID}
	assert.Equal(t, "sub_4000", lm.ResolveReference(0x4000, loc, true))
}

func TestLabelManagerLoopPrefixForSingleBackwardBranch(t *testing.T) {
	lm := NewLabelManager(32)
	lm.NoteReference(0x4000, 0x4010, false, true)

	loc := BinaryLocation{Addr: 0x4010, MoveID: BaseMoveID}
	assert.Equal(t, "loop_4000", lm.ResolveReference(0x4000, loc, true))
}

func TestLabelManagerOptionalLabelWins(t *testing.T) {
	lm := NewLabelManager(32)
	lm.AddOptionalLabel(0xFFEE, "OSWRCH", false)

	loc := BinaryLocation{Addr: 0x1000, MoveID: BaseMoveID}
	assert.Equal(t, "OSWRCH", lm.ResolveReference(0xFFEE, loc, true))
}

func TestLabelManagerLocalLabelScopedToRange(t *testing.T) {
	lm := NewLabelManager(32)
	l := lm.GetOrCreateLabel(0x4000)
	l.AddLocalLabel(BaseMoveID, 0x3000, 0x3100, "loop")

	inRange := BinaryLocation{Addr: 0x3050, MoveID: BaseMoveID}
	outOfRange := BinaryLocation{Addr: 0x5000, MoveID: BaseMoveID}

	assert.Equal(t, "loop", lm.ResolveReference(0x4000, inRange, true))
	assert.Equal(t, "c4000", lm.ResolveReference(0x4000, outOfRange, true))
}
