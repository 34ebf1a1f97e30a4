package disasm8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstructionSet6502DecodeImmediate(t *testing.T) {
	m := NewMemoryModel()
	require.NoError(t, m.LoadBytes(0x1000, []byte{0xA9, 0x41}, "")) // LDA #$41

	is := NewInstructionSet6502()
	di, ok := is.Decode(m, 0x1000)
	require.True(t, ok)
	assert.Equal(t, "LDA", di.Desc.Name)
	assert.Equal(t, ModeImmediate, di.Desc.Mode)
	assert.EqualValues(t, 0x41, di.Operand)
	assert.Equal(t, []BinaryAddr{0x1002}, di.Successors)
}

func TestInstructionSet6502DecodeJSRPushesTargetAndFallthrough(t *testing.T) {
	m := NewMemoryModel()
	require.NoError(t, m.LoadBytes(0x1000, []byte{0x20, 0x00, 0x20}, "")) // JSR $2000

	is := NewInstructionSet6502()
	di, ok := is.Decode(m, 0x1000)
	require.True(t, ok)
	assert.Equal(t, "JSR", di.Desc.Name)
	assert.ElementsMatch(t, []BinaryAddr{0x1003, 0x2000}, di.Successors)
}

func TestInstructionSet6502DecodeRTSHasNoSuccessors(t *testing.T) {
	m := NewMemoryModel()
	require.NoError(t, m.LoadBytes(0x1000, []byte{0x60}, "")) // RTS

	is := NewInstructionSet6502()
	di, ok := is.Decode(m, 0x1000)
	require.True(t, ok)
	assert.True(t, di.Desc.IsBlockEnd)
	assert.Empty(t, di.Successors)
}

func TestInstructionSet6502DecodeBranchComputesTarget(t *testing.T) {
	m := NewMemoryModel()
	// BNE -2 (branch back to itself)
	require.NoError(t, m.LoadBytes(0x1000, []byte{0xD0, 0xFE}, ""))

	is := NewInstructionSet6502()
	di, ok := is.Decode(m, 0x1000)
	require.True(t, ok)
	assert.EqualValues(t, 0x1000, di.Operand)
	assert.ElementsMatch(t, []BinaryAddr{0x1002, 0x1000}, di.Successors)
}

func TestInstructionSet6502DecodeInvalidOpcode(t *testing.T) {
	is := &InstructionSet6502{table: map[byte]OpcodeDesc{}}
	m := NewMemoryModel()
	require.NoError(t, m.LoadBytes(0, []byte{0xFF}, ""))

	_, ok := is.Decode(m, 0)
	assert.False(t, ok)
}

func TestWillAssembleIdenticallyZeroPageOperand(t *testing.T) {
	assert.False(t, willAssembleIdentically(ModeAbsolute, 0x0010))
	assert.True(t, willAssembleIdentically(ModeAbsolute, 0x1234))
	assert.True(t, willAssembleIdentically(ModeZeroPage, 0x0010))
}
