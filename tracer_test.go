package disasm8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracerRunClassifiesStraightLineCode(t *testing.T) {
	ctx := NewContext(DefaultConfig(), NewInstructionSet6502())
	// LDA #$41 ; JSR $2000 ; RTS
	require.NoError(t, ctx.Memory.LoadBytes(0x1000, []byte{0xA9, 0x41, 0x20, 0x00, 0x20, 0x60}, ""))
	require.NoError(t, ctx.Entry(0x1000, "start"))

	require.NoError(t, ctx.Tracer.Run(ctx.Memory, ctx.ISet))

	loc := BinaryLocation{Addr: 0x1000, MoveID: BaseMoveID}
	c, ok := ctx.Memory.GetClassification(loc)
	require.True(t, ok)
	assert.Equal(t, 2, c.Length())
	assert.True(t, c.IsCode())

	jsrLoc := BinaryLocation{Addr: 0x1002, MoveID: BaseMoveID}
	c, ok = ctx.Memory.GetClassification(jsrLoc)
	require.True(t, ok)
	assert.Equal(t, 3, c.Length())

	rtsLoc := BinaryLocation{Addr: 0x1005, MoveID: BaseMoveID}
	c, ok = ctx.Memory.GetClassification(rtsLoc)
	require.True(t, ok)
	assert.Equal(t, 1, c.Length())
}

func TestTracerOverlapProducesDiagnosticNotError(t *testing.T) {
	ctx := NewContext(DefaultConfig(), NewInstructionSet6502())
	require.NoError(t, ctx.Memory.LoadBytes(0x1000, []byte{0xA9, 0x41, 0x60}, ""))

	loc := BinaryLocation{Addr: 0x1000, MoveID: BaseMoveID}
	require.NoError(t, ctx.Memory.AddClassification(loc, &ByteRun{N: 1}))

	require.NoError(t, ctx.Entry(0x1000, ""))
	require.NoError(t, ctx.Tracer.Run(ctx.Memory, ctx.ISet))

	require.Len(t, ctx.Diagnostics, 1)
}

func TestTracerJSRHookCanRedirectResumeAddress(t *testing.T) {
	ctx := NewContext(DefaultConfig(), NewInstructionSet6502())
	require.NoError(t, ctx.Memory.LoadBytes(0x1000, []byte{0x20, 0x00, 0x20}, "")) // JSR $2000
	require.NoError(t, ctx.Memory.LoadBytes(0x3000, []byte{0x60}, ""))             // RTS, alt resume point

	var calledWith RuntimeAddr
	override := RuntimeAddr(0x3000)
	require.NoError(t, ctx.HookSubroutine(0x2000, "myhook", func(c *Context, target, caller RuntimeAddr) *RuntimeAddr {
		calledWith = target
		return &override
	}))
	require.NoError(t, ctx.Entry(0x1000, ""))
	require.NoError(t, ctx.Tracer.Run(ctx.Memory, ctx.ISet))

	assert.EqualValues(t, 0x2000, calledWith)
	loc := BinaryLocation{Addr: 0x3000, MoveID: BaseMoveID}
	_, ok := ctx.Memory.GetClassification(loc)
	assert.True(t, ok)
}

func TestTracerSequenceHookObservesCPUState(t *testing.T) {
	ctx := NewContext(DefaultConfig(), NewInstructionSet6502())
	require.NoError(t, ctx.Memory.LoadBytes(0x1000, []byte{0xA9, 0x41, 0x60}, ""))

	var sawLoc BinaryLocation
	ctx.AddSequenceHook(func(c *Context, loc BinaryLocation, di DecodedInstruction, cpu CPUState) {
		if di.Desc.Name == "RTS" {
			sawLoc = loc
		}
	})
	require.NoError(t, ctx.Entry(0x1000, ""))
	require.NoError(t, ctx.Tracer.Run(ctx.Memory, ctx.ISet))

	assert.EqualValues(t, 0x1002, sawLoc.Addr)
}
