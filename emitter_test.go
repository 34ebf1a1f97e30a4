package disasm8

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitterRunByteAndWordRuns(t *testing.T) {
	ctx := NewContext(DefaultConfig(), NewInstructionSet6502())
	require.NoError(t, ctx.Memory.LoadBytes(0x1000, []byte{0x01, 0x02, 0x34, 0x12}, ""))
	require.NoError(t, ctx.Byte(0x1000, 2))
	require.NoError(t, ctx.Word(0x1002, 1))

	var buf bytes.Buffer
	require.NoError(t, NewEmitter(ctx, &buf, &BeebasmFormatter{Lower: false}).Run())

	out := buf.String()
	assert.Contains(t, out, "EQUB &01, &02")
	assert.Contains(t, out, "EQUW &1234")
}

func TestEmitterRunStringRun(t *testing.T) {
	ctx := NewContext(DefaultConfig(), NewInstructionSet6502())
	require.NoError(t, ctx.Memory.LoadBytes(0x1000, []byte("HI"), ""))
	require.NoError(t, ctx.String(0x1000, 2))

	var buf bytes.Buffer
	require.NoError(t, NewEmitter(ctx, &buf, &BeebasmFormatter{Lower: false}).Run())

	assert.Contains(t, buf.String(), `EQUS "HI"`)
}

func TestEmitterRunAnnotatesInstructionWithLabel(t *testing.T) {
	ctx := NewContext(DefaultConfig(), NewInstructionSet6502())
	require.NoError(t, ctx.Memory.LoadBytes(0x1000, []byte{0x4C, 0x00, 0x10}, "")) // JMP $1000
	require.NoError(t, ctx.Entry(0x1000, "loop"))
	require.NoError(t, ctx.Tracer.Run(ctx.Memory, ctx.ISet))

	var buf bytes.Buffer
	require.NoError(t, NewEmitter(ctx, &buf, &BeebasmFormatter{Lower: false}).Run())

	out := buf.String()
	assert.True(t, strings.Contains(out, ".loop"))
	assert.True(t, strings.Contains(out, "JMP loop"))
}

func TestEmitterForceAbsInstructionFallbackOnAcme(t *testing.T) {
	ctx := NewContext(DefaultConfig(), NewInstructionSet6502())
	// LDA $0010 encoded as absolute (3 bytes), operand fits in zero page.
	require.NoError(t, ctx.Memory.LoadBytes(0x1000, []byte{0xAD, 0x10, 0x00}, ""))
	require.NoError(t, ctx.Entry(0x1000, ""))
	require.NoError(t, ctx.Tracer.Run(ctx.Memory, ctx.ISet))

	var buf bytes.Buffer
	require.NoError(t, NewEmitter(ctx, &buf, &AcmeFormatter{Lower: false}).Run())

	out := buf.String()
	assert.Contains(t, out, "!byte")
	assert.Contains(t, out, "LDA")
}

func TestEmitterBeebasmNeverNeedsForceAbsFallback(t *testing.T) {
	ctx := NewContext(DefaultConfig(), NewInstructionSet6502())
	require.NoError(t, ctx.Memory.LoadBytes(0x1000, []byte{0xAD, 0x10, 0x00}, ""))
	require.NoError(t, ctx.Entry(0x1000, ""))
	require.NoError(t, ctx.Tracer.Run(ctx.Memory, ctx.ISet))

	var buf bytes.Buffer
	require.NoError(t, NewEmitter(ctx, &buf, &BeebasmFormatter{Lower: false}).Run())

	out := buf.String()
	assert.NotContains(t, out, "!byte")
	assert.Contains(t, out, "LDA")
}
