package disasm8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringClassifierTermZero(t *testing.T) {
	m := NewMemoryModel()
	require.NoError(t, m.LoadBytes(0, []byte("HELLO\x00"), ""))
	sc := NewStringClassifier(m)

	run, err := sc.Classify(0, TermZero, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, run.N)
}

func TestStringClassifierTermChar(t *testing.T) {
	m := NewMemoryModel()
	require.NoError(t, m.LoadBytes(0, []byte("HELLO."), ""))
	sc := NewStringClassifier(m)

	run, err := sc.Classify(0, TermChar, '.')
	require.NoError(t, err)
	assert.Equal(t, 6, run.N)
}

func TestStringClassifierTermHighBit(t *testing.T) {
	m := NewMemoryModel()
	require.NoError(t, m.LoadBytes(0, []byte{'H', 'I', 'O' | 0x80}, ""))
	sc := NewStringClassifier(m)

	run, err := sc.Classify(0, TermHighBit, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, run.N)
}

func TestStringClassifierLengthPrefixed(t *testing.T) {
	m := NewMemoryModel()
	require.NoError(t, m.LoadBytes(0, []byte{5, 'H', 'E', 'L', 'L', 'O'}, ""))
	sc := NewStringClassifier(m)

	run, err := sc.Classify(0, TermLengthPrefixed, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, run.N)
}

func TestStringClassifierAutoStringRejectsNonPrintable(t *testing.T) {
	m := NewMemoryModel()
	require.NoError(t, m.LoadBytes(0, []byte{0x01, 0x02, 0x00}, ""))
	sc := NewStringClassifier(m)

	_, ok := sc.AutoString(0, 16, 1)
	assert.False(t, ok)
}

func TestStringClassifierAutoStringAcceptsPrintableRun(t *testing.T) {
	m := NewMemoryModel()
	require.NoError(t, m.LoadBytes(0, []byte("HI\x00"), ""))
	sc := NewStringClassifier(m)

	run, ok := sc.AutoString(0, 16, 1)
	require.True(t, ok)
	assert.Equal(t, 3, run.N)
}
