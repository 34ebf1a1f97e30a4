package disasm8

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryModelLoadBytesOverflowFails(t *testing.T) {
	m := NewMemoryModel()
	err := m.LoadBytes(BinaryAddr(0xFFFE), make([]byte, 4), "")
	require.Error(t, err)
	var fe *FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindInput, fe.Kind)
}

func TestMemoryModelLoadTwiceAtDisjointAddrsSucceeds(t *testing.T) {
	m := NewMemoryModel()
	require.NoError(t, m.LoadBytes(0x1000, []byte{1, 2, 3}, ""))
	require.NoError(t, m.LoadBytes(0x2000, []byte{4, 5, 6}, ""))

	ranges := m.LoadedRanges()
	require.Len(t, ranges, 2)
	assert.Equal(t, LoadedRange{Start: 0x1000, End: 0x1003}, ranges[0])
	assert.Equal(t, LoadedRange{Start: 0x2000, End: 0x2003}, ranges[1])
}

func TestMemoryModelLoadOverlappingRangeFails(t *testing.T) {
	m := NewMemoryModel()
	require.NoError(t, m.LoadBytes(0x1000, []byte{1, 2, 3, 4}, ""))
	err := m.LoadBytes(0x1002, []byte{5, 6}, "")
	require.Error(t, err)
	var fe *FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindContract, fe.Kind)
}

func TestMemoryModelLoadChecksMD5(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	sum := md5.Sum(data)

	m := NewMemoryModel()
	require.NoError(t, m.LoadBytes(0x1000, data, hex.EncodeToString(sum[:])))

	m2 := NewMemoryModel()
	err := m2.LoadBytes(0x1000, data, "00000000000000000000000000000000")
	require.Error(t, err)
}

func TestMemoryModelLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xA9, 0x41, 0x60}, 0644))

	m := NewMemoryModel()
	require.NoError(t, m.Load(0x2000, path, ""))
	assert.Equal(t, byte(0xA9), m.Byte(0x2000))
	assert.Equal(t, byte(0x60), m.Byte(0x2002))
}

func TestMemoryModelAddClassificationRejectsOverlap(t *testing.T) {
	m := NewMemoryModel()
	loc := BinaryLocation{Addr: 0x1000, MoveID: BaseMoveID}
	require.NoError(t, m.AddClassification(loc, &ByteRun{N: 1}))

	err := m.AddClassification(loc, &ByteRun{N: 1})
	require.Error(t, err)
	var fe *FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindContract, fe.Kind)
}

func TestMemoryModelWordIsLittleEndian(t *testing.T) {
	m := NewMemoryModel()
	require.NoError(t, m.LoadBytes(0, []byte{0x34, 0x12}, ""))
	assert.Equal(t, uint16(0x1234), m.Word(0))
}
