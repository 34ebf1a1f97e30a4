package disasm8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDFSImage(t *testing.T, title string, name string, dir byte, loadAddr, execAddr BinaryAddr, length int, startSect int) []byte {
	t.Helper()
	sector0 := make([]byte, dfsSectorSize)
	sector1 := make([]byte, dfsSectorSize)

	copy(sector0[0:8], title)
	copy(sector1[0:4], "")

	nameField := make([]byte, 8)
	copy(nameField, name)
	nameField[7] = dir
	copy(sector0[8:16], nameField)

	sector1[4] = 0 // cycle
	sector1[5] = 8 // one entry, 8 bytes
	sector1[6] = 0

	sector1[8+0] = byte(loadAddr)
	sector1[8+1] = byte(loadAddr >> 8)
	sector1[8+2] = byte(execAddr)
	sector1[8+3] = byte(execAddr >> 8)
	sector1[8+4] = byte(length)
	sector1[8+5] = byte(length >> 8)
	sector1[8+6] = 0
	sector1[8+7] = byte(startSect)

	data := append(append([]byte{}, sector0...), sector1...)
	payload := make([]byte, startSect*dfsSectorSize+length-len(data))
	if len(payload) > 0 {
		data = append(data, payload...)
	}
	for i := 0; i < length; i++ {
		data[startSect*dfsSectorSize+i] = byte(i)
	}
	return data
}

func TestParseDFSReadsTitleAndEntry(t *testing.T) {
	data := buildDFSImage(t, "MYDISK", "PROG", '$', 0x1900, 0x1900, 16, 2)

	img, err := ParseDFS(data)
	require.NoError(t, err)
	assert.Equal(t, "MYDISK", img.Title)
	require.Len(t, img.Entries, 1)
	assert.Equal(t, "PROG", img.Entries[0].Name)
	assert.EqualValues(t, 0x1900, img.Entries[0].LoadAddr)
	assert.Equal(t, 16, img.Entries[0].Length)
	assert.Equal(t, 2, img.Entries[0].StartSect)
}

func TestParseDFSTooShortFails(t *testing.T) {
	_, err := ParseDFS(make([]byte, 10))
	require.Error(t, err)
}

func TestExtractFromDFSReturnsExactBytes(t *testing.T) {
	data := buildDFSImage(t, "MYDISK", "PROG", '$', 0x1900, 0x1900, 8, 3)
	img, err := ParseDFS(data)
	require.NoError(t, err)

	bytes, err := ExtractFromDFS(data, img.Entries[0])
	require.NoError(t, err)
	require.Len(t, bytes, 8)
	assert.Equal(t, byte(0), bytes[0])
	assert.Equal(t, byte(7), bytes[7])
}

func TestCatalogEntryFullName(t *testing.T) {
	e := CatalogEntry{Name: "PROG", Dir: '$'}
	assert.Equal(t, "$.PROG", e.FullName())
}
