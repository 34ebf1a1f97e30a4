package disasm8

import (
	"fmt"
	"strings"
)

const (
	dfsSectorSize  = 256
	dfsMaxCatEntries = 31
)

// CatalogEntry describes one file in an Acorn DFS catalog: its name,
// directory character, load/execution addresses, length, and starting
// sector. Kept and adapted from the teacher's bbcdisasm.go: Catalog.
type CatalogEntry struct {
	Name      string
	Dir       byte
	Locked    bool
	LoadAddr  BinaryAddr
	ExecAddr  BinaryAddr
	Length    int
	StartSect int
}

// DiskImage is a parsed Acorn DFS single-sided disk image: its title and
// catalog entries. Kept and adapted from the teacher's bbcdisasm.go:
// DiskImage/Catalog.
type DiskImage struct {
	Title   string
	BootOpt byte
	Cycle   byte
	Entries []CatalogEntry
	raw     []byte
}

// ParseDFS parses a raw DFS disk image (or the first two catalog sectors
// of one) into a DiskImage. Kept and adapted directly from the teacher's
// bbcdisasm.go: ParseDFS.
func ParseDFS(data []byte) (*DiskImage, error) {
	if len(data) < 2*dfsSectorSize {
		return nil, fatalf(KindInput, "DFS image too short: %d bytes", len(data))
	}
	sector0 := data[0:dfsSectorSize]
	sector1 := data[dfsSectorSize : 2*dfsSectorSize]

	titleLo := string(sector0[0:8])
	titleHi := string(sector1[0:4])
	title := strings.TrimRight(titleLo+titleHi, "\x00 ")

	numEntryBytes := sector1[5]
	numEntries := int(numEntryBytes) / 8
	if numEntries > dfsMaxCatEntries {
		return nil, fatalf(KindInput, "DFS catalog claims %d entries, max is %d", numEntries, dfsMaxCatEntries)
	}

	img := &DiskImage{
		Title:   title,
		BootOpt: (sector1[6] >> 4) & 0x3,
		Cycle:   sector1[4],
		raw:     data,
	}

	for i := 0; i < numEntries; i++ {
		nameOff := 8 + i*8
		infoOff := 8 + i*8
		name, dir, locked := readFilename(sector0[nameOff : nameOff+8])

		loadLo := uint16(sector1[infoOff])
		loadHi := uint16(sector1[infoOff+1])
		execLo := uint16(sector1[infoOff+2])
		execHi := uint16(sector1[infoOff+3])
		lengthLo := uint16(sector1[infoOff+4])
		lengthHi := uint16(sector1[infoOff+5])
		mixed := sector1[infoOff+6]
		startSectLo := sector1[infoOff+7]

		loadAddr := uint32(loadLo) | uint32(loadHi)<<8 | uint32(mixed&0x3)<<16
		execAddr := uint32(execLo) | uint32(execHi)<<8 | uint32((mixed>>2)&0x3)<<16
		length := uint32(lengthLo) | uint32(lengthHi)<<8 | uint32((mixed>>4)&0x3)<<16
		startSect := int(startSectLo) | int((mixed>>4)&0x3)<<8

		img.Entries = append(img.Entries, CatalogEntry{
			Name:      name,
			Dir:       dir,
			Locked:    locked,
			LoadAddr:  BinaryAddr(loadAddr),
			ExecAddr:  BinaryAddr(execAddr),
			Length:    int(length),
			StartSect: startSect,
		})
	}
	return img, nil
}

// readFilename decodes an 8-byte catalog filename field into its name,
// directory character, and locked flag (bit 7 of the directory byte
// marks "locked"; kept here matching the teacher's
// readFilename for the common case of a 7-char name + 1 directory byte).
func readFilename(field []byte) (name string, dir byte, locked bool) {
	nameBytes := field[0:7]
	dirByte := field[7]
	locked = dirByte&0x80 != 0
	dir = dirByte &^ 0x80
	var b strings.Builder
	for _, c := range nameBytes {
		if c == 0 || c == ' ' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String(), dir, locked
}

// ExtractFromDFS returns the raw bytes for entry, read from its starting
// sector in data. Kept and adapted from the teacher's
// cmd/bbcdisasm/main.go: extractFromDfs.
func ExtractFromDFS(data []byte, entry CatalogEntry) ([]byte, error) {
	offset := entry.StartSect * dfsSectorSize
	end := offset + entry.Length
	if end > len(data) {
		return nil, fatalf(KindInput, "catalog entry %s extends past end of image", entry.Name)
	}
	return data[offset:end], nil
}

// FullName renders "dir.name" the way the teacher's list command prints
// catalog entries ("$.PROGRAM").
func (c CatalogEntry) FullName() string {
	dir := c.Dir
	if dir == 0 {
		dir = '$'
	}
	return fmt.Sprintf("%c.%s", dir, c.Name)
}
