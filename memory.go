package disasm8

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
)

// LoadedRange is one contiguous span of binary addresses populated by a
// single Load/LoadBytes call.
type LoadedRange struct {
	Start, End BinaryAddr
}

func (r LoadedRange) overlaps(o LoadedRange) bool {
	return r.Start < o.End && o.Start < r.End
}

// MemoryModel holds the loaded binary image plus the per-address
// classification slot array. Grounded on the teacher's flat
// `program []byte` in disassemble.go and py8dis's config.memory /
// disassembly.classifications globals, folded into one struct so a
// Context is re-entrant (SPEC_FULL.md §2). Unlike the teacher, a
// MemoryModel tracks a set of disjoint loaded ranges rather than one: a
// control file routinely issues several `load` commands at different
// addresses (main program, relocated overlay, DFS catalog entry, ...) and
// each must classify independently (spec §3/§4.1).
type MemoryModel struct {
	data            [MemSize]byte
	ranges          []LoadedRange
	classifications map[BinaryLocation]Classification
}

// NewMemoryModel returns an empty MemoryModel.
func NewMemoryModel() *MemoryModel {
	return &MemoryModel{classifications: make(map[BinaryLocation]Classification)}
}

// Load reads filename's full contents into memory starting at addr. It may
// be called any number of times as long as the resulting ranges stay
// disjoint (py8dis commands.py: load() dies on an overlapping load). If
// md5sum is non-empty the loaded bytes' md5 digest must match it.
func (m *MemoryModel) Load(addr BinaryAddr, filename string, md5sum string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fatalf(KindInput, "reading %s: %v", filename, err)
	}
	return m.LoadBytes(addr, data, md5sum)
}

// LoadBytes is Load without going through the filesystem, used by
// Context.LoadFromDFS to feed already-extracted DFS catalog entry bytes in
// at their catalog load address.
func (m *MemoryModel) LoadBytes(addr BinaryAddr, data []byte, md5sum string) error {
	end := int(addr) + len(data)
	if end > MemSize {
		return fatalf(KindInput, "load of %d bytes at %s would overflow memory", len(data), addr)
	}
	if md5sum != "" {
		sum := md5.Sum(data)
		if hex.EncodeToString(sum[:]) != md5sum {
			return fatalf(KindInput, "load() md5sum doesn't match")
		}
	}

	r := LoadedRange{Start: addr, End: BinaryAddr(end)}
	for _, existing := range m.ranges {
		if r.overlaps(existing) {
			return fatalf(KindContract, "load of %s at [%s,%s) overlaps existing loaded range [%s,%s)", addr, r.Start, r.End, existing.Start, existing.End)
		}
	}

	copy(m.data[int(addr):end], data)
	m.ranges = append(m.ranges, r)
	sort.Slice(m.ranges, func(i, j int) bool { return m.ranges[i].Start < m.ranges[j].Start })
	return nil
}

// LoadedRanges returns every disjoint range populated by Load/LoadBytes so
// far, in ascending address order.
func (m *MemoryModel) LoadedRanges() []LoadedRange {
	return append([]LoadedRange(nil), m.ranges...)
}

// Byte returns the byte at binary address addr.
func (m *MemoryModel) Byte(addr BinaryAddr) byte {
	return m.data[addr]
}

// Word returns the little-endian 16-bit word at binary address addr.
func (m *MemoryModel) Word(addr BinaryAddr) uint16 {
	return uint16(m.data[addr]) | uint16(m.data[addr+1])<<8
}

// IsClassified reports whether loc already has a Classification installed,
// per disassembly.py: is_classified.
func (m *MemoryModel) IsClassified(loc BinaryLocation) bool {
	_, ok := m.classifications[loc]
	return ok
}

// AddClassification installs c at loc. It is a contract violation to
// install a classification where one already exists without first removing
// it (disassembly.py: add_classification asserts not is_classified(...)).
func (m *MemoryModel) AddClassification(loc BinaryLocation, c Classification) error {
	if m.IsClassified(loc) {
		return fatalf(KindContract, "address %s already classified", loc.Addr)
	}
	m.classifications[loc] = c
	return nil
}

// GetClassification returns the Classification installed at loc, if any.
func (m *MemoryModel) GetClassification(loc BinaryLocation) (Classification, bool) {
	c, ok := m.classifications[loc]
	return c, ok
}

// RemoveClassification deletes any classification at loc, used when
// splitting a classification that straddles a move boundary.
func (m *MemoryModel) RemoveClassification(loc BinaryLocation) {
	delete(m.classifications, loc)
}

func (m *MemoryModel) String() string {
	return fmt.Sprintf("MemoryModel{ranges=%v}", m.ranges)
}
