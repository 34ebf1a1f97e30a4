package disasm8

import "fmt"

// BinaryAddr is an offset into the loaded binary image, 0x0000-0xFFFF.
type BinaryAddr uint32

// RuntimeAddr is an address as observed during execution, 0x0000-0x10000.
// 0x10000 is permitted so that a label can mark the address just past the
// last byte of a range.
type RuntimeAddr uint32

const (
	// MemSize is the size of the addressable 8-bit CPU address space.
	MemSize = 0x10000
)

func (a BinaryAddr) valid() bool {
	return a <= MemSize
}

func (a RuntimeAddr) valid() bool {
	return a <= MemSize
}

func (a BinaryAddr) String() string {
	return fmt.Sprintf("binary:%04X", uint32(a))
}

func (a RuntimeAddr) String() string {
	return fmt.Sprintf("runtime:%04X", uint32(a))
}
