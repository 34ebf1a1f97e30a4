package disasm8

// StringClassifier computes the length of a string run starting at a given
// binary address according to one of the terminator conventions, grounded
// directly on classification.py's stringterm/stringcr/stringz/string/
// stringhi/stringhiz/autostring family, plus spec §4.7's stringn addition
// (not present in the original).
type StringClassifier struct {
	mem *MemoryModel
}

// NewStringClassifier returns a StringClassifier reading from mem.
func NewStringClassifier(mem *MemoryModel) *StringClassifier {
	return &StringClassifier{mem: mem}
}

// Classify scans forward from addr and returns a StringRun covering the
// string, per term. The returned run's N includes the terminator byte for
// every terminator kind except TermExplicit and TermLengthPrefixed.
func (sc *StringClassifier) Classify(addr BinaryAddr, term StringTerminator, arg byte) (*StringRun, error) {
	switch term {
	case TermExplicit:
		return &StringRun{Term: term, N: int(arg)}, nil
	case TermLengthPrefixed:
		n := int(sc.mem.Byte(addr))
		return &StringRun{Term: term, N: n + 1}, nil
	case TermChar:
		n, err := sc.scanUntilByte(addr, arg)
		if err != nil {
			return nil, err
		}
		return &StringRun{Term: term, TermByte: arg, N: n}, nil
	case TermCR:
		n, err := sc.scanUntilByte(addr, 0x0D)
		if err != nil {
			return nil, err
		}
		return &StringRun{Term: term, TermByte: 0x0D, N: n}, nil
	case TermZero:
		n, err := sc.scanUntilByte(addr, 0x00)
		if err != nil {
			return nil, err
		}
		return &StringRun{Term: term, TermByte: 0x00, N: n}, nil
	case TermHighBit, TermHighBitZero:
		n, err := sc.scanUntilHighBit(addr, term == TermHighBitZero)
		if err != nil {
			return nil, err
		}
		return &StringRun{Term: term, N: n}, nil
	default:
		return nil, fatalf(KindContract, "unknown string terminator %d", term)
	}
}

func (sc *StringClassifier) scanUntilByte(addr BinaryAddr, term byte) (int, error) {
	for i := 0; int(addr)+i < MemSize; i++ {
		if sc.mem.Byte(addr+BinaryAddr(i)) == term {
			return i + 1, nil
		}
	}
	return 0, fatalf(KindInconsistency, "string starting at %s never terminates", addr)
}

func (sc *StringClassifier) scanUntilHighBit(addr BinaryAddr, alsoZeroLow7 bool) (int, error) {
	for i := 0; int(addr)+i < MemSize; i++ {
		b := sc.mem.Byte(addr + BinaryAddr(i))
		if b&0x80 != 0 {
			if alsoZeroLow7 && b&0x7F != 0 {
				continue
			}
			return i + 1, nil
		}
	}
	return 0, fatalf(KindInconsistency, "string starting at %s never terminates", addr)
}

// AutoString examines the single run starting at addr: printable ASCII
// bytes up to and including the first NUL, at most maxLen bytes. It
// returns a StringRun if that run is at least minLen bytes long, and false
// if a non-printable byte other than NUL comes first or the run is too
// short. It does not scan the rest of the image and does not check whether
// the bytes are already classified (classification.py: autostring /
// inline_nul_string_hook).
func (sc *StringClassifier) AutoString(addr BinaryAddr, maxLen int, minLen int) (*StringRun, bool) {
	n := 0
	for n < maxLen {
		b := sc.mem.Byte(addr + BinaryAddr(n))
		if b == 0x00 {
			n++
			break
		}
		if b < 0x20 || b > 0x7E {
			return nil, false
		}
		n++
	}
	if n < minLen {
		return nil, false
	}
	return &StringRun{Term: TermZero, TermByte: 0x00, N: n}, true
}
