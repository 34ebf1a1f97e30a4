package disasm8

import "fmt"

// BeebasmFormatter renders beebasm syntax, grounded directly on
// beebasm.py and the teacher's inline disassemble.go formatting (the
// teacher never went through a Formatter interface, but its hardcoded
// "&XXXX" hex, backslash comment prefix, and EQUB/EQUW spellings are
// exactly beebasm's).
type BeebasmFormatter struct {
	Lower bool
}

func (f *BeebasmFormatter) caseOf(s string) string {
	if f.Lower {
		return toLower(s)
	}
	return s
}

func (f *BeebasmFormatter) Hex2(v byte) string  { return f.caseOf(fmt.Sprintf("&%02X", v)) }
func (f *BeebasmFormatter) Hex4(v uint16) string { return f.caseOf(fmt.Sprintf("&%04X", v)) }
func (f *BeebasmFormatter) Hex(v uint16) string {
	if v > 0xFF {
		return f.Hex4(v)
	}
	return f.Hex2(byte(v))
}

func (f *BeebasmFormatter) InlineLabel(name string) string { return "." + name }

func (f *BeebasmFormatter) ExplicitLabel(name string, addr BinaryAddr) string {
	return fmt.Sprintf("%s = %s", name, f.Hex4(uint16(addr)))
}

func (f *BeebasmFormatter) CommentPrefix() string { return "\\" }

func (f *BeebasmFormatter) DisassemblyStart() string { return "" }

func (f *BeebasmFormatter) DisassemblyEnd(asserts []string) string {
	out := ""
	for _, a := range asserts {
		out += f.AssertExpr(a)
	}
	return out + "SAVE \"CODE\", start%, end%\n"
}

func (f *BeebasmFormatter) CodeStart(addr RuntimeAddr) string {
	return fmt.Sprintf("ORG %s\nGUARD %s + 1\n", f.Hex4(uint16(addr)), f.Hex4(uint16(addr)))
}

func (f *BeebasmFormatter) CodeEnd() string { return "" }

func (f *BeebasmFormatter) PseudopcStart(runtimeAddr RuntimeAddr) string {
	return fmt.Sprintf("ORG %s\nGUARD %s + 1\n", f.Hex4(uint16(runtimeAddr)), f.Hex4(uint16(runtimeAddr)))
}

func (f *BeebasmFormatter) PseudopcEnd() string {
	return "COPYBLOCK start%, end%, origin%\nCLEAR start%, end%\nORG origin%\nGUARD guard%\n"
}

func (f *BeebasmFormatter) BytePrefix() string   { return "    EQUB " }
func (f *BeebasmFormatter) WordPrefix() string   { return "    EQUW " }
func (f *BeebasmFormatter) StringPrefix() string { return "    EQUS " }

func (f *BeebasmFormatter) StringChar(b byte) (string, bool) {
	if b == '"' || b < 0x20 || b > 0x7E {
		return "", false
	}
	return string(rune(b)), true
}

func (f *BeebasmFormatter) ForceAbsInstruction() bool { return false }

func (f *BeebasmFormatter) AssertExpr(expr string) string {
	return fmt.Sprintf("ASSERT %s\n", expr)
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
