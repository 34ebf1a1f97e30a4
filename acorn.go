package disasm8

import "fmt"

// osCallNames maps the well-known Acorn MOS API entry addresses to their
// documented names, carried from the teacher's opcodes.go:
// addressToOsCallName.
var osCallNames = map[BinaryAddr]string{
	0xFFB9: "OSRDRM",
	0xFFBC: "OSEVEN",
	0xFFBF: "OSFSC",
	0xFFC2: "OSFIND",
	0xFFC5: "OSGBPB",
	0xFFC8: "OSBPUT",
	0xFFCB: "OSBGET",
	0xFFCE: "OSARGS",
	0xFFD1: "OSFILE",
	0xFFD4: "OSRDCH",
	0xFFD7: "OSASCI",
	0xFFDA: "OSNEWL",
	0xFFDD: "OSWRCR",
	0xFFE0: "OSRDCH2",
	0xFFE3: "OSWRCH",
	0xFFE6: "OSWORD",
	0xFFE9: "OSBYTE",
	0xFFEC: "OSCLI",
	0xFFEF: "OSCLI2",
	0xFFF1: "OSBYTE2",
	0xFFF4: "OSWORD2",
	0xFFF7: "OSCLI",
}

// osVectorNames maps the zero-page OS vector addresses to their names,
// carried from the teacher's opcodes.go: osVectorAddresses.
var osVectorNames = map[BinaryAddr]string{
	0x0200: "USERV",
	0x0202: "BRKV",
	0x0204: "IRQ1V",
	0x0206: "IRQ2V",
	0x0208: "CLIV",
	0x020A: "BYTEV",
	0x020C: "WORDV",
	0x020E: "WRCHV",
	0x0210: "RDCHV",
	0x0212: "FILEV",
	0x0214: "ARGSV",
	0x0216: "BGETV",
	0x0218: "BPUTV",
	0x021A: "GBPBV",
	0x021C: "FINDV",
	0x021E: "FSCV",
	0x0220: "EVNTV",
	0x0222: "UPTV",
	0x0224: "NETV",
	0x0226: "VDUV",
	0x0228: "KEYV",
	0x022A: "INSV",
	0x022C: "REMV",
	0x022E: "CNPV",
	0x0230: "IND1V",
	0x0232: "IND2V",
	0x0234: "IND3V",
}

// DefaultLabelMakerHook installs an OptionalLabel for every well-known OS
// call and vector address so references to them render as e.g. "OSWRCH"
// rather than a synthesized "c ffee", generalizing the teacher's
// decode()/genAbsoluteOsCall special-casing into optional labels
// (SPEC_FULL.md §5). It registers OptionalLabels only; it is not a
// LabelMakerHook and installs none.
func DefaultLabelMakerHook(lm *LabelManager) {
	for addr, name := range osCallNames {
		lm.AddOptionalLabel(addr, name, false)
	}
	for addr, name := range osVectorNames {
		lm.AddOptionalLabel(addr, name, false)
	}
}

func formatAddr(addr BinaryAddr) string {
	return fmt.Sprintf("&%04X", uint32(addr))
}
