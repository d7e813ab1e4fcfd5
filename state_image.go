package spectrum

import "fmt"

// StateImage mirrors every CPU register plus the MACH-owned counters and
// flags the host needs to observe or mutate between operations. MACH
// installs it into the CPU before run()/HandleActiveInt and retrieves it
// back on exit, so the host's view stays coherent without chasing
// individual CPU fields.
type StateImage struct {
	BC, DE, HL, AF             uint16
	IX, IY                     uint16
	BC2, DE2, HL2, AF2         uint16
	PC, SP                     uint16
	IR, WZ                     uint16
	IFF1, IFF2                 byte // 0/1
	IM                         byte // 0/1/2
	IregpKind                  byte // 0=HL, 1=IX, 2=IY
	TicksSinceInt              uint32
	FetchesToStop              uint32
	IntSuppressed              byte
	IntAfterEIAllowed          byte
	BorderColour               byte // 0..7
	TraceEnabled               byte
}

// stateImageSize is the packed wire size: 14x u16 + 4x u8 + 2x u32 + 4x u8.
const stateImageSize = 14*2 + 4*1 + 2*4 + 4*1

// Validate reports whether the image holds only legal field values. An
// out-of-range IM or IregpKind is refused rather than installed.
func (img *StateImage) Validate() error {
	if img.IM > 2 {
		return fmt.Errorf("spectrum: invalid state image: IM=%d out of range", img.IM)
	}
	if img.IregpKind > 2 {
		return fmt.Errorf("spectrum: invalid state image: iregp_kind=%d out of range", img.IregpKind)
	}
	if img.BorderColour > 7 {
		return fmt.Errorf("spectrum: invalid state image: border_colour=%d out of range", img.BorderColour)
	}
	return nil
}

// Install writes the CPU-owned fields of img into cpu.
func (img *StateImage) Install(cpu *Z80) {
	cpu.SetBC(img.BC)
	cpu.SetDE(img.DE)
	cpu.SetHL(img.HL)
	cpu.SetAF(img.AF)
	cpu.IX = img.IX
	cpu.IY = img.IY
	cpu.SetBC2(img.BC2)
	cpu.SetDE2(img.DE2)
	cpu.SetHL2(img.HL2)
	cpu.SetAF2(img.AF2)
	cpu.PC = img.PC
	cpu.SP = img.SP
	cpu.I = byte(img.IR >> 8)
	cpu.R = byte(img.IR)
	cpu.WZ = img.WZ
	cpu.IFF1 = img.IFF1 != 0
	cpu.IFF2 = img.IFF2 != 0
	cpu.IM = img.IM
}

// Retrieve copies the CPU-owned fields of cpu back into img, leaving the
// MACH-owned counters and flags untouched.
func (img *StateImage) Retrieve(cpu *Z80) {
	img.BC, img.DE, img.HL, img.AF = cpu.BC(), cpu.DE(), cpu.HL(), cpu.AF()
	img.IX, img.IY = cpu.IX, cpu.IY
	img.BC2, img.DE2, img.HL2, img.AF2 = cpu.BC2(), cpu.DE2(), cpu.HL2(), cpu.AF2()
	img.PC, img.SP = cpu.PC, cpu.SP
	img.IR = uint16(cpu.I)<<8 | uint16(cpu.R)
	img.WZ = cpu.WZ
	img.IFF1, img.IFF2 = boolByte(cpu.IFF1), boolByte(cpu.IFF2)
	img.IM = cpu.IM
	img.IregpKind = cpu.IregpKind()
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// Encode packs img into its little-endian wire layout.
func (img *StateImage) Encode() []byte {
	buf := make([]byte, stateImageSize)
	put16 := func(off int, v uint16) { buf[off] = byte(v); buf[off+1] = byte(v >> 8) }
	fields := []uint16{img.BC, img.DE, img.HL, img.AF, img.IX, img.IY,
		img.BC2, img.DE2, img.HL2, img.AF2, img.PC, img.SP, img.IR, img.WZ}
	off := 0
	for _, f := range fields {
		put16(off, f)
		off += 2
	}
	buf[off] = img.IFF1
	buf[off+1] = img.IFF2
	buf[off+2] = img.IM
	buf[off+3] = img.IregpKind
	off += 4
	put32 := func(o int, v uint32) {
		buf[o] = byte(v)
		buf[o+1] = byte(v >> 8)
		buf[o+2] = byte(v >> 16)
		buf[o+3] = byte(v >> 24)
	}
	put32(off, img.TicksSinceInt)
	put32(off+4, img.FetchesToStop)
	off += 8
	buf[off] = img.IntSuppressed
	buf[off+1] = img.IntAfterEIAllowed
	buf[off+2] = img.BorderColour
	buf[off+3] = img.TraceEnabled
	return buf
}

// DecodeStateImage unpacks buf (as produced by Encode) into a StateImage.
func DecodeStateImage(buf []byte) (StateImage, error) {
	var img StateImage
	if len(buf) < stateImageSize {
		return img, fmt.Errorf("spectrum: state image buffer too short: %d < %d", len(buf), stateImageSize)
	}
	get16 := func(off int) uint16 { return uint16(buf[off]) | uint16(buf[off+1])<<8 }
	fields := [14]*uint16{&img.BC, &img.DE, &img.HL, &img.AF, &img.IX, &img.IY,
		&img.BC2, &img.DE2, &img.HL2, &img.AF2, &img.PC, &img.SP, &img.IR, &img.WZ}
	off := 0
	for _, f := range fields {
		*f = get16(off)
		off += 2
	}
	img.IFF1 = buf[off]
	img.IFF2 = buf[off+1]
	img.IM = buf[off+2]
	img.IregpKind = buf[off+3]
	off += 4
	get32 := func(o int) uint32 {
		return uint32(buf[o]) | uint32(buf[o+1])<<8 | uint32(buf[o+2])<<16 | uint32(buf[o+3])<<24
	}
	img.TicksSinceInt = get32(off)
	img.FetchesToStop = get32(off + 4)
	off += 8
	img.IntSuppressed = buf[off]
	img.IntAfterEIAllowed = buf[off+1]
	img.BorderColour = buf[off+2]
	img.TraceEnabled = buf[off+3]
	if err := img.Validate(); err != nil {
		return img, err
	}
	return img, nil
}
