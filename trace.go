package spectrum

import "fmt"

// DisassembledLine is one decoded instruction, as produced by disassembleOne.
type DisassembledLine struct {
	Address      uint16
	HexBytes     string
	Mnemonic     string
	Size         int
	IsBranch     bool
	BranchTarget uint16
}

// IregpKind names which of HL/IX/IY the currently-prefixed instruction
// stream is indexing through, mirroring the state image's iregp_kind field.
type IregpKind byte

const (
	IregpHL IregpKind = iota
	IregpIX
	IregpIY
)

// TraceLine is one captured instruction-boundary snapshot: PC, the eight
// raw bytes at PC, and (when the instruction is not indexed through IX/IY)
// its disassembly.
type TraceLine struct {
	PC       uint16
	Regs     StateImage
	Bytes    [8]byte
	Disasm   string
	HasDisasm bool
}

// Tracer captures a bounded ring of TraceLine entries. It is driven by
// MACH's execution loop only when trace_enabled is set in the state image.
type Tracer struct {
	lines []TraceLine
	limit int
}

// NewTracer returns a Tracer retaining at most limit entries.
func NewTracer(limit int) *Tracer {
	if limit <= 0 {
		limit = 1024
	}
	return &Tracer{limit: limit}
}

// Capture records one instruction boundary. readByte should read directly
// from MEM without going through contention (tracing must not perturb
// tick accounting).
func (tr *Tracer) Capture(pc uint16, img StateImage, readByte func(addr uint16) byte, iregp IregpKind) {
	var line TraceLine
	line.PC = pc
	line.Regs = img
	for i := range line.Bytes {
		line.Bytes[i] = readByte(pc + uint16(i))
	}
	if iregp == IregpHL {
		d := disassembleOne(readByte, pc)
		line.Disasm = fmt.Sprintf("%-12s %s", d.HexBytes, d.Mnemonic)
		line.HasDisasm = true
	}
	tr.lines = append(tr.lines, line)
	if len(tr.lines) > tr.limit {
		tr.lines = tr.lines[len(tr.lines)-tr.limit:]
	}
}

// Lines returns the captured trace in chronological order.
func (tr *Tracer) Lines() []TraceLine {
	return tr.lines
}

// Reset discards all captured trace lines.
func (tr *Tracer) Reset() {
	tr.lines = tr.lines[:0]
}
