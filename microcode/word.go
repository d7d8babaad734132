// Package microcode decodes a raw microcode ROM dump for a bit-slice CPU
// built from a 2901-style ALU slice and three cascaded 2909-style address
// sequencers, reconstructing a symbolic control-flow listing from it.
package microcode

// WordBits is the width of one microword. The seven 8-bit ROMs are
// concatenated MSB-first into a single value per address.
const WordBits = 64

// Fields holds every control field extracted from one microword.
// Extraction is bit-exact: the inverted lines (Seq0Raw, ShiftRaw) keep
// their raw ROM polarity and are only corrected when the mux-select
// composite is derived.
type Fields struct {
	DPSel    uint8  // data-path read-bus select
	FSel     uint8  // result-latch destination select
	WriteSel uint8  // write-control group select
	BusSel   uint8  // bus-control function
	BusExtra uint8  // auxiliary bus signal
	JSR      uint8  // conditional-subroutine-call enable (active low)
	Dest     uint16 // sequencer data-in / literal constant, 11 bits
	Cond     uint8  // switch condition selector, aliases Dest bits 4-7
	StackFE  uint8  // sequencer stack freeze
	StackPUP uint8  // sequencer stack push
	Seq0Raw  uint8  // low sequencer direct select, inverted
	ShiftRaw uint8  // shift-direction bit, inverted
	MuxC     uint8  // mid sequencer select contribution
	Case     uint8  // fixed jump (1) vs. conditional switch (0)
	ALUSrc   uint8  // ALU operand source select
	ALUOp    uint8  // ALU operation select
	ALUDest  uint8  // ALU result routing select
	ALUB     uint8  // ALU B register index
	ALUA     uint8  // ALU A register index
	CarrySel uint8  // ALU carry-in / shift-fill select
	WidthSel uint8  // 8/16-bit register access qualifier
	ExtraSeq uint8  // high sequencer select contribution
	BankSel  uint8  // register-bank selector
}

func bits(word uint64, start, size uint) uint16 {
	return uint16((word >> start) & (1<<size - 1))
}

// Decode extracts every control field from a microword. It is total: any
// 64-bit value decodes, including the all-zero "unused" word.
func Decode(word uint64) Fields {
	return Fields{
		DPSel:    uint8(bits(word, 0, 4)),
		FSel:     uint8(bits(word, 4, 3)),
		WriteSel: uint8(bits(word, 7, 3)),
		BusSel:   uint8(bits(word, 10, 3)),
		BusExtra: uint8(bits(word, 13, 2)),
		JSR:      uint8(bits(word, 15, 1)),
		Dest:     bits(word, 16, 11),
		Cond:     uint8(bits(word, 20, 4)),
		StackFE:  uint8(bits(word, 27, 1)),
		StackPUP: uint8(bits(word, 28, 1)),
		Seq0Raw:  uint8(bits(word, 29, 2)),
		ShiftRaw: uint8(bits(word, 31, 1)),
		MuxC:     uint8(bits(word, 32, 1)),
		Case:     uint8(bits(word, 33, 1)),
		ALUSrc:   uint8(bits(word, 34, 3)),
		ALUOp:    uint8(bits(word, 37, 3)),
		ALUDest:  uint8(bits(word, 40, 3)),
		ALUB:     uint8(bits(word, 43, 4)),
		ALUA:     uint8(bits(word, 47, 4)),
		CarrySel: uint8(bits(word, 51, 2)),
		WidthSel: uint8(bits(word, 53, 1)),
		ExtraSeq: uint8(bits(word, 54, 1)),
		BankSel:  uint8(bits(word, 55, 1)),
	}
}

// MuxSelect derives the 12-bit composite select code: one 2-bit value per
// 4-bit address slice, fed identically to all three sequencer chips of that
// slice. The gate network inverts Seq0Raw and ShiftRaw and ANDs the high
// contribution against the mid one, so only a handful of composites can
// occur on real hardware.
func (f Fields) MuxSelect() uint16 {
	seq0 := uint16(f.Seq0Raw ^ 3)
	sh0 := uint16(f.ShiftRaw ^ 1)
	s21 := uint16(f.MuxC ^ 1)
	s11 := uint16(f.ExtraSeq & (f.MuxC ^ 1))
	return s21<<9 | sh0<<8 | s11<<5 | sh0<<4 | seq0
}
