package microcode

import (
	"fmt"
	"strings"
)

// An empty string from any translator is meaningful: that bus or control
// group does nothing this cycle.

// regFileName names the register-file addressing mode selected by the bank
// bit: direct indexing, or the banked low/high form.
func regFileName(bankSel uint8) string {
	if bankSel != 0 {
		return "RF[RIR.L][ILR]"
	}
	return "RF[RIR]"
}

// DataPathOp translates the data-path read-bus select. Constants share the
// Dest field with the sequencers and are stored inverted in the ROM.
func DataPathOp(f Fields) string {
	switch f.DPSel {
	case 0, 4:
		return "READ.SWP"
	case 1, 5:
		return "READ." + regFileName(f.BankSel)
	case 2, 6:
		return "READ.MAR.H"
	case 3, 7:
		return "READ.MAR.L"
	case 8:
		return "READ.PF"
	case 9:
		return "READ.CCR"
	case 10:
		return "READ.D.BUS"
	case 11:
		return "READ.MSR"
	case 12:
		return "READ.INR"
	case 13:
		return fmt.Sprintf("READ.CONST:%02x", ^f.Dest&0xff)
	}
	// 14 and 15 drive nothing observable.
	return ""
}

// CarryInOp names the ALU carry-in source.
func CarryInOp(carrySel uint8) string {
	return [4]string{"0", "1", "FLR.C", "0"}[carrySel&3]
}

// aluOperands maps ALUSrc to the R and S operand classes of the ALU slice.
var aluOperands = [8][2]string{
	{"A", "Q"}, {"A", "B"}, {"0", "Q"}, {"0", "B"},
	{"0", "A"}, {"D", "A"}, {"D", "Q"}, {"D", "0"},
}

func aluExpr(op uint8, r, s string) string {
	switch op & 7 {
	case 0:
		return r + "+" + s
	case 1:
		return s + "-" + r
	case 2:
		return r + "-" + s
	case 3:
		return r + "|" + s
	case 4:
		return r + "&" + s
	case 5:
		return "(~" + r + ")&" + s
	case 6:
		return r + "^" + s
	default:
		return "~(" + r + "^" + s + ")"
	}
}

// ALUOp renders the full ALU micro-operation: the register-file write, the
// Q register update and the Y output, plus the shift-fill selection for the
// four shifting destinations.
func ALUOp(f Fields) string {
	r, s := aluOperands[f.ALUSrc&7][0], aluOperands[f.ALUSrc&7][1]
	r = aluRegName(r, f)
	s = aluRegName(s, f)
	e := aluExpr(f.ALUOp, r, s)

	var mem, q, y string
	y = "Y=" + e
	switch f.ALUDest & 7 {
	case 0:
		q = "Q=" + e
	case 1:
	case 2:
		mem = fmt.Sprintf("r%d=%s", f.ALUB, e)
		y = fmt.Sprintf("Y=r%d", f.ALUA)
	case 3:
		mem = fmt.Sprintf("r%d=%s", f.ALUB, e)
	case 4:
		mem = fmt.Sprintf("r%d=(%s)>>1", f.ALUB, e)
		q = "Q>>=1"
	case 5:
		mem = fmt.Sprintf("r%d=(%s)>>1", f.ALUB, e)
	case 6:
		mem = fmt.Sprintf("r%d=(%s)<<1", f.ALUB, e)
		q = "Q<<=1"
	case 7:
		mem = fmt.Sprintf("r%d=(%s)<<1", f.ALUB, e)
	}

	parts := make([]string, 0, 4)
	for _, p := range []string{mem, q, y} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if f.ALUDest >= 4 {
		parts = append(parts, shiftFill(f.ALUDest&2 != 0, f.CarrySel))
	}
	return strings.Join(parts, " ")
}

func aluRegName(operand string, f Fields) string {
	switch operand {
	case "A":
		return fmt.Sprintf("r%d", f.ALUA)
	case "B":
		return fmt.Sprintf("r%d", f.ALUB)
	}
	return operand
}

// shiftFill names the signal shifted into the vacated bit: Q0 for left
// shifts, RAM7 for right shifts.
func shiftFill(left bool, carrySel uint8) string {
	if left {
		return "Q0=" + [4]string{"0", "FLR.C", "ALU.S", "1"}[carrySel&3]
	}
	return "RAM7=" + [4]string{"ALU.S", "FLR.C", "ALU.Q0", "ALU.C"}[carrySel&3]
}

var resultLatchNames = [7]string{
	"", "LOAD.RR", "LOAD.RIR", "LOAD.ILR", "LOAD.MAP", "LOAD.MAR", "LOAD.SAR",
}

// ResultOp translates the result-latch select. Select 7 loads the CCR and
// reuses Dest as a packed flag-source descriptor instead of a table entry.
func ResultOp(f Fields) string {
	if f.FSel&7 != 7 {
		return resultLatchNames[f.FSel&7]
	}
	szSel := f.Dest & 3
	faultEnable := f.Dest >> 2 & 1
	faultSel := f.Dest >> 3 & 3
	linkEnable := f.Dest >> 5 & 1
	linkSel := f.Dest >> 6 & 7

	sign := [4]string{"CCR.M", "FLR.S", "RR.D6", "FLR.S"}[szSel]
	zero := [4]string{"CCR.V", "FLR.Z", "RR.D7", "FLR.Z&FLR.LZ"}[szSel]
	fault := "0"
	if faultEnable == 0 {
		fault = [4]string{"RR.D5", "1", "CCR.F", "FLR.OVER"}[faultSel]
	}
	link := "0"
	if linkEnable == 0 {
		link = [8]string{
			"CCR.L", "/CCR.L", "FLR.C", "1",
			"RR.D4", "ALU.SHIFT_RAM7", "ALU_SHIFT_RAM0_Q7", "ALU.SHIFT_Q0",
		}[linkSel]
	}
	return fmt.Sprintf("LOAD.CCR{V=%s,M=%s,F=%s,L=%s}", zero, sign, fault, link)
}

// BusOp translates the bus-control function select.
func BusOp(busSel uint8) string {
	return [8]string{
		"", "BUS.RD", "BUS.WT", "LOAD.WAR.H",
		"INC.WAR", "INC.MAR", "MAPROM.EN", "LOAD.SWP",
	}[busSel&7]
}

// BusExtraOp translates the auxiliary bus signal select.
func BusExtraOp(busExtra uint8) string {
	return [4]string{"", "BUS.ABT", "LOAD.FLR", "BUS.WAIT"}[busExtra&3]
}

// The two demultiplexed write-control groups: ALUB doubles as a 3-bit line
// index plus a level bit when WriteSel picks one of these demux chips.
var (
	ctlSignals = [8]string{
		"CTL0.DMA", "CTL1.DMA", "TIMER", "MAPROM.CE1",
		"RUN", "/TIMER.RES", "ABORT", "IACK",
	}
	dmaSignals = [8]string{
		"INT", "/ABE", "/INC.DMA", "DIR",
		"/DMA", "PARO", "PE.EN", "DMA.EN",
	}
)

func demuxedSignal(lines [8]string, sel uint8) string {
	level := "-"
	if sel&1 == 1 {
		level = "+"
	}
	return lines[sel>>1&7] + level
}

// WriteOp translates the write-control group select. Two codes route ALUB
// into a signal demux, one writes the result register back to the register
// file, the rest are flat strobes.
func WriteOp(f Fields) string {
	switch f.WriteSel & 7 {
	case 2:
		return demuxedSignal(ctlSignals, f.ALUB)
	case 3:
		return demuxedSignal(dmaSignals, f.ALUB)
	case 4:
		return "WRITE." + regFileName(f.BankSel)
	}
	return [8]string{
		"", "DMA.RESET", "M13.EN?", "F11.EN?",
		"WRITE.RF", "WRITE.PF", "LOAD.WAR.L", "LOAD.DBR",
	}[f.WriteSel&7]
}

// WidthOp renders the 8/16-bit access qualifier.
func WidthOp(widthSel uint8) string {
	if widthSel != 0 {
		return "LSB"
	}
	return ""
}
