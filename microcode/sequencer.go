package microcode

import "fmt"

// NoSuccessor marks a transfer whose destination depends on runtime-only
// state (address register or return stack) and cannot be resolved from the
// word alone.
const NoSuccessor = -1

// sliceSource classifies where one 4-bit address slice comes from,
// indexed by that slice's 2-bit mux select.
type sliceSource uint8

const (
	srcFallThrough sliceSource = iota // microprogram counter
	srcRegister                       // hardware address register
	srcStackPop                       // top of the return-address stack
	srcLiteral                        // Dest field of the current word
)

// Two composites the hardware reserves: every slice sourced from the
// microprogram counter (plain fall-through), and every slice popped from
// the return stack (return, or a computed jump through the stack).
const (
	muxAllNext  = 0x000
	muxAllStack = 0x222
)

// jsrConds names the eight hardware conditions testable by the
// conditional-subroutine-call path, indexed by the low 3 bits of Dest.
var jsrConds = [8]string{
	"Cycle",
	"RegIdx & 0x11 == 0",
	"RegIdx & 1",
	"REG_MMIO",
	"RegOrPageOut",
	"DMARequest",
	"MemFault",
	"MultiINT",
}

// Transfer describes the control flow out of one microword.
type Transfer struct {
	// Text is the symbolic control-transfer expression for the listing.
	Text string
	// Next is the statically resolved successor, or NoSuccessor.
	Next int
	// Calls are entry points discovered through jsr paths; they join the
	// back of the explorer's worklist.
	Calls []int
	// Branches are the nonzero switch targets in ascending order; they
	// jump the worklist queue so a routine's branches are listed right
	// after the routine itself.
	Branches []int
	// Anomaly is set when the word encodes a switch that cannot be
	// soundly resolved; Text carries the warning annotation.
	Anomaly bool
}

// switchKind maps the six valid switch condition selectors to a name and
// the target stride of their branch family. The low-pair family spreads
// its four targets over address bits 0-1, the high-pair family over bits
// 2-3.
func switchKind(cond uint8) (name string, stride int, ok bool) {
	switch cond {
	case 0b1100:
		return "flags(ZM)", 1, true
	case 0b1101:
		return "flags(VH)", 1, true
	case 0b1110:
		return "pagetable???", 1, true
	case 0b0011:
		return "flags(IL)", 4, true
	case 0b0111:
		return "interrupts???", 4, true
	case 0b1011:
		return "dma???", 4, true
	}
	return "", 0, false
}

// resolveTransfer interprets the three-chip sequencer control of one word.
// next is the statically-known fall-through address.
func resolveTransfer(f Fields, next int) Transfer {
	tr := Transfer{Next: next}
	mux := f.MuxSelect()

	// The call enable is active low; when asserted the low Dest bits pick
	// a condition and Dest itself is the call target. With an all-zero
	// composite the conditional call is the whole transfer, otherwise it
	// becomes the prefix of an if/else pair.
	var prefix string
	if f.JSR == 0 {
		prefix = fmt.Sprintf("if %s jsr %x", jsrConds[f.Dest&7], f.Dest)
		tr.Calls = append(tr.Calls, int(f.Dest))
		if mux == muxAllNext {
			tr.Text = prefix
			return tr
		}
		prefix += " else "
	}

	var push string
	if f.StackFE == 0 && f.StackPUP == 1 {
		// The hardware pushes the address of the next sequential word.
		push = fmt.Sprintf("push %x", next)
	}

	var jump string
	switch {
	case mux == muxAllNext && f.Case == 1:
		// Plain fall-through; nothing to print.
	case mux == muxAllStack && f.Case == 1:
		if f.StackFE == 0 && f.StackPUP == 0 {
			jump = "ret"
		} else {
			jump = "jump STK0"
		}
		tr.Next = NoSuccessor
	default:
		jump = resolveComposed(f, mux, next, &push, &tr)
	}

	op := prefix + push
	switch {
	case op == "":
		tr.Text = jump
	case jump == "":
		tr.Text = op
	default:
		sep := ""
		if push != "" {
			sep = "; "
		}
		tr.Text = op + sep + jump
	}
	return tr
}

// resolveComposed handles the general case: each address slice picks its
// source per the composite, and the result is either a fixed jump/call or
// a four-way switch. push is cleared when the pending push folds into a
// call.
func resolveComposed(f Fields, mux uint16, next int, push *string, tr *Transfer) string {
	var arMask, popMask, constMask, target int
	for i := 0; i < 3; i++ {
		mask := 0xf << (i * 4)
		switch sliceSource(mux >> (i * 4) & 3) {
		case srcFallThrough:
			target |= next & mask
			constMask |= mask
		case srcRegister:
			arMask |= mask
		case srcStackPop:
			popMask |= mask
		case srcLiteral:
			target |= int(f.Dest) & mask
			constMask |= mask
		}
	}

	var jump string
	switch {
	case f.Case == 1:
		if *push != "" {
			// A push combined with a fixed jump is a subroutine call.
			jump = fmt.Sprintf("jsr %x", target)
			*push = ""
			tr.Calls = append(tr.Calls, target)
		} else {
			jump = fmt.Sprintf("jump %x", target)
			tr.Next = target
		}
	case constMask&0x00f == 0:
		// The switch ORs its condition lines into the low slice, so that
		// slice must come from a constant source to have a known base.
		jump = "!WARN unexpected switch"
		tr.Anomaly = true
	default:
		if name, stride, ok := switchKind(f.Cond); ok {
			jump = fmt.Sprintf("switch %s jump (%x, %x, %x, %x)",
				name, target, target|stride, target|stride*2, target|stride*3)
			tr.Branches = []int{target | stride, target | stride*2, target | stride*3}
			tr.Next = target
		} else {
			jump = fmt.Sprintf("!WARN bad switch %x", f.Cond)
			tr.Anomaly = true
		}
	}

	if popMask != 0 {
		jump += fmt.Sprintf("|(STK0 & %x)", popMask)
		tr.Next = NoSuccessor
	}
	if arMask != 0 {
		jump += fmt.Sprintf("|(SAR & %x)", arMask)
		tr.Next = NoSuccessor
	}

	// Stack discipline: freeze clear with push clear pops on transfer.
	if f.StackFE == 0 && f.StackPUP == 0 {
		jump += "; pop"
	}
	return jump
}
