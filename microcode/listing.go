package microcode

import (
	"fmt"
	"strings"
)

// Record is the decoded form of one visited address: its labels and the
// translated micro-operation groups, or the unused marker for a zero word.
type Record struct {
	Addr   int
	Labels []string
	Unused bool

	DataPath string // data-path read-bus op
	CarryIn  string // ALU carry-in source
	ALU      string // ALU op, Q/Y routing, shift fill
	Result   string // result-latch op
	Bus      string // bus-control function
	BusExtra string // auxiliary bus signal
	Write    string // write-control op
	Width    string // 8/16-bit access qualifier
	Seq      string // sequencer transfer expression
	Anomaly  bool   // Seq carries a decode warning
}

// Listing is the full output of one run: threads of straight-line records
// in discovery order, plus the mux-select distribution.
type Listing struct {
	Threads [][]Record
	Selects []SelectCount
}

const recordFormat = "%3x: %-19s %-9s %-40s %-51s %-11s %-11s %-20s %-7s %s\n"

// Records flattens the listing into a single ordered slice.
func (l *Listing) Records() []Record {
	var all []Record
	for _, thread := range l.Threads {
		all = append(all, thread...)
	}
	return all
}

// Anomalies returns every record whose transfer carries a decode warning.
func (l *Listing) Anomalies() []Record {
	var out []Record
	for _, thread := range l.Threads {
		for _, rec := range thread {
			if rec.Anomaly {
				out = append(out, rec)
			}
		}
	}
	return out
}

// String renders the listing as a columnar report: a header, one line per
// address with label lines preceding it, a blank line between threads, and
// the mux-select distribution at the end.
func (l *Listing) String() string {
	var out strings.Builder
	fmt.Fprintf(&out, "%-4s %-19s %-9s %-40s %-51s %-11s %-11s %-20s %-7s %s\n",
		"Addr", "DP", "ALUCIn", "ALUOp", "F", "BusControl", "BusExtra", "WriteCtl", "R16_LSB", "Seq")

	for _, thread := range l.Threads {
		for _, rec := range thread {
			for _, label := range rec.Labels {
				fmt.Fprintf(&out, "%s:\n", label)
			}
			if rec.Unused {
				fmt.Fprintf(&out, "%3x: unused\n", rec.Addr)
				continue
			}
			fmt.Fprintf(&out, recordFormat, rec.Addr,
				rec.DataPath, rec.CarryIn, rec.ALU, rec.Result,
				rec.Bus, rec.BusExtra, rec.Write, rec.Width, rec.Seq)
		}
		out.WriteString("\n")
	}

	out.WriteString("Mux select distribution\n")
	for _, sc := range l.Selects {
		fmt.Fprintf(&out, "%3x: %d\n", sc.Code, sc.Count)
	}
	return out.String()
}
