package microcode

import "fmt"

// OpcodeBase is the fixed high part of every opcode dispatch address: the
// map ROM supplies the two low nibbles through the address register while
// the third nibble is hardwired to 1.
const OpcodeBase = 0x100

// worklist is a deque of candidate entry addresses. Switch branch targets
// go to the front so they are listed right after the routine that
// dispatches to them; everything else joins the back.
type worklist struct {
	items []int
}

func (w *worklist) pushBack(addr int) {
	w.items = append(w.items, addr)
}

// pushFront prepends addrs, preserving their order.
func (w *worklist) pushFront(addrs []int) {
	w.items = append(append(make([]int, 0, len(addrs)+len(w.items)), addrs...), w.items...)
}

func (w *worklist) popFront() (int, bool) {
	if len(w.items) == 0 {
		return 0, false
	}
	addr := w.items[0]
	w.items = w.items[1:]
	return addr, true
}

// SelectCount is one entry of the mux-select distribution report.
type SelectCount struct {
	Code  uint16
	Count int
}

// SelectHistogram counts mux-select composites across all decoded words,
// reported in first-observation order. It exists to confirm that only
// composites physically wired on the board ever occur.
type SelectHistogram struct {
	counts map[uint16]int
	order  []uint16
}

// NewSelectHistogram returns an empty histogram.
func NewSelectHistogram() *SelectHistogram {
	return &SelectHistogram{counts: make(map[uint16]int)}
}

// Record counts one occurrence of code.
func (h *SelectHistogram) Record(code uint16) {
	if _, seen := h.counts[code]; !seen {
		h.order = append(h.order, code)
	}
	h.counts[code]++
}

// Report returns (code, count) pairs in first-observation order.
func (h *SelectHistogram) Report() []SelectCount {
	report := make([]SelectCount, 0, len(h.order))
	for _, code := range h.order {
		report = append(report, SelectCount{Code: code, Count: h.counts[code]})
	}
	return report
}

// Explorer walks a microcode ROM from its known entry points, following
// every statically resolvable transfer, until the whole address space is
// classified. It owns all mutable state for one run.
type Explorer struct {
	rom     []uint64
	labels  *LabelBinder
	work    worklist
	visited []bool
	hist    *SelectHistogram
	scan    int
}

// NewExplorer prepares a run over rom, seeded with entry point 0 and the
// dispatch address of every opcode in opmap. The opcode map binds labels
// Op_00, Op_01, … to its entries.
func NewExplorer(rom []uint64, opmap []uint16) *Explorer {
	ex := &Explorer{
		rom:     rom,
		labels:  NewLabelBinder(),
		visited: make([]bool, len(rom)),
		hist:    NewSelectHistogram(),
		scan:    1,
	}
	ex.work.pushBack(0)
	for opcode, sub := range opmap {
		addr := int(sub) | OpcodeBase
		ex.labels.Bind(addr, fmt.Sprintf("Op_%02x", opcode))
		ex.work.pushBack(addr)
	}
	return ex
}

// Labels exposes the binder, mainly so callers can inspect seeded and
// synthesized entry-point names.
func (ex *Explorer) Labels() *LabelBinder {
	return ex.labels
}

// Run classifies every address in the ROM and returns the full listing.
// Termination is guaranteed: the visited set strictly grows and the
// address space is finite.
func (ex *Explorer) Run() *Listing {
	listing := &Listing{}
	ex.drain(listing)

	// Dynamic transfers through the address register or the stack hide
	// part of the ROM from static resolution. Restart from the first
	// never-visited address until none remains.
	for {
		addr := ex.nextUnknown()
		if addr < 0 {
			break
		}
		ex.labels.Bind(addr, fmt.Sprintf("Unknown_entry_%03x", addr))
		ex.work.pushBack(addr)
		ex.drain(listing)
		ex.scan = addr + 1
	}

	listing.Selects = ex.hist.Report()
	return listing
}

// drain empties the worklist. Each pop starts one thread of straight-line
// code: the decoded word's resolved successor is followed inline until the
// thread hits an unused word, an unresolved transfer, or visited ground.
func (ex *Explorer) drain(listing *Listing) {
	for {
		addr, ok := ex.work.popFront()
		if !ok {
			return
		}
		if !ex.pending(addr) {
			continue
		}
		var thread []Record
		for ex.pending(addr) {
			ex.visited[addr] = true
			rec, next := ex.decodeOne(addr)
			thread = append(thread, rec)
			addr = next
		}
		listing.Threads = append(listing.Threads, thread)
	}
}

// pending reports whether addr is inside the ROM and not yet visited.
func (ex *Explorer) pending(addr int) bool {
	return addr >= 0 && addr < len(ex.rom) && !ex.visited[addr]
}

// decodeOne decodes the word at addr into a listing record and returns the
// resolved successor, or NoSuccessor.
func (ex *Explorer) decodeOne(addr int) (Record, int) {
	rec := Record{Addr: addr, Labels: ex.labels.At(addr)}
	word := ex.rom[addr]
	if word == 0 {
		rec.Unused = true
		return rec, NoSuccessor
	}

	f := Decode(word)
	ex.hist.Record(f.MuxSelect())

	tr := resolveTransfer(f, addr+1)
	for _, target := range tr.Calls {
		ex.work.pushBack(target)
	}
	if len(tr.Branches) > 0 {
		ex.work.pushFront(tr.Branches)
	}

	rec.DataPath = DataPathOp(f)
	rec.CarryIn = CarryInOp(f.CarrySel)
	rec.ALU = ALUOp(f)
	rec.Result = ResultOp(f)
	rec.Bus = BusOp(f.BusSel)
	rec.BusExtra = BusExtraOp(f.BusExtra)
	rec.Write = WriteOp(f)
	rec.Width = WidthOp(f.WidthSel)
	rec.Seq = tr.Text
	rec.Anomaly = tr.Anomaly
	return rec, tr.Next
}

// nextUnknown returns the lowest never-visited address at or above the
// scan cursor, or -1 when the whole ROM has been classified.
func (ex *Explorer) nextUnknown() int {
	for addr := ex.scan; addr < len(ex.rom); addr++ {
		if !ex.visited[addr] {
			return addr
		}
	}
	return -1
}

// Explore is the one-call form: it runs a fresh Explorer over rom with the
// given opcode map and returns the listing.
func Explore(rom []uint64, opmap []uint16) *Listing {
	return NewExplorer(rom, opmap).Run()
}
