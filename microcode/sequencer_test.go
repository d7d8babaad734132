package microcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Field presets for the mux composites, mirroring the word-level presets
// in word_test.go.
func muxNextFields(f Fields) Fields {
	f.Seq0Raw, f.ShiftRaw, f.MuxC = 3, 1, 1
	return f
}

func muxStackFields(f Fields) Fields {
	f.Seq0Raw, f.ShiftRaw, f.ExtraSeq = 1, 1, 1
	return f
}

func muxLiteralFields(f Fields) Fields {
	f.ExtraSeq = 1
	return f
}

func muxLowLiteralFields(f Fields) Fields {
	f.ShiftRaw, f.MuxC = 1, 1
	return f
}

func TestResolveFallThrough(t *testing.T) {
	f := muxNextFields(Fields{JSR: 1, Case: 1, StackFE: 1})
	tr := resolveTransfer(f, 0x42)
	assert.Empty(t, tr.Text)
	assert.Equal(t, 0x42, tr.Next)
	assert.Empty(t, tr.Calls)
	assert.False(t, tr.Anomaly)
}

func TestResolveReturn(t *testing.T) {
	// Freeze clear, push clear: pop-and-jump through the stack.
	f := muxStackFields(Fields{JSR: 1, Case: 1})
	tr := resolveTransfer(f, 0x42)
	assert.Equal(t, "ret", tr.Text)
	assert.Equal(t, NoSuccessor, tr.Next)
}

func TestResolveJumpThroughStack(t *testing.T) {
	f := muxStackFields(Fields{JSR: 1, Case: 1, StackFE: 1})
	tr := resolveTransfer(f, 0x42)
	assert.Equal(t, "jump STK0", tr.Text)
	assert.Equal(t, NoSuccessor, tr.Next)
}

func TestResolveJumpLiteral(t *testing.T) {
	f := muxLiteralFields(Fields{JSR: 1, Case: 1, StackFE: 1, Dest: 0x1A5})
	tr := resolveTransfer(f, 0x42)
	assert.Equal(t, "jump 1a5", tr.Text)
	assert.Equal(t, 0x1A5, tr.Next)
}

func TestResolveJumpWithPop(t *testing.T) {
	f := muxLiteralFields(Fields{JSR: 1, Case: 1, Dest: 0x123})
	tr := resolveTransfer(f, 0x42)
	assert.Equal(t, "jump 123; pop", tr.Text)
	assert.Equal(t, 0x123, tr.Next)
}

func TestResolveCallFoldsPush(t *testing.T) {
	// A queued push plus a fixed jump renders as jsr; the pushed return
	// address is the fall-through, so decoding continues there.
	f := muxLiteralFields(Fields{JSR: 1, Case: 1, StackPUP: 1, Dest: 0x0CC})
	tr := resolveTransfer(f, 0x42)
	assert.Equal(t, "jsr cc", tr.Text)
	assert.Equal(t, 0x42, tr.Next)
	assert.Equal(t, []int{0xCC}, tr.Calls)
}

func TestResolveConditionalCallAlone(t *testing.T) {
	f := muxNextFields(Fields{Dest: 0x155, StackFE: 1})
	tr := resolveTransfer(f, 0x42)
	assert.Equal(t, "if DMARequest jsr 155", tr.Text)
	assert.Equal(t, 0x42, tr.Next)
	assert.Equal(t, []int{0x155}, tr.Calls)
}

func TestResolveConditionalCallWithElse(t *testing.T) {
	f := muxLiteralFields(Fields{Case: 1, StackFE: 1, Dest: 0x208})
	tr := resolveTransfer(f, 0x42)
	assert.Equal(t, "if Cycle jsr 208 else jump 208", tr.Text)
	assert.Equal(t, 0x208, tr.Next)
	assert.Equal(t, []int{0x208}, tr.Calls)
}

func TestResolveSwitchLowPair(t *testing.T) {
	// Low-pair family: the four targets differ only in bits 0-1.
	for _, cond := range []uint8{0b1100, 0b1101, 0b1110} {
		f := muxLowLiteralFields(Fields{JSR: 1, StackFE: 1, Cond: cond, Dest: uint16(cond)<<4 | 8})
		tr := resolveTransfer(f, 0x31)
		base := 0x38 // low nibble from Dest, upper slices from the fall-through
		assert.Equal(t, base, tr.Next, "cond %04b", cond)
		assert.Equal(t, []int{base | 1, base | 2, base | 3}, tr.Branches, "cond %04b", cond)
		assert.False(t, tr.Anomaly)
	}
}

func TestResolveSwitchHighPair(t *testing.T) {
	// High-pair family: the four targets differ only in bits 2-3.
	for _, cond := range []uint8{0b0011, 0b0111, 0b1011} {
		f := muxLowLiteralFields(Fields{JSR: 1, StackFE: 1, Cond: cond, Dest: uint16(cond) << 4})
		tr := resolveTransfer(f, 0x101)
		base := 0x100
		assert.Equal(t, base, tr.Next, "cond %04b", cond)
		assert.Equal(t, []int{base | 4, base | 8, base | 12}, tr.Branches, "cond %04b", cond)
		assert.False(t, tr.Anomaly)
	}
}

func TestResolveSwitchText(t *testing.T) {
	f := muxLowLiteralFields(Fields{JSR: 1, StackFE: 1, Cond: 0b1100, Dest: 0xC8})
	tr := resolveTransfer(f, 0x31)
	assert.Equal(t, "switch flags(ZM) jump (38, 39, 3a, 3b)", tr.Text)
}

func TestResolveBadSwitchCond(t *testing.T) {
	// Anything outside the six valid encodings is an anomaly, never a
	// silently resolved target set.
	f := muxLowLiteralFields(Fields{JSR: 1, StackFE: 1, Cond: 0b0000, Dest: 0x005})
	tr := resolveTransfer(f, 0x42)
	assert.True(t, tr.Anomaly)
	assert.Contains(t, tr.Text, "!WARN bad switch 0")
	assert.Empty(t, tr.Branches)
	assert.Equal(t, 0x42, tr.Next)
}

func TestResolveSwitchWithoutConstantBase(t *testing.T) {
	// Low slice popped from the stack: the OR-based switch has no known
	// base, so the word is flagged and the successor is dynamic.
	f := Fields{JSR: 1, StackFE: 1, Seq0Raw: 1, ShiftRaw: 1, MuxC: 1}
	assert.Equal(t, uint16(0x002), f.MuxSelect())
	tr := resolveTransfer(f, 0x42)
	assert.True(t, tr.Anomaly)
	assert.Contains(t, tr.Text, "!WARN unexpected switch")
	assert.Equal(t, NoSuccessor, tr.Next)
}

func TestResolveDynamicRegisterMask(t *testing.T) {
	// Mid and high slices from the address register: the annotation keeps
	// the OR mask, the successor is unresolved.
	f := Fields{JSR: 1, Case: 1, StackFE: 1, MuxC: 1, Dest: 0x00B}
	assert.Equal(t, uint16(0x113), f.MuxSelect())
	tr := resolveTransfer(f, 0x40)
	assert.Equal(t, "jump b|(SAR & ff0)", tr.Text)
	assert.Equal(t, NoSuccessor, tr.Next)
}

func TestResolvePushPrefixOnSwitch(t *testing.T) {
	f := muxLowLiteralFields(Fields{JSR: 1, StackPUP: 1, Cond: 0b1100, Dest: 0xC8})
	tr := resolveTransfer(f, 0x31)
	assert.Equal(t, "push 31; switch flags(ZM) jump (38, 39, 3a, 3b)", tr.Text)
	assert.Equal(t, 0x38, tr.Next)
}
