// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package microcode

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/mimarch/mima/alu"
)

// Control is a packed 28-bit control word: the complete set of
// gate-enables for one micro-cycle. The zero Control is a no-op cycle
// and doubles as the end-of-instruction marker in the firmware table.
type Control uint32

// MakeControl packs a control word from its signal groups.
func MakeControl(src, sinks Signal, fn alu.Fn, read, write bool) (cw Control) {
	cw = Control(src | sinks | AluSignal(fn))
	if read {
		cw |= Control(MEM_READ)
	}
	if write {
		cw |= Control(MEM_WRITE)
	}

	return
}

// Source returns the single bus-source signal of the cycle, or zero
// when the cycle does not drive the bus.
//
// A control word with more than one source bit set was built against
// a different bit assignment than this decoder; that is a broken
// invariant, not a recoverable error.
func (cw Control) Source() Signal {
	src := Signal(cw) & SRC_BITS
	if bits.OnesCount32(uint32(src)) > 1 {
		panic(fmt.Sprintf("control word %#07x drives the bus from multiple sources", uint32(cw)))
	}

	return src
}

// Sinks returns the set of latch-from-bus enables of the cycle.
func (cw Control) Sinks() Signal {
	return Signal(cw) & SINK_BITS
}

// Fn returns the ALU function code of the cycle.
func (cw Control) Fn() alu.Fn {
	return alu.Fn((Signal(cw) & ALU_BITS) >> ALU_SHIFT)
}

// MemRead reports whether the cycle asserts the memory read enable.
func (cw Control) MemRead() bool {
	return Signal(cw)&MEM_READ != 0
}

// MemWrite reports whether the cycle asserts the memory write enable.
func (cw Control) MemWrite() bool {
	return Signal(cw)&MEM_WRITE != 0
}

// String renders the control word in microcode source notation.
func (cw Control) String() (out string) {
	var parts []string

	src := cw.Source()
	sinks := cw.Sinks()
	for bit := SINK_ACCU; bit <= SINK_Y; bit <<= 1 {
		if sinks&bit == 0 {
			continue
		}
		if src != 0 {
			parts = append(parts, fmt.Sprintf("%v -> %v", registerName(src), registerName(bit)))
		} else {
			parts = append(parts, fmt.Sprintf("? -> %v", registerName(bit)))
		}
	}

	if fn := cw.Fn(); fn != alu.FN_PASS {
		parts = append(parts, fmt.Sprintf("ALU %v", fn))
	}
	if cw.MemRead() {
		parts = append(parts, "R = 1")
	}
	if cw.MemWrite() {
		parts = append(parts, "W = 1")
	}

	if len(parts) == 0 {
		return "-"
	}

	return strings.Join(parts, "; ")
}
