package microcode

import (
	"github.com/mimarch/mima/alu"
)

// Signal is a set of gate-enable bits within a control word.
//
// The bit assignment is shared between the firmware compiler and the
// micro-sequencer; a compiled firmware blob is interchangeable only
// between tools built from the same assignment.
type Signal uint32

const (
	// Bus sinks: latch-from-bus enables. More than one sink may
	// latch the same bus value in a single cycle.
	SINK_ACCU = Signal(1 << 0)
	SINK_IAR  = Signal(1 << 1)
	SINK_IR   = Signal(1 << 2)
	SINK_SAR  = Signal(1 << 3)
	SINK_SDR  = Signal(1 << 4)
	SINK_X    = Signal(1 << 5)
	SINK_Y    = Signal(1 << 6)

	// Bus sources: at most one may drive the bus in a cycle.
	SRC_ACCU = Signal(1 << 7)
	SRC_IR   = Signal(1 << 8)
	SRC_IAR  = Signal(1 << 9)
	SRC_ONE  = Signal(1 << 10)
	SRC_Z    = Signal(1 << 11)
	SRC_SDR  = Signal(1 << 12)

	// Memory controls. R and W are never both asserted.
	MEM_READ  = Signal(1 << 16)
	MEM_WRITE = Signal(1 << 17)
)

const (
	ALU_SHIFT = 13
	ALU_BITS  = Signal(0x7 << ALU_SHIFT)

	SINK_BITS = Signal(0x7f)
	SRC_BITS  = Signal(0x3f << 7)

	CONTROL_BITS  = Signal(0xfffffff) // A control word is 28 bits.
	RESERVED_BITS = CONTROL_BITS &^ (SINK_BITS | SRC_BITS | ALU_BITS | MEM_READ | MEM_WRITE)
)

// AluSignal encodes an ALU function code into its signal bits.
func AluSignal(fn alu.Fn) Signal {
	return Signal(fn) << ALU_SHIFT
}

// Register names as they appear in microcode source, mapped to their
// bus-source signal. Identifiers are case-sensitive.
var srcNames = map[string]Signal{
	"Accu": SRC_ACCU,
	"IR":   SRC_IR,
	"IAR":  SRC_IAR,
	"One":  SRC_ONE,
	"Z":    SRC_Z,
	"SDR":  SRC_SDR,
}

// Register names mapped to their bus-sink signal.
var sinkNames = map[string]Signal{
	"Accu": SINK_ACCU,
	"IAR":  SINK_IAR,
	"IR":   SINK_IR,
	"SAR":  SINK_SAR,
	"SDR":  SINK_SDR,
	"X":    SINK_X,
	"Y":    SINK_Y,
}

// registerName returns the microcode name of a single source or sink
// signal bit, for rendering.
func registerName(sig Signal) string {
	for _, names := range []map[string]Signal{srcNames, sinkNames} {
		for name, bit := range names {
			if bit == sig {
				return name
			}
		}
	}

	return "?"
}
