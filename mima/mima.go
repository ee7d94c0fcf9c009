// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package mima

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/mimarch/mima/alu"
	"github.com/mimarch/mima/microcode"
)

// Memory words addressable by the 20-bit address space.
const MEM_WORDS = 1 << alu.ADDRESS_BITS

var _mima_defines = map[string]string{
	"MEM_WORDS":    fmt.Sprintf("%v", MEM_WORDS),
	"WORD_MASK":    fmt.Sprintf("%#x", alu.WORD_MASK),
	"ADDRESS_MASK": fmt.Sprintf("%#x", alu.ADDRESS_MASK),
	"SIGN_BIT":     fmt.Sprintf("%#x", alu.SIGN_BIT),
}

// Defines for the machine.
func Defines() iter.Seq2[string, string] {
	return maps.All(_mima_defines)
}

// Memory is the 2^20-word main memory, held sparse: absent addresses
// read as zero.
type Memory map[uint32]uint32

// Get reads the word at addr.
func (mem Memory) Get(addr uint32) uint32 {
	return mem[addr&alu.ADDRESS_MASK]
}

// Set writes the word at addr. Writing zero releases the cell.
func (mem Memory) Set(addr, value uint32) {
	addr &= alu.ADDRESS_MASK
	value &= alu.WORD_MASK
	if value == 0 {
		delete(mem, addr)
	} else {
		mem[addr] = value
	}
}

// Mima is the register file, memory, and micro-sequencer of the
// machine. One instance owns its firmware table and memory for its
// lifetime; the sequencer is single-threaded and deterministic.
type Mima struct {
	Verbose bool // Set to enable verbose logging.

	Firmware *microcode.Firmware // Control-word table driving steps 3..15.
	Memory   Memory              // Main memory.

	Accu uint32 // Accumulator.
	IAR  uint32 // Instruction address register; upper 4 bits always zero.
	IR   uint32 // Instruction register.
	SAR  uint32 // Storage address register; 20 bits.
	SDR  uint32 // Storage data register.
	X    uint32 // ALU input latch.
	Y    uint32 // ALU input latch.
	Z    uint32 // ALU output latch.

	step   int  // Current micro-step, 0..15; 16 after a body that fills step 15.
	slot   int  // Table slot of the current instruction; -1 for none.
	halted bool // Terminal state; further ticks are no-ops.

	readRun  int // Consecutive cycles with R asserted.
	writeRun int // Consecutive cycles with W asserted.

	cycles uint64 // Micro-cycles since reset.
	insns  uint64 // Instructions completed since reset.
}

// New creates a machine with all registers zero, empty memory, and
// the given firmware.
func New(fw *microcode.Firmware) *Mima {
	return &Mima{
		Firmware: fw,
		Memory:   Memory{},
		slot:     -1,
	}
}

// Reset returns the machine to its power-on state. Memory is cleared;
// reload an image before running.
func (m *Mima) Reset() {
	m.Accu = 0
	m.IAR = 0
	m.IR = 0
	m.SAR = 0
	m.SDR = 0
	m.X = 0
	m.Y = 0
	m.Z = 0
	clear(m.Memory)
	m.step = 0
	m.slot = -1
	m.halted = false
	m.readRun = 0
	m.writeRun = 0
	m.cycles = 0
	m.insns = 0
}

// Halted reports whether the machine has executed HALT.
func (m *Mima) Halted() bool {
	return m.halted
}

// Cycles returns the micro-cycles executed since reset.
func (m *Mima) Cycles() uint64 {
	return m.cycles
}

// Jump continues execution at the given address.
func (m *Mima) Jump(addr uint32) {
	m.IAR = addr & alu.ADDRESS_MASK
}

// String returns the current register state as a string.
func (m *Mima) String() (text string) {
	regs := []struct {
		name  string
		value uint32
	}{
		{"Accu", m.Accu},
		{"IAR", m.IAR},
		{"IR", m.IR},
		{"SAR", m.SAR},
		{"SDR", m.SDR},
		{"X", m.X},
		{"Y", m.Y},
		{"Z", m.Z},
	}
	for _, reg := range regs {
		text += fmt.Sprintf("% 5s: 0x%06x\n", reg.name, reg.value)
	}

	return
}

// Tick advances the machine by exactly one micro-cycle: one bus
// transfer (if any), one ALU evaluation, one memory sub-cycle. Ticks
// after HALT are no-ops. Tick never blocks and never fails; broken
// firmware invariants panic.
func (m *Mima) Tick() {
	if m.halted {
		return
	}

	m.cycles += 1

	if m.step < 3 {
		m.fetch()
		return
	}

	var cw microcode.Control
	if m.slot >= 0 && m.step < microcode.STEPS {
		cw = m.Firmware.At(m.slot, m.step)
	}
	if cw == 0 {
		// End of instruction: this cycle is the next fetch prelude's
		// first step.
		m.insns += 1
		m.step = 0
		m.slot = -1
		m.fetch()
		return
	}

	m.execute(cw)
	m.step += 1
}

// fetch runs one step of the hardwired instruction-fetch prelude.
// The prelude is not bound by the single-bus rule; it bumps IAR
// through the ALU while the instruction read is in flight.
func (m *Mima) fetch() {
	switch m.step {
	case 0:
		m.SAR = m.IAR & alu.ADDRESS_MASK
		m.X = m.IAR
		m.Y = 1
		m.Z = alu.FN_ADD.Apply(m.X, m.Y)
		m.readRun = 1
		m.step = 1
	case 1:
		m.IAR = m.Z & alu.ADDRESS_MASK
		m.readRun = 2
		m.step = 2
	case 2:
		m.SDR = m.Memory.Get(m.SAR)
		m.IR = m.SDR
		m.readRun = 0
		m.decode()
	}
}

// decode runs the hardwired decode at the end of the fetch prelude.
func (m *Mima) decode() {
	opcode, arg := microcode.Decode(m.IR)

	if m.Verbose {
		log.Printf("%05x: %-4v %#07x", m.SAR, microcode.MnemonicOf(opcode), arg)
	}

	switch opcode {
	case microcode.OPCODE_HALT:
		// Halt with IAR addressing the HALT instruction itself.
		m.IAR = (m.IAR - 1) & alu.ADDRESS_MASK
		m.halted = true
		return
	case microcode.OPCODE_JMN:
		// Hardwired conditional: the firmware body is empty.
		if alu.Negative(m.Accu) {
			m.IAR = arg
		}
	}

	slot, ok := microcode.SlotOf(opcode)
	if !ok {
		// Undefined opcode: an all-zero body, i.e. a no-op.
		slot = -1
	}
	m.slot = slot
	m.step = 3
}

// execute interprets one control word.
func (m *Mima) execute(cw microcode.Control) {
	if m.Verbose {
		log.Printf("  step %2d: %v", m.step, cw)
	}

	// Bus transfer. Source() panics when the firmware drives the bus
	// from more than one register.
	var bus uint32
	drive := false
	switch cw.Source() {
	case microcode.SRC_ACCU:
		bus, drive = m.Accu, true
	case microcode.SRC_IR:
		// The IR value on the bus is the 20-bit address field,
		// zero-extended.
		bus, drive = m.IR&alu.ADDRESS_MASK, true
	case microcode.SRC_IAR:
		bus, drive = m.IAR, true
	case microcode.SRC_ONE:
		bus, drive = 1, true
	case microcode.SRC_Z:
		bus, drive = m.Z, true
	case microcode.SRC_SDR:
		bus, drive = m.SDR, true
	}

	if drive {
		sinks := cw.Sinks()
		if sinks&microcode.SINK_ACCU != 0 {
			m.Accu = bus & alu.WORD_MASK
		}
		if sinks&microcode.SINK_IAR != 0 {
			m.IAR = bus & alu.ADDRESS_MASK
		}
		if sinks&microcode.SINK_IR != 0 {
			m.IR = bus & alu.WORD_MASK
		}
		if sinks&microcode.SINK_SAR != 0 {
			m.SAR = bus & alu.ADDRESS_MASK
		}
		if sinks&microcode.SINK_SDR != 0 {
			m.SDR = bus & alu.WORD_MASK
		}
		if sinks&microcode.SINK_X != 0 {
			m.X = bus & alu.WORD_MASK
		}
		if sinks&microcode.SINK_Y != 0 {
			m.Y = bus & alu.WORD_MASK
		}
	}

	// ALU: Z latches at the end of any cycle asserting a function.
	if fn := cw.Fn(); fn != alu.FN_PASS {
		m.Z = fn.Apply(m.X, m.Y)
	}

	// Memory sub-cycle: a read or write takes three consecutive
	// cycles; the data moves on the third. SDR latches after the bus
	// transfer, so the value read is usable from the next cycle on.
	if cw.MemRead() && cw.MemWrite() {
		panic(fmt.Sprintf("control word %#07x asserts R and W", uint32(cw)))
	}
	if cw.MemRead() {
		m.readRun += 1
		if m.readRun == 3 {
			// Access complete; a continued R starts a new access.
			m.SDR = m.Memory.Get(m.SAR)
			m.readRun = 0
		}
	} else {
		m.readRun = 0
	}
	if cw.MemWrite() {
		m.writeRun += 1
		if m.writeRun == 3 {
			m.Memory.Set(m.SAR, m.SDR)
			m.writeRun = 0
		}
	} else {
		m.writeRun = 0
	}
}

// Instructions returns the instructions completed since reset.
func (m *Mima) Instructions() uint64 {
	return m.insns
}

// StepInstruction ticks until the current instruction has completed
// and the next fetch prelude has begun, or the machine halts.
func (m *Mima) StepInstruction() {
	insns := m.insns
	for !m.halted && m.insns == insns {
		m.Tick()
	}
}

// Run ticks until the machine halts.
func (m *Mima) Run() {
	for !m.halted {
		m.Tick()
	}
}
