package mima

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mimarch/mima/alu"
	"github.com/mimarch/mima/microcode"
)

// boot builds a machine around the stock firmware with the given
// memory cells.
func boot(cells map[uint32]uint32) *Mima {
	m := New(microcode.Default())
	for addr, value := range cells {
		m.Memory.Set(addr, value)
	}

	return m
}

// runChecked runs to HALT, asserting the register-width invariants on
// every cycle.
func runChecked(t *testing.T, m *Mima) {
	t.Helper()
	assert := assert.New(t)

	for !m.Halted() {
		m.Tick()
		assert.Zero(m.IAR & ^uint32(alu.ADDRESS_MASK), "IAR upper bits")
		assert.Zero(m.SAR & ^uint32(alu.ADDRESS_MASK), "SAR upper bits")
		assert.Zero(m.Z & ^uint32(alu.WORD_MASK), "Z width")
		assert.Zero(m.Accu & ^uint32(alu.WORD_MASK), "Accu width")
	}
}

func TestMima_LdcHalt(t *testing.T) {
	assert := assert.New(t)

	m := boot(map[uint32]uint32{
		0: microcode.Encode(microcode.OPCODE_LDC, 5),
		1: 0xf00000,
	})
	runChecked(t, m)

	assert.Equal(uint32(5), m.Accu)
	assert.Equal(uint32(1), m.IAR)

	// LDC is 3 fetch cycles plus one body cycle; the end marker
	// doubles as the next fetch's first cycle; HALT decodes at the
	// end of its prelude.
	assert.Equal(uint64(7), m.Cycles())
}

func TestMima_Add(t *testing.T) {
	assert := assert.New(t)

	m := boot(map[uint32]uint32{
		0:     microcode.Encode(microcode.OPCODE_LDV, 0x010),
		1:     microcode.Encode(microcode.OPCODE_ADD, 0x011),
		2:     microcode.Encode(microcode.OPCODE_HALT, 0),
		0x010: 0x000003,
		0x011: 0x000004,
	})
	runChecked(t, m)

	assert.Equal(uint32(7), m.Accu)
}

func TestMima_AddWrap(t *testing.T) {
	assert := assert.New(t)

	m := boot(map[uint32]uint32{
		0:     microcode.Encode(microcode.OPCODE_LDV, 0x010),
		1:     microcode.Encode(microcode.OPCODE_ADD, 0x011),
		2:     microcode.Encode(microcode.OPCODE_HALT, 0),
		0x010: 0xffffff,
		0x011: 0x000001,
	})
	runChecked(t, m)

	assert.Equal(uint32(0), m.Accu)
}

func TestMima_JmnTaken(t *testing.T) {
	assert := assert.New(t)

	m := boot(map[uint32]uint32{
		0:     microcode.Encode(microcode.OPCODE_LDV, 0x020),
		1:     microcode.Encode(microcode.OPCODE_JMN, 0x010),
		2:     microcode.Encode(microcode.OPCODE_HALT, 0),
		0x010: microcode.Encode(microcode.OPCODE_LDC, 0x42),
		0x011: microcode.Encode(microcode.OPCODE_HALT, 0),
		0x020: 0xffffff, // negative
	})
	runChecked(t, m)

	assert.Equal(uint32(0x42), m.Accu)
	assert.Equal(uint32(0x011), m.IAR)
}

func TestMima_JmnNotTaken(t *testing.T) {
	assert := assert.New(t)

	m := boot(map[uint32]uint32{
		0:     microcode.Encode(microcode.OPCODE_LDC, 1),
		1:     microcode.Encode(microcode.OPCODE_JMN, 0x010),
		2:     microcode.Encode(microcode.OPCODE_HALT, 0),
		0x010: microcode.Encode(microcode.OPCODE_LDC, 0x42),
		0x011: microcode.Encode(microcode.OPCODE_HALT, 0),
	})
	runChecked(t, m)

	assert.Equal(uint32(1), m.Accu)
	assert.Equal(uint32(2), m.IAR)
}

func TestMima_JmsJind(t *testing.T) {
	assert := assert.New(t)

	m := boot(map[uint32]uint32{
		0:     microcode.Encode(microcode.OPCODE_JMS, 0x100),
		1:     microcode.Encode(microcode.OPCODE_HALT, 0),
		0x101: microcode.Encode(microcode.OPCODE_LDC, 7),
		0x102: microcode.Encode(microcode.OPCODE_JIND, 0x100),
		0x103: microcode.Encode(microcode.OPCODE_HALT, 0),
	})
	runChecked(t, m)

	assert.Equal(uint32(7), m.Accu)
	assert.Equal(uint32(1), m.Memory.Get(0x100), "return address")
	assert.Equal(uint32(1), m.IAR)
}

func TestMima_RarInvariance(t *testing.T) {
	assert := assert.New(t)

	cells := map[uint32]uint32{
		0:     microcode.Encode(microcode.OPCODE_LDV, 0x030),
		0x030: 0xabcde5,
	}
	for n := range uint32(24) {
		cells[1+n] = microcode.Encode(microcode.OPCODE_RAR, 0)
	}
	cells[25] = microcode.Encode(microcode.OPCODE_HALT, 0)

	m := boot(cells)
	runChecked(t, m)

	assert.Equal(uint32(0xabcde5), m.Accu)
}

func TestMima_Rar(t *testing.T) {
	assert := assert.New(t)

	m := boot(map[uint32]uint32{
		0: microcode.Encode(microcode.OPCODE_LDC, 1),
		1: microcode.Encode(microcode.OPCODE_RAR, 0),
		2: microcode.Encode(microcode.OPCODE_HALT, 0),
	})
	runChecked(t, m)

	assert.Equal(uint32(0x800000), m.Accu)
}

func TestMima_Not(t *testing.T) {
	assert := assert.New(t)

	m := boot(map[uint32]uint32{
		0: microcode.Encode(microcode.OPCODE_LDC, 0),
		1: microcode.Encode(microcode.OPCODE_NOT, 0),
		2: microcode.Encode(microcode.OPCODE_HALT, 0),
	})
	runChecked(t, m)

	assert.Equal(uint32(0xffffff), m.Accu)
}

func TestMima_Logic(t *testing.T) {
	assert := assert.New(t)

	for _, tc := range []struct {
		opcode uint8
		expect uint32
	}{
		{microcode.OPCODE_AND, 0x000000},
		{microcode.OPCODE_OR, 0x777777},
		{microcode.OPCODE_XOR, 0x777777},
	} {
		m := boot(map[uint32]uint32{
			0:     microcode.Encode(microcode.OPCODE_LDV, 0x010),
			1:     microcode.Encode(tc.opcode, 0x011),
			2:     microcode.Encode(microcode.OPCODE_HALT, 0),
			0x010: 0x123456,
			0x011: 0x654321,
		})
		runChecked(t, m)

		assert.Equal(tc.expect, m.Accu, "opcode %#02x", tc.opcode)
	}
}

func TestMima_Eql(t *testing.T) {
	assert := assert.New(t)

	for _, tc := range []struct {
		other  uint32
		expect uint32
	}{
		{0x123456, 0xffffff},
		{0x123457, 0x000000},
	} {
		m := boot(map[uint32]uint32{
			0:     microcode.Encode(microcode.OPCODE_LDV, 0x010),
			1:     microcode.Encode(microcode.OPCODE_EQL, 0x011),
			2:     microcode.Encode(microcode.OPCODE_HALT, 0),
			0x010: 0x123456,
			0x011: tc.other,
		})
		runChecked(t, m)

		assert.Equal(tc.expect, m.Accu)
	}
}

func TestMima_Stv(t *testing.T) {
	assert := assert.New(t)

	m := boot(map[uint32]uint32{
		0: microcode.Encode(microcode.OPCODE_LDC, 5),
		1: microcode.Encode(microcode.OPCODE_STV, 0x040),
		2: microcode.Encode(microcode.OPCODE_HALT, 0),
	})
	runChecked(t, m)

	assert.Equal(uint32(5), m.Memory.Get(0x040))
}

func TestMima_Stiv(t *testing.T) {
	assert := assert.New(t)

	m := boot(map[uint32]uint32{
		0:     microcode.Encode(microcode.OPCODE_LDC, 9),
		1:     microcode.Encode(microcode.OPCODE_STIV, 0x020),
		2:     microcode.Encode(microcode.OPCODE_HALT, 0),
		0x020: 0x000040,
	})
	runChecked(t, m)

	assert.Equal(uint32(9), m.Memory.Get(0x040))
}

func TestMima_Ldiv(t *testing.T) {
	assert := assert.New(t)

	m := boot(map[uint32]uint32{
		0:     microcode.Encode(microcode.OPCODE_LDIV, 0x020),
		1:     microcode.Encode(microcode.OPCODE_HALT, 0),
		0x020: 0x000040,
		0x040: 0x000077,
	})
	runChecked(t, m)

	assert.Equal(uint32(0x77), m.Accu)
}

func TestMima_Jmp(t *testing.T) {
	assert := assert.New(t)

	m := boot(map[uint32]uint32{
		0: microcode.Encode(microcode.OPCODE_JMP, 5),
		5: microcode.Encode(microcode.OPCODE_LDC, 3),
		6: microcode.Encode(microcode.OPCODE_HALT, 0),
	})
	runChecked(t, m)

	assert.Equal(uint32(3), m.Accu)
	assert.Equal(uint32(6), m.IAR)
}

func TestMima_HaltIdempotent(t *testing.T) {
	assert := assert.New(t)

	m := boot(map[uint32]uint32{
		0: microcode.Encode(microcode.OPCODE_LDC, 5),
		1: microcode.Encode(microcode.OPCODE_HALT, 0),
	})
	m.Run()

	before := *m
	for range 10 {
		m.Tick()
		m.StepInstruction()
	}
	assert.Equal(before.Accu, m.Accu)
	assert.Equal(before.IAR, m.IAR)
	assert.Equal(before.IR, m.IR)
	assert.Equal(before.cycles, m.cycles)
	assert.True(m.Halted())
}

func TestMima_UndefinedOpcodeIsNop(t *testing.T) {
	assert := assert.New(t)

	m := boot(map[uint32]uint32{
		0: 0xe12345, // no such opcode
		1: microcode.Encode(microcode.OPCODE_HALT, 0),
	})
	runChecked(t, m)

	assert.Equal(uint32(0), m.Accu)
	assert.Equal(uint32(1), m.IAR)
}

func TestMima_StepInstruction(t *testing.T) {
	assert := assert.New(t)

	m := boot(map[uint32]uint32{
		0:     microcode.Encode(microcode.OPCODE_LDV, 0x010),
		1:     microcode.Encode(microcode.OPCODE_ADD, 0x011),
		2:     microcode.Encode(microcode.OPCODE_HALT, 0),
		0x010: 0x000003,
		0x011: 0x000004,
	})

	m.StepInstruction()
	assert.Equal(uint32(3), m.Accu)
	assert.Equal(uint64(1), m.Instructions())

	m.StepInstruction()
	assert.Equal(uint32(7), m.Accu)
	assert.Equal(uint64(2), m.Instructions())

	m.StepInstruction()
	assert.True(m.Halted())
}

func TestMima_Reset(t *testing.T) {
	assert := assert.New(t)

	m := boot(map[uint32]uint32{
		0: microcode.Encode(microcode.OPCODE_LDC, 5),
		1: microcode.Encode(microcode.OPCODE_HALT, 0),
	})
	m.Run()
	assert.True(m.Halted())

	m.Reset()
	assert.False(m.Halted())
	assert.Zero(m.Accu)
	assert.Zero(m.Cycles())
	assert.Empty(m.Memory)
}

func TestMemory_Sparse(t *testing.T) {
	assert := assert.New(t)

	mem := Memory{}
	assert.Equal(uint32(0), mem.Get(0x12345))

	mem.Set(0x12345, 0x42)
	assert.Equal(uint32(0x42), mem.Get(0x12345))
	assert.Equal(1, len(mem))

	mem.Set(0x12345, 0)
	assert.Equal(uint32(0), mem.Get(0x12345))
	assert.Equal(0, len(mem))

	// Addresses and values truncate to their register widths.
	mem.Set(0x112345, 0x1ffffff)
	assert.Equal(uint32(0xffffff), mem.Get(0x12345))
}
