package microcode

import (
	"fmt"

	"github.com/mimarch/mima/alu"
)

// Instruction opcodes. The top 4 bits of an instruction word select a
// regular opcode; the value 0xF escapes to the extended set, where
// the next 4 bits complete an 8-bit effective opcode. Regular
// instructions carry a 20-bit address operand in the low 20 bits;
// extended instructions ignore them.
const (
	OPCODE_LDC  = uint8(0x0)
	OPCODE_LDV  = uint8(0x1)
	OPCODE_STV  = uint8(0x2)
	OPCODE_ADD  = uint8(0x3)
	OPCODE_AND  = uint8(0x4)
	OPCODE_OR   = uint8(0x5)
	OPCODE_XOR  = uint8(0x6)
	OPCODE_EQL  = uint8(0x7)
	OPCODE_JMP  = uint8(0x8)
	OPCODE_JMN  = uint8(0x9)
	OPCODE_LDIV = uint8(0xa)
	OPCODE_STIV = uint8(0xb)
	OPCODE_JMS  = uint8(0xc)
	OPCODE_JIND = uint8(0xd)

	OPCODE_HALT = uint8(0xf0)
	OPCODE_NOT  = uint8(0xf1)
	OPCODE_RAR  = uint8(0xf2)
)

// EXTENDED_ESCAPE is the primary opcode nibble that escapes to the
// extended opcode set.
const EXTENDED_ESCAPE = uint8(0xf)

// Extended reports whether an effective opcode is from the extended
// set.
func Extended(opcode uint8) bool {
	return opcode>>4 == EXTENDED_ESCAPE
}

// Mnemonics maps assembly mnemonics to effective opcodes.
var Mnemonics = map[string]uint8{
	"LDC":  OPCODE_LDC,
	"LDV":  OPCODE_LDV,
	"STV":  OPCODE_STV,
	"ADD":  OPCODE_ADD,
	"AND":  OPCODE_AND,
	"OR":   OPCODE_OR,
	"XOR":  OPCODE_XOR,
	"EQL":  OPCODE_EQL,
	"JMP":  OPCODE_JMP,
	"JMN":  OPCODE_JMN,
	"LDIV": OPCODE_LDIV,
	"STIV": OPCODE_STIV,
	"JMS":  OPCODE_JMS,
	"JIND": OPCODE_JIND,
	"HALT": OPCODE_HALT,
	"NOT":  OPCODE_NOT,
	"RAR":  OPCODE_RAR,
}

// MnemonicOf returns the mnemonic of an effective opcode, or its hex
// form when the opcode is not part of the stock instruction set.
func MnemonicOf(opcode uint8) string {
	for name, op := range Mnemonics {
		if op == opcode {
			return name
		}
	}

	return fmt.Sprintf("0x%02X", opcode)
}

// Encode packs an effective opcode and a 20-bit address operand into
// an instruction word. Extended opcodes take no operand.
func Encode(opcode uint8, arg uint32) uint32 {
	if Extended(opcode) {
		return uint32(opcode) << 16
	}

	return uint32(opcode)<<20 | arg&alu.ADDRESS_MASK
}

// Decode splits an instruction word into its effective opcode and
// address operand.
func Decode(word uint32) (opcode uint8, arg uint32) {
	opcode = uint8(word >> 20)
	if opcode == EXTENDED_ESCAPE {
		opcode = uint8(word >> 16)
	}
	arg = word & alu.ADDRESS_MASK

	return
}
