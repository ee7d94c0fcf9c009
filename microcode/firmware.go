// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package microcode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
)

const (
	STEPS   = 16            // Micro-steps per opcode slot, 0..15.
	SLOTS   = 16            // Opcode slots in the table.
	ENTRIES = STEPS * SLOTS // Control words in a firmware table.
)

// Table slots reachable only through extended opcodes. A primary
// opcode nibble of 0xE never decodes (0x0..0xD are the regular
// opcodes), and 0xF escapes to the extended set, so these two slots
// are free to host extended instruction bodies.
const (
	SLOT_NOT = 0xe // Body of the extended NOT (0xF1) instruction.
	SLOT_RAR = 0xf // Body of the extended RAR (0xF2) instruction.
)

var _microcode_defines = map[string]string{
	"FW_STEPS":   fmt.Sprintf("%v", STEPS),
	"FW_SLOTS":   fmt.Sprintf("%v", SLOTS),
	"FW_ENTRIES": fmt.Sprintf("%v", ENTRIES),
}

// Defines for the microcode model.
func Defines() iter.Seq2[string, string] {
	return maps.All(_microcode_defines)
}

// Firmware is the flat table of control words implementing all
// opcodes. Entry (slot<<4)|step is the control word for micro-step
// `step` of the opcode assigned to `slot`; steps 0..2 are owned by
// the hardwired fetch prelude and stay zero.
type Firmware [ENTRIES]Control

// SlotOf maps an effective opcode byte to its table slot.
//
// Regular opcodes 0x00..0x0D index their own slot. Of the extended
// set only NOT and RAR carry microcode; they take the two slots no
// primary opcode can reach. HALT (0xF0) is hardwired in the
// sequencer and owns no slot, as does everything undefined.
func SlotOf(opcode uint8) (slot int, ok bool) {
	switch {
	case opcode <= 0x0d:
		return int(opcode), true
	case opcode == OPCODE_NOT:
		return SLOT_NOT, true
	case opcode == OPCODE_RAR:
		return SLOT_RAR, true
	}

	return 0, false
}

// At returns the control word for one step of a slot.
func (fw *Firmware) At(slot, step int) Control {
	return fw[slot*STEPS+step]
}

// Firmware binary format: an 8-byte header (magic, version, three
// reserved zero bytes) followed by 256 big-endian 32-bit entries
// whose upper 4 bits are reserved zero.
var fwMagic = [4]byte{'M', 'I', 'M', 'F'}

const FW_VERSION = 1

const fwBodyBytes = ENTRIES * 4

// Save serializes the firmware table to w.
func (fw *Firmware) Save(w io.Writer) (err error) {
	header := make([]byte, 8)
	copy(header, fwMagic[:])
	header[4] = FW_VERSION

	_, err = w.Write(header)
	if err != nil {
		return
	}

	body := make([]byte, fwBodyBytes)
	for n, cw := range fw {
		binary.BigEndian.PutUint32(body[n*4:], uint32(cw))
	}

	_, err = w.Write(body)

	return
}

// Load deserializes a firmware table from r, validating the header,
// the body length, and the reserved bits of every entry.
func Load(r io.Reader) (fw *Firmware, err error) {
	var header [8]byte
	_, err = io.ReadFull(r, header[:])
	if err != nil {
		err = errors.Join(ErrFirmwareHeader, err)
		return
	}

	if [4]byte(header[:4]) != fwMagic {
		err = ErrFirmwareMagic
		return
	}
	if header[4] != FW_VERSION {
		err = ErrFirmwareVersion
		return
	}
	if header[5] != 0 || header[6] != 0 || header[7] != 0 {
		err = ErrFirmwareReserved
		return
	}

	body := make([]byte, fwBodyBytes)
	_, err = io.ReadFull(r, body)
	if err != nil {
		err = errors.Join(ErrFirmwareLength, err)
		return
	}

	var extra [1]byte
	n, _ := r.Read(extra[:])
	if n != 0 {
		err = ErrFirmwareLength
		return
	}

	fw = &Firmware{}
	for n := range fw {
		entry := binary.BigEndian.Uint32(body[n*4:])
		if Signal(entry) & ^CONTROL_BITS != 0 || Signal(entry)&RESERVED_BITS != 0 {
			err = ErrFirmwareReserved
			return nil, err
		}
		fw[n] = Control(entry)
	}

	return
}
