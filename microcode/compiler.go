// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package microcode

import (
	"bufio"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/mimarch/mima/alu"
	"github.com/mimarch/mima/internal"
)

// Compiler assembles a textual microcode listing into a firmware
// table.
//
// Each opcode begins with a `define NAME HEX` header; the non-empty
// lines up to the next define are its cycle lines, one per micro-step
// starting at step 3 (the fetch prelude owns steps 0..2). A cycle
// line is a `;`-separated list of micro-statements:
//
//	Src -> Dst    enable bus source Src, latch into sink Dst
//	ALU fn        set the ALU function (mnemonic or 3-bit binary)
//	R = 1         assert memory read
//	W = 1         assert memory write
//
// Blank lines and lines beginning with `#` are comments.
type Compiler struct {
	Verbose bool // If set, verbosely logs the compiled cycles.
}

var (
	reTransfer = regexp.MustCompile(`^(\w+)\s*->\s*(\w+)$`)
	reMemBit   = regexp.MustCompile(`^([RW])\s*=\s*1$`)
	reAlu      = regexp.MustCompile(`^ALU\s+([A-Za-z01]+)$`)
)

// fnNames maps ALU mnemonics in microcode source.
var fnNames = map[string]alu.Fn{
	"add": alu.FN_ADD,
	"rar": alu.FN_RAR,
	"and": alu.FN_AND,
	"or":  alu.FN_OR,
	"xor": alu.FN_XOR,
	"not": alu.FN_NOT,
	"eql": alu.FN_EQL,
}

// parseCycle compiles a single cycle line into a control word.
func (c *Compiler) parseCycle(line string) (cw Control, err error) {
	var src, sinks Signal
	var fn alu.Fn
	var read, write bool

	for _, part := range strings.Split(line, ";") {
		part = strings.TrimSpace(part)

		switch {
		case reTransfer.MatchString(part):
			caps := reTransfer.FindStringSubmatch(part)

			bit, ok := srcNames[caps[1]]
			if !ok {
				if _, isSink := sinkNames[caps[1]]; isSink {
					err = ErrNotSource
				} else {
					err = ErrRegister(caps[1])
				}
				return
			}
			if src != 0 && src != bit {
				err = ErrBusBusy
				return
			}
			src = bit

			sink, ok := sinkNames[caps[2]]
			if !ok {
				if _, isSrc := srcNames[caps[2]]; isSrc {
					err = ErrNotSink
				} else {
					err = ErrRegister(caps[2])
				}
				return
			}
			if sinks&sink != 0 {
				err = ErrSinkConflict
				return
			}
			sinks |= sink

		case reMemBit.MatchString(part):
			caps := reMemBit.FindStringSubmatch(part)
			switch caps[1] {
			case "R":
				read = true
			case "W":
				write = true
			}
			if read && write {
				err = ErrReadWrite
				return
			}

		case reAlu.MatchString(part):
			caps := reAlu.FindStringSubmatch(part)
			named, ok := fnNames[caps[1]]
			if ok {
				fn = named
				break
			}
			code, perr := strconv.ParseUint(caps[1], 2, 3)
			if perr != nil || len(caps[1]) != 3 {
				err = ErrAluFn
				return
			}
			fn = alu.Fn(code)

		default:
			err = ErrStatement
			return
		}
	}

	cw = MakeControl(src, sinks, fn, read, write)

	return
}

// Parse compiles a microcode listing into a firmware table.
func (c *Compiler) Parse(input io.Reader) (fw *Firmware, err error) {
	scanner := bufio.NewScanner(input)

	fw = &Firmware{}
	defined := map[uint8]string{}

	var line string
	var lineno int

	name := ""
	slot := -1
	step := 0

	defer func() {
		if err != nil {
			fw = nil
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	for scanner.Scan() {
		lineno += 1
		line = strings.TrimSpace(scanner.Text())

		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		words := strings.Fields(line)
		if words[0] == "define" {
			if len(words) != 3 {
				err = ErrDefineSyntax
				return
			}

			value, ok := internal.ParseNum(words[2])
			if !ok {
				err = ErrDefineSyntax
				return
			}
			if value < 0 || value > 0xff {
				err = ErrOpcodeRange
				return
			}

			opcode := uint8(value)
			if _, ok := defined[opcode]; ok {
				err = ErrOpcodeDuplicate
				return
			}
			defined[opcode] = words[1]

			name = words[1]
			slot, ok = SlotOf(opcode)
			if !ok {
				// No table slot; only legal while the body
				// stays empty (e.g. the hardwired HALT).
				slot = -1
			}
			step = 3

			if c.Verbose {
				log.Printf("define %v opcode %#02x slot %v", name, opcode, slot)
			}
			continue
		}

		// Cycle line for the current define.
		if len(name) == 0 {
			err = ErrCycleOrphan
			return
		}
		if slot < 0 {
			err = ErrOpcodeNoSlot
			return
		}
		if step >= STEPS {
			err = ErrCycleCount
			return
		}

		var cw Control
		cw, err = c.parseCycle(line)
		if err != nil {
			return
		}
		if cw == 0 {
			err = ErrCycleEmpty
			return
		}

		fw[slot*STEPS+step] = cw
		if c.Verbose {
			log.Printf("%v step %v: %v", name, step, cw)
		}
		step += 1
	}

	err = scanner.Err()

	return
}
