// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package assembler

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/mimarch/mima/alu"
	"github.com/mimarch/mima/internal"
	"github.com/mimarch/mima/microcode"
	"github.com/mimarch/mima/mima"
)

// Assembler is a single-pass assembler for the MIMA assembly
// language.
//
// One command per line, `;` starts a comment. A line may be prefixed
// with labels (`LOOP: LDV I`), `*= address` moves the location
// counter, `NAME = value` defines an assemble-time constant, and the
// pseudo-instruction `DS value` initializes a cell. Arguments are
// numbers, constants, or labels; `$( expr )` evaluates a compile-time
// expression over the names defined so far.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Label  map[string]uint32 // Map of labels to their cell address.
	Global map[string]int64  // Constants and labels, one namespace.

	predefine map[string]string // Predefines
}

// Predefine defines a constant ahead of parsing, or redefines an
// existing predefine.
func (asm *Assembler) Predefine(name string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// entry is one assembled command, pending argument resolution.
type entry struct {
	LineNo   int
	Line     string
	Address  uint32
	Mnemonic string
	Arg      string // empty for no argument
}

var (
	reOrigin   = regexp.MustCompile(`^\*\s*=\s*(\S+)$`)
	reConstant = regexp.MustCompile(`^([A-Za-z_]\w*)\s*=\s*(\S+)$`)
	reParen    = regexp.MustCompile(`\$\([^$]*\)`)
)

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string, lineno int) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{
		"LINENO": starlark.MakeInt(lineno),
	}
	for key, str := range asm.predefine {
		num, ok := internal.ParseNum(str)
		if !ok {
			// Ignore non-integer predefines.
			continue
		}
		pred[key] = starlark.MakeInt64(num)
	}
	for key, num := range asm.Global {
		pred[key] = starlark.MakeInt64(num)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = st_int64
	return
}

// valueOf resolves an argument word to its value: a number literal,
// or a constant or label defined anywhere in the source.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, ok := internal.ParseNum(word)
	if ok {
		return
	}

	value, ok = asm.Global[word]
	if !ok {
		err = ErrLabelMissing(word)
	}

	return
}

// define binds a name in the shared constant/label namespace.
func (asm *Assembler) define(name string, value int64, dup error) (err error) {
	if _, ok := asm.Global[name]; ok {
		return dup
	}
	asm.Global[name] = value

	return
}

// Parse assembles an input stream into a memory image.
func (asm *Assembler) Parse(input io.Reader) (img *mima.Image, err error) {
	scanner := bufio.NewScanner(input)

	asm.Label = map[string]uint32{}
	asm.Global = map[string]int64{}

	var entries []entry
	used := map[uint32]bool{}

	var line string
	var lineno int

	defer func() {
		if err != nil {
			img = nil
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	var next uint32
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		comment := strings.IndexByte(text, ';')
		if comment >= 0 {
			text = text[:comment]
		}
		line = strings.TrimSpace(text)
		if len(line) == 0 {
			continue
		}

		// Do $() evaluations
		line = reParen.ReplaceAllStringFunc(line, func(str string) string {
			value, _err := asm.parenEval(str[2:len(str)-1], lineno)
			if _err != nil {
				err = _err
			}
			return fmt.Sprintf("%v", value)
		})
		if err != nil {
			return
		}

		// *= address
		if caps := reOrigin.FindStringSubmatch(line); caps != nil {
			var value int64
			value, err = asm.valueOf(caps[1])
			if err != nil {
				return
			}
			if value < 0 || value > alu.ADDRESS_MASK {
				err = ErrAddressRange
				return
			}
			next = uint32(value)
			continue
		}

		// NAME = value
		if caps := reConstant.FindStringSubmatch(line); caps != nil {
			var value int64
			value, err = asm.valueOf(caps[2])
			if err != nil {
				return
			}
			err = asm.define(caps[1], value, ErrConstantDuplicate)
			if err != nil {
				return
			}
			continue
		}

		words := strings.Fields(line)

		// label: prefixes, possibly on a line of their own
		for len(words) > 0 && strings.HasSuffix(words[0], ":") {
			label := strings.TrimSuffix(words[0], ":")
			if len(label) == 0 {
				err = ErrLabelSyntax
				return
			}
			err = asm.define(label, int64(next), ErrLabelDuplicate)
			if err != nil {
				return
			}
			asm.Label[label] = next
			words = words[1:]
		}
		if len(words) == 0 {
			continue
		}

		if len(words) > 2 {
			err = ErrArgExtra
			return
		}

		mnemonic := words[0]
		arg := ""
		if len(words) == 2 {
			arg = words[1]
		}

		if mnemonic != "DS" {
			opcode, ok := microcode.Mnemonics[mnemonic]
			if !ok {
				err = ErrMnemonic(mnemonic)
				return
			}
			if microcode.Extended(opcode) && len(arg) != 0 {
				err = ErrArgExtra
				return
			}
		} else if len(arg) == 0 {
			err = ErrArgMissing
			return
		}

		if used[next] {
			err = ErrAddressCollision
			return
		}
		used[next] = true

		entries = append(entries, entry{
			LineNo:   lineno,
			Line:     line,
			Address:  next,
			Mnemonic: mnemonic,
			Arg:      arg,
		})
		next += 1
	}
	if err = scanner.Err(); err != nil {
		return
	}

	// Final pass: resolve arguments, now that every label is known.
	img = &mima.Image{
		Cells:  map[uint32]uint32{},
		Labels: map[string]uint32{},
	}
	for _, ent := range entries {
		var value int64
		if len(ent.Arg) != 0 {
			value, err = asm.valueOf(ent.Arg)
			if err != nil {
				lineno, line = ent.LineNo, ent.Line
				return
			}
		}

		var word uint32
		if ent.Mnemonic == "DS" {
			word = uint32(value) & alu.WORD_MASK
		} else {
			word = microcode.Encode(microcode.Mnemonics[ent.Mnemonic], uint32(value))
		}
		img.Cells[ent.Address] = word
	}
	for label, addr := range asm.Label {
		img.Labels[label] = addr
	}

	return
}
