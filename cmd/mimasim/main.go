// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// The MIMA simulator.
//
// Needs a compiled firmware and an assembled memory image. Execution
// starts at the -s address or label, or at the image's START label.
// Memory cells can be poked before the run with -m address=value,
// where the address may be a label; this is useful for input. At the
// end, all labelled cells are printed.
package main

import (
	"fmt"
	"log"
	"maps"
	"os"
	"slices"
	"strings"

	getopt "github.com/pborman/getopt/v2"

	"github.com/mimarch/mima/internal"
	"github.com/mimarch/mima/microcode"
	"github.com/mimarch/mima/mima"
)

func main() {
	optStart := getopt.StringLong("start", 's', "", "Start address or label (default the START label)")
	optMem := getopt.ListLong("mem", 'm', "Set a memory cell, address=value; address may be a label")
	optVerbose := getopt.BoolLong("verbose", 'v', "Verbose mode")
	optHelp := getopt.BoolLong("help", 'h', "Help")

	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	if getopt.NArgs() != 2 {
		log.Fatalf("%v: expected a firmware file and an image file", os.Args[0])
	}

	fwf, err := os.Open(getopt.Arg(0))
	if err != nil {
		log.Fatalf("%v: %v", getopt.Arg(0), err)
	}
	defer fwf.Close()

	fw, err := microcode.Load(fwf)
	if err != nil {
		log.Fatalf("%v: %v", getopt.Arg(0), err)
	}

	imf, err := os.Open(getopt.Arg(1))
	if err != nil {
		log.Fatalf("%v: %v", getopt.Arg(1), err)
	}
	defer imf.Close()

	img, err := mima.LoadImage(imf)
	if err != nil {
		log.Fatalf("%v: %v", getopt.Arg(1), err)
	}

	m := mima.New(fw)
	m.Verbose = *optVerbose
	m.LoadImage(img)

	for _, memset := range *optMem {
		target, value, ok := strings.Cut(memset, "=")
		if !ok {
			log.Fatalf("-m %v: expected address=value", memset)
		}
		addr, err := img.Resolve(target)
		if err != nil {
			log.Fatalf("-m %v: %v", memset, err)
		}
		num, ok := internal.ParseNum(value)
		if !ok {
			log.Fatalf("-m %v: malformed value", memset)
		}
		m.Memory.Set(addr, uint32(num))
	}

	start, err := img.ResolveStart(*optStart)
	if err != nil {
		log.Fatalf("%v: %v", getopt.Arg(1), err)
	}
	m.Jump(start)

	// First label of each address, for the trace.
	labelOf := map[uint32]string{}
	for _, label := range slices.Sorted(maps.Keys(img.Labels)) {
		addr := img.Labels[label]
		if _, ok := labelOf[addr]; !ok {
			labelOf[addr] = label
		}
	}

	for !m.Halted() {
		iar := m.IAR
		m.StepInstruction()

		opcode, arg := microcode.Decode(m.IR)
		var argLabel string
		if opcode > microcode.OPCODE_LDC && !microcode.Extended(opcode) {
			if label, ok := labelOf[arg]; ok {
				argLabel = fmt.Sprintf(" (%v)", label)
			}
		}
		fmt.Printf("%6d [0x%05x] %10v (0x%02x)[%-4v] 0x%05x%v\n",
			m.Cycles(), iar, labelOf[iar], opcode,
			microcode.MnemonicOf(opcode), arg, argLabel)
	}

	for _, label := range slices.Sorted(maps.Keys(img.Labels)) {
		addr := img.Labels[label]
		data := m.Memory.Get(addr)
		fmt.Printf("  Cell 0x%05x %10v: 0x%06x (%v)\n", addr, label, data, data)
	}
}
