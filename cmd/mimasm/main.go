// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// The MIMA assembler.
//
// Takes input in the MIMA assembly language and outputs a memory
// image suitable for the simulator. Machine constants (memory size,
// word masks, firmware geometry) are predefined for use in $()
// expressions.
package main

import (
	"log"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/mimarch/mima/assembler"
	"github.com/mimarch/mima/internal"
	"github.com/mimarch/mima/microcode"
	"github.com/mimarch/mima/mima"
)

func main() {
	optOutput := getopt.StringLong("output", 'o', "out.mima", "Output file")
	optVerbose := getopt.BoolLong("verbose", 'v', "Verbose mode")
	optHelp := getopt.BoolLong("help", 'h', "Help")

	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	if getopt.NArgs() != 1 {
		log.Fatalf("%v: expected one input file", os.Args[0])
	}
	name := getopt.Arg(0)

	inf, err := os.Open(name)
	if err != nil {
		log.Fatalf("%v: %v", name, err)
	}
	defer inf.Close()

	asm := &assembler.Assembler{Verbose: *optVerbose}
	for attr, value := range internal.IterSeq2Concat(mima.Defines(), microcode.Defines()) {
		asm.Predefine(attr, value)
	}

	img, err := asm.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", name, err)
	}

	ouf, err := os.Create(*optOutput)
	if err != nil {
		log.Fatalf("%v: %v", *optOutput, err)
	}
	defer ouf.Close()

	err = img.Save(ouf)
	if err != nil {
		log.Fatalf("%v: %v", *optOutput, err)
	}
}
