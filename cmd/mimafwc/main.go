// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// The MIMA firmware compiler.
//
// Takes a firmware description in register-transfer notation and
// outputs the compiled firmware binary. With --default, outputs the
// stock firmware listing in human-readable form instead, for study or
// modification before compiling.
package main

import (
	"io"
	"log"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/mimarch/mima/microcode"
)

func main() {
	optOutput := getopt.StringLong("output", 'o', "", "Output file (default stdout)")
	optDefault := getopt.BoolLong("default", 'd', "Output the stock firmware source")
	optVerbose := getopt.BoolLong("verbose", 'v', "Verbose mode")
	optHelp := getopt.BoolLong("help", 'h', "Help")

	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	out := io.Writer(os.Stdout)
	if len(*optOutput) != 0 {
		ouf, err := os.Create(*optOutput)
		if err != nil {
			log.Fatalf("%v: %v", *optOutput, err)
		}
		defer ouf.Close()
		out = ouf
	}

	if *optDefault {
		_, err := io.WriteString(out, microcode.DefaultSource())
		if err != nil {
			log.Fatalf("%v: %v", *optOutput, err)
		}
		return
	}

	in := io.Reader(os.Stdin)
	name := "-"
	if getopt.NArgs() > 1 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], getopt.Args()[1:])
	}
	if getopt.NArgs() == 1 {
		name = getopt.Arg(0)
		inf, err := os.Open(name)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}
		defer inf.Close()
		in = inf
	}

	c := &microcode.Compiler{Verbose: *optVerbose}
	fw, err := c.Parse(in)
	if err != nil {
		log.Fatalf("%v: %v", name, err)
	}

	err = fw.Save(out)
	if err != nil {
		log.Fatalf("%v: %v", *optOutput, err)
	}
}
