package microcode

import (
	_ "embed"
	"strings"
)

//go:embed default.mcf
var defaultSource string

// DefaultSource returns the stock firmware listing in human-readable
// microcode notation, suitable for study or modification before
// compiling.
func DefaultSource() string {
	return defaultSource
}

// Default compiles the stock firmware. The listing is part of the
// build; failing to compile it is a programmer error.
func Default() *Firmware {
	c := &Compiler{}
	fw, err := c.Parse(strings.NewReader(defaultSource))
	if err != nil {
		panic(err)
	}

	return fw
}
