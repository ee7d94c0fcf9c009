// Package microcode implements the MIMA control-word model and the
// firmware compiler.
//
// A control word packs the gate-enables of one micro-cycle: a single
// bus source, any number of bus sinks, a 3-bit ALU function, and the
// memory read/write enables. The firmware is a flat table of 256
// control words indexed by (slot<<4)|step, which the micro-sequencer
// interprets from step 3 onward after its hardwired fetch prelude.
//
// The compiler translates the textual microcode language (`define`
// headers followed by register-transfer cycle lines) into the table,
// and the package reads and writes the compiled binary format.
package microcode
