// Package mima implements the MIMA micro-sequencer.
//
// The machine is a 24-bit accumulator CPU with a 20-bit address
// space, driven one micro-cycle at a time by firmware control words.
// Steps 0..2 of every instruction are the hardwired fetch prelude;
// from step 3 the sequencer interprets the firmware table until it
// reaches the end-of-instruction marker. HALT and the conditional
// jump JMN are hardwired in the decode step.
//
// The package also reads and writes the textual memory-image format
// produced by the assembler.
package mima
