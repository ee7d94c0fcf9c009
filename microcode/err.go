package microcode

import (
	"errors"

	"github.com/mimarch/mima/translate"
)

var f = translate.From

var (
	// Firmware load errors
	ErrFirmwareHeader   = errors.New(f("firmware header truncated"))
	ErrFirmwareMagic    = errors.New(f("bad firmware magic"))
	ErrFirmwareVersion  = errors.New(f("unsupported firmware version"))
	ErrFirmwareReserved = errors.New(f("reserved firmware bits set"))
	ErrFirmwareLength   = errors.New(f("bad firmware length"))

	// Microcode syntax errors
	ErrDefineSyntax = errors.New(f("define syntax"))
	ErrStatement    = errors.New(f("statement syntax"))
	ErrAluFn        = errors.New(f("alu function invalid"))

	// Microcode semantic errors
	ErrOpcodeRange     = errors.New(f("opcode out of range"))
	ErrOpcodeDuplicate = errors.New(f("opcode duplicated"))
	ErrOpcodeNoSlot    = errors.New(f("opcode has no microcode slot"))
	ErrCycleOrphan     = errors.New(f("cycle line before any define"))
	ErrCycleCount      = errors.New(f("too many cycle lines"))
	ErrCycleEmpty      = errors.New(f("cycle encodes to the end marker"))
	ErrBusBusy         = errors.New(f("bus driven from multiple sources"))
	ErrNotSource       = errors.New(f("register cannot drive the bus"))
	ErrNotSink         = errors.New(f("register cannot latch from the bus"))
	ErrSinkConflict    = errors.New(f("sink duplicated"))
	ErrReadWrite       = errors.New(f("R and W both asserted"))
)

type ErrRegister string

func (err ErrRegister) Error() string {
	return f("unknown register '%v'", string(err))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
