package assembler

import (
	"errors"

	"github.com/mimarch/mima/translate"
)

var f = translate.From

var (
	ErrLabelSyntax       = errors.New(f("label syntax"))
	ErrLabelDuplicate    = errors.New(f("label duplicated"))
	ErrConstantDuplicate = errors.New(f("constant duplicated"))
	ErrAddressRange      = errors.New(f("address out of range"))
	ErrAddressCollision  = errors.New(f("cell assembled twice"))
	ErrArgExtra          = errors.New(f("excessive arguments"))
	ErrArgMissing        = errors.New(f("value missing"))
)

type ErrMnemonic string

func (err ErrMnemonic) Error() string {
	return f("unknown mnemonic '%v'", string(err))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
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
