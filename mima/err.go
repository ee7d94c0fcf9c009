package mima

import (
	"errors"

	"github.com/mimarch/mima/translate"
)

var f = translate.From

var (
	// Image load errors
	ErrImageSyntax    = errors.New(f("malformed cell line"))
	ErrImageAddress   = errors.New(f("address out of range"))
	ErrImageValue     = errors.New(f("value out of range"))
	ErrImageDuplicate = errors.New(f("address duplicated"))
	ErrImageStart     = errors.New(f("no START label"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrImageLine struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrImageLine) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrImageLine) Unwrap() error {
	return err.Err
}
