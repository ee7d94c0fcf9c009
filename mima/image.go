package mima

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/mimarch/mima/alu"
	"github.com/mimarch/mima/internal"
)

// START_LABEL marks the initial IAR in a memory image.
const START_LABEL = "START"

// Image is a loadable memory image: initialized cells plus the labels
// the assembler attached to them.
//
// The text format is one cell per line, `address value`, both
// hexadecimal; a `;` introduces the labels bound to that address.
type Image struct {
	Cells  map[uint32]uint32
	Labels map[string]uint32
}

// LoadImage parses a memory image from r.
func LoadImage(r io.Reader) (img *Image, err error) {
	img = &Image{
		Cells:  map[uint32]uint32{},
		Labels: map[string]uint32{},
	}

	scanner := bufio.NewScanner(r)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			img = nil
			err = ErrImageLine{LineNo: lineno, Line: line, Err: err}
		}
	}()

	for scanner.Scan() {
		lineno += 1
		line = strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		cell, labels, _ := strings.Cut(line, ";")

		fields := strings.Fields(cell)
		if len(fields) != 2 {
			err = ErrImageSyntax
			return
		}

		address, ok := internal.ParseNum(fields[0])
		if !ok || address < 0 || address > alu.ADDRESS_MASK {
			err = ErrImageAddress
			return
		}
		value, ok := internal.ParseNum(fields[1])
		if !ok || value < 0 || value > alu.WORD_MASK {
			err = ErrImageValue
			return
		}

		addr := uint32(address)
		if _, ok := img.Cells[addr]; ok {
			err = ErrImageDuplicate
			return
		}
		img.Cells[addr] = uint32(value)

		for _, label := range strings.Fields(labels) {
			img.Labels[label] = addr
		}
	}

	err = scanner.Err()

	return
}

// Save writes the image in its text format, cells in ascending
// address order.
func (img *Image) Save(w io.Writer) (err error) {
	byAddress := map[uint32][]string{}
	for label, addr := range img.Labels {
		byAddress[addr] = append(byAddress[addr], label)
	}

	addresses := slices.Sorted(maps.Keys(img.Cells))
	for _, addr := range addresses {
		_, err = fmt.Fprintf(w, "0x%05x 0x%06x", addr, img.Cells[addr])
		if err != nil {
			return
		}
		labels := byAddress[addr]
		if len(labels) > 0 {
			slices.Sort(labels)
			_, err = fmt.Fprintf(w, " ;%v", strings.Join(labels, " "))
			if err != nil {
				return
			}
		}
		_, err = fmt.Fprintln(w)
		if err != nil {
			return
		}
	}

	return
}

// Start resolves the START label.
func (img *Image) Start() (addr uint32, ok bool) {
	addr, ok = img.Labels[START_LABEL]
	return
}

// Resolve resolves a number or a label to an address.
func (img *Image) Resolve(text string) (addr uint32, err error) {
	value, ok := internal.ParseNum(text)
	if ok {
		if value < 0 || value > alu.ADDRESS_MASK {
			return 0, ErrImageAddress
		}
		return uint32(value), nil
	}

	addr, ok = img.Labels[text]
	if !ok {
		return 0, ErrLabelMissing(text)
	}

	return addr, nil
}

// ResolveStart resolves the initial IAR: the override (a number or a
// label) when given, the START label otherwise.
func (img *Image) ResolveStart(override string) (addr uint32, err error) {
	if len(override) == 0 {
		addr, ok := img.Start()
		if !ok {
			return 0, ErrImageStart
		}
		return addr, nil
	}

	return img.Resolve(override)
}

// LoadImage loads an image into memory.
func (m *Mima) LoadImage(img *Image) {
	for addr, value := range img.Cells {
		m.Memory.Set(addr, value)
	}
}
