package internal

import (
	"strconv"
	"strings"
)

// ParseNum parses a decimal or hexadecimal number literal.
// Hexadecimal values are prefixed with either "0x" or "$".
// A leading "-" negates the value.
func ParseNum(word string) (value int64, ok bool) {
	negate := false
	if strings.HasPrefix(word, "-") {
		negate = true
		word = word[1:]
	}

	base := 10
	switch {
	case strings.HasPrefix(word, "0x"), strings.HasPrefix(word, "0X"):
		base = 16
		word = word[2:]
	case strings.HasPrefix(word, "$"):
		base = 16
		word = word[1:]
	}

	if len(word) == 0 {
		return
	}

	value, err := strconv.ParseInt(word, base, 64)
	if err != nil {
		return 0, false
	}

	if negate {
		value = -value
	}

	return value, true
}
