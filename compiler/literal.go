package compiler

import (
	"fmt"
	"strconv"
)

// parseByteLiteral parses a decimal integer literal and checks it fits the
// single byte every PUSH operand and stack cell is limited to. Literals
// that don't fit trigger an "integer literal N overflows a byte" diagnostic.
func parseByteLiteral(text string) (int64, error) {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer literal %q: %v", text, err)
	}
	if n < 0 || n > 255 {
		return 0, fmt.Errorf("integer literal %d overflows a byte (0-255)", n)
	}
	return n, nil
}
