// Package hexutil manipulates hexadecimal digit strings as nibble sequences.
// It backs the display helpers of the 128-bit integer types, which render
// values as fixed-width big-endian hex and shift them by whole nibbles.
package hexutil

import (
	"fmt"
	"strings"
)

const digits = "0123456789abcdef"

// Valid reports whether s consists only of hexadecimal digits. The empty
// string is not valid.
func Valid(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(digits, r) && !strings.ContainsRune("ABCDEF", r) {
			return false
		}
	}
	return true
}

// ShiftLeft shifts the hex string s left by n nibbles, keeping the original
// width. Digits shifted past the left edge are dropped; zeros fill from the
// right.
//
// Example:
//
//	ShiftLeft("12345678", 2) = "34567800"
func ShiftLeft(s string, n int) (string, error) {
	if !Valid(s) {
		return "", fmt.Errorf("hexutil: not a hex string: %q", s)
	}
	if n < 0 {
		return "", fmt.Errorf("hexutil: negative shift %d", n)
	}
	s = strings.ToLower(s)
	if n >= len(s) {
		return strings.Repeat("0", len(s)), nil
	}
	return s[n:] + strings.Repeat("0", n), nil
}

// ShiftRight shifts the hex string s right by n nibbles, keeping the original
// width. Digits shifted past the right edge are dropped; zeros fill from the
// left.
//
// Example:
//
//	ShiftRight("12345678", 2) = "00123456"
func ShiftRight(s string, n int) (string, error) {
	if !Valid(s) {
		return "", fmt.Errorf("hexutil: not a hex string: %q", s)
	}
	if n < 0 {
		return "", fmt.Errorf("hexutil: negative shift %d", n)
	}
	s = strings.ToLower(s)
	if n >= len(s) {
		return strings.Repeat("0", len(s)), nil
	}
	return strings.Repeat("0", n) + s[:len(s)-n], nil
}

// TrimZeros removes leading zero digits, leaving at least one digit.
//
// Example:
//
//	TrimZeros("000000010000000000000000") = "10000000000000000"
//	TrimZeros("0000") = "0"
func TrimZeros(s string) string {
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// Pad left-pads s with zeros to width digits. Strings already at or beyond
// width are returned unchanged.
func Pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
