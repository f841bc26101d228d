package octree

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAddress marks a node address whose digit sequence is not
// octal. Requests fail on it before any store query is issued.
var ErrInvalidAddress = errors.New("invalid node address")

// Address is the octal-digit path from the dataset root to an octree
// node. The empty address is the root; the length of the address is
// the node's LOD depth.
type Address string

// ParseAddress strips the wire prefix ("r" or "r.") from an encoded
// address and validates the remaining digits.
func ParseAddress(encoded string) (Address, error) {
	digits := strings.Trim(encoded, "r.")
	for _, d := range digits {
		if d < '0' || d > '7' {
			return "", fmt.Errorf("%w: %q", ErrInvalidAddress, encoded)
		}
	}
	return Address(digits), nil
}

// Depth returns the node's LOD depth.
func (a Address) Depth() int {
	return len(a)
}

// Child returns the address extended by one octant digit.
func (a Address) Child(octant int) Address {
	return a + Address(rune('0'+octant))
}
