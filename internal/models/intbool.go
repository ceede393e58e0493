package models

import (
	"bytes"
	"fmt"
	"strconv"
)

// IntBool is a boolean that the marketplace API encodes as 0 or 1.
// It also tolerates JSON true/false for forward compatibility.
type IntBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *IntBool) UnmarshalJSON(data []byte) error {
	switch {
	case bytes.Equal(data, []byte("true")):
		*b = true
	case bytes.Equal(data, []byte("false")), bytes.Equal(data, []byte("null")):
		*b = false
	default:
		n, err := strconv.Atoi(string(data))
		if err != nil {
			return fmt.Errorf("models: invalid int-bool %q: %w", data, err)
		}
		*b = n != 0
	}
	return nil
}

// MarshalJSON implements json.Marshaler, keeping the upstream 0/1 encoding.
func (b IntBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// Bool returns the plain boolean value.
func (b IntBool) Bool() bool { return bool(b) }
