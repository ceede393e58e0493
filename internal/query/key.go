// Package query implements the read-through cache all remote reads go
// through. Entries are keyed by [resource, params...] tuples; keys that
// share a resource prefix form a family and are invalidated together.
package query

import "strings"

// Key is a composite cache key. The first element names the resource
// family, the rest are call parameters.
type Key []string

// K builds a key from a resource family and its parameters.
func K(resource string, params ...string) Key {
	return append(Key{resource}, params...)
}

func (k Key) String() string { return strings.Join(k, "/") }

// Family returns the resource-family prefix of the key.
func (k Key) Family() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}
