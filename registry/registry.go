// Package registry serializes polymorphic object graphs over a stream.
// Shared references and cycles are preserved: every distinct node is
// transmitted exactly once per session and later occurrences are encoded
// as back-references to the sequence number assigned on first write.
package registry

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrUnknownTypeTag   = errors.New("registry: unknown type tag")
	ErrBadBackReference = errors.New("registry: back-reference to undefined sequence number")
	ErrBadMarker        = errors.New("registry: malformed stream marker")
)

// A Serializable is an object graph node. The type tag selects the
// factory used to reconstruct the node on the reading side; Encode and
// Decode handle the node body and may recursively encode or decode
// referenced nodes through the session.
type Serializable interface {
	TypeTag() string
	Encode(enc *Encoder) error
	Decode(dec *Decoder) error
}

var (
	typeMu    sync.RWMutex
	factories = make(map[string]func() Serializable)
)

// Register a factory for a type tag. Registering the same tag twice is a
// programmer error and panics.
func Register(tag string, factory func() Serializable) {
	typeMu.Lock()
	defer typeMu.Unlock()
	if _, exists := factories[tag]; exists {
		panic(fmt.Sprintf("registry: type tag %q registered twice", tag))
	}
	factories[tag] = factory
}

func factoryFor(tag string) (func() Serializable, bool) {
	typeMu.RLock()
	defer typeMu.RUnlock()
	factory, exists := factories[tag]
	return factory, exists
}
