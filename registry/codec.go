package registry

import (
	"fmt"

	"github.com/joeylitalien/mitsuba/stream"
)

// Stream markers preceding every encoded node reference.
const (
	markerNil uint8 = iota
	markerInstance
	markerBackRef
)

// An Encoder is the write side of one registry session. It tracks the
// sequence number assigned to every node written so far; a node already
// seen in this session is emitted as a back-reference only.
type Encoder struct {
	s        stream.Stream
	ids      map[Serializable]uint32
	next     uint32
	backRefs int
}

// Create an encoder session on top of a stream. One session covers one
// graph transmission in one direction.
func NewEncoder(s stream.Stream) *Encoder {
	return &Encoder{
		s:   s,
		ids: make(map[Serializable]uint32),
	}
}

// Get the underlying stream for encoding node body fields.
func (e *Encoder) Stream() stream.Stream {
	return e.s
}

// Get the number of distinct node bodies written so far.
func (e *Encoder) Transmitted() int {
	return int(e.next)
}

// Get the number of back-references emitted so far.
func (e *Encoder) BackRefs() int {
	return e.backRefs
}

// Encode a node reference. The first occurrence of a node emits an
// instance marker, its type tag and its body; the sequence number is
// reserved before the body is written so a body that references the node
// being encoded (a cycle) resolves to a back-reference instead of
// recursing forever.
func (e *Encoder) EncodeGraph(node Serializable) error {
	if node == nil {
		return e.s.WriteUint8(markerNil)
	}

	if seq, seen := e.ids[node]; seen {
		e.backRefs++
		if err := e.s.WriteUint8(markerBackRef); err != nil {
			return err
		}
		return e.s.WriteUint32(seq)
	}

	if err := e.s.WriteUint8(markerInstance); err != nil {
		return err
	}
	if err := e.s.WriteString(node.TypeTag()); err != nil {
		return err
	}

	// Reserve the sequence number before writing the body.
	e.ids[node] = e.next
	e.next++

	return node.Encode(e)
}

// A Decoder is the read side of one registry session. Reconstructed
// nodes are registered in first-write order so back-references resolve
// by sequence number.
type Decoder struct {
	s     stream.Stream
	nodes []Serializable
}

// Create a decoder session on top of a stream.
func NewDecoder(s stream.Stream) *Decoder {
	return &Decoder{s: s}
}

// Get the underlying stream for decoding node body fields.
func (d *Decoder) Stream() stream.Stream {
	return d.s
}

// Decode a node reference written by Encoder.EncodeGraph. On an instance
// marker an empty node of the tagged type is allocated and registered
// under the next sequence number before its body is decoded, so a body
// may legally resolve a back-reference to the node still being
// populated.
func (d *Decoder) DecodeGraph() (Serializable, error) {
	marker, err := d.s.ReadUint8()
	if err != nil {
		return nil, err
	}

	switch marker {
	case markerNil:
		return nil, nil

	case markerBackRef:
		seq, err := d.s.ReadUint32()
		if err != nil {
			return nil, err
		}
		if int(seq) >= len(d.nodes) {
			return nil, fmt.Errorf("%w: %d", ErrBadBackReference, seq)
		}
		return d.nodes[seq], nil

	case markerInstance:
		tag, err := d.s.ReadString()
		if err != nil {
			return nil, err
		}
		factory, known := factoryFor(tag)
		if !known {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTypeTag, tag)
		}

		// Register before populating the body to keep cycles resolvable.
		node := factory()
		d.nodes = append(d.nodes, node)

		if err = node.Decode(d); err != nil {
			return nil, err
		}
		return node, nil

	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrBadMarker, marker)
	}
}
