package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

var (
	ErrClosed = errors.New("stream: stream is closed")
)

// All multi-byte values use a single canonical byte order on the wire
// regardless of the host byte order.
var wireOrder = binary.BigEndian

// A Stream is an ordered byte transport with endianness-normalized
// primitive encoding. Implementations differ only in the backing medium;
// the wire encoding is identical for all of them.
//
// Streams perform no internal retries. A short read or a write against a
// closed transport surfaces as an error to the caller.
type Stream interface {
	io.Closer

	WriteUint8(v uint8) error
	WriteUint16(v uint16) error
	WriteUint32(v uint32) error
	WriteUint64(v uint64) error
	WriteInt32(v int32) error
	WriteInt64(v int64) error
	WriteFloat32(v float32) error
	WriteFloat64(v float64) error
	WriteBool(v bool) error
	WriteString(v string) error
	WriteBytes(data []byte) error

	ReadUint8() (uint8, error)
	ReadUint16() (uint16, error)
	ReadUint32() (uint32, error)
	ReadUint64() (uint64, error)
	ReadInt32() (int32, error)
	ReadInt64() (int64, error)
	ReadFloat32() (float32, error)
	ReadFloat64() (float64, error)
	ReadBool() (bool, error)
	ReadString() (string, error)
	ReadBytes(count int) ([]byte, error)
}

// binaryStream implements the primitive encoding on top of a raw
// reader/writer pair. Concrete stream types embed it and supply the
// backing transport.
type binaryStream struct {
	r       io.Reader
	w       io.Writer
	closed  bool
	scratch [8]byte
}

func (s *binaryStream) write(count int) error {
	if s.closed {
		return ErrClosed
	}
	if s.w == nil {
		return errors.New("stream: not writable")
	}
	if _, err := s.w.Write(s.scratch[:count]); err != nil {
		return fmt.Errorf("stream: write failed: %v", err)
	}
	return nil
}

func (s *binaryStream) read(count int) error {
	if s.closed {
		return ErrClosed
	}
	if s.r == nil {
		return errors.New("stream: not readable")
	}
	if _, err := io.ReadFull(s.r, s.scratch[:count]); err != nil {
		return fmt.Errorf("stream: read failed: %v", err)
	}
	return nil
}

func (s *binaryStream) WriteUint8(v uint8) error {
	s.scratch[0] = v
	return s.write(1)
}

func (s *binaryStream) WriteUint16(v uint16) error {
	wireOrder.PutUint16(s.scratch[:2], v)
	return s.write(2)
}

func (s *binaryStream) WriteUint32(v uint32) error {
	wireOrder.PutUint32(s.scratch[:4], v)
	return s.write(4)
}

func (s *binaryStream) WriteUint64(v uint64) error {
	wireOrder.PutUint64(s.scratch[:8], v)
	return s.write(8)
}

func (s *binaryStream) WriteInt32(v int32) error {
	return s.WriteUint32(uint32(v))
}

func (s *binaryStream) WriteInt64(v int64) error {
	return s.WriteUint64(uint64(v))
}

func (s *binaryStream) WriteFloat32(v float32) error {
	return s.WriteUint32(math.Float32bits(v))
}

func (s *binaryStream) WriteFloat64(v float64) error {
	return s.WriteUint64(math.Float64bits(v))
}

func (s *binaryStream) WriteBool(v bool) error {
	if v {
		return s.WriteUint8(1)
	}
	return s.WriteUint8(0)
}

func (s *binaryStream) WriteString(v string) error {
	if err := s.WriteUint32(uint32(len(v))); err != nil {
		return err
	}
	return s.WriteBytes([]byte(v))
}

func (s *binaryStream) WriteBytes(data []byte) error {
	if s.closed {
		return ErrClosed
	}
	if s.w == nil {
		return errors.New("stream: not writable")
	}
	if len(data) == 0 {
		return nil
	}
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("stream: write failed: %v", err)
	}
	return nil
}

func (s *binaryStream) ReadUint8() (uint8, error) {
	if err := s.read(1); err != nil {
		return 0, err
	}
	return s.scratch[0], nil
}

func (s *binaryStream) ReadUint16() (uint16, error) {
	if err := s.read(2); err != nil {
		return 0, err
	}
	return wireOrder.Uint16(s.scratch[:2]), nil
}

func (s *binaryStream) ReadUint32() (uint32, error) {
	if err := s.read(4); err != nil {
		return 0, err
	}
	return wireOrder.Uint32(s.scratch[:4]), nil
}

func (s *binaryStream) ReadUint64() (uint64, error) {
	if err := s.read(8); err != nil {
		return 0, err
	}
	return wireOrder.Uint64(s.scratch[:8]), nil
}

func (s *binaryStream) ReadInt32() (int32, error) {
	v, err := s.ReadUint32()
	return int32(v), err
}

func (s *binaryStream) ReadInt64() (int64, error) {
	v, err := s.ReadUint64()
	return int64(v), err
}

func (s *binaryStream) ReadFloat32() (float32, error) {
	v, err := s.ReadUint32()
	return math.Float32frombits(v), err
}

func (s *binaryStream) ReadFloat64() (float64, error) {
	v, err := s.ReadUint64()
	return math.Float64frombits(v), err
}

func (s *binaryStream) ReadBool() (bool, error) {
	v, err := s.ReadUint8()
	return v != 0, err
}

func (s *binaryStream) ReadString() (string, error) {
	count, err := s.ReadUint32()
	if err != nil {
		return "", err
	}
	data, err := s.ReadBytes(int(count))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *binaryStream) ReadBytes(count int) ([]byte, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.r == nil {
		return nil, errors.New("stream: not readable")
	}
	data := make([]byte, count)
	if count == 0 {
		return data, nil
	}
	if _, err := io.ReadFull(s.r, data); err != nil {
		return nil, fmt.Errorf("stream: read failed: %v", err)
	}
	return data, nil
}
