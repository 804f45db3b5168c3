package stream

import "bytes"

// A MemoryStream buffers written data in memory. Reads consume data in
// write order, making it suitable for in-process round-trips and tests.
type MemoryStream struct {
	binaryStream
	buf *bytes.Buffer
}

// Create a new empty in-memory stream.
func NewMemoryStream() *MemoryStream {
	buf := new(bytes.Buffer)
	ms := &MemoryStream{buf: buf}
	ms.r = buf
	ms.w = buf
	return ms
}

// Get the number of buffered bytes not yet consumed by reads.
func (ms *MemoryStream) Len() int {
	return ms.buf.Len()
}

// Close the stream. Further reads and writes fail with ErrClosed.
func (ms *MemoryStream) Close() error {
	ms.closed = true
	return nil
}
