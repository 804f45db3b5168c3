package stream

import "net"

// A ConnStream sends the wire encoding over a network connection. It is
// used for master to worker links; both ends must agree on message
// ordering as the stream itself carries no framing.
type ConnStream struct {
	binaryStream
	conn net.Conn
}

// Wrap a network connection as a stream.
func NewConnStream(conn net.Conn) *ConnStream {
	cs := &ConnStream{conn: conn}
	cs.r = conn
	cs.w = conn
	return cs
}

// Get the address of the remote endpoint.
func (cs *ConnStream) RemoteAddr() string {
	return cs.conn.RemoteAddr().String()
}

// Close the underlying connection.
func (cs *ConnStream) Close() error {
	if cs.closed {
		return nil
	}
	cs.closed = true
	return cs.conn.Close()
}
