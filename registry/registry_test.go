package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joeylitalien/mitsuba/stream"
)

// A singly-linked node; links may form cycles.
type linkNode struct {
	Label string
	Next  *linkNode
}

func (n *linkNode) TypeTag() string { return "test.link" }

func (n *linkNode) Encode(enc *Encoder) error {
	if err := enc.Stream().WriteString(n.Label); err != nil {
		return err
	}
	var next Serializable
	if n.Next != nil {
		next = n.Next
	}
	return enc.EncodeGraph(next)
}

func (n *linkNode) Decode(dec *Decoder) error {
	label, err := dec.Stream().ReadString()
	if err != nil {
		return err
	}
	n.Label = label

	node, err := dec.DecodeGraph()
	if err != nil {
		return err
	}
	if node != nil {
		n.Next = node.(*linkNode)
	}
	return nil
}

// A node with two child references, for diamond sharing.
type pairNode struct {
	Left  *linkNode
	Right *linkNode
}

func (n *pairNode) TypeTag() string { return "test.pair" }

func (n *pairNode) Encode(enc *Encoder) error {
	if err := enc.EncodeGraph(n.Left); err != nil {
		return err
	}
	return enc.EncodeGraph(n.Right)
}

func (n *pairNode) Decode(dec *Decoder) error {
	node, err := dec.DecodeGraph()
	if err != nil {
		return err
	}
	n.Left = node.(*linkNode)

	if node, err = dec.DecodeGraph(); err != nil {
		return err
	}
	n.Right = node.(*linkNode)
	return nil
}

func init() {
	Register("test.link", func() Serializable { return &linkNode{} })
	Register("test.pair", func() Serializable { return &pairNode{} })
}

// A three-node cycle costs exactly three instance bodies and one
// back-reference for the closing edge; decoding yields the same cycle.
func TestCycleRoundTrip(t *testing.T) {
	a := &linkNode{Label: "a"}
	b := &linkNode{Label: "b"}
	c := &linkNode{Label: "c"}
	a.Next, b.Next, c.Next = b, c, a

	ms := stream.NewMemoryStream()
	enc := NewEncoder(ms)
	require.NoError(t, enc.EncodeGraph(a))
	require.Equal(t, 3, enc.Transmitted())
	require.Equal(t, 1, enc.BackRefs())

	node, err := NewDecoder(ms).DecodeGraph()
	require.NoError(t, err)

	a2 := node.(*linkNode)
	require.Equal(t, "a", a2.Label)
	require.Equal(t, "b", a2.Next.Label)
	require.Equal(t, "c", a2.Next.Next.Label)
	require.Same(t, a2, a2.Next.Next.Next)
}

func TestSelfReference(t *testing.T) {
	a := &linkNode{Label: "self"}
	a.Next = a

	ms := stream.NewMemoryStream()
	enc := NewEncoder(ms)
	require.NoError(t, enc.EncodeGraph(a))
	require.Equal(t, 1, enc.Transmitted())
	require.Equal(t, 1, enc.BackRefs())

	node, err := NewDecoder(ms).DecodeGraph()
	require.NoError(t, err)

	a2 := node.(*linkNode)
	require.Same(t, a2, a2.Next)
}

// A node referenced through two edges is transmitted once and decodes
// to a single shared instance.
func TestDiamondSharing(t *testing.T) {
	shared := &linkNode{Label: "shared"}
	pair := &pairNode{Left: shared, Right: shared}

	ms := stream.NewMemoryStream()
	enc := NewEncoder(ms)
	require.NoError(t, enc.EncodeGraph(pair))
	require.Equal(t, 2, enc.Transmitted())
	require.Equal(t, 1, enc.BackRefs())

	node, err := NewDecoder(ms).DecodeGraph()
	require.NoError(t, err)

	pair2 := node.(*pairNode)
	require.Same(t, pair2.Left, pair2.Right)
	require.Equal(t, "shared", pair2.Left.Label)
}

func TestNilReference(t *testing.T) {
	ms := stream.NewMemoryStream()
	require.NoError(t, NewEncoder(ms).EncodeGraph(nil))

	node, err := NewDecoder(ms).DecodeGraph()
	require.NoError(t, err)
	require.Nil(t, node)
}

func TestUnknownTypeTag(t *testing.T) {
	ms := stream.NewMemoryStream()
	require.NoError(t, ms.WriteUint8(markerInstance))
	require.NoError(t, ms.WriteString("test.unregistered"))

	_, err := NewDecoder(ms).DecodeGraph()
	require.ErrorIs(t, err, ErrUnknownTypeTag)
}

func TestBadBackReference(t *testing.T) {
	ms := stream.NewMemoryStream()
	require.NoError(t, ms.WriteUint8(markerBackRef))
	require.NoError(t, ms.WriteUint32(7))

	_, err := NewDecoder(ms).DecodeGraph()
	require.ErrorIs(t, err, ErrBadBackReference)
}

func TestBadMarker(t *testing.T) {
	ms := stream.NewMemoryStream()
	require.NoError(t, ms.WriteUint8(0x7f))

	_, err := NewDecoder(ms).DecodeGraph()
	require.ErrorIs(t, err, ErrBadMarker)
}

// A truncated stream surfaces the transport error instead of producing
// a partial graph.
func TestTruncatedStream(t *testing.T) {
	ms := stream.NewMemoryStream()
	require.NoError(t, ms.WriteUint8(markerInstance))

	_, err := NewDecoder(ms).DecodeGraph()
	require.Error(t, err)
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	require.Panics(t, func() {
		Register("test.link", func() Serializable { return &linkNode{} })
	})
}
