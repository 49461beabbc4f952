package merkdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWireQuestionRoundTrip(t *testing.T) {
	var digest Hash
	digest[0], digest[31] = 0xab, 0xcd

	question := &Question{labels: []Label{
		{},
		internalLabel(0x80, digest),
		leafLabel(0x17, digest),
	}}

	encoded, err := question.MarshalBinary()
	require.NoError(t, err)

	decoded := new(Question)
	require.NoError(t, decoded.UnmarshalBinary(encoded))
	require.Equal(t, question.labels, decoded.labels)
}

func TestWireAnswerRoundTrip(t *testing.T) {
	db := New()
	table := tableWithRecords(t, db, keyRange(0, 32)...)

	sender := table.Send()
	answer := sender.Hello()

	encoded, err := answer.MarshalBinary()
	require.NoError(t, err)

	decoded := new(Answer)
	require.NoError(t, decoded.UnmarshalBinary(encoded))

	require.Len(t, decoded.nodes, len(answer.nodes))
	for i := range answer.nodes {
		require.True(t, nodesEqual(answer.nodes[i], decoded.nodes[i]), "node %d", i)
	}
}

func TestWireRejectsTruncation(t *testing.T) {
	db := New()
	table := tableWithRecords(t, db, keyRange(0, 8)...)

	answer := table.Send().Hello()
	encoded, err := answer.MarshalBinary()
	require.NoError(t, err)

	for _, cut := range []int{0, 3, 5, len(encoded) / 2, len(encoded) - 1} {
		decoded := new(Answer)
		require.ErrorIs(t, decoded.UnmarshalBinary(encoded[:cut]), ErrInvalidEncoding, "cut %d", cut)
	}
}

func TestWireRejectsTrailingBytes(t *testing.T) {
	question := &Question{labels: []Label{{}}}
	encoded, err := question.MarshalBinary()
	require.NoError(t, err)

	decoded := new(Question)
	require.ErrorIs(t, decoded.UnmarshalBinary(append(encoded, 0x00)), ErrInvalidEncoding)
}

func TestWireRejectsForgedWrapDigest(t *testing.T) {
	db := New()
	table := tableWithRecords(t, db, 0)

	answer := table.Send().Hello()
	encoded, err := answer.MarshalBinary()
	require.NoError(t, err)

	// The answer is a single leaf: count, tag, then the key wrap's
	// digest. Flip a digest bit so it no longer matches its payload.
	tampered := append([]byte(nil), encoded...)
	tampered[5] ^= 0x01

	decoded := new(Answer)
	require.ErrorIs(t, decoded.UnmarshalBinary(tampered), ErrInvalidEncoding)
}

func TestWireRejectsUnknownTags(t *testing.T) {
	decoded := new(Question)
	require.ErrorIs(t,
		decoded.UnmarshalBinary([]byte{0x00, 0x00, 0x00, 0x01, 0x7f}),
		ErrInvalidEncoding)

	answer := new(Answer)
	require.ErrorIs(t,
		answer.UnmarshalBinary([]byte{0x00, 0x00, 0x00, 0x01, 0x7f}),
		ErrInvalidEncoding)
}
