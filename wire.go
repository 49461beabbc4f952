// This is free and unencumbered software released into the public domain.
//
// Anyone is free to copy, modify, publish, use, compile, sell, or
// distribute this software, either in source code form or as a compiled
// binary, for any purpose, commercial or non-commercial, and by any
// means.
//
// In jurisdictions that recognize copyright laws, the author or authors
// of this software dedicate any and all copyright interest in the
// software to the public domain. We make this dedication for the benefit
// of the public at large and to the detriment of our heirs and
// successors. We intend this dedication to be an overt act of
// relinquishment in perpetuity of all present and future rights to this
// software under copyright law.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
// IN NO EVENT SHALL THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR
// OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
// ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.
//
// For more information, please refer to <https://unlicense.org>

package merkdb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Wire tags. Labels and nodes travel as tagged unions; wraps carry
// their digest followed by the length-prefixed payload.
const (
	wireEmpty    byte = 0x00
	wireInternal byte = 0x01
	wireLeaf     byte = 0x02
)

func writeLabel(w *bytes.Buffer, label Label) {
	switch label.kind {
	case labelEmpty:
		w.WriteByte(wireEmpty)
	case labelInternal:
		w.WriteByte(wireInternal)
		w.WriteByte(byte(label.shard))
		w.Write(label.hash[:])
	case labelLeaf:
		w.WriteByte(wireLeaf)
		w.WriteByte(byte(label.shard))
		w.Write(label.hash[:])
	}
}

func readLabel(r *bytes.Reader) (Label, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return Label{}, fmt.Errorf("%w: truncated label", ErrInvalidEncoding)
	}

	switch tag {
	case wireEmpty:
		return Label{}, nil
	case wireInternal, wireLeaf:
		shard, err := r.ReadByte()
		if err != nil {
			return Label{}, fmt.Errorf("%w: truncated label", ErrInvalidEncoding)
		}
		var hash Hash
		if _, err := io.ReadFull(r, hash[:]); err != nil {
			return Label{}, fmt.Errorf("%w: truncated label", ErrInvalidEncoding)
		}
		if tag == wireInternal {
			return internalLabel(shardID(shard), hash), nil
		}
		return leafLabel(shardID(shard), hash), nil
	default:
		return Label{}, fmt.Errorf("%w: unknown label tag %#02x", ErrInvalidEncoding, tag)
	}
}

func writeWrap(w *bytes.Buffer, wr wrap) {
	w.Write(wr.digest[:])

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(wr.inner)))
	w.Write(length[:])
	w.Write(wr.inner)
}

// readWrap decodes a wrap and recomputes its digest: a transmitted
// digest that disagrees with its payload is an encoding fault, not
// something to verify downstream.
func readWrap(r *bytes.Reader) (wrap, error) {
	var digest Hash
	if _, err := io.ReadFull(r, digest[:]); err != nil {
		return wrap{}, fmt.Errorf("%w: truncated wrap", ErrInvalidEncoding)
	}

	var length [4]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return wrap{}, fmt.Errorf("%w: truncated wrap", ErrInvalidEncoding)
	}
	size := binary.BigEndian.Uint32(length[:])
	if uint64(size) > uint64(r.Len()) {
		return wrap{}, fmt.Errorf("%w: wrap length overruns buffer", ErrInvalidEncoding)
	}

	inner := make([]byte, size)
	if _, err := io.ReadFull(r, inner); err != nil {
		return wrap{}, fmt.Errorf("%w: truncated wrap", ErrInvalidEncoding)
	}

	computed, err := hashField(inner)
	if err != nil || computed != digest {
		return wrap{}, fmt.Errorf("%w: wrap digest mismatch", ErrInvalidEncoding)
	}

	return rawWrap(digest, inner), nil
}

func writeNode(w *bytes.Buffer, n node) {
	switch n := n.(type) {
	case empty:
		w.WriteByte(wireEmpty)
	case internal:
		w.WriteByte(wireInternal)
		writeLabel(w, n.left)
		writeLabel(w, n.right)
	case leaf:
		w.WriteByte(wireLeaf)
		writeWrap(w, n.key)
		writeWrap(w, n.value)
	}
}

func readNode(r *bytes.Reader) (node, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: truncated node", ErrInvalidEncoding)
	}

	switch tag {
	case wireEmpty:
		return empty{}, nil
	case wireInternal:
		left, err := readLabel(r)
		if err != nil {
			return nil, err
		}
		right, err := readLabel(r)
		if err != nil {
			return nil, err
		}
		return internal{left: left, right: right}, nil
	case wireLeaf:
		key, err := readWrap(r)
		if err != nil {
			return nil, err
		}
		value, err := readWrap(r)
		if err != nil {
			return nil, err
		}
		return leaf{key: key, value: value}, nil
	default:
		return nil, fmt.Errorf("%w: unknown node tag %#02x", ErrInvalidEncoding, tag)
	}
}

// MarshalBinary encodes the question as a count-prefixed label list.
func (q *Question) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer

	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(len(q.labels)))
	buf.Write(count[:])

	for _, label := range q.labels {
		writeLabel(&buf, label)
	}
	return buf.Bytes(), nil
}

func (q *Question) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	var count [4]byte
	if _, err := io.ReadFull(r, count[:]); err != nil {
		return fmt.Errorf("%w: truncated question", ErrInvalidEncoding)
	}

	total := binary.BigEndian.Uint32(count[:])
	labels := make([]Label, 0, clampCapacity(total))
	for i := uint32(0); i < total; i++ {
		label, err := readLabel(r)
		if err != nil {
			return err
		}
		labels = append(labels, label)
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: trailing bytes after question", ErrInvalidEncoding)
	}

	q.labels = labels
	return nil
}

// MarshalBinary encodes the answer as a count-prefixed node list in the
// sender's traversal order.
func (a *Answer) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer

	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(len(a.nodes)))
	buf.Write(count[:])

	for _, n := range a.nodes {
		writeNode(&buf, n)
	}
	return buf.Bytes(), nil
}

func (a *Answer) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	var count [4]byte
	if _, err := io.ReadFull(r, count[:]); err != nil {
		return fmt.Errorf("%w: truncated answer", ErrInvalidEncoding)
	}

	total := binary.BigEndian.Uint32(count[:])
	nodes := make([]node, 0, clampCapacity(total))
	for i := uint32(0); i < total; i++ {
		n, err := readNode(r)
		if err != nil {
			return err
		}
		nodes = append(nodes, n)
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: trailing bytes after answer", ErrInvalidEncoding)
	}

	a.nodes = nodes
	return nil
}

// clampCapacity bounds pre-allocation so a forged count cannot balloon
// memory before decoding fails.
func clampCapacity(count uint32) uint32 {
	if count > 1<<16 {
		return 1 << 16
	}
	return count
}
