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

import "fmt"

type labelKind uint8

const (
	labelEmpty labelKind = iota
	labelInternal
	labelLeaf
)

// shardID addresses one of the 2^storeDepth shard maps of a store.
//
// Internal nodes are sharded by where they sit in the trie (the first
// storeDepth bits of their position), leaves by the first byte of their
// key digest: an internal node's shard is stable under parallel
// traversal by physical position, while a leaf can float anywhere along
// its key path and so must be addressable by the key alone.
type shardID uint8

func internalShard(position Prefix) shardID {
	var id shardID
	for bit := 0; bit < storeDepth && bit < position.Depth(); bit++ {
		if position.Dive(bit) == Left {
			id |= 1 << (7 - bit)
		}
	}
	return id
}

func leafShard(keyDigest Hash) shardID {
	return shardID(keyDigest[0])
}

func (s shardID) index() int {
	return int(s) >> (8 - storeDepth)
}

// Label identifies a node in the store. The zero value is the label of
// the canonical empty node.
type Label struct {
	kind  labelKind
	shard shardID
	hash  Hash
}

func internalLabel(shard shardID, hash Hash) Label {
	return Label{kind: labelInternal, shard: shard, hash: hash}
}

func leafLabel(shard shardID, hash Hash) Label {
	return Label{kind: labelLeaf, shard: shard, hash: hash}
}

func (l Label) IsEmpty() bool {
	return l.kind == labelEmpty
}

func (l Label) isInternal() bool {
	return l.kind == labelInternal
}

func (l Label) isLeaf() bool {
	return l.kind == labelLeaf
}

// Hash returns the content hash the label commits to; zero for Empty.
func (l Label) Hash() Hash {
	if l.kind == labelEmpty {
		return emptyHash
	}
	return l.hash
}

func (l Label) String() string {
	switch l.kind {
	case labelInternal:
		return fmt.Sprintf("Internal(%02x, %s)", uint8(l.shard), l.hash)
	case labelLeaf:
		return fmt.Sprintf("Leaf(%02x, %s)", uint8(l.shard), l.hash)
	default:
		return "Empty"
	}
}
