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

// node is a stored trie node: empty, internal or leaf.
//
// Compactness invariant: an internal node never has children
// (Empty, Empty), (Empty, Leaf) or (Leaf, Empty); such a configuration
// collapses to the contained child.
type node interface {
	hash() Hash
}

type empty struct{}

type internal struct {
	left  Label
	right Label
}

type leaf struct {
	key   wrap
	value wrap
}

func (empty) hash() Hash {
	return emptyHash
}

func (n internal) hash() Hash {
	return internalHash(n.left.Hash(), n.right.Hash())
}

func (n leaf) hash() Hash {
	return leafHash(n.key.digest, n.value.digest)
}

func nodesEqual(lho, rho node) bool {
	switch l := lho.(type) {
	case empty:
		_, ok := rho.(empty)
		return ok
	case internal:
		r, ok := rho.(internal)
		return ok && l.left == r.left && l.right == r.right
	case leaf:
		r, ok := rho.(leaf)
		return ok && l.key.equals(r.key) && l.value.equals(r.value)
	}
	return false
}
