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

// locate reconstructs the trie prefix at which an internal label
// currently sits. The position is not stored, so it is recovered: dive
// through internal children until both siblings are non-internal, take
// the common prefix of their key paths, and climb back up by the number
// of dives.
//
// Any leaf under an internal node shares the node's whole prefix, and
// the two siblings found at the bottom are guaranteed to diverge
// exactly one level below it; their common prefix is therefore the
// bottom node's position.
func locate(s *store, label Label) Prefix {
	dive, left, right := locateSiblings(s, label)
	common := commonPrefix(locateLeafPath(s, left), locateLeafPath(s, right))
	return common.Ancestor(dive)
}

// locateSiblings dives left-to-right through internal children until it
// finds a node with none, returning the dive count and that node's
// children.
func locateSiblings(s *store, label Label) (int, Label, Label) {
	e := s.lookup(label)
	if e == nil {
		panic("merkdb: locate reached a label absent from the store")
	}

	in, ok := e.node.(internal)
	if !ok {
		panic("merkdb: locate called on a non-internal node")
	}

	var child Label
	switch {
	case in.left.isInternal():
		child = in.left
	case in.right.isInternal():
		child = in.right
	default:
		return 0, in.left, in.right
	}

	dive, left, right := locateSiblings(s, child)
	return dive + 1, left, right
}

// locateLeafPath resolves a bottom sibling to its key path. Compactness
// leaves (Leaf, Leaf) as the only legal shape for an internal node with
// no internal children, so both siblings are leaves.
func locateLeafPath(s *store, label Label) Path {
	e := s.lookup(label)
	if e == nil {
		panic("merkdb: locate reached a label absent from the store")
	}

	lf, ok := e.node.(leaf)
	if !ok {
		panic("merkdb: locate expected a leaf sibling")
	}
	return pathFromHash(lf.key.digest)
}
