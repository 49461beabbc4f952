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

// TreeNode is one node of a standalone exported tree: the full subtrees
// along the exported paths, stubs (hash only) elsewhere.
type TreeNode interface {
	Hash() Hash
}

type TreeEmpty struct{}

type TreeInternal struct {
	hash  Hash
	left  TreeNode
	right TreeNode
}

type TreeLeaf struct {
	hash  Hash
	key   wrap
	value wrap
}

// TreeStub stands in for a subtree that was not exported; only its hash
// is known.
type TreeStub struct {
	hash Hash
}

func (TreeEmpty) Hash() Hash       { return emptyHash }
func (n *TreeInternal) Hash() Hash { return n.hash }
func (n *TreeLeaf) Hash() Hash     { return n.hash }
func (n *TreeStub) Hash() Hash     { return n.hash }

func (n *TreeInternal) Left() TreeNode  { return n.left }
func (n *TreeInternal) Right() TreeNode { return n.right }

func (n *TreeLeaf) Key() []byte   { return n.key.inner }
func (n *TreeLeaf) Value() []byte { return n.value.inner }

// Tree is a verifiable projection of a table onto a set of paths. Its
// root hash matches the commitment of the table it was exported from.
type Tree struct {
	root TreeNode
}

func (t *Tree) Root() TreeNode {
	return t.root
}

func (t *Tree) Commit() Commitment {
	return Commitment(t.root.Hash())
}

// Get resolves a key inside the exported tree. Keys whose path runs
// into a stub are unknown: the projection proves nothing about them.
func (t *Tree) Get(key []byte) ([]byte, error) {
	digest, err := hashField(key)
	if err != nil {
		return nil, err
	}
	return treeGet(t.root, 0, pathFromHash(digest))
}

func treeGet(n TreeNode, depth int, path Path) ([]byte, error) {
	switch n := n.(type) {
	case TreeEmpty:
		return nil, nil
	case *TreeInternal:
		if path.Bit(depth) == Left {
			return treeGet(n.left, depth+1, path)
		}
		return treeGet(n.right, depth+1, path)
	case *TreeLeaf:
		if path.reaches(n.key.digest) {
			return n.value.inner, nil
		}
		// The leaf proves the exclusion of every other key under it.
		return nil, nil
	case *TreeStub:
		return nil, ErrBranchUnknown
	}
	return nil, fmt.Errorf("merkdb: unknown tree node type %T", n)
}

// Verify recomputes every carried hash and checks the topology rules:
// internals satisfy compactness, leaves lie along their key path.
func (t *Tree) Verify() error {
	return treeVerify(t.root, rootPrefix())
}

func treeVerify(n TreeNode, location Prefix) error {
	switch n := n.(type) {
	case TreeEmpty, *TreeStub:
		return nil
	case *TreeInternal:
		if treeCompactnessViolated(n.left, n.right) {
			return fmt.Errorf("merkdb: exported internal at depth %d violates compactness", location.Depth())
		}
		if n.hash != internalHash(n.left.Hash(), n.right.Hash()) {
			return fmt.Errorf("merkdb: exported internal at depth %d carries a forged hash", location.Depth())
		}
		if err := treeVerify(n.left, location.Left()); err != nil {
			return err
		}
		return treeVerify(n.right, location.Right())
	case *TreeLeaf:
		if !location.Contains(pathFromHash(n.key.digest)) {
			return fmt.Errorf("merkdb: exported leaf outside of its key path")
		}
		if digest, err := hashField(n.key.inner); err != nil || digest != n.key.digest {
			return fmt.Errorf("merkdb: exported leaf carries a forged key digest")
		}
		if digest, err := hashField(n.value.inner); err != nil || digest != n.value.digest {
			return fmt.Errorf("merkdb: exported leaf carries a forged value digest")
		}
		if n.hash != leafHash(n.key.digest, n.value.digest) {
			return fmt.Errorf("merkdb: exported leaf carries a forged hash")
		}
		return nil
	}
	return fmt.Errorf("merkdb: unknown tree node type %T", n)
}

func treeCompactnessViolated(left, right TreeNode) bool {
	_, leftEmpty := left.(TreeEmpty)
	_, rightEmpty := right.(TreeEmpty)
	_, leftLeaf := left.(*TreeLeaf)
	_, rightLeaf := right.(*TreeLeaf)

	return (leftEmpty && rightEmpty) || (leftEmpty && rightLeaf) || (leftLeaf && rightEmpty)
}
