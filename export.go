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
	"sort"

	"golang.org/x/sync/errgroup"
)

func exportNode(s *store, label Label) node {
	if label.IsEmpty() {
		return empty{}
	}
	e := s.lookup(label)
	if e == nil {
		panic("merkdb: export reached a label absent from the store")
	}
	return e.node
}

// splitPaths partitions a sorted path set at the Right→Left transition
// of the bit at depth. Right sorts before Left.
func splitPaths(paths []Path, depth int) (left, right []Path) {
	partition := sort.Search(len(paths), func(i int) bool {
		return paths[i].Bit(depth) == Left
	})
	return paths[partition:], paths[:partition]
}

func exportBranch(
	s *store,
	depth int,
	paths []Path,
	left, right Label,
) (*store, TreeNode, TreeNode) {
	leftPaths, rightPaths := splitPaths(paths, depth)

	var leftNode, rightNode TreeNode

	if leftStore, rightStore, ok := s.split(); ok {
		var ls, rs *store

		g := new(errgroup.Group)
		g.Go(func() error {
			ls, leftNode = exportRecur(leftStore, left, depth+1, leftPaths)
			return nil
		})
		g.Go(func() error {
			rs, rightNode = exportRecur(rightStore, right, depth+1, rightPaths)
			return nil
		})
		_ = g.Wait()

		s = mergeStores(ls, rs)
	} else {
		s, leftNode = exportRecur(s, left, depth+1, leftPaths)
		s, rightNode = exportRecur(s, right, depth+1, rightPaths)
	}

	return s, leftNode, rightNode
}

func exportRecur(s *store, label Label, depth int, paths []Path) (*store, TreeNode) {
	hash := label.Hash()

	switch n := exportNode(s, label).(type) {
	case internal:
		if len(paths) > 0 {
			var left, right TreeNode
			s, left, right = exportBranch(s, depth, paths, n.left, n.right)
			return s, &TreeInternal{hash: hash, left: left, right: right}
		}
	case leaf:
		if len(paths) > 0 {
			// Exporting a leaf also proves the exclusion of any other
			// requested path that lands on it.
			return s, &TreeLeaf{hash: hash, key: n.key, value: n.value}
		}
	case empty:
		// Empty is cheaper to carry than a stub and proves absence.
		return s, TreeEmpty{}
	}

	return s, &TreeStub{hash: hash}
}

// exportTree projects the sorted path set out of the tree rooted at
// root into a standalone, verifiable tree.
func exportTree(s *store, root Label, paths []Path) (*store, *Tree) {
	s, node := exportRecur(s, root, 0, paths)
	return s, &Tree{root: node}
}
