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
	"golang.org/x/sync/errgroup"
)

// applyEntry is a node pulled into the recursion together with its
// label and, when it is actually resident, its reference count. Fresh
// empties synthesized for descent have no applicable count.
type applyEntry struct {
	label      Label
	node       node
	referenced bool
	references int
}

func emptyEntry() applyEntry {
	return applyEntry{label: Label{}, node: empty{}}
}

func fetchEntry(s *store, label Label) applyEntry {
	if label.IsEmpty() {
		return emptyEntry()
	}
	e := s.lookup(label)
	if e == nil {
		panic("merkdb: apply reached a label absent from the store")
	}
	return applyEntry{
		label:      label,
		node:       e.node,
		referenced: true,
		references: e.references,
	}
}

// applyBranch joins the recursion over the two children of a fork and
// composes the resulting label, maintaining compactness and reference
// counts.
func applyBranch(
	s *store,
	original *applyEntry,
	preserve bool,
	depth int,
	batch *Batch,
	c chunk,
	left, right applyEntry,
) (*store, *Batch, Label) {
	// A subtree referenced more than once is shared with another root:
	// downstream recursion must not dereference any of it.
	preserveBranches := preserve ||
		(original != nil && original.referenced && original.references > 1)

	var newLeft, newRight Label

	if leftStore, rightStore, ok := s.split(); ok {
		leftBatch, leftChunk, rightBatch, rightChunk := c.snapOff(batch)

		var (
			ls, rs *store
			lb, rb *Batch
		)

		g := new(errgroup.Group)
		g.Go(func() error {
			ls, lb, newLeft = applyRecur(leftStore, left, preserveBranches, depth+1, leftBatch, leftChunk)
			return nil
		})
		g.Go(func() error {
			rs, rb, newRight = applyRecur(rightStore, right, preserveBranches, depth+1, rightBatch, rightChunk)
			return nil
		})
		_ = g.Wait()

		s = mergeStores(ls, rs)
		batch = mergeBatches(lb, rb)
	} else {
		leftChunk, rightChunk := c.split(batch)

		s, batch, newLeft = applyRecur(s, left, preserveBranches, depth+1, batch, leftChunk)
		s, batch, newRight = applyRecur(s, right, preserveBranches, depth+1, batch, rightChunk)
	}

	var newLabel Label
	adopt := false

	switch {
	case newLeft.IsEmpty() && newRight.IsEmpty():
		newLabel = Label{}
	case newLeft.IsEmpty() && newRight.isLeaf():
		// Compactness: a lone leaf collapses into its parent's slot.
		newLabel = newRight
	case newRight.IsEmpty() && newLeft.isLeaf():
		newLabel = newLeft
	default:
		n := internal{left: newLeft, right: newRight}
		newLabel = s.label(n)
		adopt = s.populate(newLabel, n)
	}

	changed := original == nil || newLabel != original.label
	if changed {
		if adopt {
			// adopt implies newLabel is the freshly populated
			// Internal(newLeft, newRight).
			s.incref(newLeft)
			s.incref(newRight)
		}

		if original != nil && !preserve && original.referenced && original.references == 1 {
			if old, ok := original.node.(internal); ok {
				// This was the original's sole parent, so the parent's
				// decref will remove it; its children lose their edge
				// here. When newLabel equals an old child, a leaf is
				// being pulled up: it must stay resident, even at zero
				// references, until the caller re-adopts it.
				s.decref(old.left, newLabel == old.left)
				s.decref(old.right, newLabel == old.right)
			}
		}
	}

	return s, batch, newLabel
}

func applyRecur(
	s *store,
	target applyEntry,
	preserve bool,
	depth int,
	batch *Batch,
	c chunk,
) (*store, *Batch, Label) {
	t, op := c.task(batch)
	if t == taskPass {
		return s, batch, target.label
	}

	switch n := target.node.(type) {
	case empty:
		if t == taskDo {
			switch op.kind {
			case actionSet:
				lf := leaf{key: op.key, value: op.value}
				label := s.label(lf)
				s.populate(label, lf)
				return s, batch, label
			default: // get misses, remove is a no-op
				return s, batch, Label{}
			}
		}
		return applyBranch(s, nil, preserve, depth, batch, c, emptyEntry(), emptyEntry())

	case leaf:
		if t == taskDo && op.path.reaches(n.key.digest) {
			switch op.kind {
			case actionGet:
				op.found = true
				op.value = n.value
				return s, batch, target.label
			case actionSet:
				if op.value.equals(n.value) {
					return s, batch, target.label
				}
				lf := leaf{key: n.key, value: op.value}
				label := s.label(lf)
				s.populate(label, lf)
				return s, batch, label
			default: // actionRemove
				return s, batch, Label{}
			}
		}

		if t == taskDo && op.kind == actionGet {
			// A get for a different key under this leaf: a miss, the
			// tree is untouched.
			return s, batch, target.label
		}

		// The leaf sits in the child its key selects at this depth; the
		// other side starts out empty.
		left, right := emptyEntry(), target
		if pathFromHash(n.key.digest).Bit(depth) == Left {
			left, right = target, emptyEntry()
		}
		return applyBranch(s, nil, preserve, depth, batch, c, left, right)

	case internal:
		left := fetchEntry(s, n.left)
		right := fetchEntry(s, n.right)
		return applyBranch(s, &target, preserve, depth, batch, c, left, right)
	}

	panic("merkdb: unknown node type")
}

// applyBatch runs a batch against the tree rooted at root, returning
// the mutated store, the new root and the batch with get answers filled
// in place.
func applyBatch(s *store, root Label, batch *Batch) (*store, Label, *Batch) {
	target := fetchEntry(s, root)
	c := rootChunk(batch)

	s, batch, newRoot := applyRecur(s, target, false, 0, batch, c)

	if newRoot != root {
		s.incref(newRoot)
		// The recursion already released the old root's interior edges;
		// only the root's own external reference remains to drop.
		s.decref(root, false)
	}

	return s, newRoot, batch
}
