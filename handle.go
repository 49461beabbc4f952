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

import "bytes"

// Handle is a cursor over one tree of a database: a shared reference to
// the lending cell plus an owned root label. A handle accounts for one
// external reference on its root; Clone and Drop maintain the count.
//
// Go has no destructors, so a handle that goes out of use must be
// released with Drop explicitly; anything else leaks its subtree into
// the store.
type Handle struct {
	cell *cell
	root Label
}

func newHandle(c *cell, root Label) *Handle {
	return &Handle{cell: c, root: root}
}

func emptyHandle(c *cell) *Handle {
	return &Handle{cell: c, root: Label{}}
}

// Commit returns the cryptographic commitment to the handle's current
// contents.
func (h *Handle) Commit() Commitment {
	return Commitment(h.root.Hash())
}

// Apply runs a batch against the handle's tree and moves the root to
// the result. The batch comes back with its get answers filled in.
func (h *Handle) Apply(batch *Batch) *Batch {
	store := h.cell.take()
	store, root, batch := applyBatch(store, h.root, batch)
	h.cell.restore(store)

	h.root = root
	return batch
}

// Export projects the given sorted paths into a standalone, verifiable
// tree.
func (h *Handle) Export(paths []Path) *Tree {
	store := h.cell.take()
	store, tree := exportTree(store, h.root, paths)
	h.cell.restore(store)

	return tree
}

// DiffValue is one entry of a diff: the values observed on each side,
// nil where the key is absent.
type DiffValue struct {
	Left  []byte
	Right []byte
}

// DiffHandles computes {key -> (left value, right value)} over all keys
// on which the two handles disagree. Both handles must belong to the
// same database: cell identity is the check, and mixing databases is a
// programming error worth crashing on.
func DiffHandles(lho, rho *Handle) map[string]DiffValue {
	if lho.cell != rho.cell {
		panic("merkdb: diff of handles backed by different stores")
	}

	store := lho.cell.take()
	store, lhoCandidates, rhoCandidates := diffTrees(store, lho.root, rho.root)
	lho.cell.restore(store)

	diff := make(map[string]DiffValue)

	for _, candidate := range lhoCandidates {
		diff[string(candidate.key.inner)] = DiffValue{Left: candidate.value.inner}
	}

	for _, candidate := range rhoCandidates {
		key := string(candidate.key.inner)
		if existing, ok := diff[key]; ok {
			if bytes.Equal(existing.Left, candidate.value.inner) {
				// Both sides carry the same binding through different
				// subtrees; not a difference.
				delete(diff, key)
			} else {
				existing.Right = candidate.value.inner
				diff[key] = existing
			}
		} else {
			diff[key] = DiffValue{Right: candidate.value.inner}
		}
	}

	return diff
}

// Clone returns an independent handle on the same root, accounting for
// its extra external reference.
func (h *Handle) Clone() *Handle {
	store := h.cell.take()
	store.incref(h.root)
	h.cell.restore(store)

	return &Handle{cell: h.cell, root: h.root}
}

// Drop releases the handle's reference on its root, cascading into any
// subtree this was the last edge to. The handle must not be used
// afterwards.
func (h *Handle) Drop() {
	store := h.cell.take()
	dropTree(store, h.root)
	h.cell.restore(store)

	h.root = Label{}
}
