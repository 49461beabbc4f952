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
	"slices"
)

type actionKind uint8

const (
	actionGet actionKind = iota
	actionSet
	actionRemove
)

// operation is one entry of a batch: a path plus the action to take
// there. A get operation doubles as the holder of its own answer: after
// apply, found reports whether the key was present and value carries
// the fetched payload.
type operation struct {
	path  Path
	kind  actionKind
	key   wrap
	value wrap
	found bool
}

func getOperation(key []byte) (operation, error) {
	digest, err := hashField(key)
	if err != nil {
		return operation{}, err
	}
	return operation{path: pathFromHash(digest), kind: actionGet}, nil
}

func setOperation(key, value []byte) (operation, error) {
	k, err := newWrap(key)
	if err != nil {
		return operation{}, err
	}
	v, err := newWrap(value)
	if err != nil {
		return operation{}, err
	}
	return operation{path: pathFromHash(k.digest), kind: actionSet, key: k, value: v}, nil
}

func removeOperation(key []byte) (operation, error) {
	digest, err := hashField(key)
	if err != nil {
		return operation{}, err
	}
	return operation{path: pathFromHash(digest), kind: actionRemove}, nil
}

// Batch is the operations of a transaction, sorted by path. Sorting
// makes every trie prefix correspond to a contiguous slice of the
// batch, which is what keeps chunks cheap.
type Batch struct {
	operations []operation
}

func newBatch(operations []operation) *Batch {
	// Unstable sort: transactions reject duplicate paths, so no ties
	// exist to preserve.
	slices.SortFunc(operations, func(lho, rho operation) int {
		return lho.path.Compare(rho.path)
	})
	return &Batch{operations: operations}
}

// snapAt physically splits the batch into the first at operations and
// the rest. Both halves alias the original backing array, so in-place
// get answers survive a later merge.
func (b *Batch) snapAt(at int) (*Batch, *Batch) {
	return &Batch{operations: b.operations[:at]}, &Batch{operations: b.operations[at:]}
}

// mergeBatches reunites two halves produced by snapAt, low indices
// first.
func mergeBatches(left, right *Batch) *Batch {
	return &Batch{operations: right.operations[:len(right.operations)+len(left.operations)]}
}

func (b *Batch) len() int {
	return len(b.operations)
}
