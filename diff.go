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

// record is a (key, value) candidate emitted by the diff walk.
type record struct {
	key   wrap
	value wrap
}

func diffNode(s *store, label Label) node {
	if label.IsEmpty() {
		return empty{}
	}
	e := s.lookup(label)
	if e == nil {
		panic("merkdb: diff reached a label absent from the store")
	}
	return e.node
}

// diffChildren carries a side's recursion into a fork: the child labels
// when the side's node is internal, or nothing.
type diffChildren struct {
	left  Label
	right Label
	ok    bool
}

func diffBranch(
	s *store,
	lho, rho diffChildren,
) (*store, []record, []record) {
	lhoLeft, lhoRight := Label{}, Label{}
	if lho.ok {
		lhoLeft, lhoRight = lho.left, lho.right
	}
	rhoLeft, rhoRight := Label{}, Label{}
	if rho.ok {
		rhoLeft, rhoRight = rho.left, rho.right
	}

	var (
		leftLho, leftRho   []record
		rightLho, rightRho []record
	)

	if leftStore, rightStore, ok := s.split(); ok {
		var ls, rs *store

		g := new(errgroup.Group)
		g.Go(func() error {
			ls, leftLho, leftRho = diffRecur(leftStore, lhoLeft, rhoLeft)
			return nil
		})
		g.Go(func() error {
			rs, rightLho, rightRho = diffRecur(rightStore, lhoRight, rhoRight)
			return nil
		})
		_ = g.Wait()

		s = mergeStores(ls, rs)
	} else {
		s, leftLho, leftRho = diffRecur(s, lhoLeft, rhoLeft)
		s, rightLho, rightRho = diffRecur(s, lhoRight, rhoRight)
	}

	return s, append(leftLho, rightLho...), append(leftRho, rightRho...)
}

// diffRecur walks both trees in lockstep. Matching labels contribute
// nothing; anything else expands internals and collects leaves into the
// owning side.
func diffRecur(s *store, lho, rho Label) (*store, []record, []record) {
	if lho == rho {
		return s, nil, nil
	}

	var lhoCollector, rhoCollector []record
	var lhoRecursion, rhoRecursion diffChildren

	switch n := diffNode(s, lho).(type) {
	case internal:
		lhoRecursion = diffChildren{left: n.left, right: n.right, ok: true}
	case leaf:
		lhoCollector = append(lhoCollector, record{key: n.key, value: n.value})
	}

	switch n := diffNode(s, rho).(type) {
	case internal:
		rhoRecursion = diffChildren{left: n.left, right: n.right, ok: true}
	case leaf:
		rhoCollector = append(rhoCollector, record{key: n.key, value: n.value})
	}

	if lhoRecursion.ok || rhoRecursion.ok {
		var lhoCandidates, rhoCandidates []record
		s, lhoCandidates, rhoCandidates = diffBranch(s, lhoRecursion, rhoRecursion)

		lhoCollector = append(lhoCollector, lhoCandidates...)
		rhoCollector = append(rhoCollector, rhoCandidates...)
	}

	return s, lhoCollector, rhoCollector
}

// diffTrees computes the symmetric difference candidates of two roots
// sharing one store.
func diffTrees(s *store, lhoRoot, rhoRoot Label) (*store, []record, []record) {
	return diffRecur(s, lhoRoot, rhoRoot)
}
