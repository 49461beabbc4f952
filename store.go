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

// storeDepth is the number of shard-address bits: the store holds
// 2^storeDepth shard maps, and splitting bottoms out once the scope is
// storeDepth levels deep.
const storeDepth = 8

type entry struct {
	node       node
	references int
}

type entryMap map[Hash]*entry

// store is a deduplicating, reference-counted container of trie nodes,
// organized in shards so that it can be split for parallel traversal.
//
// A store value owns a contiguous range of shards (maps) plus the trie
// scope it currently covers. split halves the scope and hands out two
// sub-stores over disjoint shard ranges; merge is the exact inverse.
// The shard schemes of Label guarantee that a traversal confined to a
// sub-store's scope only ever addresses shards inside its range.
type store struct {
	maps   []entryMap
	offset int
	scope  Prefix
}

func newStore() *store {
	maps := make([]entryMap, 1<<storeDepth)
	for i := range maps {
		maps[i] = make(entryMap)
	}
	return &store{maps: maps, offset: 0, scope: rootPrefix()}
}

// split halves the scope, handing out the shard halves covering the
// left and right sub-scopes. Refused below the shard-address boundary.
func (s *store) split() (left, right *store, ok bool) {
	if s.scope.Depth() >= storeDepth {
		return nil, nil, false
	}

	// Left directions set high path bits, so the left half owns the
	// high shard indices.
	half := 1 << (storeDepth - s.scope.Depth() - 1)

	left = &store{
		maps:   s.maps[half:],
		offset: s.offset + half,
		scope:  s.scope.Left(),
	}
	right = &store{
		maps:   s.maps[:half],
		offset: s.offset,
		scope:  s.scope.Right(),
	}
	return left, right, true
}

// mergeStores reunites the two sub-stores produced by a split. The
// halves are contiguous sub-slices of one backing array, so the parent
// is recovered by reslicing.
func mergeStores(left, right *store) *store {
	return &store{
		maps:   right.maps[:len(right.maps)+len(left.maps)],
		offset: right.offset,
		scope:  right.scope.Ancestor(1),
	}
}

func (s *store) shard(label Label) entryMap {
	if label.IsEmpty() {
		panic("merkdb: store addressed with an empty label")
	}
	return s.maps[label.shard.index()-s.offset]
}

// lookup fetches the entry for a label, or nil if absent. Calling it on
// Empty is an invariant violation.
func (s *store) lookup(label Label) *entry {
	return s.shard(label)[label.hash]
}

// label computes the canonical label of a node: internals are sharded
// by the store's current scope, leaves by their key digest.
func (s *store) label(n node) Label {
	switch n := n.(type) {
	case empty:
		return Label{}
	case internal:
		return internalLabel(internalShard(s.scope), n.hash())
	case leaf:
		return leafLabel(leafShard(n.key.digest), n.hash())
	}
	panic("merkdb: unknown node type")
}

// populate inserts the node with zero references if absent, reporting
// whether an insertion occurred.
func (s *store) populate(label Label, n node) bool {
	if label.IsEmpty() {
		return false
	}
	shard := s.shard(label)
	if _, ok := shard[label.hash]; ok {
		return false
	}
	shard[label.hash] = &entry{node: n, references: 0}
	return true
}

func (s *store) incref(label Label) {
	if label.IsEmpty() {
		return
	}
	e := s.lookup(label)
	if e == nil {
		panic("merkdb: incref on a non-existing node")
	}
	e.references++
}

// decref drops a reference; at zero the node is removed and returned,
// unless preserve keeps it resident for a pending re-adoption.
func (s *store) decref(label Label, preserve bool) (node, bool) {
	if label.IsEmpty() {
		return nil, false
	}
	e := s.lookup(label)
	if e == nil {
		panic("merkdb: decref on a non-existing node")
	}
	e.references--
	if e.references == 0 && !preserve {
		delete(s.shard(label), label.hash)
		return e.node, true
	}
	return nil, false
}

// size is the total number of resident nodes across the store's shards.
func (s *store) size() int {
	total := 0
	for _, m := range s.maps {
		total += len(m)
	}
	return total
}
