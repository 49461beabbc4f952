package merkdb

import (
	"encoding/binary"
	"testing"
)

// testKey and testValue derive deterministic byte payloads from small
// integers, mirroring how the trees under test are populated.
func testKey(i uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], i)
	return b[:]
}

func testValue(i uint32) []byte {
	return testKey(i)
}

func testPath(t testing.TB, key []byte) Path {
	t.Helper()

	digest, err := hashField(key)
	if err != nil {
		t.Fatalf("hashField(%x): %v", key, err)
	}
	return pathFromHash(digest)
}

// pathFromDirections builds a path whose leading bits follow the given
// directions, the rest Right.
func pathFromDirections(directions ...Direction) Path {
	var path Path
	for i, direction := range directions {
		path.set(i, direction)
	}
	return path
}

func prefixFromDirections(directions ...Direction) Prefix {
	prefix := rootPrefix()
	for _, direction := range directions {
		if direction == Left {
			prefix = prefix.Left()
		} else {
			prefix = prefix.Right()
		}
	}
	return prefix
}

// takeStore borrows the database's store for direct inspection.
func takeStore(db *Database) *store {
	return db.cell.take()
}

func restoreStore(db *Database, s *store) {
	db.cell.restore(s)
}

func fetchNode(t testing.TB, s *store, label Label) node {
	t.Helper()

	e := s.lookup(label)
	if e == nil {
		t.Fatalf("node %v not found in store", label)
	}
	return e.node
}

func fetchInternal(t testing.TB, s *store, label Label) (Label, Label) {
	t.Helper()

	in, ok := fetchNode(t, s, label).(internal)
	if !ok {
		t.Fatalf("node %v is not internal", label)
	}
	return in.left, in.right
}

func fetchLeaf(t testing.TB, s *store, label Label) (wrap, wrap) {
	t.Helper()

	lf, ok := fetchNode(t, s, label).(leaf)
	if !ok {
		t.Fatalf("node %v is not a leaf", label)
	}
	return lf.key, lf.value
}

// checkTree asserts the structural invariants of the tree rooted at
// root: compactness of every internal, containment of every leaf, and
// resolvability of every reachable label.
func checkTree(t testing.TB, s *store, root Label) {
	t.Helper()
	checkTreeRecursion(t, s, root, rootPrefix())
}

func checkTreeRecursion(t testing.TB, s *store, label Label, location Prefix) {
	t.Helper()

	switch label.kind {
	case labelInternal:
		left, right := fetchInternal(t, s, label)
		if compactnessViolated(left, right) {
			t.Fatalf("internal %v at depth %d violates compactness", label, location.Depth())
		}
		checkTreeRecursion(t, s, left, location.Left())
		checkTreeRecursion(t, s, right, location.Right())
	case labelLeaf:
		key, _ := fetchLeaf(t, s, label)
		if !location.Contains(pathFromHash(key.digest)) {
			t.Fatalf("leaf %v outside of its key path at depth %d", label, location.Depth())
		}
	}
}

func collectTree(t testing.TB, s *store, root Label) map[Label]struct{} {
	t.Helper()

	collector := make(map[Label]struct{})
	var recursion func(label Label)
	recursion = func(label Label) {
		if label.IsEmpty() {
			return
		}
		collector[label] = struct{}{}
		if label.isInternal() {
			left, right := fetchInternal(t, s, label)
			recursion(left)
			recursion(right)
		}
	}
	recursion(root)
	return collector
}

// checkLeaks asserts that every resident node is reachable from at
// least one of the held roots.
func checkLeaks(t testing.TB, s *store, held ...Label) {
	t.Helper()

	reachable := make(map[Label]struct{})
	for _, root := range held {
		for label := range collectTree(t, s, root) {
			reachable[label] = struct{}{}
		}
	}
	if s.size() > len(reachable) {
		t.Fatalf("store holds %d nodes but only %d are reachable", s.size(), len(reachable))
	}
}

// checkReferences asserts that every resident node's reference count
// equals its incoming edges: internal parents plus external holders.
func checkReferences(t testing.TB, s *store, held ...Label) {
	t.Helper()

	// An edge is either the unique external reference of one holder or
	// the edge from one internal parent; a shared parent reached
	// through several roots still contributes a single edge.
	type edge struct {
		parent   Label
		external int
	}

	edges := make(map[Label]map[edge]struct{})
	record := func(child Label, e edge) {
		if edges[child] == nil {
			edges[child] = make(map[edge]struct{})
		}
		edges[child][e] = struct{}{}
	}

	var recursion func(label Label)
	recursion = func(label Label) {
		if !label.isInternal() {
			return
		}
		left, right := fetchInternal(t, s, label)
		for _, child := range []Label{left, right} {
			if !child.IsEmpty() {
				record(child, edge{parent: label})
			}
			recursion(child)
		}
	}

	for id, root := range held {
		if !root.IsEmpty() {
			record(root, edge{external: id + 1})
		}
		recursion(root)
	}

	for label, incoming := range edges {
		e := s.lookup(label)
		if e == nil {
			t.Fatalf("referenced node %v missing from store", label)
		}
		if e.references != len(incoming) {
			t.Fatalf("node %v holds %d references, expected %d", label, e.references, len(incoming))
		}
	}
}

func collectRecords(t testing.TB, s *store, root Label) map[string]string {
	t.Helper()

	collector := make(map[string]string)
	var recursion func(label Label)
	recursion = func(label Label) {
		switch label.kind {
		case labelInternal:
			left, right := fetchInternal(t, s, label)
			recursion(left)
			recursion(right)
		case labelLeaf:
			key, value := fetchLeaf(t, s, label)
			collector[string(key.inner)] = string(value.inner)
		}
	}
	recursion(root)
	return collector
}

// referenceCommit computes the expected commitment of a record set with
// an independent, direct recursion over sorted key paths.
func referenceCommit(t testing.TB, records map[string]string) Hash {
	t.Helper()

	type item struct {
		path  Path
		key   []byte
		value []byte
	}

	items := make([]item, 0, len(records))
	for key, value := range records {
		items = append(items, item{
			path:  testPath(t, []byte(key)),
			key:   []byte(key),
			value: []byte(value),
		})
	}

	var recursion func(depth int, items []item) Hash
	recursion = func(depth int, items []item) Hash {
		switch len(items) {
		case 0:
			return emptyHash
		case 1:
			keyDigest, _ := hashField(items[0].key)
			valueDigest, _ := hashField(items[0].value)
			return leafHash(keyDigest, valueDigest)
		}

		var lefts, rights []item
		for _, it := range items {
			if it.path.Bit(depth) == Left {
				lefts = append(lefts, it)
			} else {
				rights = append(rights, it)
			}
		}
		return internalHash(recursion(depth+1, lefts), recursion(depth+1, rights))
	}

	return recursion(0, items)
}

// tableWithRecords builds a table holding (testKey(i), testValue(i))
// for every i in keys.
func tableWithRecords(t testing.TB, db *Database, keys ...uint32) *Table {
	t.Helper()

	table := db.EmptyTable()
	transaction := NewTransaction()
	for _, i := range keys {
		if err := transaction.Set(testKey(i), testValue(i)); err != nil {
			t.Fatalf("set %d: %v", i, err)
		}
	}
	table.Execute(transaction)
	return table
}

func keyRange(from, to uint32) []uint32 {
	keys := make([]uint32, 0, to-from)
	for i := from; i < to; i++ {
		keys = append(keys, i)
	}
	return keys
}

func expectedRecords(keys ...uint32) map[string]string {
	records := make(map[string]string, len(keys))
	for _, i := range keys {
		records[string(testKey(i))] = string(testValue(i))
	}
	return records
}

func tableRoot(table *Table) Label {
	return table.handle.root
}

func storeSize(db *Database) int {
	s := takeStore(db)
	defer restoreStore(db, s)
	return s.size()
}
