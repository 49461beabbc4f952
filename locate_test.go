package merkdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocateFullTree(t *testing.T) {
	db := New()
	table := tableWithRecords(t, db, keyRange(0, 128)...)

	s := takeStore(db)
	defer restoreStore(db, s)

	// Every internal node of the tree must be located exactly at the
	// prefix the traversal reaches it by.
	var recursion func(label Label, location Prefix)
	recursion = func(label Label, location Prefix) {
		if !label.isInternal() {
			return
		}
		require.True(t, locate(s, label).equals(location),
			"internal at depth %d located elsewhere", location.Depth())

		left, right := fetchInternal(t, s, label)
		recursion(left, location.Left())
		recursion(right, location.Right())
	}

	recursion(tableRoot(table), rootPrefix())
}

func TestLocateNonInternal(t *testing.T) {
	s, labels := rawLeaves(t, 0)
	require.Panics(t, func() { locate(s, labels[0]) })
}
