package merkdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testBatch(t *testing.T, keys ...uint32) *Batch {
	t.Helper()

	operations := make([]operation, 0, len(keys))
	for _, i := range keys {
		op, err := setOperation(testKey(i), testValue(i))
		require.NoError(t, err)
		operations = append(operations, op)
	}
	return newBatch(operations)
}

func TestBatchSorted(t *testing.T) {
	batch := testBatch(t, keyRange(0, 128)...)

	for i := 1; i < batch.len(); i++ {
		require.Negative(t, batch.operations[i-1].path.Compare(batch.operations[i].path))
	}
}

func TestBatchSnapMerge(t *testing.T) {
	batch := testBatch(t, keyRange(0, 128)...)

	reference := make([]Path, batch.len())
	for i, op := range batch.operations {
		reference[i] = op.path
	}

	r, l := batch.snapAt(64)
	rr, rl := r.snapAt(32)
	lr, ll := l.snapAt(32)

	r = mergeBatches(rl, rr)
	l = mergeBatches(ll, lr)
	batch = mergeBatches(l, r)

	require.Equal(t, len(reference), batch.len())
	for i, op := range batch.operations {
		require.Zero(t, op.path.Compare(reference[i]))
	}
}

func TestChunkPrefix(t *testing.T) {
	// Descending by split and descending by snap land on the same
	// prefix regardless of how the two are interleaved.
	descend := func(batch *Batch, snaps, splits []Direction) chunk {
		c := rootChunk(batch)

		for _, direction := range snaps {
			leftBatch, left, rightBatch, right := c.snapOff(batch)
			if direction == Left {
				batch, c = leftBatch, left
			} else {
				batch, c = rightBatch, right
			}
		}
		for _, direction := range splits {
			left, right := c.split(batch)
			if direction == Left {
				c = left
			} else {
				c = right
			}
		}
		return c
	}

	emptyBatch := func() *Batch { return testBatch(t) }

	reference := []Direction{Right, Right, Right, Left, Right, Right, Right}
	for cut := 0; cut <= len(reference); cut++ {
		c := descend(emptyBatch(), reference[:cut], reference[cut:])
		require.True(t, c.prefix.equals(prefixFromDirections(reference...)), "cut %d", cut)
	}
}

func TestChunkDistribution(t *testing.T) {
	// Every operation of a batch must be visited exactly once, inside a
	// chunk whose prefix contains it, no matter where snapping gives
	// way to splitting.
	var descend func(batch *Batch, c chunk, snapTTL int) int

	descend = func(batch *Batch, c chunk, snapTTL int) int {
		switch task, op := c.task(batch); task {
		case taskPass:
			return 0
		case taskDo:
			require.True(t, c.prefix.Contains(op.path))
			return 1
		default:
			if snapTTL > 0 {
				leftBatch, left, rightBatch, right := c.snapOff(batch)
				return descend(leftBatch, left, snapTTL-1) + descend(rightBatch, right, snapTTL-1)
			}
			left, right := c.split(batch)
			return descend(batch, left, 0) + descend(batch, right, 0)
		}
	}

	for snapTTL := 0; snapTTL < 8; snapTTL++ {
		batch := testBatch(t, keyRange(0, 64)...)
		require.Equal(t, 64, descend(batch, rootChunk(batch), snapTTL))
	}
}
