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

import "sort"

type task uint8

const (
	taskPass task = iota
	taskDo
	taskSplit
)

// chunk is the recursive trie sub-view of a batch: a prefix plus the
// contiguous index range of the operations falling under it.
type chunk struct {
	prefix Prefix
	start  int
	end    int
}

func rootChunk(batch *Batch) chunk {
	return chunk{prefix: rootPrefix(), start: 0, end: batch.len()}
}

// task infers what to do for this subtree from the range length: no
// operations pass through, one is executed here, more force a split.
func (c chunk) task(batch *Batch) (task, *operation) {
	switch c.end - c.start {
	case 0:
		return taskPass, nil
	case 1:
		return taskDo, &batch.operations[c.start]
	default:
		return taskSplit, nil
	}
}

// partition locates the point where the range transitions from the
// right child's prefix to the left child's. Right sorts before Left, so
// operations up to the partition belong to the right child.
func (c chunk) partition(batch *Batch) int {
	right := c.prefix.Right()
	return sort.Search(c.end-c.start, func(i int) bool {
		return !right.Contains(batch.operations[c.start+i].path)
	})
}

// split partitions the range between the two children without touching
// the batch.
func (c chunk) split(batch *Batch) (left, right chunk) {
	partition := c.start + c.partition(batch)

	left = chunk{prefix: c.prefix.Left(), start: partition, end: c.end}
	right = chunk{prefix: c.prefix.Right(), start: c.start, end: partition}
	return left, right
}

// snapOff is split plus a physical split of the batch itself, used when
// the computation forks across store shards. The chunk must cover the
// whole batch.
func (c chunk) snapOff(batch *Batch) (leftBatch *Batch, left chunk, rightBatch *Batch, right chunk) {
	partition := c.partition(batch)
	rightBatch, leftBatch = batch.snapAt(partition)

	left = chunk{prefix: c.prefix.Left(), start: 0, end: leftBatch.len()}
	right = chunk{prefix: c.prefix.Right(), start: 0, end: rightBatch.len()}
	return leftBatch, left, rightBatch, right
}
