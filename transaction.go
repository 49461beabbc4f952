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
	"sync/atomic"
)

var transactionID uint64

// Transaction accumulates the operations to execute atomically against
// one table. Two operations on the same key inside one transaction are
// a configuration error (ErrKeyCollision).
type Transaction struct {
	tid        uint64
	operations []operation
	paths      map[Path]struct{}
}

func NewTransaction() *Transaction {
	return &Transaction{
		tid:   atomic.AddUint64(&transactionID, 1),
		paths: make(map[Path]struct{}),
	}
}

// Get schedules a read. The returned query redeems the answer from the
// response of the transaction's execution.
func (t *Transaction) Get(key []byte) (Query, error) {
	op, err := getOperation(key)
	if err != nil {
		return Query{}, err
	}
	if err := t.push(op); err != nil {
		return Query{}, err
	}
	return Query{tid: t.tid, path: op.path}, nil
}

// Set schedules a write.
func (t *Transaction) Set(key, value []byte) error {
	op, err := setOperation(key, value)
	if err != nil {
		return err
	}
	return t.push(op)
}

// Remove schedules a deletion.
func (t *Transaction) Remove(key []byte) error {
	op, err := removeOperation(key)
	if err != nil {
		return err
	}
	return t.push(op)
}

func (t *Transaction) push(op operation) error {
	if _, ok := t.paths[op.path]; ok {
		return ErrKeyCollision
	}
	t.paths[op.path] = struct{}{}
	t.operations = append(t.operations, op)
	return nil
}

func (t *Transaction) finalize() (uint64, *Batch) {
	return t.tid, newBatch(t.operations)
}

// Query is the token returned by Transaction.Get, redeemable against
// the response of the same transaction.
type Query struct {
	tid  uint64
	path Path
}

// Response carries the executed batch of a transaction, with the get
// answers fulfilled.
type Response struct {
	tid   uint64
	batch *Batch
}

func newResponse(tid uint64, batch *Batch) *Response {
	return &Response{tid: tid, batch: batch}
}

// Get redeems a query. Redeeming a query against the response of a
// different transaction is a programming error worth crashing on.
func (r *Response) Get(query Query) ([]byte, bool) {
	if query.tid != r.tid {
		panic("merkdb: response queried with a foreign query")
	}

	operations := r.batch.operations
	index := sort.Search(len(operations), func(i int) bool {
		return operations[i].path.Compare(query.path) >= 0
	})
	if index == len(operations) || operations[index].path != query.path || operations[index].kind != actionGet {
		panic("merkdb: query path missing from its own response")
	}

	op := operations[index]
	if !op.found {
		return nil, false
	}
	return op.value.inner, true
}
