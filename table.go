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

// Table is one logical map of a database: a thin façade over a handle.
type Table struct {
	handle *Handle
}

// Execute runs a transaction against the table and returns the response
// holding the transaction's get answers.
func (t *Table) Execute(transaction *Transaction) *Response {
	tid, batch := transaction.finalize()
	batch = t.handle.Apply(batch)
	return newResponse(tid, batch)
}

// Commit returns the cryptographic commitment to the table's contents.
func (t *Table) Commit() Commitment {
	return t.handle.Commit()
}

// Export projects the given keys into a standalone, verifiable tree
// carrying proofs of their presence or absence.
func (t *Table) Export(keys [][]byte) (*Tree, error) {
	paths := make([]Path, 0, len(keys))
	for _, key := range keys {
		digest, err := hashField(key)
		if err != nil {
			return nil, err
		}
		paths = append(paths, pathFromHash(digest))
	}

	slices.SortFunc(paths, func(lho, rho Path) int {
		return lho.Compare(rho)
	})

	return t.handle.Export(paths), nil
}

// DiffTables computes {key -> (left value, right value)} over all keys
// on which the two tables disagree. Both tables must belong to the same
// database.
func DiffTables(lho, rho *Table) map[string]DiffValue {
	return DiffHandles(lho.handle, rho.handle)
}

// Send pins the table's current tree and starts answering questions
// about it. The table remains usable and may keep evolving while the
// sender serves the pinned state.
func (t *Table) Send() *Sender {
	return &Sender{handle: t.handle.Clone()}
}

// Clone returns an independent table on the same contents.
func (t *Table) Clone() *Table {
	return &Table{handle: t.handle.Clone()}
}

// Drop releases the table's tree. The table must not be used afterwards.
func (t *Table) Drop() {
	t.handle.Drop()
}
