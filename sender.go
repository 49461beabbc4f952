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

// answerDepth bounds how many plies of a subtree one question label is
// answered with.
const answerDepth = 8

// Question is a receiver's request for the subtrees rooted at a list of
// remote labels.
type Question struct {
	labels []Label
}

// Answer is a sender's reply: the requested subtrees as pre-order,
// left-first node lists, bounded by answerDepth plies per anchor.
type Answer struct {
	nodes []node
}

// Sender answers questions about one pinned tree. It holds a clone of
// the table's handle taken when sending began, so the served state
// survives any concurrent evolution of the table.
type Sender struct {
	handle *Handle
}

// Hello produces the opening answer of a transfer: the subtree under
// the sender's own root.
func (s *Sender) Hello() *Answer {
	answer, err := s.Answer(&Question{labels: []Label{s.handle.root}})
	if err != nil {
		panic("merkdb: sender failed to answer for its own root")
	}
	return answer
}

// Answer serves one question. Asking for a label the sender does not
// hold is a malformed question: an error is returned and the sender
// stays usable.
func (s *Sender) Answer(question *Question) (*Answer, error) {
	collector := make([]node, 0, len(question.labels))
	store := s.handle.cell.take()

	for _, label := range question.labels {
		var err error
		if collector, err = senderGrab(store, collector, label, answerDepth); err != nil {
			s.handle.cell.restore(store)
			return nil, err
		}
	}

	s.handle.cell.restore(store)
	return &Answer{nodes: collector}, nil
}

// End hands the pinned state back as a table. The pinned reference is
// released only when that table is dropped.
func (s *Sender) End() *Table {
	return &Table{handle: s.handle}
}

func senderGrab(store *store, collector []node, label Label, ttl int) ([]node, error) {
	if label.IsEmpty() {
		return collector, nil
	}

	e := store.lookup(label)
	if e == nil {
		return collector, ErrMalformedQuestion
	}

	collector = append(collector, e.node)

	if in, ok := e.node.(internal); ok && ttl > 0 {
		var err error
		if collector, err = senderGrab(store, collector, in.left, ttl-1); err != nil {
			return collector, err
		}
		return senderGrab(store, collector, in.right, ttl-1)
	}

	return collector, nil
}
