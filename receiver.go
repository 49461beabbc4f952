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

// defaultWindow is the maximum number of labels per outgoing question.
const defaultWindow = 128

// receiverContext records where a still-missing remote node must sit
// once it arrives, and the remote label to ask for it by.
type receiverContext struct {
	location Prefix
	remote   Label
}

// Receiver incrementally learns a remote tree from an untrusted sender,
// validating every node against the commitment structure as it arrives.
//
// Nodes already resident in the local store are adopted for free (after
// verifying that they sit where the remote tree claims); genuinely new
// nodes are staged in acquired and only flushed into the store once the
// frontier empties, so a failed transfer never leaves partial state.
type Receiver struct {
	cell     *cell
	root     Label
	rooted   bool
	held     map[Label]struct{}
	frontier map[Hash]receiverContext
	acquired map[Hash]node
	finished bool

	// Window bounds the labels per outgoing question.
	Window int
}

func newReceiver(c *cell) *Receiver {
	return &Receiver{
		cell:     c,
		held:     make(map[Label]struct{}),
		frontier: make(map[Hash]receiverContext),
		acquired: make(map[Hash]node),
		Window:   defaultWindow,
	}
}

// Learn ingests one answer. It returns exactly one of:
//   - a completed table whose commitment matches the remote root;
//   - the next question to forward to the sender;
//   - ErrMalformedAnswer, if the sender provably misbehaved.
//
// After a completed or failed transfer the receiver is spent.
func (r *Receiver) Learn(answer *Answer) (*Table, *Question, error) {
	if r.finished {
		panic("merkdb: learn on a finished receiver")
	}

	store := r.cell.take()

	var accumulated severity
	for _, n := range answer.nodes {
		if offence, ok := r.update(store, n); ok {
			// A useful node proves the sender is making progress and
			// resets the benign-fault account.
			accumulated = severity{}
		} else {
			accumulated = accumulated.add(offence)
		}
		if accumulated.malicious {
			break
		}
	}

	if accumulated.malicious {
		r.cell.restore(store)
		r.release()
		return nil, nil, ErrMalformedAnswer
	}

	if len(r.frontier) > 0 {
		r.cell.restore(store)
		return nil, r.ask(), nil
	}

	// Transfer complete: move the staged nodes into the store and
	// account every edge of the learned tree.
	root := Label{}
	if r.rooted {
		root = r.root
		r.flush(store, root)
	}
	r.cell.restore(store)
	r.finished = true

	return &Table{handle: newHandle(r.cell, root)}, nil, nil
}

// update processes one answer node, reporting either success or the
// severity of its fault.
func (r *Receiver) update(store *store, n node) (severity, bool) {
	if _, ok := n.(empty); ok {
		// An empty node is never a valid answer element, solicited or
		// not; the sender would be lying about a subtree it announced.
		return maliciousFault(), false
	}

	hash := n.hash()

	var location Prefix
	if r.rooted {
		context, ok := r.frontier[hash]
		if !ok {
			// Unsolicited: useless, but an honest sender can produce a
			// bounded number of these when answers overlap.
			return benignFault(), false
		}
		location = context.location
	} else {
		// By convention the first node of the first answer is the
		// remote tree's root.
		location = rootPrefix()
	}

	var label Label
	switch n := n.(type) {
	case internal:
		if compactnessViolated(n.left, n.right) {
			return maliciousFault(), false
		}
		label = internalLabel(internalShard(location), hash)
	case leaf:
		if !location.Contains(pathFromHash(n.key.digest)) {
			return maliciousFault(), false
		}
		label = leafLabel(leafShard(n.key.digest), hash)
	default:
		// Empty nodes were rejected above; nothing else is a valid
		// answer element.
		return maliciousFault(), false
	}

	if !r.rooted {
		r.root = label
		r.rooted = true
	}

	if store.lookup(label) != nil {
		// Already resident: adopt for free. A resident internal must
		// actually sit at the claimed location, or the sender is
		// splicing a subtree into a foreign position.
		if _, ok := n.(internal); ok {
			if !locate(store, label).equals(location) {
				return maliciousFault(), false
			}
		}
		store.incref(label)
		r.held[label] = struct{}{}
	} else {
		if in, ok := n.(internal); ok {
			r.sight(in.left, location.Left())
			r.sight(in.right, location.Right())
		}
		r.acquired[hash] = n
	}

	delete(r.frontier, hash)
	return severity{}, true
}

func compactnessViolated(left, right Label) bool {
	return (left.IsEmpty() && right.IsEmpty()) ||
		(left.IsEmpty() && right.isLeaf()) ||
		(left.isLeaf() && right.IsEmpty())
}

func (r *Receiver) sight(label Label, location Prefix) {
	if !label.IsEmpty() {
		r.frontier[label.Hash()] = receiverContext{location: location, remote: label}
	}
}

func (r *Receiver) ask() *Question {
	labels := make([]Label, 0, r.Window)
	for _, context := range r.frontier {
		if len(labels) == r.Window {
			break
		}
		labels = append(labels, context.remote)
	}
	return &Question{labels: labels}
}

// flush walks the learned tree, inserting staged nodes and accounting
// one reference per edge. Labels adopted mid-transfer hand their
// provisional reference over to the final tree.
func (r *Receiver) flush(store *store, label Label) {
	if label.IsEmpty() {
		return
	}

	var recursion *internal
	if store.lookup(label) == nil {
		n := r.acquired[label.Hash()]
		if n == nil {
			panic("merkdb: flush missing an acquired node")
		}
		store.populate(label, n)

		if in, ok := n.(internal); ok {
			recursion = &in
		}
	}

	if _, ok := r.held[label]; ok {
		delete(r.held, label)
	} else {
		store.incref(label)
	}

	if recursion != nil {
		r.flush(store, recursion.left)
		r.flush(store, recursion.right)
	}
}

// Abort abandons an in-flight transfer, releasing every label the
// receiver pinned. Harmless after completion or failure.
func (r *Receiver) Abort() {
	if r.finished {
		return
	}
	r.release()
}

func (r *Receiver) release() {
	store := r.cell.take()
	for label := range r.held {
		dropTree(store, label)
	}
	r.cell.restore(store)

	r.held = make(map[Label]struct{})
	r.finished = true
}
