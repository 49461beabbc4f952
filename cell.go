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

import "sync"

// cell is a single-owner lending slot for a store. take blocks until
// the store is available and transfers exclusive ownership to the
// caller; restore gives it back. The store's reference counts are not
// atomic: the cell's exclusive tenure is what protects them.
type cell struct {
	mu    sync.Mutex
	cond  *sync.Cond
	store *store
	lent  bool
}

func newCell(s *store) *cell {
	c := &cell{store: s}
	c.cond = sync.NewCond(&c.mu)
	return c
}

func (c *cell) take() *store {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.lent {
		c.cond.Wait()
	}
	s := c.store
	c.store = nil
	c.lent = true
	return s
}

func (c *cell) restore(s *store) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lent {
		panic("merkdb: cell restored more than once without take")
	}
	c.store = s
	c.lent = false
	c.cond.Signal()
}
