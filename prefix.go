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

// Prefix identifies an interior position of the trie: the first depth
// bits of path. Bits beyond depth carry no meaning and are ignored by
// equality and containment.
type Prefix struct {
	path  Path
	depth int
}

func rootPrefix() Prefix {
	return Prefix{}
}

// commonPrefix is the longest shared leading run of two paths.
func commonPrefix(lho, rho Path) Prefix {
	depth := 0
	for depth < pathBits && lho.Bit(depth) == rho.Bit(depth) {
		depth++
	}
	return Prefix{path: lho, depth: depth}
}

func (p Prefix) Depth() int {
	return p.depth
}

// Ancestor climbs the given number of generations. Climbing above the
// root is an invariant violation.
func (p Prefix) Ancestor(generations int) Prefix {
	if p.depth < generations {
		panic("merkdb: prefix ancestor would be above root")
	}
	return Prefix{path: p.path, depth: p.depth - generations}
}

func (p Prefix) Left() Prefix {
	return p.child(Left)
}

func (p Prefix) Right() Prefix {
	return p.child(Right)
}

func (p Prefix) child(direction Direction) Prefix {
	path := p.path
	path.set(p.depth, direction)
	return Prefix{path: path, depth: p.depth + 1}
}

// Contains reports whether path lies under this prefix.
func (p Prefix) Contains(path Path) bool {
	return deepEqual(p.path, path, p.depth)
}

// Dive returns the direction taken at the given level, which must be
// shallower than the prefix depth.
func (p Prefix) Dive(index int) Direction {
	if index >= p.depth {
		panic("merkdb: prefix dive beyond depth")
	}
	return p.path.Bit(index)
}

func (p Prefix) equals(rho Prefix) bool {
	return p.depth == rho.depth && deepEqual(p.path, rho.path, p.depth)
}
