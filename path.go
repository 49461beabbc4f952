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

import "bytes"

// Direction selects a child of an internal node. Right is numerically
// smaller than Left so that byte-wise path comparison sorts Right-side
// keys first.
type Direction uint8

const (
	Right Direction = iota
	Left
)

func (d Direction) String() string {
	if d == Left {
		return "Left"
	}
	return "Right"
}

// Path is a key digest reinterpreted MSB-first as 256 bits. Bit i set
// selects Left, unset selects Right.
type Path Hash

const pathBits = 8 * hashSize

func pathFromHash(h Hash) Path {
	return Path(h)
}

// Bit returns the direction selected at the given depth.
func (p Path) Bit(index int) Direction {
	if p[index/8]&(1<<(7-index%8)) != 0 {
		return Left
	}
	return Right
}

func (p *Path) set(index int, direction Direction) {
	if direction == Left {
		p[index/8] |= 1 << (7 - index%8)
	} else {
		p[index/8] &^= 1 << (7 - index%8)
	}
}

// reaches reports whether the path is exactly the given key digest,
// i.e. whether an operation on this path addresses that key.
func (p Path) reaches(digest Hash) bool {
	return Hash(p) == digest
}

func (p Path) Compare(rho Path) int {
	return bytes.Compare(p[:], rho[:])
}

// deepEqual reports whether two paths agree on their first depth bits.
func deepEqual(lho, rho Path, depth int) bool {
	full, overflow := depth/8, depth%8
	if !bytes.Equal(lho[:full], rho[:full]) {
		return false
	}
	if overflow > 0 {
		shift := 8 - overflow
		return lho[full]>>shift == rho[full]>>shift
	}
	return true
}
