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
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

const hashSize = 32

// Domain-separation flags for node hashing. An internal node and a leaf
// carrying coincidentally equal payloads must never collide.
const (
	internalFlag byte = 0x00
	leafFlag     byte = 0x01
)

// maxFieldSize bounds the length of a key or value so that it remains
// wire-encodable with a u32 length prefix.
const maxFieldSize = 1<<32 - 1

// Hash is a 32-byte content digest. The zero value is the hash of the
// empty node.
type Hash [hashSize]byte

var emptyHash = Hash{}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// hashField digests a raw key or value. The only rejectable input is
// one too large to carry a u32 length prefix on the wire.
func hashField(data []byte) (Hash, error) {
	if uint64(len(data)) > maxFieldSize {
		return Hash{}, ErrHash
	}
	return blake2b.Sum256(data), nil
}

func internalHash(left, right Hash) Hash {
	var buf [1 + 2*hashSize]byte
	buf[0] = internalFlag
	copy(buf[1:], left[:])
	copy(buf[1+hashSize:], right[:])
	return blake2b.Sum256(buf[:])
}

func leafHash(key, value Hash) Hash {
	var buf [1 + 2*hashSize]byte
	buf[0] = leafFlag
	copy(buf[1:], key[:])
	copy(buf[1+hashSize:], value[:])
	return blake2b.Sum256(buf[:])
}

// Commitment is the cryptographic commitment to the contents of a
// table: the hash of its root node.
type Commitment Hash

func (c Commitment) String() string {
	return Hash(c).String()
}
