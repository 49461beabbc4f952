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

// wrap pairs a raw key or value with its cached digest. The payload is
// copied on construction and never mutated afterwards, so a wrap can be
// shared freely between nodes, batches and answers.
type wrap struct {
	digest Hash
	inner  []byte
}

func newWrap(data []byte) (wrap, error) {
	digest, err := hashField(data)
	if err != nil {
		return wrap{}, err
	}
	inner := make([]byte, len(data))
	copy(inner, data)
	return wrap{digest: digest, inner: inner}, nil
}

// rawWrap adopts an already-computed digest. The caller vouches that
// digest is the hash of inner and that inner is not aliased mutably.
func rawWrap(digest Hash, inner []byte) wrap {
	return wrap{digest: digest, inner: inner}
}

// Equality is digest equality: payloads hash-collide only if the
// hashing primitive is broken.
func (w wrap) equals(rho wrap) bool {
	return w.digest == rho.digest
}
