// Package secure overwrites and pins key material held in memory.
package secure

import (
	"runtime"
	"unsafe"

	"bee-crypto/pkg/random"
)

const randomPasses = 4

// fixed patterns applied after the random passes, in order
var patterns = [...]byte{0x55, 0xaa, 0xff, 0x00}

// Erase overwrites b with several pseudo-random passes followed by the
// 0x55, 0xaa, 0xff and 0x00 patterns. On return b is all zero.
func Erase(b []byte) {
	if len(b) == 0 {
		return
	}
	gen := random.NewXORShift128Plus()
	for i := 0; i < randomPasses; i++ {
		gen.Fill(b)
	}
	for _, p := range patterns {
		for i := range b {
			b[i] = p
		}
	}
	runtime.KeepAlive(b)
}

// EraseWords erases the backing memory of a 32-bit word slice.
func EraseWords(w []uint32) {
	if len(w) == 0 {
		return
	}
	Erase(WordBytes(w))
	runtime.KeepAlive(w)
}

// WordBytes exposes the memory behind w as a byte slice without copying.
func WordBytes(w []uint32) []byte {
	if len(w) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&w[0])), len(w)*4)
}
