// Package random supplies the random bytes consumed by the cipher core:
// initialization vectors come from the operating system CSPRNG, while the
// overwrite passes of secure erase use a fast XORSHIFT128+ generator seeded
// from it.
package random

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// Reader is the source of cryptographically strong bytes. Tests may replace it.
var Reader io.Reader = rand.Reader

// Bytes returns n bytes read from Reader.
func Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Read fills p completely from Reader.
func Read(p []byte) error {
	if _, err := io.ReadFull(Reader, p); err != nil {
		return fmt.Errorf("random: read %d bytes: %w", len(p), err)
	}
	return nil
}

// XORShift128Plus implements the XORSHIFT128+ algorithm, period 2^128 - 1.
// It is not suitable for key or IV material.
type XORShift128Plus struct {
	state [2]uint64
}

// NewXORShift128Plus returns a generator seeded from Reader. When Reader
// fails the seed falls back to the wall clock, which is acceptable for the
// generator's only use (overwrite noise).
func NewXORShift128Plus() *XORShift128Plus {
	var seed [16]byte
	x := &XORShift128Plus{}
	if err := Read(seed[:]); err != nil {
		now := uint64(time.Now().UnixNano())
		binary.LittleEndian.PutUint64(seed[0:8], now)
		binary.LittleEndian.PutUint64(seed[8:16], now*0x9e3779b97f4a7c15)
	}
	x.state[0] = binary.LittleEndian.Uint64(seed[0:8])
	x.state[1] = binary.LittleEndian.Uint64(seed[8:16])
	// all-zero state is a fixed point
	if x.state[0] == 0 && x.state[1] == 0 {
		x.state[0] = 0x9e3779b97f4a7c15
	}
	return x
}

// Uint64 returns the next 64-bit value and advances the state.
func (x *XORShift128Plus) Uint64() uint64 {
	s1 := x.state[0]
	s0 := x.state[1]
	result := s0 + s1

	x.state[0] = s0
	s1 ^= s1 << 23
	x.state[1] = s1 ^ s0 ^ (s1 >> 17) ^ (s0 >> 26)
	return result
}

// Fill overwrites p with generator output.
func (x *XORShift128Plus) Fill(p []byte) {
	var buf [8]byte
	for len(p) >= 8 {
		binary.LittleEndian.PutUint64(p, x.Uint64())
		p = p[8:]
	}
	if len(p) > 0 {
		binary.LittleEndian.PutUint64(buf[:], x.Uint64())
		copy(p, buf[:])
	}
}
