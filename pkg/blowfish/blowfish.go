// Package blowfish implements Bruce Schneier's Blowfish: a 16-round Feistel
// cipher on 64-bit blocks whose S-boxes are derived from a 4 to 56 byte key.
//
// Blocks are read as two big-endian 32-bit words, so ciphertext is portable
// across hosts and matches the published test vectors.
package blowfish

import (
	"encoding/binary"
	"strconv"
	"unsafe"

	"bee-crypto/pkg/modes"
	"bee-crypto/pkg/secure"
)

const (
	// BlockSize is the Blowfish block size in bytes.
	BlockSize = 8

	// MinKeySize and MaxKeySize bound the accepted key length in bytes.
	MinKeySize = 4
	MaxKeySize = 56

	rounds = 16
)

// KeySizeError reports a key whose length is outside [MinKeySize, MaxKeySize].
type KeySizeError int

func (k KeySizeError) Error() string {
	return "blowfish: invalid key size " + strconv.Itoa(int(k))
}

// Cipher holds an expanded Blowfish key. It is safe for concurrent use
// until Close is called.
type Cipher struct {
	p      [rounds + 2]uint32
	s      [4][256]uint32
	locked bool
}

// NewCipher expands key into a new Cipher.
func NewCipher(key []byte) (*Cipher, error) {
	if k := len(key); k < MinKeySize || k > MaxKeySize {
		return nil, KeySizeError(k)
	}
	c := &Cipher{p: initP, s: initS}
	c.expandKey(key)
	return c, nil
}

func (c *Cipher) expandKey(key []byte) {
	j := 0
	for i := range c.p {
		var d uint32
		for k := 0; k < 4; k++ {
			d = d<<8 | uint32(key[j])
			j++
			if j >= len(key) {
				j = 0
			}
		}
		c.p[i] ^= d
	}

	// each output block feeds the next encryption
	var l, r uint32
	for i := 0; i < len(c.p); i += 2 {
		l, r = c.EncryptBlock(l, r)
		c.p[i], c.p[i+1] = l, r
	}
	for i := range c.s {
		for k := 0; k < 256; k += 2 {
			l, r = c.EncryptBlock(l, r)
			c.s[i][k], c.s[i][k+1] = l, r
		}
	}
}

func (c *Cipher) f(x uint32) uint32 {
	return ((c.s[0][x>>24] + c.s[1][x>>16&0xff]) ^ c.s[2][x>>8&0xff]) + c.s[3][x&0xff]
}

// EncryptBlock encrypts the block held in the word pair (l, r).
func (c *Cipher) EncryptBlock(l, r uint32) (uint32, uint32) {
	for i := 0; i < rounds; i += 2 {
		l ^= c.p[i]
		r ^= c.f(l)
		r ^= c.p[i+1]
		l ^= c.f(r)
	}
	return r ^ c.p[17], l ^ c.p[16]
}

// DecryptBlock inverts EncryptBlock.
func (c *Cipher) DecryptBlock(l, r uint32) (uint32, uint32) {
	for i := rounds + 1; i > 1; i -= 2 {
		l ^= c.p[i]
		r ^= c.f(l)
		r ^= c.p[i-1]
		l ^= c.f(r)
	}
	return r ^ c.p[0], l ^ c.p[1]
}

// BlockSize returns the Blowfish block size, 8 bytes.
func (c *Cipher) BlockSize() int { return BlockSize }

// Encrypt encrypts the 8-byte block src into dst. dst and src may overlap
// entirely.
func (c *Cipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("blowfish: input not full block")
	}
	l, r := c.EncryptBlock(binary.BigEndian.Uint32(src[0:4]), binary.BigEndian.Uint32(src[4:8]))
	binary.BigEndian.PutUint32(dst[0:4], l)
	binary.BigEndian.PutUint32(dst[4:8], r)
}

// Decrypt decrypts the 8-byte block src into dst.
func (c *Cipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("blowfish: input not full block")
	}
	l, r := c.DecryptBlock(binary.BigEndian.Uint32(src[0:4]), binary.BigEndian.Uint32(src[4:8]))
	binary.BigEndian.PutUint32(dst[0:4], l)
	binary.BigEndian.PutUint32(dst[4:8], r)
}

// EncryptECB pads plaintext and encrypts it in ECB mode.
func (c *Cipher) EncryptECB(plaintext []byte) []byte {
	return modes.EncryptECB(c, plaintext)
}

// DecryptECB decrypts an ECB ciphertext and strips its padding.
func (c *Cipher) DecryptECB(ciphertext []byte) ([]byte, error) {
	return modes.DecryptECB(c, ciphertext)
}

// EncryptCBC pads plaintext and encrypts it in CBC mode. A nil iv selects a
// random one; the IV is returned as the first block.
func (c *Cipher) EncryptCBC(plaintext, iv []byte) ([]byte, error) {
	return modes.EncryptCBC(c, plaintext, iv)
}

// DecryptCBC decrypts IV-prefixed CBC ciphertext and strips its padding.
func (c *Cipher) DecryptCBC(ciphertext []byte) ([]byte, error) {
	return modes.DecryptCBC(c, ciphertext)
}

func (c *Cipher) schedule() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&c.p[0])), int(unsafe.Sizeof(c.p)+unsafe.Sizeof(c.s)))
}

// Lock pins the key schedule in memory.
func (c *Cipher) Lock() error {
	if err := secure.Lock(c.schedule()); err != nil {
		return err
	}
	c.locked = true
	return nil
}

// Close erases the key schedule. The Cipher must not be used afterwards and
// Close must not run concurrently with Encrypt or Decrypt.
func (c *Cipher) Close() error {
	secure.EraseWords(c.p[:])
	for i := range c.s {
		secure.EraseWords(c.s[i][:])
	}
	if c.locked {
		c.locked = false
		return secure.Unlock(c.schedule())
	}
	return nil
}
