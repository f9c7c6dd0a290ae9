// Package gost implements the GOST 28147-89 block cipher: a 32-round Feistel
// network on 64-bit blocks with a 256-bit key and fixed substitution tables.
//
// The tables are the test parameter set published with the reference
// implementation in Applied Cryptography. Blocks and key words are read
// big-endian.
package gost

import (
	"encoding/binary"
	"math/bits"
	"strconv"
	"unsafe"

	"bee-crypto/pkg/modes"
	"bee-crypto/pkg/secure"
)

const (
	// BlockSize is the GOST block size in bytes.
	BlockSize = 8

	// KeySize is the only accepted key length in bytes.
	KeySize = 32
)

// KeySizeError reports a key whose length is not KeySize.
type KeySizeError int

func (k KeySizeError) Error() string {
	return "gost: invalid key size " + strconv.Itoa(int(k))
}

// 4-bit substitution permutations, k1 acting on the lowest nibble.
var (
	k8 = [16]byte{14, 4, 13, 1, 2, 15, 11, 8, 3, 10, 6, 12, 5, 9, 0, 7}
	k7 = [16]byte{15, 1, 8, 14, 6, 11, 3, 4, 9, 7, 2, 13, 12, 0, 5, 10}
	k6 = [16]byte{10, 0, 9, 14, 6, 3, 15, 5, 1, 13, 12, 7, 11, 4, 2, 8}
	k5 = [16]byte{7, 13, 14, 3, 0, 6, 9, 10, 1, 2, 8, 5, 11, 12, 4, 15}
	k4 = [16]byte{2, 12, 4, 1, 7, 10, 11, 6, 8, 5, 3, 15, 13, 0, 14, 9}
	k3 = [16]byte{12, 1, 10, 15, 9, 2, 6, 8, 0, 13, 3, 4, 14, 7, 5, 11}
	k2 = [16]byte{4, 11, 2, 14, 15, 0, 8, 13, 3, 12, 9, 7, 5, 10, 6, 1}
	k1 = [16]byte{13, 2, 8, 4, 6, 15, 11, 1, 10, 9, 3, 14, 5, 0, 12, 7}
)

// Key word used by each of the 32 rounds.
var (
	encryptOrder = [32]uint8{
		0, 1, 2, 3, 4, 5, 6, 7,
		0, 1, 2, 3, 4, 5, 6, 7,
		0, 1, 2, 3, 4, 5, 6, 7,
		7, 6, 5, 4, 3, 2, 1, 0,
	}
	decryptOrder = [32]uint8{
		0, 1, 2, 3, 4, 5, 6, 7,
		7, 6, 5, 4, 3, 2, 1, 0,
		7, 6, 5, 4, 3, 2, 1, 0,
		7, 6, 5, 4, 3, 2, 1, 0,
	}
)

// Cipher holds an expanded GOST key. It is safe for concurrent use until
// Close is called.
type Cipher struct {
	k      [8]uint32
	k87    [256]byte
	k65    [256]byte
	k43    [256]byte
	k21    [256]byte
	locked bool
}

// NewCipher creates a Cipher from a 32-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, KeySizeError(len(key))
	}
	c := &Cipher{}
	for i := range c.k {
		c.k[i] = binary.BigEndian.Uint32(key[4*i:])
	}
	for n := 0; n < 256; n++ {
		hi, lo := n>>4, n&15
		c.k87[n] = k8[hi]<<4 | k7[lo]
		c.k65[n] = k6[hi]<<4 | k5[lo]
		c.k43[n] = k4[hi]<<4 | k3[lo]
		c.k21[n] = k2[hi]<<4 | k1[lo]
	}
	return c, nil
}

func (c *Cipher) f(x uint32) uint32 {
	w := uint32(c.k87[x>>24])<<24 |
		uint32(c.k65[x>>16&0xff])<<16 |
		uint32(c.k43[x>>8&0xff])<<8 |
		uint32(c.k21[x&0xff])
	return bits.RotateLeft32(w, 11)
}

func (c *Cipher) crypt(order *[32]uint8, n1, n2 uint32) (uint32, uint32) {
	for i := 0; i < len(order); i += 2 {
		n2 ^= c.f(n1 + c.k[order[i]])
		n1 ^= c.f(n2 + c.k[order[i+1]])
	}
	return n2, n1
}

// EncryptBlock encrypts the block held in the word pair (n1, n2).
func (c *Cipher) EncryptBlock(n1, n2 uint32) (uint32, uint32) {
	return c.crypt(&encryptOrder, n1, n2)
}

// DecryptBlock inverts EncryptBlock.
func (c *Cipher) DecryptBlock(n1, n2 uint32) (uint32, uint32) {
	return c.crypt(&decryptOrder, n1, n2)
}

// BlockSize returns the GOST block size, 8 bytes.
func (c *Cipher) BlockSize() int { return BlockSize }

// Encrypt encrypts the 8-byte block src into dst.
func (c *Cipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("gost: input not full block")
	}
	a, b := c.EncryptBlock(binary.BigEndian.Uint32(src[0:4]), binary.BigEndian.Uint32(src[4:8]))
	binary.BigEndian.PutUint32(dst[0:4], a)
	binary.BigEndian.PutUint32(dst[4:8], b)
}

// Decrypt decrypts the 8-byte block src into dst.
func (c *Cipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("gost: input not full block")
	}
	a, b := c.DecryptBlock(binary.BigEndian.Uint32(src[0:4]), binary.BigEndian.Uint32(src[4:8]))
	binary.BigEndian.PutUint32(dst[0:4], a)
	binary.BigEndian.PutUint32(dst[4:8], b)
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
	n := unsafe.Offsetof(c.locked)
	return unsafe.Slice((*byte)(unsafe.Pointer(&c.k[0])), int(n))
}

// Lock pins the key schedule in memory.
func (c *Cipher) Lock() error {
	if err := secure.Lock(c.schedule()); err != nil {
		return err
	}
	c.locked = true
	return nil
}

// Close erases the key words and substitution tables. The Cipher must not
// be used afterwards.
func (c *Cipher) Close() error {
	secure.EraseWords(c.k[:])
	secure.Erase(c.k87[:])
	secure.Erase(c.k65[:])
	secure.Erase(c.k43[:])
	secure.Erase(c.k21[:])
	if c.locked {
		c.locked = false
		return secure.Unlock(c.schedule())
	}
	return nil
}
