// Package modes turns an 8-byte block primitive into a message cipher.
//
// Both modes pad with package padding before encryption and strip the
// padding after decryption. CBC output starts with the IV block.
// Zero-length input always yields an empty, non-nil result.
package modes

import (
	"crypto/cipher"
	"fmt"

	"bee-crypto/pkg/padding"
	"bee-crypto/pkg/random"
)

// EncryptECB pads plaintext and encrypts each block independently.
func EncryptECB(b cipher.Block, plaintext []byte) []byte {
	if len(plaintext) == 0 {
		return []byte{}
	}
	buf := padding.Pad(plaintext, b.BlockSize())
	NewECBEncrypter(b).CryptBlocks(buf, buf)
	return buf
}

// DecryptECB decrypts each block of ciphertext and removes the padding.
func DecryptECB(b cipher.Block, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return []byte{}, nil
	}
	bs := b.BlockSize()
	if len(ciphertext)%bs != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrNotFullBlocks, len(ciphertext))
	}
	plain := make([]byte, len(ciphertext))
	NewECBDecrypter(b).CryptBlocks(plain, ciphertext)
	return padding.Unpad(plain), nil
}

// EncryptCBC pads plaintext and chains it through b. A nil iv requests a
// fresh random one. The result is IV || C1 || ... || Cn.
func EncryptCBC(b cipher.Block, plaintext, iv []byte) ([]byte, error) {
	bs := b.BlockSize()
	if iv != nil && len(iv) != bs {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidIV, len(iv), bs)
	}
	if len(plaintext) == 0 {
		return []byte{}, nil
	}

	padded := padding.Pad(plaintext, bs)
	out := make([]byte, bs+len(padded))
	if iv != nil {
		copy(out[:bs], iv)
	} else if err := random.Read(out[:bs]); err != nil {
		return nil, fmt.Errorf("modes: generate IV: %w", err)
	}

	cipher.NewCBCEncrypter(b, out[:bs]).CryptBlocks(out[bs:], padded)
	return out, nil
}

// DecryptCBC reads the IV from the first block of ciphertext, decrypts the
// remaining blocks and removes the padding.
func DecryptCBC(b cipher.Block, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return []byte{}, nil
	}
	bs := b.BlockSize()
	if len(ciphertext) < bs {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortCiphertext, len(ciphertext))
	}
	if (len(ciphertext)-bs)%bs != 0 {
		return nil, fmt.Errorf("%w: %d bytes after IV", ErrNotFullBlocks, len(ciphertext)-bs)
	}

	iv, body := ciphertext[:bs], ciphertext[bs:]
	plain := make([]byte, len(body))
	if len(body) > 0 {
		cipher.NewCBCDecrypter(b, iv).CryptBlocks(plain, body)
	}
	return padding.Unpad(plain), nil
}
