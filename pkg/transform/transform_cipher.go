package transform

import (
	"bee-crypto/pkg/engine"
)

type cipherTransform struct{ e *engine.Engine }

// NewCipherTransform encrypts on Apply and decrypts on Reverse. The engine
// stays owned by the caller.
func NewCipherTransform(e *engine.Engine) Transform { return &cipherTransform{e: e} }

func (c *cipherTransform) Apply(plaintext []byte) ([]byte, error) {
	return c.e.Encrypt(plaintext)
}

func (c *cipherTransform) Reverse(ciphertext []byte) ([]byte, error) {
	return c.e.Decrypt(ciphertext)
}

func (c *cipherTransform) Name() string { return c.e.Name() }
