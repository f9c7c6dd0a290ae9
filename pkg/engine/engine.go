// Package engine binds a block cipher and a chaining mode under a name such
// as "blowfish-cbc", so callers that only know configuration strings can
// encrypt and decrypt whole messages.
package engine

import (
	"crypto/cipher"
	"errors"
	"fmt"
	"sort"

	"bee-crypto/pkg/blowfish"
	"bee-crypto/pkg/gost"
	"bee-crypto/pkg/log"
	"bee-crypto/pkg/modes"
)

const (
	Blowfish = "blowfish"
	GOST     = "gost"

	ModeECB = "ecb"
	ModeCBC = "cbc"
)

var (
	ErrUnknownCipher = errors.New("engine: unknown cipher")
	ErrUnknownMode   = errors.New("engine: unknown mode")
)

// Block is a block cipher that owns erasable key material.
type Block interface {
	cipher.Block
	Lock() error
	Close() error
}

type cipherInfo struct {
	blockSize      int
	minKey, maxKey int
	newBlock       func(key []byte) (Block, error)
}

var registry = map[string]cipherInfo{
	Blowfish: {blowfish.BlockSize, blowfish.MinKeySize, blowfish.MaxKeySize, func(key []byte) (Block, error) {
		return blowfish.NewCipher(key)
	}},
	GOST: {gost.BlockSize, gost.KeySize, gost.KeySize, func(key []byte) (Block, error) {
		return gost.NewCipher(key)
	}},
}

// Ciphers lists the registered cipher names.
func Ciphers() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Modes lists the supported mode names.
func Modes() []string { return []string{ModeCBC, ModeECB} }

// KeySizes returns the accepted key length range of a cipher.
func KeySizes(name string) (min, max int, err error) {
	info, ok := registry[name]
	if !ok {
		return 0, 0, fmt.Errorf("%w %q", ErrUnknownCipher, name)
	}
	return info.minKey, info.maxKey, nil
}

// BlockSize returns the block length of a cipher in bytes.
func BlockSize(name string) (int, error) {
	info, ok := registry[name]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownCipher, name)
	}
	return info.blockSize, nil
}

// NewBlock creates the named block cipher.
func NewBlock(name string, key []byte) (Block, error) {
	info, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownCipher, name)
	}
	return info.newBlock(key)
}

// Option adjusts engine construction.
type Option func(*options)

type options struct {
	lockMemory bool
}

// WithLockedMemory pins the key schedule in RAM. A refused mlock is logged
// and otherwise ignored.
func WithLockedMemory() Option {
	return func(o *options) { o.lockMemory = true }
}

// Engine encrypts whole messages with one cipher and mode.
type Engine struct {
	cipherName string
	mode       string
	block      Block
}

// New creates an Engine for cipherName in mode using key.
func New(cipherName, mode string, key []byte, opts ...Option) (*Engine, error) {
	if mode != ModeECB && mode != ModeCBC {
		return nil, fmt.Errorf("%w %q", ErrUnknownMode, mode)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	block, err := NewBlock(cipherName, key)
	if err != nil {
		return nil, err
	}
	if o.lockMemory {
		if err := block.Lock(); err != nil {
			log.Warn().Err(err).Str("cipher", cipherName).Msg("key schedule not locked in memory")
		}
	}
	e := &Engine{cipherName: cipherName, mode: mode, block: block}
	log.Debug().Str("engine", e.Name()).Int("key_bytes", len(key)).Msg("engine ready")
	return e, nil
}

// Name returns "<cipher>-<mode>".
func (e *Engine) Name() string { return e.cipherName + "-" + e.mode }

// Cipher returns the cipher name.
func (e *Engine) Cipher() string { return e.cipherName }

// Mode returns the mode name.
func (e *Engine) Mode() string { return e.mode }

// Encrypt encrypts data; in CBC mode a fresh IV is generated.
func (e *Engine) Encrypt(data []byte) ([]byte, error) {
	return e.EncryptWithIV(data, nil)
}

// EncryptWithIV encrypts data using iv in CBC mode. iv must be nil in ECB mode.
func (e *Engine) EncryptWithIV(data, iv []byte) ([]byte, error) {
	if e.mode == ModeECB {
		if iv != nil {
			return nil, fmt.Errorf("engine: %s does not take an IV", e.Name())
		}
		return modes.EncryptECB(e.block, data), nil
	}
	out, err := modes.EncryptCBC(e.block, data, iv)
	if err != nil {
		return nil, fmt.Errorf("engine: %s encrypt: %w", e.Name(), err)
	}
	return out, nil
}

// Decrypt reverses Encrypt.
func (e *Engine) Decrypt(data []byte) ([]byte, error) {
	var (
		out []byte
		err error
	)
	if e.mode == ModeECB {
		out, err = modes.DecryptECB(e.block, data)
	} else {
		out, err = modes.DecryptCBC(e.block, data)
	}
	if err != nil {
		return nil, fmt.Errorf("engine: %s decrypt: %w", e.Name(), err)
	}
	return out, nil
}

// Close erases the key schedule.
func (e *Engine) Close() error {
	return e.block.Close()
}
