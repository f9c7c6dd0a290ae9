// Package keyfile stores cipher keys as hex text files and reads keys typed
// at a terminal.
package keyfile

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"bee-crypto/pkg/engine"
	"bee-crypto/pkg/random"
	"bee-crypto/pkg/secure"
)

var ErrNotTerminal = errors.New("keyfile: input is not a terminal")

// Generate returns n random key bytes for cipherName. n == 0 selects the
// largest key the cipher accepts.
func Generate(cipherName string, n int) ([]byte, error) {
	min, max, err := engine.KeySizes(cipherName)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		n = max
	}
	if n < min || n > max {
		return nil, fmt.Errorf("keyfile: %s needs %d..%d key bytes, got %d", cipherName, min, max, n)
	}
	return random.Bytes(n)
}

// Encode formats key as one line of lower-case hex.
func Encode(key []byte) []byte {
	out := make([]byte, hex.EncodedLen(len(key))+1)
	hex.Encode(out, key)
	out[len(out)-1] = '\n'
	return out
}

// Decode parses hex text, ignoring surrounding whitespace.
func Decode(text []byte) ([]byte, error) {
	text = bytes.TrimSpace(text)
	if len(text) == 0 {
		return nil, errors.New("keyfile: empty key")
	}
	key := make([]byte, hex.DecodedLen(len(text)))
	if _, err := hex.Decode(key, text); err != nil {
		return nil, fmt.Errorf("keyfile: decode hex: %w", err)
	}
	return key, nil
}

// Write stores key at path with owner-only permissions.
func Write(path string, key []byte) error {
	buf := Encode(key)
	defer secure.Erase(buf)
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		return fmt.Errorf("keyfile: write %s: %w", path, err)
	}
	return nil
}

// Read loads a hex key file.
func Read(path string) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keyfile: read %s: %w", path, err)
	}
	defer secure.Erase(buf)
	return Decode(buf)
}

// Prompt writes prompt to w and reads a key from the terminal on fd without
// echo. The typed text is used as raw key bytes.
func Prompt(fd int, w io.Writer, prompt string) ([]byte, error) {
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	key, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("keyfile: read terminal: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("keyfile: empty key")
	}
	return key, nil
}
