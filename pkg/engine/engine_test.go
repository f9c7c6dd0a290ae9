package engine

import (
	"bytes"
	"errors"
	"testing"

	"bee-crypto/pkg/blowfish"
	"bee-crypto/pkg/gost"
	"bee-crypto/pkg/modes"
)

func testKey(name string) []byte {
	if name == GOST {
		return bytes.Repeat([]byte{0x5a}, gost.KeySize)
	}
	return []byte("engine test key")
}

func TestRoundTripAll(t *testing.T) {
	plain := []byte("Data for the engine, needs padding!")
	for _, c := range Ciphers() {
		for _, m := range Modes() {
			e, err := New(c, m, testKey(c))
			if err != nil {
				t.Fatalf("New(%s, %s) failed: %v", c, m, err)
			}
			if e.Name() != c+"-"+m || e.Cipher() != c || e.Mode() != m {
				t.Errorf("Name() = %q, Cipher() = %q, Mode() = %q", e.Name(), e.Cipher(), e.Mode())
			}
			ct, err := e.Encrypt(plain)
			if err != nil {
				t.Fatalf("%s: Encrypt failed: %v", e.Name(), err)
			}
			pt, err := e.Decrypt(ct)
			if err != nil {
				t.Fatalf("%s: Decrypt failed: %v", e.Name(), err)
			}
			if !bytes.Equal(pt, plain) {
				t.Fatalf("%s: round trip gave %q", e.Name(), pt)
			}
			if err := e.Close(); err != nil {
				t.Errorf("%s: Close failed: %v", e.Name(), err)
			}
		}
	}
}

func TestUnknownNames(t *testing.T) {
	if _, err := New("des", ModeCBC, testKey(Blowfish)); !errors.Is(err, ErrUnknownCipher) {
		t.Errorf("expected ErrUnknownCipher, got %v", err)
	}
	if _, err := New(Blowfish, "ctr", testKey(Blowfish)); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
	if _, _, err := KeySizes("idea"); !errors.Is(err, ErrUnknownCipher) {
		t.Errorf("expected ErrUnknownCipher, got %v", err)
	}
}

func TestKeySizeErrorsPropagate(t *testing.T) {
	_, err := New(Blowfish, ModeECB, []byte("abc"))
	var bse blowfish.KeySizeError
	if !errors.As(err, &bse) {
		t.Errorf("expected blowfish.KeySizeError, got %v", err)
	}
	_, err = New(GOST, ModeECB, make([]byte, 31))
	var gse gost.KeySizeError
	if !errors.As(err, &gse) {
		t.Errorf("expected gost.KeySizeError, got %v", err)
	}
}

func TestKeySizes(t *testing.T) {
	min, max, err := KeySizes(Blowfish)
	if err != nil || min != 4 || max != 56 {
		t.Errorf("KeySizes(blowfish) = %d, %d, %v", min, max, err)
	}
	min, max, err = KeySizes(GOST)
	if err != nil || min != 32 || max != 32 {
		t.Errorf("KeySizes(gost) = %d, %d, %v", min, max, err)
	}
}

func TestBlockSize(t *testing.T) {
	for _, name := range Ciphers() {
		bs, err := BlockSize(name)
		if err != nil {
			t.Fatalf("BlockSize(%s) failed: %v", name, err)
		}
		b, err := NewBlock(name, testKey(name))
		if err != nil {
			t.Fatal(err)
		}
		if bs != b.BlockSize() {
			t.Errorf("BlockSize(%s) = %d, cipher reports %d", name, bs, b.BlockSize())
		}
		b.Close()
	}
	if _, err := BlockSize("skipjack"); !errors.Is(err, ErrUnknownCipher) {
		t.Errorf("expected ErrUnknownCipher, got %v", err)
	}
}

func TestExplicitIV(t *testing.T) {
	e, err := New(GOST, ModeCBC, testKey(GOST), WithLockedMemory())
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	iv := []byte("ivivivi!")
	a, err := e.EncryptWithIV([]byte("same"), iv)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.EncryptWithIV([]byte("same"), iv)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("fixed IV must give deterministic output")
	}

	ecb, err := New(GOST, ModeECB, testKey(GOST))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ecb.EncryptWithIV([]byte("x"), iv); err == nil {
		t.Fatal("ECB engine accepted an IV")
	}
}

func TestDecryptWrapsModeErrors(t *testing.T) {
	e, err := New(Blowfish, ModeCBC, testKey(Blowfish))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Decrypt([]byte{1, 2, 3}); !errors.Is(err, modes.ErrShortCiphertext) {
		t.Errorf("expected ErrShortCiphertext, got %v", err)
	}
}
