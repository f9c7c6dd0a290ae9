package secure

import (
	"bytes"
	"testing"
)

func TestEraseZeroes(t *testing.T) {
	b := []byte("top secret key material")
	Erase(b)
	if !bytes.Equal(b, make([]byte, len(b))) {
		t.Fatalf("buffer not zeroed: %x", b)
	}
}

func TestEraseEmpty(t *testing.T) {
	Erase(nil)
	Erase([]byte{})
	EraseWords(nil)
}

func TestEraseWords(t *testing.T) {
	w := []uint32{0xdeadbeef, 0x01234567, 0xffffffff}
	EraseWords(w)
	for i, v := range w {
		if v != 0 {
			t.Errorf("word %d = %#x after erase", i, v)
		}
	}
}

func TestWordBytesAliases(t *testing.T) {
	w := []uint32{1, 2}
	b := WordBytes(w)
	if len(b) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(b))
	}
	for i := range b {
		b[i] = 0
	}
	if w[0] != 0 || w[1] != 0 {
		t.Errorf("WordBytes does not alias the word slice")
	}
}

func TestLockUnlock(t *testing.T) {
	b := make([]byte, 64)
	// mlock may be refused under a tight RLIMIT_MEMLOCK; only a successful
	// lock needs a matching unlock
	if err := Lock(b); err != nil {
		t.Skipf("mlock unavailable: %v", err)
	}
	if err := Unlock(b); err != nil {
		t.Errorf("Unlock failed: %v", err)
	}
}
