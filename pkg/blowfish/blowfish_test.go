package blowfish

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"testing"

	xblowfish "golang.org/x/crypto/blowfish"
)

// Eric Young's Blowfish test vectors (key, plaintext, ciphertext).
var knownAnswers = []struct {
	key, plain, cipher string
}{
	{"0000000000000000", "0000000000000000", "4ef997456198dd78"},
	{"ffffffffffffffff", "ffffffffffffffff", "51866fd5b85ecb8a"},
	{"3000000000000000", "1000000000000001", "7d856f9a613063f2"},
	{"1111111111111111", "1111111111111111", "2466dd878b963c9d"},
	{"0123456789abcdef", "1111111111111111", "61f9c3802281b096"},
	{"fedcba9876543210", "0123456789abcdef", "0aceab0fc6a0a28d"},
	{"7ca110454a1a6e57", "01a1d6d039776742", "59c68245eb05282b"},
	{"0131d9619dc1376e", "5cd54ca83def57da", "b1b8cc0b250f09a0"},
	{"0123456789abcdef", "0000000000000000", "245946885754369a"},
	// variable key length, plaintext fedcba9876543210
	{"f0e1d2c3", "fedcba9876543210", "be1e639408640f05"},
	{"f0e1d2c3b4a59687", "fedcba9876543210", "e87a244e2cc85e82"},
	{"f0e1d2c3b4a5968778695a4b3c2d1e0f", "fedcba9876543210", "93142887ee3be15c"},
	{"f0e1d2c3b4a5968778695a4b3c2d1e0f0011223344556677", "fedcba9876543210", "05044b62fa52d080"},
}

func decode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func TestKnownAnswers(t *testing.T) {
	for _, v := range knownAnswers {
		c, err := NewCipher(decode(t, v.key))
		if err != nil {
			t.Fatalf("NewCipher(%s) failed: %v", v.key, err)
		}
		plain, want := decode(t, v.plain), decode(t, v.cipher)
		got := make([]byte, BlockSize)
		c.Encrypt(got, plain)
		if !bytes.Equal(got, want) {
			t.Errorf("key %s: Encrypt(%s) = %x, want %s", v.key, v.plain, got, v.cipher)
		}
		c.Decrypt(got, want)
		if !bytes.Equal(got, plain) {
			t.Errorf("key %s: Decrypt(%s) = %x, want %s", v.key, v.cipher, got, v.plain)
		}
	}
}

func TestKeySizes(t *testing.T) {
	for _, n := range []int{0, 3, 57, 64} {
		c, err := NewCipher(make([]byte, n))
		if c != nil || err == nil {
			t.Errorf("NewCipher(%d bytes) accepted", n)
			continue
		}
		var kse KeySizeError
		if !errors.As(err, &kse) || int(kse) != n {
			t.Errorf("NewCipher(%d bytes): unexpected error %v", n, err)
		}
	}
	for _, n := range []int{4, 32, 56} {
		if _, err := NewCipher(make([]byte, n)); err != nil {
			t.Errorf("NewCipher(%d bytes) rejected: %v", n, err)
		}
	}
}

// Cross-check the key schedule and rounds against an independent implementation.
func TestMatchesReference(t *testing.T) {
	for n := MinKeySize; n <= MaxKeySize; n++ {
		key := make([]byte, n)
		if _, err := rand.Read(key); err != nil {
			t.Fatal(err)
		}
		ours, err := NewCipher(key)
		if err != nil {
			t.Fatalf("NewCipher(%d bytes) failed: %v", n, err)
		}
		ref, err := xblowfish.NewCipher(key)
		if err != nil {
			t.Fatalf("reference NewCipher failed: %v", err)
		}
		src := make([]byte, BlockSize)
		if _, err := rand.Read(src); err != nil {
			t.Fatal(err)
		}
		a, b := make([]byte, BlockSize), make([]byte, BlockSize)
		ours.Encrypt(a, src)
		ref.Encrypt(b, src)
		if !bytes.Equal(a, b) {
			t.Fatalf("key length %d: got %x, reference %x", n, a, b)
		}
	}
}

func TestBlockRoundTrip(t *testing.T) {
	c, err := NewCipher([]byte("some secret key"))
	if err != nil {
		t.Fatal(err)
	}
	for i := uint32(0); i < 256; i++ {
		l, r := i*0x01010101, ^i*0x9e3779b9
		el, er := c.EncryptBlock(l, r)
		dl, dr := c.DecryptBlock(el, er)
		if dl != l || dr != r {
			t.Fatalf("round trip of (%08x, %08x) gave (%08x, %08x)", l, r, dl, dr)
		}
	}
}

func TestInPlace(t *testing.T) {
	c, err := NewCipher([]byte("in-place"))
	if err != nil {
		t.Fatal(err)
	}
	buf := []byte("8bytes!!")
	c.Encrypt(buf, buf)
	c.Decrypt(buf, buf)
	if string(buf) != "8bytes!!" {
		t.Fatalf("in-place round trip failed: %q", buf)
	}
}

func TestModes(t *testing.T) {
	c, err := NewCipher([]byte("bee-crypto key"))
	if err != nil {
		t.Fatal(err)
	}
	plain := []byte("The quick brown fox jumps over the lazy dog")

	ecb := c.EncryptECB(plain)
	got, err := c.DecryptECB(ecb)
	if err != nil {
		t.Fatalf("DecryptECB failed: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("ECB round trip: got %q", got)
	}

	cbc, err := c.EncryptCBC(plain, nil)
	if err != nil {
		t.Fatalf("EncryptCBC failed: %v", err)
	}
	if len(cbc) != BlockSize+len(ecb) {
		t.Fatalf("CBC length %d, expected IV plus %d", len(cbc), len(ecb))
	}
	got, err = c.DecryptCBC(cbc)
	if err != nil {
		t.Fatalf("DecryptCBC failed: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("CBC round trip: got %q", got)
	}
}

func TestCloseErases(t *testing.T) {
	c, err := NewCipher([]byte("erase me"))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	for i, w := range c.p {
		if w != 0 {
			t.Fatalf("p[%d] = %#x after Close", i, w)
		}
	}
	for i := range c.s {
		for j, w := range c.s[i] {
			if w != 0 {
				t.Fatalf("s[%d][%d] = %#x after Close", i, j, w)
			}
		}
	}
	// the shared initial tables stay intact
	if initP[0] != 0x243f6a88 || initS[3][255] != 0x3ac372e6 {
		t.Fatal("Close modified the initial tables")
	}
}

func TestLockClose(t *testing.T) {
	c, err := NewCipher([]byte("locked key"))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Lock(); err != nil {
		t.Skipf("mlock unavailable: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func BenchmarkEncrypt(b *testing.B) {
	c, err := NewCipher([]byte("benchmark key"))
	if err != nil {
		b.Fatal(err)
	}
	buf := make([]byte, BlockSize)
	b.SetBytes(BlockSize)
	for i := 0; i < b.N; i++ {
		c.Encrypt(buf, buf)
	}
}

func BenchmarkNewCipher(b *testing.B) {
	key := []byte("benchmark key")
	for i := 0; i < b.N; i++ {
		if _, err := NewCipher(key); err != nil {
			b.Fatal(err)
		}
	}
}
