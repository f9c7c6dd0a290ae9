package api

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	xblowfish "golang.org/x/crypto/blowfish"

	"bee-crypto/pkg/blowfish"
	"bee-crypto/pkg/gost"
)

func do(t *testing.T, s *Service, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Api.ServeHTTP(rec, req)
	return rec
}

func TestCiphers(t *testing.T) {
	rec := do(t, NewService(), http.MethodGet, "/v1/ciphers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var infos []CipherInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	require.Len(t, infos, 2)
	require.Equal(t, "blowfish", infos[0].Name)
	require.Equal(t, 56, infos[0].MaxKeySize)
	require.Equal(t, "gost", infos[1].Name)
	require.Equal(t, 32, infos[1].MinKeySize)
	require.Equal(t, blowfish.BlockSize, infos[0].BlockSize)
	require.Equal(t, gost.BlockSize, infos[1].BlockSize)
}

func TestEncryptDecrypt(t *testing.T) {
	s := NewService()
	key := hex.EncodeToString(bytes.Repeat([]byte{0x42}, 32))
	plain := []byte("over the wire and back")
	for _, c := range []string{"blowfish", "gost"} {
		for _, m := range []string{"ecb", "cbc"} {
			rec := do(t, s, http.MethodPost, "/v1/encrypt", Request{Cipher: c, Mode: m, Key: key, Data: plain})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var enc Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &enc))

			rec = do(t, s, http.MethodPost, "/v1/decrypt", Request{Cipher: c, Mode: m, Key: key, Data: enc.Data})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var dec Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dec))
			require.Equal(t, plain, dec.Data)
		}
	}
}

func TestEncryptMatchesReferenceBlowfish(t *testing.T) {
	key := []byte("api oracle")
	ref, err := xblowfish.NewCipher(key)
	require.NoError(t, err)
	want := make([]byte, 8)
	ref.Encrypt(want, []byte("ABCDEFGH"))

	rec := do(t, NewService(), http.MethodPost, "/v1/encrypt", Request{
		Cipher: "blowfish", Mode: "ecb", Key: hex.EncodeToString(key), Data: []byte("ABCDEFGH"),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var out Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, want, out.Data)
}

func TestExplicitIV(t *testing.T) {
	rec := do(t, NewService(), http.MethodPost, "/v1/encrypt", Request{
		Cipher: "blowfish", Mode: "cbc", Key: "00112233", IV: "0001020304050607", Data: []byte("x"),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var out Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Data, 16)
	require.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6, 7}, out.Data[:8])
}

func TestErrors(t *testing.T) {
	s := NewService()
	cases := []struct {
		name string
		req  Request
		want string
	}{
		{"unknown cipher", Request{Cipher: "aes", Mode: "cbc", Key: "00112233", Data: []byte("x")}, "unknown cipher"},
		{"unknown mode", Request{Cipher: "gost", Mode: "gcm", Key: "00112233", Data: []byte("x")}, "unknown mode"},
		{"bad key hex", Request{Cipher: "blowfish", Mode: "ecb", Key: "zz", Data: []byte("x")}, "key"},
		{"short key", Request{Cipher: "blowfish", Mode: "ecb", Key: "0011", Data: []byte("x")}, "invalid key size 2"},
		{"bad iv", Request{Cipher: "blowfish", Mode: "cbc", Key: "00112233", IV: "0011", Data: []byte("x")}, "IV"},
	}
	for _, tc := range cases {
		rec := do(t, s, http.MethodPost, "/v1/encrypt", tc.req)
		require.Equal(t, http.StatusBadRequest, rec.Code, tc.name)
		var e ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e), tc.name)
		require.Contains(t, e.Error, tc.want, tc.name)
	}

	rec := do(t, s, http.MethodPost, "/v1/decrypt", Request{Cipher: "blowfish", Mode: "ecb", Key: "00112233", Data: []byte{1, 2, 3}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "not full blocks"), rec.Body.String())
}
