package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"beecrypt", "--config", writeConfig(t)}, args...))
	require.NoError(t, err, "beecrypt %s", strings.Join(args, " "))
	return out.String()
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "beecrypt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: error\nworkers: 2\n"), 0o600))
	return path
}

func TestKeygenEncryptDecrypt(t *testing.T) {
	dir := t.TempDir()
	key := filepath.Join(dir, "gost.key")
	run(t, "keygen", "-c", "gost", "-o", key)

	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("first file contents"), 0o600))
	require.NoError(t, os.WriteFile(b, bytes.Repeat([]byte("second "), 500), 0o600))

	run(t, "encrypt", "-c", "gost", "-m", "cbc", "-z", "zstd", "-k", key, a, b)
	encA, err := os.ReadFile(a + ".bee")
	require.NoError(t, err)
	require.NotContains(t, string(encA), "first file")

	require.NoError(t, os.Remove(a))
	require.NoError(t, os.Remove(b))
	run(t, "decrypt", "-c", "gost", "-m", "cbc", "-z", "zstd", "-k", key, a+".bee", b+".bee")

	gotA, err := os.ReadFile(a)
	require.NoError(t, err)
	require.Equal(t, "first file contents", string(gotA))
	gotB, err := os.ReadFile(b)
	require.NoError(t, err)
	require.Equal(t, bytes.Repeat([]byte("second "), 500), gotB)
}

func TestEncryptFixedIV(t *testing.T) {
	dir := t.TempDir()
	key := filepath.Join(dir, "bf.key")
	require.NoError(t, os.WriteFile(key, []byte("6265652d63727970746f206b6579\n"), 0o600)) // "bee-crypto key"
	in := filepath.Join(dir, "fox")
	require.NoError(t, os.WriteFile(in, []byte("The quick brown fox jumps over the lazy dog"), 0o600))

	out := filepath.Join(dir, "fox.enc")
	run(t, "encrypt", "-k", key, "--iv", "0001020304050607", "-o", out, in)
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "0001020304050607af650562a3cb0d5b", hex.EncodeToString(got[:16]))
}

func TestDecryptNeedsSuffix(t *testing.T) {
	_, err := outputPath("plain.txt", false)
	require.Error(t, err)
	p, err := outputPath("plain.txt.bee", false)
	require.NoError(t, err)
	require.Equal(t, "plain.txt", p)
}

func TestSelftest(t *testing.T) {
	out := run(t, "selftest")
	require.Contains(t, out, "gost-cbc message")
	require.NotContains(t, out, "FAIL")
}

func TestParseTimeSpec(t *testing.T) {
	ts, err := parseTimeSpec("2024-03-01")
	require.NoError(t, err)
	require.Equal(t, 2024, ts.Year())
	_, err = parseTimeSpec("yesterday-ish")
	require.Error(t, err)
}

func TestJournalAndLogs(t *testing.T) {
	dir := t.TempDir()
	journal := filepath.Join(dir, "journal.db")
	key := filepath.Join(dir, "k")
	run(t, "--log-level", "info", "--journal", journal, "keygen", "-n", "16", "-o", key)

	out := run(t, "--journal", journal, "logs", "-n", "10", "--pretty")
	require.Contains(t, out, "key written")
	require.Contains(t, out, `"bytes":16`)
}
