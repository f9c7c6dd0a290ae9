package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"bee-crypto/pkg/engine"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, engine.Blowfish, cfg.Cipher)
	require.Equal(t, engine.ModeCBC, cfg.Mode)
	require.Equal(t, "none", cfg.Compress)
	require.NoError(t, cfg.Validate())
}

func TestLoadExplicitFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "beecrypt.yaml")
	body := "cipher: gost\nmode: ecb\ncompress: zstd\nkey_file: /tmp/k.hex\nworkers: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("BEE_MODE", "cbc")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, engine.GOST, cfg.Cipher)
	require.Equal(t, engine.ModeCBC, cfg.Mode, "environment overrides file")
	require.Equal(t, "zstd", cfg.Compress)
	require.Equal(t, "/tmp/k.hex", cfg.KeyFile)
	require.Equal(t, 3, cfg.Workers)
	require.Equal(t, path, cfg.ConfigFile)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cipher = "rc4"
	require.True(t, errors.Is(cfg.Validate(), engine.ErrUnknownCipher))

	cfg = DefaultConfig()
	cfg.Mode = "ofb"
	require.True(t, errors.Is(cfg.Validate(), engine.ErrUnknownMode))

	cfg = DefaultConfig()
	cfg.Compress = "brotli"
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Workers = 0
	require.Error(t, cfg.Validate())
}
