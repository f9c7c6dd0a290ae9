// Package appdir locates the per-user bee-crypto directory.
package appdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const dirName = ".bee-crypto"

var (
	once     sync.Once
	dirCache string
	dirErr   error
)

// Dir returns $HOME/.bee-crypto without creating it.
func Dir() (string, error) {
	once.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			dirErr = fmt.Errorf("appdir: %w", err)
			return
		}
		dirCache = filepath.Join(home, dirName)
	})
	return dirCache, dirErr
}

// Path joins name onto Dir.
func Path(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// Ensure creates Dir with owner-only permissions if it does not exist.
func Ensure() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("appdir: create %s: %w", dir, err)
	}
	return dir, nil
}

// KeyPath is the default key file of a cipher.
func KeyPath(cipherName string) (string, error) {
	return Path(cipherName + ".key")
}
