//go:build unix

package secure

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Lock pins b in RAM so the key schedule is not written to swap.
// Failure (typically RLIMIT_MEMLOCK) is reported but leaves b usable.
func Lock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if err := unix.Mlock(b); err != nil {
		return fmt.Errorf("secure: mlock %d bytes: %w", len(b), err)
	}
	return nil
}

// Unlock releases a pin taken by Lock.
func Unlock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if err := unix.Munlock(b); err != nil {
		return fmt.Errorf("secure: munlock %d bytes: %w", len(b), err)
	}
	return nil
}
