package modes

import "errors"

var (
	// ErrNotFullBlocks is returned when a ciphertext is not a whole number of blocks.
	ErrNotFullBlocks = errors.New("modes: input not full blocks")

	// ErrShortCiphertext is returned when a CBC ciphertext cannot hold its IV.
	ErrShortCiphertext = errors.New("modes: ciphertext shorter than one block")

	// ErrInvalidIV is returned when a caller-supplied IV is not exactly one block.
	ErrInvalidIV = errors.New("modes: IV length must equal block size")
)
