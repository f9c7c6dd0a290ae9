// Package padding implements the single-marker padding used by the block
// modes: when a message is not block aligned the first padding byte is 0x80
// and the remaining padding bytes are zero. Aligned messages get no padding
// block at all, unlike PKCS#7.
//
// Removal is a heuristic: the rightmost non-zero byte is taken as the marker
// when it equals 0x80. A plaintext that itself ends in 0x80 followed by zero
// bytes is therefore indistinguishable from a padded one and will be
// truncated on decryption.
package padding

// Marker is the value of the first padding byte.
const Marker = 0x80

// Pad returns a copy of data extended to the smallest multiple of blockSize
// that is not shorter than data. blockSize must be positive.
func Pad(data []byte, blockSize int) []byte {
	size := len(data)
	if n := size % blockSize; n != 0 {
		size += blockSize - n
	}
	out := make([]byte, size)
	copy(out, data)
	if size > len(data) {
		out[len(data)] = Marker
	}
	return out
}

// Index returns the position of the padding marker in data, or -1 when the
// rightmost non-zero byte is not a marker or data holds no non-zero byte.
func Index(data []byte) int {
	for i := len(data) - 1; i >= 0; i-- {
		if data[i] != 0 {
			if data[i] == Marker {
				return i
			}
			break
		}
	}
	return -1
}

// Unpad truncates data at the padding marker. Without a marker data is
// returned unchanged. The result shares data's backing array.
func Unpad(data []byte) []byte {
	if idx := Index(data); idx != -1 {
		return data[:idx]
	}
	return data
}
