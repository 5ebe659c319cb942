// Package shared provides utility functions for secure memory wiping of
// sensitive byte slices.
package shared

// WipeByteArray overwrites the contents of the provided byte slice with
// zeros. Used to remove plaintext passwords from memory after hashing.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
