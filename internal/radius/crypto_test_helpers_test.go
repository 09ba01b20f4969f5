package radius_test

import (
	"crypto/md5"
	"testing"
)

// encryptTunnelPasswordForTest implements the encoder side of RFC 2868
// Section 3.5's salted Tunnel-Password cipher, used only to build known-
// plaintext test fixtures for the decoder under test.
func encryptTunnelPasswordForTest(t *testing.T, secret, vector, salt, plain []byte) []byte {
	t.Helper()
	if len(plain)%16 != 0 {
		t.Fatalf("plaintext must be a multiple of 16 bytes, got %d", len(plain))
	}
	ciphertext := make([]byte, len(plain))
	prev := append(append([]byte{}, vector...), salt...)
	for off := 0; off < len(plain); off += md5.Size {
		h := md5.New()
		h.Write(secret)
		h.Write(prev)
		block := h.Sum(nil)
		for i := 0; i < md5.Size; i++ {
			ciphertext[off+i] = plain[off+i] ^ block[i]
		}
		prev = ciphertext[off : off+md5.Size]
	}
	return ciphertext
}
