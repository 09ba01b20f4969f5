package radius

import (
	"crypto/md5"
	"errors"
)

// errBadPassword signals that an obfuscated value failed to decrypt into
// a structurally valid plaintext. Callers demote the attribute to raw
// octets rather than propagating an error up to the packet caller.
var errBadPassword = errors.New("radius: password decrypt failed")

// decodeUserPassword reverses the RFC 2865 Section 5.2 User-Password
// cipher. vector is the 16-byte Request Authenticator. An empty
// ciphertext decodes to an empty plaintext; any other length always
// decodes — the protocol defines no integrity check that can fail a
// User-Password value, so a ciphertext whose length is not a multiple of
// 16 simply has a shorter final block.
//
// Each 16-byte (or, for the final block, shorter) block is XORed against
// MD5(secret || previous-block), where "previous-block" is the Request
// Authenticator for the first block and the previous ciphertext block
// thereafter.
func decodeUserPassword(secret, vector, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return []byte{}, nil
	}
	secretDigest := newSecretDigest(secret)
	plain := make([]byte, len(ciphertext))
	prev := vector
	for off := 0; off < len(ciphertext); off += md5.Size {
		block, err := keyedMD5Block(secretDigest, prev)
		if err != nil {
			return nil, err
		}
		end := off + md5.Size
		if end > len(ciphertext) {
			end = len(ciphertext)
		}
		cblock := ciphertext[off:end]
		for i := range cblock {
			plain[off+i] = cblock[i] ^ block[i]
		}
		prev = cblock
	}
	return plain, nil
}

// decodeTunnelPassword reverses the RFC 2868 Section 3.5 salted
// Tunnel-Password cipher. encrypted is the attribute value after the tag
// octet has already been stripped by the caller.
//
// Layout: a 2-byte salt, then 16-byte ciphertext blocks. The first block
// is keyed by MD5(secret || vector || salt); every later block is keyed
// by MD5(secret || previous-ciphertext-block) — self-synchronizing on the
// wire bytes, not on plaintext, so a dropped or corrupted block does not
// cascade indefinitely. The first plaintext byte is an embedded length,
// XORed against the first keystream byte before use.
func decodeTunnelPassword(secret, vector, encrypted []byte, requireTrailingZeros bool) ([]byte, error) {
	if len(encrypted) < 2 {
		return nil, errBadPassword
	}
	if len(encrypted) <= 3 {
		return nil, nil
	}
	salt := encrypted[0:2]
	ciphertext := encrypted[2:]
	if len(ciphertext)%md5.Size != 0 {
		return nil, errBadPassword
	}

	secretDigest := newSecretDigest(secret)
	plain := make([]byte, len(ciphertext))
	prev := append(append([]byte{}, vector...), salt...)
	for off := 0; off < len(ciphertext); off += md5.Size {
		block, err := keyedMD5Block(secretDigest, prev)
		if err != nil {
			return nil, err
		}
		cblock := ciphertext[off : off+md5.Size]
		for i := 0; i < md5.Size; i++ {
			plain[off+i] = cblock[i] ^ block[i]
		}
		prev = cblock
	}

	embeddedLen := int(plain[0])
	if embeddedLen > len(ciphertext)-1 {
		return nil, errBadPassword
	}
	if requireTrailingZeros {
		for _, b := range plain[1+embeddedLen:] {
			if b != 0 {
				return nil, errBadPassword
			}
		}
	}
	return plain[1 : 1+embeddedLen], nil
}
