package radius

import (
	"crypto/md5"
	"encoding"
	"fmt"
	"hash"
)

// cloneMD5 snapshots the running state of h into a fresh hash.Hash that
// can be fed more bytes and summed independently, without disturbing h.
// RFC 2865/2868's keying schedule needs this: each ciphertext block's key
// is MD5(secret || previous-block-material), and the "secret" portion is
// common to every block, so re-hashing it from scratch each time is
// wasteful and, more importantly, the salt/vector portion must vary per
// block while the secret prefix stays fixed.
//
// crypto/md5's digest type implements encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler (since Go 1.10) specifically to support this
// kind of intermediate-state clone.
func cloneMD5(h hash.Hash) (hash.Hash, error) {
	marshaler, ok := h.(encoding.BinaryMarshaler)
	if !ok {
		return nil, fmt.Errorf("radius: md5 digest does not support state cloning")
	}
	state, err := marshaler.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("radius: marshal md5 state: %w", err)
	}
	clone := md5.New()
	unmarshaler, ok := clone.(encoding.BinaryUnmarshaler)
	if !ok {
		return nil, fmt.Errorf("radius: md5 digest does not support state cloning")
	}
	if err := unmarshaler.UnmarshalBinary(state); err != nil {
		return nil, fmt.Errorf("radius: unmarshal md5 state: %w", err)
	}
	return clone, nil
}

// keyedMD5Block computes MD5(secret || extra), the per-block keying
// primitive shared by User-Password (RFC 2865 Section 5.2) and
// Tunnel-Password (RFC 2868 Section 3.5). secretDigest is a hash.Hash
// that has already absorbed secret and nothing else; it is cloned so
// repeated calls do not re-hash the secret from scratch.
func keyedMD5Block(secretDigest hash.Hash, extra []byte) ([md5.Size]byte, error) {
	clone, err := cloneMD5(secretDigest)
	if err != nil {
		return [md5.Size]byte{}, err
	}
	if _, err := clone.Write(extra); err != nil {
		return [md5.Size]byte{}, fmt.Errorf("radius: md5 write: %w", err)
	}
	var out [md5.Size]byte
	clone.Sum(out[:0])
	return out, nil
}

// newSecretDigest returns an MD5 hash.Hash that has absorbed secret,
// ready to be cloned per block by keyedMD5Block.
func newSecretDigest(secret []byte) hash.Hash {
	h := md5.New()
	h.Write(secret)
	return h
}
