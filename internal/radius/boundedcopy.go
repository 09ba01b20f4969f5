package radius

// boundedCopy copies up to n bytes from src into a freshly allocated
// slice, clamped to both n and len(src). A request for more than
// MaxAttrLen bytes, or a source that has already been exhausted, yields
// an empty result rather than panicking or reading out of bounds.
//
// unknownOctetsPair routes the bytes of every raw-demoted value through
// it. The fragment-reassembly paths (concat, extended, VSA, WiMAX) do not
// call it; they check each fragment's declared length against the bytes
// available before appending.
func boundedCopy(src []byte, n int) []byte {
	if n > MaxAttrLen || len(src) == 0 {
		return nil
	}
	if n > len(src) {
		n = len(src)
	}
	out := make([]byte, n)
	copy(out, src[:n])
	return out
}

// DecoderContext carries the per-packet inputs the dispatcher needs but
// that are not part of the attribute bytes themselves: the shared secret
// and Request Authenticator (or salt-derived vector) used by the
// obfuscation primitives, plus behavior switches left as deployment
// knobs.
type DecoderContext struct {
	// Secret is the shared secret for this packet's source.
	Secret []byte

	// Vector is the 16-byte Request Authenticator (or, for accounting
	// responses, the Response Authenticator) used to seed User-Password
	// and Tunnel-Password decryption.
	Vector []byte

	// TunnelPasswordZeros, when true, requires the padding bytes
	// following a decoded Tunnel-Password's embedded length to be all
	// zero, rejecting the value otherwise (RFC 2868 Section 3.5 encoder
	// guidance, enforced only when the deployment opts in).
	TunnelPasswordZeros bool

	// AscendSecret applies the Ascend-Send-Secret primitive to
	// EncryptAscendSecret values. Nil disables that attribute class
	// (falls back to raw octets).
	AscendSecret AscendSecretFunc

	// Struct decodes STRUCT-kind attributes. Nil disables that attribute
	// class (falls back to raw octets).
	Struct StructDecoder

	// Dict resolves attribute and vendor descriptors.
	Dict Dictionary
}
