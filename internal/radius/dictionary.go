package radius

// Dictionary resolves attribute numbers to descriptors. The decoder core
// depends only on this interface; internal/dictionary provides the
// YAML-backed implementation this module ships, but the core never
// imports it, keeping the dependency direction inward.
type Dictionary interface {
	// Root returns the top-level descriptor whose children are the
	// standard RADIUS attributes (1-255).
	Root() *Attr

	// ChildByNum resolves num to a child descriptor of parent, or nil if
	// parent has no such child.
	ChildByNum(parent *Attr, num int) *Attr

	// VendorByPEN resolves a Private Enterprise Number to its Vendor
	// descriptor, or nil if the PEN is not known.
	VendorByPEN(pen uint32) *Vendor

	// UnknownChild synthesizes a transient OCTETS descriptor for an
	// unrecognized child number under parent, used so decoding can
	// continue instead of failing on an unrecognized attribute.
	UnknownChild(parent *Attr, num int) *Attr

	// UnknownVendor synthesizes a transient Vendor descriptor, using the
	// generic (type=1, length=1) TLV sub-attribute format, for a PEN not
	// present in the dictionary.
	UnknownVendor(pen uint32) *Vendor
}

// AscendSecretFunc applies the vendor-specific Ascend-Send-Secret
// obfuscation primitive. It is supplied externally because the algorithm
// is a proprietary Ascend scheme outside this package's scope; callers
// that need OCTETS values with EncryptAscendSecret must supply one, or
// decoding such values falls back to the raw-octets path.
type AscendSecretFunc func(secret, vector, ciphertext []byte) []byte

// StructDecoder decodes the fixed-width leading fields of a STRUCT-kind
// attribute and reports how many bytes it consumed. Any trailing bytes
// are handed to the TLV decoder by the pair-value dispatcher. Supplying
// one is optional: without it, STRUCT attributes decode as raw OCTETS.
type StructDecoder func(parent *Attr, data []byte) (value any, consumed int, err error)
