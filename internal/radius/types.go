package radius

import "sort"

// -------------------------------------------------------------------------
// Value Kinds — RFC 2865 Section 5, RFC 8044
// -------------------------------------------------------------------------

// Kind identifies the wire representation of an attribute's value.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindOctets
	KindBool
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindDate
	KindTimeDelta
	KindIPv4Addr
	KindIPv6Addr
	KindIPv4Prefix
	KindIPv6Prefix
	KindComboIPAddr
	KindComboIPPrefix
	KindIFID
	KindEthernet
	KindSize
	KindABinary
	KindTLV
	KindStruct
	KindVSA
	KindVendor
	KindExtended
)

// kindNames gives a human-readable label for each Kind, used in error
// messages and CLI output.
var kindNames = map[Kind]string{
	KindString:        "string",
	KindOctets:        "octets",
	KindBool:          "bool",
	KindUint8:         "uint8",
	KindUint16:        "uint16",
	KindUint32:        "uint32",
	KindUint64:        "uint64",
	KindInt8:          "int8",
	KindInt16:         "int16",
	KindInt32:         "int32",
	KindInt64:         "int64",
	KindFloat32:       "float32",
	KindFloat64:       "float64",
	KindDate:          "date",
	KindTimeDelta:     "time_delta",
	KindIPv4Addr:      "ipv4addr",
	KindIPv6Addr:      "ipv6addr",
	KindIPv4Prefix:    "ipv4prefix",
	KindIPv6Prefix:    "ipv6prefix",
	KindComboIPAddr:   "combo_ip_addr",
	KindComboIPPrefix: "combo_ip_prefix",
	KindIFID:          "ifid",
	KindEthernet:      "ethernet",
	KindSize:          "size",
	KindABinary:       "abinary",
	KindTLV:           "tlv",
	KindStruct:        "struct",
	KindVSA:           "vsa",
	KindVendor:        "vendor",
	KindExtended:      "extended",
}

// String returns the human-readable name of the value kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// -------------------------------------------------------------------------
// Encryption Kinds — RFC 2865 Section 5.2, RFC 2868 Section 3.5
// -------------------------------------------------------------------------

// EncryptKind identifies the obfuscation primitive applied to an
// attribute's value before the type-specific decode runs.
type EncryptKind uint8

const (
	// EncryptNone indicates the value is not obfuscated.
	EncryptNone EncryptKind = iota

	// EncryptUserPassword is the RFC 2865 Section 5.2 User-Password cipher.
	EncryptUserPassword

	// EncryptTunnelPassword is the RFC 2868 Section 3.5 salted
	// Tunnel-Password cipher.
	EncryptTunnelPassword

	// EncryptAscendSecret applies the vendor-specific Ascend-Send-Secret
	// primitive, supplied externally (see AscendSecretFunc).
	EncryptAscendSecret
)

// -------------------------------------------------------------------------
// Flags — attribute descriptor behavior bits
// -------------------------------------------------------------------------

// Flags captures the per-attribute behavior bits that the dispatcher
// consults when deciding how to decode an attribute's value.
type Flags struct {
	// HasTag marks attributes that carry a 1-31 tag octet (RFC 2868
	// Section 3.1).
	HasTag bool

	// Encrypt selects the obfuscation primitive applied to the value.
	Encrypt EncryptKind

	// Concat marks attributes whose wire form may repeat consecutively
	// and must be reassembled into one opaque value (e.g. EAP-Message).
	Concat bool

	// FixedLength, when nonzero, clamps OCTETS/decrypted values to this
	// many bytes instead of trimming trailing NULs.
	FixedLength int

	// IsUnknown marks a descriptor synthesized for an attribute id or
	// vendor not present in the loaded dictionary.
	IsUnknown bool

	// Extra marks "long extended" attributes: the ext-type byte is
	// followed by a continuation-flag byte before the value.
	Extra bool
}

// -------------------------------------------------------------------------
// Attribute Descriptor
// -------------------------------------------------------------------------

// Attr describes one attribute in the dictionary tree: its numeric id,
// its position in the tree, its value kind, and its decode-time behavior
// flags. Descriptors are immutable for the lifetime of a decode call;
// unknown descriptors are synthesized fresh per occurrence.
type Attr struct {
	// Num is the attribute's numeric id within its parent.
	Num int

	// Name is the dictionary name, used only for diagnostics.
	Name string

	// Parent is the enclosing descriptor, or nil at the dictionary root.
	Parent *Attr

	// Kind is the wire value kind this descriptor decodes to.
	Kind Kind

	// Flags holds the decode-time behavior bits.
	Flags Flags

	// Vendor is set when this descriptor (or one of its ancestors) is
	// rooted under a Vendor-Specific container; nil otherwise.
	Vendor *Vendor

	children map[int]*Attr
}

// ChildByNum looks up an immediate child by numeric id.
func (a *Attr) ChildByNum(num int) *Attr {
	if a == nil {
		return nil
	}
	return a.children[num]
}

// ChildByKind finds an immediate child whose Kind matches, used to resolve
// COMBO_IP_ADDR/COMBO_IP_PREFIX to their IPv4/IPv6 variant.
func (a *Attr) ChildByKind(kind Kind) *Attr {
	if a == nil {
		return nil
	}
	for _, child := range a.children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

// AddChild registers child under a, keyed by child.Num. Used by dictionary
// loaders when building the descriptor tree.
func (a *Attr) AddChild(child *Attr) {
	if a.children == nil {
		a.children = make(map[int]*Attr)
	}
	child.Parent = a
	a.children[child.Num] = child
}

// Children returns a's immediate children, ordered by numeric id, for
// callers that need to enumerate a dictionary subtree (e.g. radctl's
// dictionary listing).
func (a *Attr) Children() []*Attr {
	if a == nil || len(a.children) == 0 {
		return nil
	}
	nums := make([]int, 0, len(a.children))
	for num := range a.children {
		nums = append(nums, num)
	}
	sort.Ints(nums)
	out := make([]*Attr, len(nums))
	for i, num := range nums {
		out[i] = a.children[num]
	}
	return out
}

// vendorPEN returns the enclosing vendor's PEN, or 0 if a is not rooted
// under a vendor.
func (a *Attr) vendorPEN() uint32 {
	if a == nil || a.Vendor == nil {
		return 0
	}
	return a.Vendor.PEN
}

// -------------------------------------------------------------------------
// Vendor Descriptor
// -------------------------------------------------------------------------

// Vendor describes one vendor's Vendor-Specific sub-attribute format
// (RFC 2865 Section 5.26).
type Vendor struct {
	// PEN is the IANA Private Enterprise Number.
	PEN uint32

	// Name is the dictionary name, used only for diagnostics.
	Name string

	// TypeWidth is the width in bytes of each sub-attribute's type field:
	// 1, 2, or 4.
	TypeWidth int

	// LengthWidth is the width in bytes of each sub-attribute's length
	// field: 0 (single sub-attribute fills the container), 1, or 2.
	LengthWidth int

	// WiMAXContinuation enables the WiMAX cross-VSA fragment reassembly
	// format for this vendor (RFC exists only as the WiMAX Forum's
	// profile; VENDORPEC_WIMAX = 24757).
	WiMAXContinuation bool

	// Root is the dictionary subtree rooted at this vendor, used to
	// resolve sub-attribute ids to descriptors.
	Root *Attr
}

// VendorWiMAX is the IANA Private Enterprise Number assigned to WiMAX
// Forum Networks, the one vendor with a non-TLV sub-attribute format.
const VendorWiMAX uint32 = 24757

// -------------------------------------------------------------------------
// Decoded Pair
// -------------------------------------------------------------------------

// Pair is one decoded attribute: its descriptor, its typed value, and an
// optional tag. Every Pair the decoder emits has Tainted set.
type Pair struct {
	// Attr is the descriptor this pair's value was decoded against. For
	// raw-demoted values this is a synthesized unknown OCTETS descriptor.
	Attr *Attr

	// Value is the decoded payload. Its concrete Go type matches Attr.Kind
	// (string, []byte, bool, uintN, intN, floatN, net.HardwareAddr,
	// netip.Addr, netip.Prefix, time.Time, time.Duration, or, for KindStruct
	// descriptors, whatever value the StructDecoder returned for the fixed
	// fields).
	Value any

	// Tag is the RFC 2868 Section 3.1 tag octet, 0 when absent. Legal
	// range when nonzero is [1,31].
	Tag uint8

	// Tainted is always true for decoder output: every pair produced from
	// wire bytes is untrusted until validated by the caller.
	Tainted bool
}

// Cursor accumulates decoded pairs in wire order. Container decoders stage
// their output in a private Cursor and splice it onto the caller's Cursor
// only on whole-container success (see tlv.go, vsa.go).
type Cursor struct {
	pairs []Pair
}

// Append adds p to the cursor.
func (c *Cursor) Append(p Pair) {
	c.pairs = append(c.pairs, p)
}

// Pairs returns the accumulated pairs in wire order.
func (c *Cursor) Pairs() []Pair {
	return c.pairs
}

// Splice appends all pairs from other onto c, preserving wire order.
func (c *Cursor) Splice(other *Cursor) {
	c.pairs = append(c.pairs, other.pairs...)
}

// Len reports the number of pairs accumulated so far.
func (c *Cursor) Len() int {
	return len(c.pairs)
}
