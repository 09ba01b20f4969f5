package radius

import (
	"encoding/binary"
	"errors"
	"math"
	"net"
	"net/netip"
	"time"
)

// errRaw signals that a value could not be decoded according to its
// descriptor's Kind and must be demoted to a raw OCTETS pair. It never
// escapes the package; pair.go catches it at every call site that can
// produce it.
var errRaw = errors.New("radius: demote to raw octets")

// decodeScalar decodes data according to kind, returning a Go value whose
// concrete type matches the table documented on Pair.Value. It assumes
// the length envelope for kind has already been checked by the caller
// (attrSizeRange); a data slice of unexpected length is a programming
// error, not a wire error, with the exception of variable-length
// STRING/OCTETS which accept any length.
func decodeScalar(kind Kind, data []byte) (any, error) {
	switch kind {
	case KindString:
		return string(data), nil
	case KindOctets:
		return append([]byte(nil), data...), nil
	case KindBool:
		if len(data) != 1 {
			return nil, errRaw
		}
		return data[0] != 0, nil
	case KindUint8:
		if len(data) != 1 {
			return nil, errRaw
		}
		return data[0], nil
	case KindUint16:
		if len(data) != 2 {
			return nil, errRaw
		}
		return binary.BigEndian.Uint16(data), nil
	case KindUint32:
		if len(data) != 4 {
			return nil, errRaw
		}
		return binary.BigEndian.Uint32(data), nil
	case KindUint64:
		if len(data) != 8 {
			return nil, errRaw
		}
		return binary.BigEndian.Uint64(data), nil
	case KindInt8:
		if len(data) != 1 {
			return nil, errRaw
		}
		return int8(data[0]), nil
	case KindInt16:
		if len(data) != 2 {
			return nil, errRaw
		}
		return int16(binary.BigEndian.Uint16(data)), nil
	case KindInt32:
		if len(data) != 4 {
			return nil, errRaw
		}
		return int32(binary.BigEndian.Uint32(data)), nil
	case KindInt64:
		if len(data) != 8 {
			return nil, errRaw
		}
		return int64(binary.BigEndian.Uint64(data)), nil
	case KindFloat32:
		if len(data) != 4 {
			return nil, errRaw
		}
		return math.Float32frombits(binary.BigEndian.Uint32(data)), nil
	case KindFloat64:
		if len(data) != 8 {
			return nil, errRaw
		}
		return math.Float64frombits(binary.BigEndian.Uint64(data)), nil
	case KindDate:
		if len(data) != 4 {
			return nil, errRaw
		}
		return time.Unix(int64(binary.BigEndian.Uint32(data)), 0).UTC(), nil
	case KindTimeDelta:
		if len(data) != 4 {
			return nil, errRaw
		}
		return time.Duration(binary.BigEndian.Uint32(data)) * time.Second, nil
	case KindIPv4Addr:
		if len(data) != 4 {
			return nil, errRaw
		}
		return netip.AddrFrom4([4]byte(data)), nil
	case KindIPv6Addr:
		if len(data) != 16 {
			return nil, errRaw
		}
		return netip.AddrFrom16([16]byte(data)), nil
	case KindIFID:
		if len(data) != 8 {
			return nil, errRaw
		}
		return append([]byte(nil), data...), nil
	case KindEthernet:
		if len(data) != 6 {
			return nil, errRaw
		}
		return net.HardwareAddr(append([]byte(nil), data...)), nil
	case KindSize:
		if len(data) != 8 {
			return nil, errRaw
		}
		return binary.BigEndian.Uint64(data), nil
	case KindIPv4Prefix:
		return decodeIPv4Prefix(data)
	case KindIPv6Prefix:
		return decodeIPv6Prefix(data)
	case KindABinary:
		return append([]byte(nil), data...), nil
	default:
		return nil, errRaw
	}
}

// decodeIPv4Prefix decodes an IPV4_PREFIX value: a reserved byte, a
// prefix-length byte, and 4 address bytes. Bits beyond the prefix length
// are masked off but are not required to already be zero on the wire:
// RFC 2865 does not mandate a canonical encoding for IPv4 prefixes the
// way RFC 3162 does for IPv6.
func decodeIPv4Prefix(data []byte) (netip.Prefix, error) {
	if len(data) != 6 {
		return netip.Prefix{}, errRaw
	}
	if data[0] != 0 {
		return netip.Prefix{}, errRaw
	}
	prefixLen := int(data[1] & 0x3f)
	if prefixLen > 32 {
		return netip.Prefix{}, errRaw
	}
	var addr [4]byte
	copy(addr[:], data[2:6])
	p := netip.PrefixFrom(netip.AddrFrom4(addr), prefixLen).Masked()
	return p, nil
}

// decodeIPv6Prefix decodes an IPV6_PREFIX value: a reserved byte, a
// prefix-length byte, and up to 16 address bytes (the wire form may be
// shorter than 16 bytes, with the remainder implicitly zero). Unlike
// IPv4, RFC 3162 requires any bits beyond the prefix length to already be
// zero on the wire; a masked value that differs from the original is
// rejected rather than silently corrected.
func decodeIPv6Prefix(data []byte) (netip.Prefix, error) {
	if len(data) < 2 {
		return netip.Prefix{}, errRaw
	}
	if data[0] != 0 {
		return netip.Prefix{}, errRaw
	}
	prefixLen := int(data[1])
	if prefixLen > 128 {
		return netip.Prefix{}, errRaw
	}
	addrBytes := data[2:]
	if (prefixLen+7)/8 > len(addrBytes) {
		return netip.Prefix{}, errRaw
	}
	var addr [16]byte
	copy(addr[:], addrBytes)
	original := addr
	masked := netip.PrefixFrom(netip.AddrFrom16(addr), prefixLen).Masked()
	maskedBytes := masked.Addr().As16()
	if maskedBytes != original {
		return netip.Prefix{}, errRaw
	}
	return masked, nil
}

// resolveCombo picks the IPv4 or IPv6 variant child descriptor for a
// COMBO_IP_ADDR/COMBO_IP_PREFIX attribute based on the wire length: the
// combo kind itself is never materialized as a Pair, only used to select
// which concrete descriptor to decode against.
func resolveCombo(parent *Attr, dataLen int, addrKind, prefixKind Kind) *Attr {
	switch parent.Kind {
	case KindComboIPAddr:
		if dataLen == 4 {
			return parent.ChildByKind(KindIPv4Addr)
		}
		if dataLen == 16 {
			return parent.ChildByKind(KindIPv6Addr)
		}
	case KindComboIPPrefix:
		if dataLen == 6 {
			return parent.ChildByKind(KindIPv4Prefix)
		}
		if dataLen == 18 {
			return parent.ChildByKind(KindIPv6Prefix)
		}
	}
	return nil
}
