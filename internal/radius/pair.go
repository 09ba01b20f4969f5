package radius

import "bytes"

// decodePairValue is the recursive dispatcher at the heart of the
// decoder. data holds this attribute's declared value starting at
// offset 0, extended with whatever packet bytes remain after it (so
// long-extended and WiMAX fragment reassembly can look past the
// declared length into following attributes); attrLen is the declared
// value length. It returns the pairs produced, and the number of bytes
// consumed — normally attrLen, but larger when fragment reassembly
// absorbed following bytes.
func decodePairValue(ctx *DecoderContext, parent *Attr, data []byte, attrLen int) (*Cursor, int, error) {
	cursor := &Cursor{}

	if parent == nil || attrLen > len(data) || attrLen > MaxAttrLen {
		return nil, 0, newDecodeError(ErrKindInvalidArguments, "attribute %v: bad length %d", parent, attrLen)
	}
	if attrLen == 0 {
		return cursor, 0, nil
	}

	value := data[:attrLen]
	var tag uint8

	if parent.Flags.HasTag && attrLen > 1 {
		first := value[0]
		if first < 0x20 || parent.Flags.Encrypt == EncryptTunnelPassword {
			switch parent.Kind {
			case KindString, KindOctets:
				tag = first
				value = value[1:]
			case KindUint32:
				tag = value[0]
				cp := append([]byte(nil), value...)
				cp[0] = 0
				value = cp
			default:
				return rawPair(parent, data[:attrLen], tag), attrLen, nil
			}
		}
	}

	consumed := attrLen

	switch parent.Flags.Encrypt {
	case EncryptUserPassword:
		if attrLen > 253 {
			return rawPair(parent, data[:attrLen], tag), attrLen, nil
		}
		plain, err := decodeUserPassword(ctx.Secret, ctx.Vector, value)
		if err != nil {
			return rawPair(parent, data[:attrLen], tag), attrLen, nil
		}
		if parent.Flags.FixedLength > 0 {
			if parent.Flags.FixedLength < len(plain) {
				plain = plain[:parent.Flags.FixedLength]
			}
		} else {
			plain = bytes.TrimRight(plain, "\x00")
		}
		return emitScalar(parent, string(plain), tag), attrLen, nil

	case EncryptTunnelPassword:
		if attrLen > 253 {
			return rawPair(parent, data[:attrLen], tag), attrLen, nil
		}
		plain, err := decodeTunnelPassword(ctx.Secret, ctx.Vector, value, ctx.TunnelPasswordZeros)
		if err != nil {
			return rawPair(parent, data[:attrLen], tag), attrLen, nil
		}
		return emitScalar(parent, string(plain), tag), attrLen, nil

	case EncryptAscendSecret:
		if ctx.AscendSecret == nil {
			return rawPair(parent, data[:attrLen], tag), attrLen, nil
		}
		plain := ctx.AscendSecret(ctx.Secret, ctx.Vector, value)
		if len(plain) > 16 {
			plain = plain[:16]
		}
		return emitScalar(parent, string(bytes.TrimRight(plain, "\x00")), tag), attrLen, nil
	}

	switch parent.Kind {
	case KindTLV:
		sub, err := decodeTLV(ctx, parent, value, attrLen)
		if err != nil {
			return rawPair(parent, data[:attrLen], tag), attrLen, nil
		}
		return sub, consumed, nil

	case KindStruct:
		if ctx.Struct == nil {
			return rawPair(parent, data[:attrLen], tag), attrLen, nil
		}
		fixed, n, err := ctx.Struct(parent, value)
		if err != nil {
			return rawPair(parent, data[:attrLen], tag), attrLen, nil
		}
		cursor.Append(Pair{Attr: parent, Value: fixed, Tag: tag, Tainted: true})
		if n < len(value) {
			sub, err := decodeTLV(ctx, parent, value[n:], len(value)-n)
			if err != nil {
				cursor.Append(unknownOctetsPair(parent, value[n:], tag))
			} else {
				cursor.Splice(sub)
			}
		}
		return cursor, consumed, nil

	case KindVSA:
		if parent.Parent != nil && parent.Parent.Kind == KindExtended {
			if len(value) < 6 {
				return rawPair(parent, data[:attrLen], tag), attrLen, nil
			}
			pen := value[0:4]
			subNum := int(value[4])
			vendor := ctx.Dict.VendorByPEN(beUint32(pen))
			var child *Attr
			if vendor != nil {
				child = ctx.Dict.ChildByNum(vendor.Root, subNum)
			}
			if child == nil {
				if vendor == nil {
					vendor = ctx.Dict.UnknownVendor(beUint32(pen))
				}
				child = ctx.Dict.UnknownChild(vendor.Root, subNum)
			}
			sub, n, err := decodePairValue(ctx, child, data[5:], attrLen-5)
			if err != nil {
				return rawPair(parent, data[:attrLen], tag), attrLen, nil
			}
			return sub, 5 + n, nil
		}
		sub, err := decodeVSA(ctx, parent, value, attrLen)
		if err != nil {
			return rawPair(parent, data[:attrLen], tag), attrLen, nil
		}
		return sub, consumed, nil

	case KindExtended:
		minLen := 1
		if parent.Flags.Extra {
			minLen = 2
		}
		if attrLen <= minLen {
			return rawPair(parent, data[:attrLen], tag), attrLen, nil
		}
		extNum := int(value[0])
		child := ctx.Dict.ChildByNum(parent, extNum)
		if child != nil && (!parent.Flags.Extra || len(value) < 2 || value[1]&0x80 == 0) {
			sub, n, err := decodePairValue(ctx, child, data[minLen:], attrLen-minLen)
			if err != nil {
				return rawPair(parent, data[:attrLen], tag), attrLen, nil
			}
			return sub, minLen + n, nil
		}
		if parent.Flags.Extra {
			synth := child
			if synth == nil {
				synth = ctx.Dict.UnknownChild(parent, extNum)
			}
			_, fragValue, total, err := decodeExtended(byte(parent.Num), data, attrLen)
			if err != nil {
				return rawPair(parent, data[:attrLen], tag), attrLen, nil
			}
			sub, _, err := decodePairValue(ctx, synth, fragValue, len(fragValue))
			if err != nil {
				return rawPair(parent, data[:attrLen], tag), attrLen, nil
			}
			return sub, total, nil
		}
		synth := ctx.Dict.UnknownChild(parent, extNum)
		sub, n, err := decodePairValue(ctx, synth, data[minLen:], attrLen-minLen)
		if err != nil {
			return rawPair(parent, data[:attrLen], tag), attrLen, nil
		}
		return sub, minLen + n, nil

	case KindComboIPAddr, KindComboIPPrefix:
		resolved := resolveCombo(parent, len(value), KindIPv4Addr, KindIPv6Addr)
		if resolved == nil {
			return rawPair(parent, data[:attrLen], tag), attrLen, nil
		}
		return decodePairValue(ctx, resolved, data, attrLen)
	}

	minSize, maxSize := attrSizeRange(parent.Kind)
	if len(value) < minSize || len(value) > maxSize {
		return rawPair(parent, data[:attrLen], tag), attrLen, nil
	}
	if parent.Flags.FixedLength > 0 && (parent.Kind == KindOctets || parent.Kind == KindABinary) {
		if len(value) > parent.Flags.FixedLength {
			value = value[:parent.Flags.FixedLength]
		}
	}

	scalar, err := decodeScalar(parent.Kind, value)
	if err != nil {
		return rawPair(parent, data[:attrLen], tag), attrLen, nil
	}
	cursor.Append(Pair{Attr: parent, Value: scalar, Tag: tag, Tainted: true})
	return cursor, consumed, nil
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// emitScalar wraps an already-typed value in a one-pair cursor.
func emitScalar(parent *Attr, value any, tag uint8) *Cursor {
	c := &Cursor{}
	c.Append(Pair{Attr: parent, Value: value, Tag: tag, Tainted: true})
	return c
}

// unknownAttr synthesizes an OCTETS descriptor preserving parent's
// numeric path, used when a value is demoted to raw bytes.
func unknownAttr(parent *Attr) *Attr {
	return &Attr{
		Num:    parent.Num,
		Name:   "Unknown-" + parent.Name,
		Parent: parent.Parent,
		Kind:   KindOctets,
		Vendor: parent.Vendor,
		Flags:  Flags{IsUnknown: true},
	}
}

func unknownOctetsPair(parent *Attr, raw []byte, tag uint8) Pair {
	return Pair{
		Attr:    unknownAttr(parent),
		Value:   boundedCopy(raw, len(raw)),
		Tag:     tag,
		Tainted: true,
	}
}

// rawPair demotes a value to a single raw OCTETS pair: most decode
// failures inside decodePairValue fall back to this instead of
// propagating an error up to the packet caller.
func rawPair(parent *Attr, raw []byte, tag uint8) *Cursor {
	c := &Cursor{}
	c.Append(unknownOctetsPair(parent, raw, tag))
	return c
}

// DecodePair decodes exactly one top-level attribute from data, which
// must begin at the attribute's type byte and may extend further into
// the packet (trailing bytes beyond this attribute's declared length are
// only consulted for long-extended/WiMAX fragment reassembly). It
// returns the pairs produced plus the number of bytes consumed from
// data.
func DecodePair(ctx *DecoderContext, data []byte) (*Cursor, int, error) {
	if len(data) < 2 || data[1] < 2 || int(data[1]) > len(data) {
		return nil, 0, newDecodeError(ErrKindInsufficientData, "short attribute header")
	}

	num := int(data[0])
	root := ctx.Dict.Root()
	child := ctx.Dict.ChildByNum(root, num)
	if child == nil {
		child = ctx.Dict.UnknownChild(root, num)
	}

	declaredLen := int(data[1])
	if declaredLen == 2 {
		cursor := &Cursor{}
		const chargeableUserIdentity = 89
		if num == chargeableUserIdentity {
			cursor.Append(Pair{Attr: child, Value: []byte{}, Tainted: true})
		}
		return cursor, 2, nil
	}

	if child.Flags.Concat {
		value, consumed := decodeConcat(data)
		cursor := &Cursor{}
		cursor.Append(Pair{Attr: child, Value: append([]byte(nil), value...), Tainted: true})
		return cursor, consumed, nil
	}

	sub, n, err := decodePairValue(ctx, child, data[2:], declaredLen-2)
	if err != nil {
		return nil, 0, err
	}
	if 2+n > declaredLen {
		// Fragment reassembly absorbed the attributes that follow this one.
		return sub, 2 + n, nil
	}
	return sub, declaredLen, nil
}
