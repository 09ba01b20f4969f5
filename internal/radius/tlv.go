package radius

// tlvOK validates that data begins a well-formed TLV sub-attribute
// header for the given type/length field widths. typeWidth and
// lengthWidth come from the enclosing Vendor descriptor (1, 2, or 4 for
// type width; 0, 1, or 2 for length width), except the top-level TLV
// case which always uses (1,1).
func tlvOK(data []byte, typeWidth, lengthWidth int) bool {
	if len(data) < typeWidth+lengthWidth {
		return false
	}
	switch typeWidth {
	case 1:
		// A sub-attribute id of 0 is tolerated here: some vendors (e.g.
		// Colubris) ship sub-attribute 0 on the wire despite RFC guidance.
	case 2:
		id := uint16(data[0])<<8 | uint16(data[1])
		if id == 0 {
			return false
		}
	case 4:
		if data[0] != 0 {
			return false
		}
		id := uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
		if id == 0 {
			return false
		}
	default:
		return false
	}
	switch lengthWidth {
	case 0:
		// One sub-attribute consumes the entire container; no length
		// field to validate.
	case 1:
		length := int(data[typeWidth])
		if length < typeWidth+lengthWidth || length > len(data) {
			return false
		}
	case 2:
		if data[typeWidth] != 0 {
			return false
		}
		length := int(data[typeWidth+1])
		if length < typeWidth+lengthWidth || length > len(data) {
			return false
		}
	default:
		return false
	}
	return true
}

// tlvStreamOK walks the full sub-attribute stream validating every header
// with tlvOK before any child is decoded.
func tlvStreamOK(data []byte, typeWidth, lengthWidth int) bool {
	if lengthWidth == 0 {
		return tlvOK(data, typeWidth, lengthWidth)
	}
	for len(data) > 0 {
		if !tlvOK(data, typeWidth, lengthWidth) {
			return false
		}
		length := subAttrLength(data, typeWidth, lengthWidth)
		data = data[typeWidth+lengthWidth+length:]
	}
	return true
}

// subAttrLength extracts the declared sub-attribute value length (bytes
// after type+length fields) from a validated header.
func subAttrLength(data []byte, typeWidth, lengthWidth int) int {
	switch lengthWidth {
	case 0:
		return len(data) - typeWidth
	case 1:
		return int(data[typeWidth]) - typeWidth - lengthWidth
	case 2:
		return int(data[typeWidth+1]) - typeWidth - lengthWidth
	default:
		return 0
	}
}

func subAttrNum(data []byte, typeWidth int) int {
	switch typeWidth {
	case 1:
		return int(data[0])
	case 2:
		return int(data[0])<<8 | int(data[1])
	case 4:
		return int(data[0])<<24 | int(data[1])<<16 | int(data[2])<<8 | int(data[3])
	default:
		return 0
	}
}

// decodeTLV decodes a TLV container's sub-attributes against parent's
// children: the whole stream is validated first, then every sub-attribute
// is decoded into a local cursor, which is only merged onto the caller's
// cursor if every sub-attribute decoded without error. data holds exactly
// the container's declared bytes (attrLen of them); TLV containers do not
// support fragment lookahead beyond their own declared span.
func decodeTLV(ctx *DecoderContext, parent *Attr, data []byte, attrLen int) (*Cursor, error) {
	typeWidth, lengthWidth := 1, 1
	if parent.Vendor != nil {
		typeWidth, lengthWidth = parent.Vendor.TypeWidth, parent.Vendor.LengthWidth
	}
	body := data[:attrLen]
	if !tlvStreamOK(body, typeWidth, lengthWidth) {
		return nil, errRaw
	}

	staged := &Cursor{}
	remaining := body
	for len(remaining) > 0 {
		num := subAttrNum(remaining, typeWidth)
		length := subAttrLength(remaining, typeWidth, lengthWidth)
		headerLen := typeWidth + lengthWidth
		value := remaining[headerLen:]

		child := ctx.Dict.ChildByNum(parent, num)
		if child == nil {
			child = ctx.Dict.UnknownChild(parent, num)
		}

		sub, _, err := decodePairValue(ctx, child, value, length)
		if err != nil {
			return nil, err
		}
		staged.Splice(sub)

		remaining = remaining[headerLen+length:]
	}
	return staged, nil
}
