package radius

// decodeVSA decodes a Vendor-Specific attribute's value (a 4-byte PEN
// followed by vendor-defined sub-attributes). data holds this
// attribute's declared bytes (attrLen of them) followed by
// whatever packet bytes remain after it, so a WiMAX vendor's cross-
// attribute fragment walk can look past attrLen the same way every other
// reassembly path in this package does.
func decodeVSA(ctx *DecoderContext, parent *Attr, data []byte, attrLen int) (*Cursor, error) {
	if attrLen < 5 {
		return nil, errRaw
	}
	pen := beUint32(data[0:4])

	vendor := ctx.Dict.VendorByPEN(pen)
	if vendor != nil && vendor.WiMAXContinuation {
		wAttr, value, _, err := decodeWiMAX(data, attrLen)
		if err != nil {
			return nil, err
		}
		child := ctx.Dict.ChildByNum(vendor.Root, int(wAttr))
		if child == nil {
			child = ctx.Dict.UnknownChild(vendor.Root, int(wAttr))
		}
		sub, _, err := decodePairValue(ctx, child, value, len(value))
		if err != nil {
			return nil, err
		}
		return sub, nil
	}

	body := data[4:attrLen]
	if vendor == nil {
		if !tlvStreamOK(body, 1, 1) {
			return nil, errRaw
		}
		vendor = ctx.Dict.UnknownVendor(pen)
	}
	if !tlvStreamOK(body, vendor.TypeWidth, vendor.LengthWidth) {
		return nil, errRaw
	}

	staged := &Cursor{}
	remaining := body
	for len(remaining) > 0 {
		num := subAttrNum(remaining, vendor.TypeWidth)
		length := subAttrLength(remaining, vendor.TypeWidth, vendor.LengthWidth)
		headerLen := vendor.TypeWidth + vendor.LengthWidth

		child := ctx.Dict.ChildByNum(vendor.Root, num)
		if child == nil {
			child = ctx.Dict.UnknownChild(vendor.Root, num)
		}

		value := remaining[headerLen:]
		sub, _, err := decodePairValue(ctx, child, value, length)
		if err != nil {
			return nil, err
		}
		staged.Splice(sub)

		remaining = remaining[headerLen+length:]
	}
	return staged, nil
}
