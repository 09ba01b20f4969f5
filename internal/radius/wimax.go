package radius

// decodeWiMAX reassembles a WiMAX sub-attribute's value. data is the
// enclosing Vendor-Specific attribute's value (data[0:4]=PEN,
// data[4]=WiMAX attribute number, data[5]=WiMAX length,
// data[6]=continuation flags, data[7:attrLen]=this occurrence's data)
// followed by whatever packet bytes remain after it. Unlike long-extended
// fragments, WiMAX continuations are each a complete, separate top-level
// Vendor-Specific attribute (id 26) carrying the same PEN and WiMAX
// attribute number, found in data[attrLen:] when the continuation flag
// is set.
func decodeWiMAX(data []byte, attrLen int) (wimaxAttr byte, value []byte, consumed int, err error) {
	if attrLen < 8 {
		return 0, nil, 0, errRaw
	}
	wimaxAttr = data[4]
	wLen := int(data[5])
	if wLen < 3 {
		return 0, nil, 0, errRaw
	}
	if wLen+4 != attrLen {
		return 0, nil, 0, errRaw
	}
	continuation := data[6]
	buf := append([]byte(nil), data[7:attrLen]...)
	consumed = attrLen
	pen := append([]byte(nil), data[0:4]...)

	for continuation&0x80 != 0 {
		frag := data[consumed:]
		if len(frag) < 9 {
			break
		}
		fragLen := int(frag[1])
		if frag[0] != 0x1A || fragLen < 9 || fragLen > len(frag) {
			break
		}
		if !bytesEqual(pen, frag[2:6]) {
			break
		}
		fragWLen := int(frag[7])
		if fragLen != fragWLen+6 {
			break
		}
		if frag[6] != wimaxAttr {
			break
		}
		buf = append(buf, frag[9:fragLen]...)
		consumed += fragLen
		continuation = frag[8]
	}
	return wimaxAttr, buf, consumed, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
