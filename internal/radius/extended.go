package radius

// decodeExtended reassembles a long-extended attribute's value.
// outerType is the enclosing attribute's numeric id (shared by every
// fragment). data holds this occurrence's value (data[0]=ext-type,
// data[1]=continuation flags, data[2:attrLen]=this fragment's data)
// followed by whatever packet bytes remain after it — later fragments,
// each a complete separate top-level attribute, are read directly out
// of data[attrLen:] when the continuation flag is set.
//
// It returns the concatenated fragment data and the total number of
// bytes consumed across every fragment, which may exceed attrLen.
func decodeExtended(outerType byte, data []byte, attrLen int) (extType byte, value []byte, consumed int, err error) {
	if attrLen < 3 {
		return 0, nil, 0, errRaw
	}
	extType = data[0]
	flags := data[1]
	buf := append([]byte(nil), data[2:attrLen]...)
	consumed = attrLen

	for flags&0x80 != 0 {
		frag := data[consumed:]
		if len(frag) < 4 {
			break
		}
		fragLen := int(frag[1])
		if frag[0] != outerType || fragLen < 4 || fragLen > len(frag) {
			break
		}
		if frag[2] != extType {
			break
		}
		buf = append(buf, frag[4:fragLen]...)
		consumed += fragLen
		flags = frag[3]
	}
	return extType, buf, consumed, nil
}
