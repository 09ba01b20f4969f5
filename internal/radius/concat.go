package radius

// decodeConcat reassembles a run of consecutive same-type attributes
// whose descriptor has Flags.Concat set (e.g. EAP-Message, RFC 3579): it
// walks forward while the next top-level attribute shares data[0]'s
// type, has a declared length greater than 2, and fits within the
// remaining bytes, concatenating each occurrence's value (header
// stripped) into one buffer. It reports the total number of bytes
// consumed across all occurrences, or 2 if only the anchor's header
// survived (a zero-length concatenation).
func decodeConcat(data []byte) (value []byte, consumed int) {
	attrType := data[0]
	scratch := getScratch()
	defer putScratch(scratch)

	off := 0
	for off+2 <= len(data) {
		if data[off] != attrType {
			break
		}
		length := int(data[off+1])
		if length <= 2 || off+length > len(data) {
			break
		}
		*scratch = append(*scratch, data[off+2:off+length]...)
		off += length
	}
	if off == 0 {
		return nil, 2
	}
	return append([]byte(nil), *scratch...), off
}
