package radius

// attrSizeRange returns the minimum and maximum wire length legal for
// kind. Container kinds (TLV, VSA, EXTENDED, STRUCT) and variable-length
// kinds (STRING, OCTETS, ABINARY) report (0, MaxAttrLen): their envelope
// is enforced elsewhere.
func attrSizeRange(kind Kind) (min, max int) {
	switch kind {
	case KindBool, KindUint8, KindInt8:
		return 1, 1
	case KindUint16, KindInt16:
		return 2, 2
	case KindUint32, KindInt32, KindFloat32, KindDate, KindTimeDelta, KindIPv4Addr:
		return 4, 4
	case KindUint64, KindInt64, KindFloat64, KindIFID, KindSize:
		return 8, 8
	case KindEthernet:
		return 6, 6
	case KindIPv6Addr:
		return 16, 16
	case KindIPv4Prefix:
		return 6, 6
	case KindIPv6Prefix:
		return 2, 18
	case KindComboIPAddr:
		return 4, 16
	case KindComboIPPrefix:
		return 6, 18
	default:
		return 0, MaxAttrLen
	}
}
