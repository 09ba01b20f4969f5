// Package dictionary loads a RADIUS attribute dictionary from YAML
// documents and exposes it through the radius.Dictionary interface.
package dictionary

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/go-radius/raddecode/internal/radius"
)

// attrSpec is one attribute entry as it appears in a dictionary YAML
// document.
type attrSpec struct {
	Num      int        `yaml:"num"`
	Name     string     `yaml:"name"`
	Kind     string     `yaml:"kind"`
	HasTag   bool       `yaml:"has_tag"`
	Encrypt  string     `yaml:"encrypt"`
	Concat   bool       `yaml:"concat"`
	FixedLen int        `yaml:"fixed_length"`
	Extra    bool       `yaml:"extra"`
	Children []attrSpec `yaml:"children"`
}

// vendorSpec is one vendor entry in a dictionary YAML document.
type vendorSpec struct {
	PEN         uint32     `yaml:"pen"`
	Name        string     `yaml:"name"`
	TypeWidth   int        `yaml:"type_width"`
	LengthWidth int        `yaml:"length_width"`
	WiMAX       bool       `yaml:"wimax_continuation"`
	Attrs       []attrSpec `yaml:"attrs"`
}

// document is the top-level shape of a dictionary YAML file.
type document struct {
	Attrs   []attrSpec   `yaml:"attrs"`
	Vendors []vendorSpec `yaml:"vendors"`
}

var kindByName = map[string]radius.Kind{
	"string":          radius.KindString,
	"octets":          radius.KindOctets,
	"bool":            radius.KindBool,
	"uint8":           radius.KindUint8,
	"uint16":          radius.KindUint16,
	"uint32":          radius.KindUint32,
	"uint64":          radius.KindUint64,
	"int8":            radius.KindInt8,
	"int16":           radius.KindInt16,
	"int32":           radius.KindInt32,
	"int64":           radius.KindInt64,
	"float32":         radius.KindFloat32,
	"float64":         radius.KindFloat64,
	"date":            radius.KindDate,
	"time_delta":      radius.KindTimeDelta,
	"ipv4addr":        radius.KindIPv4Addr,
	"ipv6addr":        radius.KindIPv6Addr,
	"ipv4prefix":      radius.KindIPv4Prefix,
	"ipv6prefix":      radius.KindIPv6Prefix,
	"combo_ip_addr":   radius.KindComboIPAddr,
	"combo_ip_prefix": radius.KindComboIPPrefix,
	"ifid":            radius.KindIFID,
	"ethernet":        radius.KindEthernet,
	"size":            radius.KindSize,
	"abinary":         radius.KindABinary,
	"tlv":             radius.KindTLV,
	"struct":          radius.KindStruct,
	"vsa":             radius.KindVSA,
	"extended":        radius.KindExtended,
}

var encryptByName = map[string]radius.EncryptKind{
	"":               radius.EncryptNone,
	"user_password":  radius.EncryptUserPassword,
	"tunnel_password": radius.EncryptTunnelPassword,
	"ascend_secret":  radius.EncryptAscendSecret,
}

// Dictionary is the YAML-backed radius.Dictionary implementation this
// module ships. It is immutable after Load returns.
type Dictionary struct {
	root    *radius.Attr
	vendors map[uint32]*radius.Vendor
}

// Load parses the dictionary document at path and every vendor document
// referenced inline, building the descriptor tree radius.Dictionary
// callers need.
func Load(path string) (*Dictionary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: read %s: %w", path, err)
	}
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("dictionary: parse %s: %w", path, err)
	}

	d := &Dictionary{
		root:    &radius.Attr{Name: "root", Kind: radius.KindTLV},
		vendors: make(map[uint32]*radius.Vendor),
	}
	for _, spec := range doc.Attrs {
		d.root.AddChild(buildAttr(spec, nil))
	}
	for _, vspec := range doc.Vendors {
		v := &radius.Vendor{
			PEN:               vspec.PEN,
			Name:              vspec.Name,
			TypeWidth:         orDefault(vspec.TypeWidth, 1),
			LengthWidth:       orDefault(vspec.LengthWidth, 1),
			WiMAXContinuation: vspec.WiMAX,
		}
		v.Root = &radius.Attr{Name: vspec.Name, Kind: radius.KindTLV, Vendor: v}
		for _, spec := range vspec.Attrs {
			v.Root.AddChild(buildAttrVendor(spec, v))
		}
		d.vendors[vspec.PEN] = v
	}
	return d, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func buildAttr(spec attrSpec, vendor *radius.Vendor) *radius.Attr {
	a := &radius.Attr{
		Num:  spec.Num,
		Name: spec.Name,
		Kind: kindByName[spec.Kind],
		Flags: radius.Flags{
			HasTag:      spec.HasTag,
			Encrypt:     encryptByName[spec.Encrypt],
			Concat:      spec.Concat,
			FixedLength: spec.FixedLen,
			Extra:       spec.Extra,
		},
		Vendor: vendor,
	}
	for _, child := range spec.Children {
		a.AddChild(buildAttr(child, vendor))
	}
	return a
}

func buildAttrVendor(spec attrSpec, vendor *radius.Vendor) *radius.Attr {
	return buildAttr(spec, vendor)
}

// Root implements radius.Dictionary.
func (d *Dictionary) Root() *radius.Attr { return d.root }

// ChildByNum implements radius.Dictionary.
func (d *Dictionary) ChildByNum(parent *radius.Attr, num int) *radius.Attr {
	return parent.ChildByNum(num)
}

// VendorByPEN implements radius.Dictionary.
func (d *Dictionary) VendorByPEN(pen uint32) *radius.Vendor {
	return d.vendors[pen]
}

// Vendors returns every vendor loaded into the dictionary, ordered by
// PEN, for callers that need to enumerate it (e.g. radctl's dictionary
// listing).
func (d *Dictionary) Vendors() []*radius.Vendor {
	pens := make([]uint32, 0, len(d.vendors))
	for pen := range d.vendors {
		pens = append(pens, pen)
	}
	sort.Slice(pens, func(i, j int) bool { return pens[i] < pens[j] })
	out := make([]*radius.Vendor, len(pens))
	for i, pen := range pens {
		out[i] = d.vendors[pen]
	}
	return out
}

// UnknownChild implements radius.Dictionary.
func (d *Dictionary) UnknownChild(parent *radius.Attr, num int) *radius.Attr {
	return &radius.Attr{
		Num:    num,
		Name:   fmt.Sprintf("Unknown-Attribute-%d", num),
		Parent: parent,
		Kind:   radius.KindOctets,
		Flags:  radius.Flags{IsUnknown: true},
	}
}

// UnknownVendor implements radius.Dictionary.
func (d *Dictionary) UnknownVendor(pen uint32) *radius.Vendor {
	v := &radius.Vendor{
		PEN:         pen,
		Name:        fmt.Sprintf("Unknown-Vendor-%d", pen),
		TypeWidth:   1,
		LengthWidth: 1,
	}
	v.Root = &radius.Attr{Name: v.Name, Kind: radius.KindTLV, Vendor: v, Flags: radius.Flags{IsUnknown: true}}
	return v
}
