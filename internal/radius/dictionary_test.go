package radius_test

import (
	"fmt"

	"github.com/go-radius/raddecode/internal/radius"
)

// fakeDictionary is a minimal in-memory radius.Dictionary used by the
// tests in this package, built directly from the numbers the testable
// properties in the specification's examples use (User-Name, Cisco VSA,
// EAP-Message, Tunnel-Password, WiMAX Capability).
type fakeDictionary struct {
	root    *radius.Attr
	vendors map[uint32]*radius.Vendor
}

func newFakeDictionary() *fakeDictionary {
	root := &radius.Attr{Name: "root", Kind: radius.KindTLV}

	root.AddChild(&radius.Attr{Num: 1, Name: "User-Name", Kind: radius.KindString})
	root.AddChild(&radius.Attr{Num: 2, Name: "User-Password", Kind: radius.KindString, Flags: radius.Flags{Encrypt: radius.EncryptUserPassword}})
	root.AddChild(&radius.Attr{Num: 79, Name: "EAP-Message", Kind: radius.KindOctets, Flags: radius.Flags{Concat: true}})
	root.AddChild(&radius.Attr{Num: 80, Name: "Message-Authenticator", Kind: radius.KindOctets})
	root.AddChild(&radius.Attr{Num: 89, Name: "Chargeable-User-Identity", Kind: radius.KindOctets})

	tunnelPassword := &radius.Attr{
		Num: 69, Name: "Tunnel-Password", Kind: radius.KindString,
		Flags: radius.Flags{HasTag: true, Encrypt: radius.EncryptTunnelPassword},
	}
	root.AddChild(tunnelPassword)

	cisco := &radius.Vendor{PEN: 9, Name: "Cisco", TypeWidth: 1, LengthWidth: 1}
	cisco.Root = &radius.Attr{Name: "Cisco", Kind: radius.KindTLV, Vendor: cisco}
	cisco.Root.AddChild(&radius.Attr{Num: 1, Name: "Cisco-AVPair", Kind: radius.KindString, Vendor: cisco})

	wimax := &radius.Vendor{PEN: radius.VendorWiMAX, Name: "WiMAX", TypeWidth: 1, LengthWidth: 1, WiMAXContinuation: true}
	wimax.Root = &radius.Attr{Name: "WiMAX", Kind: radius.KindTLV, Vendor: wimax}
	wimax.Root.AddChild(&radius.Attr{Num: 1, Name: "WiMAX-Capability", Kind: radius.KindOctets, Vendor: wimax})

	root.AddChild(&radius.Attr{Num: 26, Name: "Vendor-Specific", Kind: radius.KindVSA})

	return &fakeDictionary{
		root: root,
		vendors: map[uint32]*radius.Vendor{
			9:                cisco,
			radius.VendorWiMAX: wimax,
		},
	}
}

func (d *fakeDictionary) Root() *radius.Attr { return d.root }

func (d *fakeDictionary) ChildByNum(parent *radius.Attr, num int) *radius.Attr {
	return parent.ChildByNum(num)
}

func (d *fakeDictionary) VendorByPEN(pen uint32) *radius.Vendor {
	return d.vendors[pen]
}

func (d *fakeDictionary) UnknownChild(parent *radius.Attr, num int) *radius.Attr {
	return &radius.Attr{Num: num, Name: fmt.Sprintf("Unknown-Attribute-%d", num), Parent: parent, Kind: radius.KindOctets, Flags: radius.Flags{IsUnknown: true}}
}

func (d *fakeDictionary) UnknownVendor(pen uint32) *radius.Vendor {
	v := &radius.Vendor{PEN: pen, Name: fmt.Sprintf("Unknown-Vendor-%d", pen), TypeWidth: 1, LengthWidth: 1}
	v.Root = &radius.Attr{Name: v.Name, Kind: radius.KindTLV, Vendor: v, Flags: radius.Flags{IsUnknown: true}}
	return v
}
