package radius_test

import (
	"bytes"
	"testing"

	"go.uber.org/goleak"

	"github.com/go-radius/raddecode/internal/radius"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestContext(t *testing.T) *radius.DecoderContext {
	t.Helper()
	return &radius.DecoderContext{
		Secret: []byte("testing123"),
		Vector: []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f},
		Dict:   newFakeDictionary(),
	}
}

func TestDecodePairUserName(t *testing.T) {
	t.Parallel()
	ctx := newTestContext(t)

	data := append([]byte{1, 5}, []byte("bob")...)
	cursor, consumed, err := radius.DecodePair(ctx, data)
	if err != nil {
		t.Fatalf("DecodePair: %v", err)
	}
	if consumed != len(data) {
		t.Fatalf("consumed = %d, want %d", consumed, len(data))
	}
	pairs := cursor.Pairs()
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}
	if pairs[0].Value != "bob" {
		t.Fatalf("value = %v, want %q", pairs[0].Value, "bob")
	}
	if !pairs[0].Tainted {
		t.Fatalf("pair not tainted")
	}
}

func TestDecodePairMessageAuthenticatorRawLength(t *testing.T) {
	t.Parallel()
	ctx := newTestContext(t)

	value := bytes.Repeat([]byte{0xAB}, 16)
	data := append([]byte{80, byte(2 + len(value))}, value...)
	cursor, consumed, err := radius.DecodePair(ctx, data)
	if err != nil {
		t.Fatalf("DecodePair: %v", err)
	}
	if consumed != len(data) {
		t.Fatalf("consumed = %d, want %d", consumed, len(data))
	}
	pairs := cursor.Pairs()
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}
	got, ok := pairs[0].Value.([]byte)
	if !ok || !bytes.Equal(got, value) {
		t.Fatalf("value = %v, want %v", pairs[0].Value, value)
	}
}

func TestDecodePairChargeableUserIdentityZeroLength(t *testing.T) {
	t.Parallel()
	ctx := newTestContext(t)

	data := []byte{89, 2}
	cursor, consumed, err := radius.DecodePair(ctx, data)
	if err != nil {
		t.Fatalf("DecodePair: %v", err)
	}
	if consumed != 2 {
		t.Fatalf("consumed = %d, want 2", consumed)
	}
	pairs := cursor.Pairs()
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs for CUI zero-length exception, want 1", len(pairs))
	}
}

func TestDecodePairOtherZeroLengthIsSilent(t *testing.T) {
	t.Parallel()
	ctx := newTestContext(t)

	data := []byte{1, 2}
	cursor, consumed, err := radius.DecodePair(ctx, data)
	if err != nil {
		t.Fatalf("DecodePair: %v", err)
	}
	if consumed != 2 {
		t.Fatalf("consumed = %d, want 2", consumed)
	}
	if cursor.Len() != 0 {
		t.Fatalf("got %d pairs, want 0 for ordinary zero-length attribute", cursor.Len())
	}
}

func TestDecodePairEAPMessageConcat(t *testing.T) {
	t.Parallel()
	ctx := newTestContext(t)

	frag1 := append([]byte{79, 5}, []byte{0x01, 0x02, 0x03}...)
	frag2 := append([]byte{79, 4}, []byte{0x04, 0x05}...)
	data := append(append([]byte{}, frag1...), frag2...)

	cursor, consumed, err := radius.DecodePair(ctx, data)
	if err != nil {
		t.Fatalf("DecodePair: %v", err)
	}
	if consumed != len(data) {
		t.Fatalf("consumed = %d, want %d", consumed, len(data))
	}
	pairs := cursor.Pairs()
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}
	want := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	got, ok := pairs[0].Value.([]byte)
	if !ok || !bytes.Equal(got, want) {
		t.Fatalf("value = %v, want %v", pairs[0].Value, want)
	}
}

func TestDecodePairCiscoVSA(t *testing.T) {
	t.Parallel()
	ctx := newTestContext(t)

	avpair := "service-type=shell"
	sub := append([]byte{1, byte(2 + len(avpair))}, []byte(avpair)...)
	vsaValue := append([]byte{0, 0, 0, 9}, sub...)
	data := append([]byte{26, byte(2 + len(vsaValue))}, vsaValue...)

	cursor, consumed, err := radius.DecodePair(ctx, data)
	if err != nil {
		t.Fatalf("DecodePair: %v", err)
	}
	if consumed != len(data) {
		t.Fatalf("consumed = %d, want %d", consumed, len(data))
	}
	pairs := cursor.Pairs()
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}
	if pairs[0].Value != avpair {
		t.Fatalf("value = %v, want %q", pairs[0].Value, avpair)
	}
	if pairs[0].Attr.Name != "Cisco-AVPair" {
		t.Fatalf("attr = %s, want Cisco-AVPair", pairs[0].Attr.Name)
	}
}

func TestDecodePairTunnelPasswordTrailingZerosRejected(t *testing.T) {
	t.Parallel()
	ctx := newTestContext(t)
	ctx.TunnelPasswordZeros = true

	secret, vector := ctx.Secret, ctx.Vector
	salt := []byte{0x81, 0x02}
	plain := []byte{5, 's', 'e', 'c', 'r', 'e', 't', 0xFF} // trailing byte nonzero: should be rejected
	for len(plain)%16 != 0 {
		plain = append(plain, 0)
	}
	plain[len(plain)-1] = 0xFF // ensure a nonzero pad byte survives

	ciphertext := encryptTunnelPasswordForTest(t, secret, vector, salt, plain)
	value := append(append([]byte{1}, salt...), ciphertext...)
	data := append([]byte{69, byte(2 + len(value))}, value...)

	cursor, _, err := radius.DecodePair(ctx, data)
	if err != nil {
		t.Fatalf("DecodePair: %v", err)
	}
	pairs := cursor.Pairs()
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}
	if !pairs[0].Attr.Flags.IsUnknown {
		t.Fatalf("expected raw demotion when trailing bytes are nonzero, got attr %s", pairs[0].Attr.Name)
	}
}
