// Package radius implements the core RADIUS attribute decoder (RFC 2865,
// RFC 2866, RFC 2868, RFC 2869).
//
// This includes the attribute codec, the User-Password and Tunnel-Password
// de-obfuscation primitives, TLV and Vendor-Specific sub-format parsing,
// long-extended and WiMAX fragment reassembly, and the recursive
// dictionary-driven pair-value dispatcher. It does not implement packet
// framing, the Message-Authenticator/Request-Authenticator HMAC checks, or
// the attribute encoder; those are separate concerns layered on top.
package radius
