// Package jwa defines the JSON Web Algorithms (RFC 7518) identifiers
// recognised by this module's JWE pipeline: the key-management ("alg")
// and content-encryption ("enc") algorithms enumerated for JWE. The
// signing algorithm catalogue (HS256, RS256, ES256, ...) is out of
// scope for this core.
package jwa

import "golang.org/x/exp/slices"

// https://datatracker.ietf.org/doc/html/rfc7518#section-3.1
type Algorithm = string

// Key-management algorithms ("alg").
//
// https://datatracker.ietf.org/doc/html/rfc7518#section-4.1
const (
	// Dir means the recipient's key is itself the content encryption key.
	Dir Algorithm = "dir"

	// A128KW, A192KW, A256KW wrap the CEK with AES Key Wrap (RFC 3394)
	// under a same-size oct key.
	A128KW Algorithm = "A128KW"
	A192KW Algorithm = "A192KW"
	A256KW Algorithm = "A256KW"

	// RSAOAEP wraps the CEK with RSAES-OAEP (SHA-1, MGF1-SHA-1).
	RSAOAEP Algorithm = "RSA-OAEP"

	// ECDHES derives the CEK via ECDH-ES + HKDF-SHA256 against an
	// ephemeral key pair placed in the header's "epk" member.
	ECDHES Algorithm = "ECDH-ES"
)

// Content encryption algorithms ("enc").
//
// https://datatracker.ietf.org/doc/html/rfc7518#section-5.1
const (
	A128GCM Algorithm = "A128GCM"
	A192GCM Algorithm = "A192GCM"
	A256GCM Algorithm = "A256GCM"
)

// AllowedKeyManagementAlgorithms is the complete set of "alg" values
// this module's JWE pipeline accepts.
func AllowedKeyManagementAlgorithms() []Algorithm {
	return []Algorithm{Dir, A128KW, A192KW, A256KW, RSAOAEP, ECDHES}
}

// AllowedContentEncryptionAlgorithms is the complete set of "enc"
// values this module's JWE pipeline accepts.
func AllowedContentEncryptionAlgorithms() []Algorithm {
	return []Algorithm{A128GCM, A192GCM, A256GCM}
}

// IsAllowedKeyManagementAlgorithm reports whether alg is one of the
// key-management algorithms this module implements.
func IsAllowedKeyManagementAlgorithm(alg Algorithm) bool {
	return slices.Contains(AllowedKeyManagementAlgorithms(), alg)
}

// IsAllowedContentEncryptionAlgorithm reports whether enc is one of
// the content-encryption algorithms this module implements.
func IsAllowedContentEncryptionAlgorithm(enc Algorithm) bool {
	return slices.Contains(AllowedContentEncryptionAlgorithms(), enc)
}

// CEKBits returns the content-encryption-key size in bits demanded by
// enc, and whether enc is recognised.
func CEKBits(enc Algorithm) (int, bool) {
	switch enc {
	case A128GCM:
		return 128, true
	case A192GCM:
		return 192, true
	case A256GCM:
		return 256, true
	default:
		return 0, false
	}
}

// KeyWrapBits returns the oct key size in bits required by an AES Key
// Wrap alg value, and whether alg is one of A128KW/A192KW/A256KW.
func KeyWrapBits(alg Algorithm) (int, bool) {
	switch alg {
	case A128KW:
		return 128, true
	case A192KW:
		return 192, true
	case A256KW:
		return 256, true
	default:
		return 0, false
	}
}
