// Package jwk implements the JSON Web Key (RFC 7517) model used by
// this module's JWE pipeline: polymorphic key objects over three
// variants {oct, EC, RSA}, creation from randomness or from an
// explicit specification, JSON import/export, and ECDH-ES key
// agreement.
package jwk

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArg reports a caller-supplied precondition that was
	// not met: a missing field, a wrong-sized buffer, an unsupported
	// algorithm or curve name.
	ErrInvalidArg = errors.New("jwk: invalid argument")

	// ErrCrypto reports that the cryptographic backend failed: a
	// malformed key that fails consistency checks, a point not on the
	// named curve, or a backend-reported failure during generation.
	ErrCrypto = errors.New("jwk: cryptographic failure")
)

// Kty identifies a JWK's key type.
type Kty string

const (
	KtyOct Kty = "oct"
	KtyEC  Kty = "EC"
	KtyRSA Kty = "RSA"
)

// Curve identifies one of the elliptic curves this module supports.
type Curve string

const (
	P256 Curve = "P-256"
	P384 Curve = "P-384"
	P521 Curve = "P-521"
)

// curveSizeBytes returns the fixed octet width of coordinates and
// scalars on curve: 32, 48, 66 bytes for P-256, P-384, P-521.
func curveSizeBytes(c Curve) (int, bool) {
	switch c {
	case P256:
		return 32, true
	case P384:
		return 48, true
	case P521:
		return 66, true
	default:
		return 0, false
	}
}

// JWK is a tagged-variant key object. Exactly one of the variant
// sections below is populated, selected by kty. JWK values are shared
// by ordinary Go pointer semantics: a *JWK handed to multiple callers
// is kept alive by the garbage collector for as long as any of them
// holds it, with no explicit retain call required. Release zeroes
// secret material for callers that want that to happen deterministically
// rather than whenever the collector gets to it.
type JWK struct {
	kty         Kty
	kid         string
	keysizeBits int

	// oct
	octKey []byte

	// EC
	curve Curve
	x, y  []byte // fixed-width, curveSizeBytes(curve) long
	d     []byte // optional private scalar, same width; nil if public-only

	// RSA
	rsa *rsaMaterial

	released bool
}

// Kty reports the key's type.
func (k *JWK) Kty() Kty { return k.kty }

// KeyID reports the key's "kid", and whether one was set.
func (k *JWK) KeyID() (string, bool) {
	if k.kid == "" {
		return "", false
	}
	return k.kid, true
}

// SetKeyID sets the key's "kid". An empty string clears it.
func (k *JWK) SetKeyID(kid string) { k.kid = kid }

// KeySizeBits reports the key's effective size: bit length of the
// material for oct, curve bit-size for EC, modulus bit length for RSA.
func (k *JWK) KeySizeBits() int { return k.keysizeBits }

// IsPrivate reports whether k carries private material (the oct key
// data itself counts as private; for EC, the scalar d; for RSA, d).
func (k *JWK) IsPrivate() bool {
	switch k.kty {
	case KtyOct:
		return len(k.octKey) > 0
	case KtyEC:
		return len(k.d) > 0
	case KtyRSA:
		return k.rsa != nil && k.rsa.d != nil
	default:
		return false
	}
}

// Release zeroes any secret material held by k. It is idempotent and
// safe to call on a key that is still referenced elsewhere; doing so
// only destroys the bytes, not the Go value, so any further method
// calls on k after Release observe a key with its secret fields wiped.
func (k *JWK) Release() {
	if k.released {
		return
	}
	k.released = true
	zero(k.octKey)
	zero(k.d)
	if k.rsa != nil {
		k.rsa.zero()
	}
}

// zero overwrites b with zero bytes in place.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArg, fmt.Sprintf(format, args...))
}

func cryptoErr(err error) error {
	return fmt.Errorf("%w: %v", ErrCrypto, err)
}
