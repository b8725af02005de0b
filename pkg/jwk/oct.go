package jwk

import "crypto/rand"

// CreateOctRandom generates an oct JWK of bits bits, filled from the
// system CSRNG. bits must be positive and a multiple of 8.
func CreateOctRandom(bits int) (*JWK, error) {
	if bits <= 0 || bits%8 != 0 {
		return nil, invalidArg("oct key size must be a positive multiple of 8, got %d", bits)
	}
	buf := make([]byte, bits/8)
	if _, err := rand.Read(buf); err != nil {
		return nil, cryptoErr(err)
	}
	return &JWK{
		kty:         KtyOct,
		keysizeBits: bits,
		octKey:      buf,
	}, nil
}

// CreateOctSpec builds an oct JWK from the caller's key material. The
// buffer is copied; the caller's slice is never aliased.
func CreateOctSpec(key []byte) (*JWK, error) {
	if len(key) == 0 {
		return nil, invalidArg("oct key material must not be empty")
	}
	buf := append([]byte(nil), key...)
	return &JWK{
		kty:         KtyOct,
		keysizeBits: len(buf) * 8,
		octKey:      buf,
	}, nil
}

// OctKey returns the oct key's raw bytes. It is an error to call this
// on a non-oct JWK.
func (k *JWK) OctKey() ([]byte, error) {
	if k.kty != KtyOct {
		return nil, invalidArg("OctKey: key is %s, not oct", k.kty)
	}
	return k.octKey, nil
}
