package jwk

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// hkdfSHA256 is the general two-step Extract/Expand HKDF (RFC 5869)
// over SHA-256. It is kept unexported: the only call site in this
// module, DeriveECDH, always passes salt=nil, info=nil, length=32 —
// the exact profile JWE's ECDH-ES key agreement uses — and that
// restriction is enforced there, not here, so this primitive stays
// available to back a future salted/extended HKDF use without
// changing DeriveECDH's contract.
func hkdfSHA256(ikm, salt, info []byte, length int) ([]byte, error) {
	r := hkdf.New(sha256.New, ikm, salt, info)
	out := make([]byte, length)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, cryptoErr(err)
	}
	return out, nil
}

// DeriveECDH performs ECDH key agreement between self (which must
// hold a private scalar) and peer (an EC public key on the same
// curve), then expands the raw shared secret with
// HKDF-SHA256(salt=nil, info=nil, L=32) into a 256-bit oct JWK.
func DeriveECDH(self, peer *JWK) (*JWK, error) {
	if self.kty != KtyEC || peer.kty != KtyEC {
		return nil, invalidArg("DeriveECDH: both operands must be EC keys")
	}
	if self.curve != peer.curve {
		return nil, invalidArg("DeriveECDH: curve mismatch (%s vs %s)", self.curve, peer.curve)
	}
	if len(self.d) == 0 {
		return nil, invalidArg("DeriveECDH: self must hold a private scalar")
	}

	z, err := ecdhSharedSecret(self, peer)
	if err != nil {
		return nil, err
	}
	defer zero(z)

	okm, err := hkdfSHA256(z, nil, nil, 32)
	if err != nil {
		return nil, err
	}
	return CreateOctSpec(okm)
}

// ecdhSharedSecret computes the x-coordinate of d_self * Q_peer, as a
// fixed-width octet string at the curve's point width.
func ecdhSharedSecret(self, peer *JWK) ([]byte, error) {
	selfPriv, err := self.ECPrivateKey()
	if err != nil {
		return nil, err
	}
	peerPub, err := peer.ECPublicKey()
	if err != nil {
		return nil, err
	}

	size, _ := curveSizeBytes(self.curve)
	x, _ := selfPriv.Curve.ScalarMult(peerPub.X, peerPub.Y, selfPriv.D.Bytes())

	out := make([]byte, size)
	xBytes := x.Bytes()
	if len(xBytes) > size {
		return nil, cryptoErr(errNotOnCurve)
	}
	copy(out[size-len(xBytes):], xBytes)
	return out, nil
}
