package jwk

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"

	"github.com/fanglinliu/cjose-for-windows/pkg/base64"
)

// ellipticCurve maps a Curve to the stdlib elliptic.Curve it names.
func ellipticCurve(c Curve) (elliptic.Curve, bool) {
	switch c {
	case P256:
		return elliptic.P256(), true
	case P384:
		return elliptic.P384(), true
	case P521:
		return elliptic.P521(), true
	default:
		return nil, false
	}
}

func curveBits(c Curve) int {
	switch c {
	case P256:
		return 256
	case P384:
		return 384
	case P521:
		return 521
	default:
		return 0
	}
}

// CreateECRandom generates a fresh EC key pair on curve.
func CreateECRandom(curve Curve) (*JWK, error) {
	ec, ok := ellipticCurve(curve)
	if !ok {
		return nil, invalidArg("unsupported curve %q", curve)
	}
	priv, err := ecdsa.GenerateKey(ec, rand.Reader)
	if err != nil {
		return nil, cryptoErr(err)
	}
	size, _ := curveSizeBytes(curve)
	x, err := base64.BigIntToFixedBytes(priv.X, size)
	if err != nil {
		return nil, cryptoErr(err)
	}
	y, err := base64.BigIntToFixedBytes(priv.Y, size)
	if err != nil {
		return nil, cryptoErr(err)
	}
	d, err := base64.BigIntToFixedBytes(priv.D, size)
	if err != nil {
		return nil, cryptoErr(err)
	}
	return &JWK{
		kty:         KtyEC,
		keysizeBits: curveBits(curve),
		curve:       curve,
		x:           x,
		y:           y,
		d:           d,
	}, nil
}

// CreateECSpec builds an EC JWK from explicit material. If d is
// non-nil, (x,y) is derived from d*G and any supplied x, y is ignored.
// Otherwise x and y are both required and the key is public-only.
// Each of d, x, y, when present, must be exactly curveSizeBytes(curve)
// long.
func CreateECSpec(curve Curve, d, x, y []byte) (*JWK, error) {
	ec, ok := ellipticCurve(curve)
	if !ok {
		return nil, invalidArg("unsupported curve %q", curve)
	}
	size, _ := curveSizeBytes(curve)

	if len(d) > 0 {
		if len(d) != size {
			return nil, invalidArg("EC private scalar must be %d bytes for %s, got %d", size, curve, len(d))
		}
		px, py := ec.ScalarBaseMult(d)
		xBytes, err := base64.BigIntToFixedBytes(px, size)
		if err != nil {
			return nil, cryptoErr(err)
		}
		yBytes, err := base64.BigIntToFixedBytes(py, size)
		if err != nil {
			return nil, cryptoErr(err)
		}
		return &JWK{
			kty:         KtyEC,
			keysizeBits: curveBits(curve),
			curve:       curve,
			x:           xBytes,
			y:           yBytes,
			d:           append([]byte(nil), d...),
		}, nil
	}

	if len(x) == 0 || len(y) == 0 {
		return nil, invalidArg("EC spec requires either d, or both x and y")
	}
	if len(x) != size || len(y) != size {
		return nil, invalidArg("EC coordinates must be %d bytes for %s", size, curve)
	}
	xInt := base64.FixedBytesToBigInt(x)
	yInt := base64.FixedBytesToBigInt(y)
	if !ec.IsOnCurve(xInt, yInt) {
		return nil, cryptoErr(errNotOnCurve)
	}
	return &JWK{
		kty:         KtyEC,
		keysizeBits: curveBits(curve),
		curve:       curve,
		x:           append([]byte(nil), x...),
		y:           append([]byte(nil), y...),
	}, nil
}

var errNotOnCurve = ecPointError("point is not on the named curve")

type ecPointError string

func (e ecPointError) Error() string { return string(e) }

// ECFields returns the curve, x, y, and (if private) d fixed-width
// octet strings of an EC JWK. d is nil for a public-only key.
func (k *JWK) ECFields() (curve Curve, x, y, d []byte, err error) {
	if k.kty != KtyEC {
		return "", nil, nil, nil, invalidArg("ECFields: key is %s, not EC", k.kty)
	}
	return k.curve, k.x, k.y, k.d, nil
}

// ECPublicKey returns a stdlib *ecdsa.PublicKey for k.
func (k *JWK) ECPublicKey() (*ecdsa.PublicKey, error) {
	if k.kty != KtyEC {
		return nil, invalidArg("ECPublicKey: key is %s, not EC", k.kty)
	}
	ec, _ := ellipticCurve(k.curve)
	return &ecdsa.PublicKey{
		Curve: ec,
		X:     base64.FixedBytesToBigInt(k.x),
		Y:     base64.FixedBytesToBigInt(k.y),
	}, nil
}

// ECPrivateKey returns a stdlib *ecdsa.PrivateKey for k. It is an
// error to call this on a public-only EC JWK.
func (k *JWK) ECPrivateKey() (*ecdsa.PrivateKey, error) {
	if k.kty != KtyEC {
		return nil, invalidArg("ECPrivateKey: key is %s, not EC", k.kty)
	}
	if len(k.d) == 0 {
		return nil, invalidArg("ECPrivateKey: key has no private scalar")
	}
	ec, _ := ellipticCurve(k.curve)
	return &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{
			Curve: ec,
			X:     base64.FixedBytesToBigInt(k.x),
			Y:     base64.FixedBytesToBigInt(k.y),
		},
		D: base64.FixedBytesToBigInt(k.d),
	}, nil
}
