// Package thumbprint computes JWK Thumbprints as defined in RFC 7638.
package thumbprint

import (
	"bytes"
	"crypto"
	"encoding/base64"
	"errors"
	"math/big"

	"github.com/fanglinliu/cjose-for-windows/pkg/jwk"
)

var ErrInvalidKey = errors.New("thumbprint: invalid key")

// Generate returns the JWK Thumbprint for key, following RFC 7638: a
// hash (SHA-256 if h is zero) of the canonical JSON object containing
// only the required members of key's representation, ordered
// lexicographically by member name.
func Generate(key *jwk.JWK, h crypto.Hash) ([]byte, error) {
	members, err := requiredMembers(key)
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	b.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(m.name)
		b.WriteString(`":"`)
		b.WriteString(m.value)
		b.WriteByte('"')
	}
	b.WriteByte('}')

	if h == 0 {
		h = crypto.SHA256
	}
	hash := h.New()
	if _, err := hash.Write(b.Bytes()); err != nil {
		return nil, err
	}
	return hash.Sum(nil), nil
}

// GenerateString returns Generate's result as an unpadded base64url string.
func GenerateString(key *jwk.JWK, h crypto.Hash) (string, error) {
	sum, err := Generate(key, h)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(sum), nil
}

type member struct {
	name, value string
}

// requiredMembers returns the thumbprint's required (name, value)
// pairs already in the lexicographic order RFC 7638 mandates for each
// kty: RSA -> e, kty, n; EC -> crv, kty, x, y; oct -> k, kty.
func requiredMembers(key *jwk.JWK) ([]member, error) {
	switch key.Kty() {
	case jwk.KtyRSA:
		n, e, _, _, _, _, _, _, err := key.RSAFields()
		if err != nil {
			return nil, err
		}
		if n == nil || e == nil {
			return nil, ErrInvalidKey
		}
		return []member{
			{"e", base64BigInt(e)},
			{"kty", string(jwk.KtyRSA)},
			{"n", base64BigInt(n)},
		}, nil
	case jwk.KtyEC:
		curve, x, y, _, err := key.ECFields()
		if err != nil {
			return nil, err
		}
		if len(x) == 0 || len(y) == 0 {
			return nil, ErrInvalidKey
		}
		return []member{
			{"crv", string(curve)},
			{"kty", string(jwk.KtyEC)},
			{"x", base64.RawURLEncoding.EncodeToString(x)},
			{"y", base64.RawURLEncoding.EncodeToString(y)},
		}, nil
	case jwk.KtyOct:
		k, err := key.OctKey()
		if err != nil {
			return nil, err
		}
		if len(k) == 0 {
			return nil, ErrInvalidKey
		}
		return []member{
			{"k", base64.RawURLEncoding.EncodeToString(k)},
			{"kty", string(jwk.KtyOct)},
		}, nil
	default:
		return nil, ErrInvalidKey
	}
}

func base64BigInt(n *big.Int) string {
	return base64.RawURLEncoding.EncodeToString(n.Bytes())
}
