// Package keyutil bridges PEM-encoded RSA and ECDSA keys (the format
// most Go programs read from files or environment variables) and this
// module's jwk.JWK representation.
package keyutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/subtle"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"

	"github.com/fanglinliu/cjose-for-windows/pkg/jwk"
)

// SymmetricKeysEqual reports whether key1 and key2 are identical,
// using a constant-time comparison.
func SymmetricKeysEqual(key1, key2 []byte) bool {
	return subtle.ConstantTimeCompare(key1, key2) == 1
}

// ParseRSAPublicKey parses a PEM-encoded RSA public key (or a
// certificate containing one) from r.
func ParseRSAPublicKey(r io.Reader) (*rsa.PublicKey, error) {
	keyBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("keyutil: read RSA public key: %w", err)
	}

	block, _ := pem.Decode(keyBytes)
	if block == nil {
		return nil, fmt.Errorf("keyutil: decode RSA public key PEM block")
	}

	parsedKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		cert, certErr := x509.ParseCertificate(block.Bytes)
		if certErr != nil {
			return nil, fmt.Errorf("keyutil: decode RSA public key: %w", certErr)
		}
		parsedKey = cert.PublicKey
	}

	publicKey, ok := parsedKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("keyutil: invalid type %T for RSA public key", parsedKey)
	}
	return publicKey, nil
}

// ParseRSAPrivateKey parses a PEM-encoded PKCS#1 or PKCS#8 RSA private
// key from r.
func ParseRSAPrivateKey(r io.Reader) (*rsa.PrivateKey, error) {
	keyBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("keyutil: read RSA private key: %w", err)
	}

	block, _ := pem.Decode(keyBytes)
	if block == nil {
		return nil, fmt.Errorf("keyutil: decode RSA private key PEM block")
	}

	parsedKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		p8, p8Err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if p8Err != nil {
			return nil, fmt.Errorf("keyutil: decode RSA private key: %w", err)
		}
		rsaKey, ok := p8.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("keyutil: PKCS8 key is %T, not RSA", p8)
		}
		return rsaKey, nil
	}
	return parsedKey, nil
}

// ParseECDSAPublicKey parses a PEM-encoded ECDSA public key (or a
// certificate containing one) from r.
func ParseECDSAPublicKey(r io.Reader) (*ecdsa.PublicKey, error) {
	keyBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("keyutil: read ECDSA public key: %w", err)
	}

	block, _ := pem.Decode(keyBytes)
	if block == nil {
		return nil, fmt.Errorf("keyutil: decode ECDSA public key PEM block")
	}

	parsedKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		cert, certErr := x509.ParseCertificate(block.Bytes)
		if certErr != nil {
			return nil, fmt.Errorf("keyutil: decode ECDSA public key: %w", certErr)
		}
		parsedKey = cert.PublicKey
	}

	publicKey, ok := parsedKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("keyutil: invalid type %T for ECDSA public key", parsedKey)
	}
	return publicKey, nil
}

// ParseECDSAPrivateKey parses a PEM-encoded SEC1 or PKCS#8 ECDSA
// private key from r.
func ParseECDSAPrivateKey(r io.Reader) (*ecdsa.PrivateKey, error) {
	keyBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("keyutil: read ECDSA private key: %w", err)
	}

	block, _ := pem.Decode(keyBytes)
	if block == nil {
		return nil, fmt.Errorf("keyutil: decode ECDSA private key PEM block")
	}

	parsedKey, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		p8, p8Err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if p8Err != nil {
			return nil, fmt.Errorf("keyutil: decode ECDSA private key: %w", err)
		}
		ecKey, ok := p8.(*ecdsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("keyutil: PKCS8 key is %T, not ECDSA", p8)
		}
		return ecKey, nil
	}
	return parsedKey, nil
}

// JWKFromRSAPublicKey builds an RSA JWK from a stdlib public key.
func JWKFromRSAPublicKey(pub *rsa.PublicKey) (*jwk.JWK, error) {
	e := big.NewInt(int64(pub.E))
	return jwk.CreateRSASpec(pub.N, e, nil, nil, nil, nil, nil, nil)
}

// JWKFromRSAPrivateKey builds an RSA JWK carrying private material
// from a stdlib private key.
func JWKFromRSAPrivateKey(priv *rsa.PrivateKey) (*jwk.JWK, error) {
	e := big.NewInt(int64(priv.E))
	var p, q, dp, dq, qi *big.Int
	if len(priv.Primes) == 2 {
		priv.Precompute()
		p, q = priv.Primes[0], priv.Primes[1]
		dp, dq, qi = priv.Precomputed.Dp, priv.Precomputed.Dq, priv.Precomputed.Qinv
	}
	return jwk.CreateRSASpec(priv.N, e, priv.D, p, q, dp, dq, qi)
}

// JWKFromECDSAPublicKey builds an EC JWK from a stdlib public key.
func JWKFromECDSAPublicKey(pub *ecdsa.PublicKey) (*jwk.JWK, error) {
	curve, size, err := curveFor(pub.Curve)
	if err != nil {
		return nil, err
	}
	x := fixedWidth(pub.X, size)
	y := fixedWidth(pub.Y, size)
	return jwk.CreateECSpec(curve, nil, x, y)
}

// JWKFromECDSAPrivateKey builds an EC JWK carrying the private scalar
// from a stdlib private key.
func JWKFromECDSAPrivateKey(priv *ecdsa.PrivateKey) (*jwk.JWK, error) {
	curve, size, err := curveFor(priv.Curve)
	if err != nil {
		return nil, err
	}
	d := fixedWidth(priv.D, size)
	return jwk.CreateECSpec(curve, d, nil, nil)
}

func curveFor(c elliptic.Curve) (jwk.Curve, int, error) {
	switch c {
	case elliptic.P256():
		return jwk.P256, 32, nil
	case elliptic.P384():
		return jwk.P384, 48, nil
	case elliptic.P521():
		return jwk.P521, 66, nil
	default:
		return "", 0, fmt.Errorf("keyutil: unsupported curve %v", c.Params().Name)
	}
}

func fixedWidth(n *big.Int, size int) []byte {
	b := n.Bytes()
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}
