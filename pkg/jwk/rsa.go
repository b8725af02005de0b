package jwk

import (
	"crypto/rand"
	"crypto/rsa"
	"math/big"
)

// rsaMaterial holds an RSA key's big-integer fields. n and e are
// always present; the rest are nil on a public-only key.
type rsaMaterial struct {
	n, e               *big.Int
	d, p, q, dp, dq, qi *big.Int
}

func (m *rsaMaterial) zero() {
	zeroBigInt(m.d)
	zeroBigInt(m.p)
	zeroBigInt(m.q)
	zeroBigInt(m.dp)
	zeroBigInt(m.dq)
	zeroBigInt(m.qi)
}

func zeroBigInt(n *big.Int) {
	if n == nil {
		return
	}
	n.SetInt64(0)
}

// defaultRSAPublicExponent is 65537, the default used when
// CreateRSARandom is called without an explicit exponent.
var defaultRSAPublicExponent = big.NewInt(0x010001)

// CreateRSARandom generates a fresh RSA key pair of the given modulus
// size. If e is nil, the default public exponent 65537 is used; any
// other e is rejected with ErrInvalidArg.
func CreateRSARandom(bits int, e *big.Int) (*JWK, error) {
	if bits <= 0 {
		return nil, invalidArg("RSA key size must be positive, got %d", bits)
	}
	if e == nil {
		e = defaultRSAPublicExponent
	}
	if e.Cmp(defaultRSAPublicExponent) != 0 {
		// crypto/rsa.GenerateKey always uses E=65537; honoring a
		// caller-chosen exponent would require a hand-rolled prime
		// search the standard library does not expose.
		return nil, invalidArg("RSA key generation only supports the default public exponent 65537")
	}
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, cryptoErr(err)
	}
	priv.Precompute()
	return rsaJWKFromPrivateKey(priv), nil
}

func rsaJWKFromPrivateKey(priv *rsa.PrivateKey) *JWK {
	m := &rsaMaterial{
		n: priv.N,
		e: big.NewInt(int64(priv.E)),
		d: priv.D,
	}
	if len(priv.Primes) == 2 {
		m.p = priv.Primes[0]
		m.q = priv.Primes[1]
		m.dp = priv.Precomputed.Dp
		m.dq = priv.Precomputed.Dq
		m.qi = priv.Precomputed.Qinv
	}
	return &JWK{
		kty:         KtyRSA,
		keysizeBits: priv.N.BitLen(),
		rsa:         m,
	}
}

// CreateRSASpec builds an RSA JWK from explicit big-integer fields.
// The combination must contain at least (n, e) for a public key or
// (n, e, d) for a private key. CRT parameters (p, q, dp, dq, qi) may
// be partially supplied or omitted entirely; missing CRT parameters
// are not recomputed (matching the behavior of the cjose C library
// this core is modeled on). The supplied values are copied; the
// caller's *big.Int values are never aliased.
func CreateRSASpec(n, e, d, p, q, dp, dq, qi *big.Int) (*JWK, error) {
	if n == nil || e == nil {
		return nil, invalidArg("RSA spec requires at least n and e")
	}
	cp := func(v *big.Int) *big.Int {
		if v == nil {
			return nil
		}
		return new(big.Int).Set(v)
	}
	return &JWK{
		kty:         KtyRSA,
		keysizeBits: n.BitLen(),
		rsa: &rsaMaterial{
			n: cp(n), e: cp(e), d: cp(d), p: cp(p), q: cp(q), dp: cp(dp), dq: cp(dq), qi: cp(qi),
		},
	}, nil
}

// RSAFields returns the RSA JWK's big-integer fields. The private
// fields are nil on a public-only key.
func (k *JWK) RSAFields() (n, e, d, p, q, dp, dq, qi *big.Int, err error) {
	if k.kty != KtyRSA {
		return nil, nil, nil, nil, nil, nil, nil, nil, invalidArg("RSAFields: key is %s, not RSA", k.kty)
	}
	m := k.rsa
	return m.n, m.e, m.d, m.p, m.q, m.dp, m.dq, m.qi, nil
}

// RSAPublicKey returns a stdlib *rsa.PublicKey for k.
func (k *JWK) RSAPublicKey() (*rsa.PublicKey, error) {
	if k.kty != KtyRSA {
		return nil, invalidArg("RSAPublicKey: key is %s, not RSA", k.kty)
	}
	return &rsa.PublicKey{
		N: k.rsa.n,
		E: int(k.rsa.e.Int64()),
	}, nil
}

// RSAPrivateKey returns a stdlib *rsa.PrivateKey for k. It is an error
// to call this on a public-only RSA JWK.
func (k *JWK) RSAPrivateKey() (*rsa.PrivateKey, error) {
	if k.kty != KtyRSA {
		return nil, invalidArg("RSAPrivateKey: key is %s, not RSA", k.kty)
	}
	if k.rsa.d == nil {
		return nil, invalidArg("RSAPrivateKey: key has no private exponent")
	}
	priv := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{
			N: k.rsa.n,
			E: int(k.rsa.e.Int64()),
		},
		D: k.rsa.d,
	}
	if k.rsa.p != nil && k.rsa.q != nil {
		priv.Primes = []*big.Int{k.rsa.p, k.rsa.q}
		priv.Precompute()
	}
	return priv, nil
}
