package jwk

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"

	b64 "github.com/fanglinliu/cjose-for-windows/pkg/base64"
)

// orderedJSONWriter builds a flat JSON object byte-by-byte so that
// member order matches the fixed field ordering this package's export
// format requires, rather than whatever order encoding/json would
// choose for a map or struct.
type orderedJSONWriter struct {
	buf     []byte
	started bool
}

func newOrderedJSONWriter() *orderedJSONWriter {
	return &orderedJSONWriter{buf: []byte{'{'}}
}

func (w *orderedJSONWriter) writeKey(name string) {
	if w.started {
		w.buf = append(w.buf, ',')
	}
	w.started = true
	w.buf = append(w.buf, '"')
	w.buf = append(w.buf, name...)
	w.buf = append(w.buf, '"', ':')
}

func (w *orderedJSONWriter) stringField(name, value string) {
	if value == "" {
		return
	}
	w.writeKey(name)
	quoted, _ := json.Marshal(value)
	w.buf = append(w.buf, quoted...)
}

func (w *orderedJSONWriter) base64Field(name string, value []byte) {
	if len(value) == 0 {
		return
	}
	w.writeKey(name)
	w.buf = append(w.buf, '"')
	encLen := base64.RawURLEncoding.EncodedLen(len(value))
	start := len(w.buf)
	w.buf = append(w.buf, make([]byte, encLen)...)
	base64.RawURLEncoding.Encode(w.buf[start:], value)
	w.buf = append(w.buf, '"')
}

func (w *orderedJSONWriter) bigIntField(name string, value []byte) {
	w.base64Field(name, value)
}

func (w *orderedJSONWriter) bytes() []byte {
	return append(w.buf, '}')
}

// Export serialises k to a compact JSON object with field ordering
// kty, kid?, crv?, x?, y?, d?, n?, e?, p?, q?, dp?, dq?, qi?, k?, as
// applicable to k's variant. When includePrivate is false, private
// fields (d for EC/RSA, the key bytes themselves for oct) are omitted.
func (k *JWK) Export(includePrivate bool) ([]byte, error) {
	w := newOrderedJSONWriter()
	w.stringField("kty", string(k.kty))
	w.stringField("kid", k.kid)

	switch k.kty {
	case KtyEC:
		w.stringField("crv", string(k.curve))
		w.base64Field("x", k.x)
		w.base64Field("y", k.y)
		if includePrivate {
			w.base64Field("d", k.d)
		}
	case KtyRSA:
		w.bigIntField("n", mustBigIntBytes(k.rsa.n))
		w.bigIntField("e", mustBigIntBytes(k.rsa.e))
		if includePrivate {
			w.bigIntField("d", mustBigIntBytes(k.rsa.d))
			w.bigIntField("p", mustBigIntBytes(k.rsa.p))
			w.bigIntField("q", mustBigIntBytes(k.rsa.q))
			w.bigIntField("dp", mustBigIntBytes(k.rsa.dp))
			w.bigIntField("dq", mustBigIntBytes(k.rsa.dq))
			w.bigIntField("qi", mustBigIntBytes(k.rsa.qi))
		}
	case KtyOct:
		if includePrivate {
			w.base64Field("k", k.octKey)
		}
	default:
		return nil, invalidArg("Export: unknown kty %q", k.kty)
	}

	return w.bytes(), nil
}

func mustBigIntBytes(n *big.Int) []byte {
	if n == nil {
		return nil
	}
	return n.Bytes()
}

// rawJWK is the field-agnostic shape used to read a JWK JSON document;
// every member is a string at this level (base64url or a plain
// identifier), decoded further by variant-specific logic in Import.
type rawJWK struct {
	Kty string `json:"kty"`
	Kid string `json:"kid,omitempty"`
	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"`
	Y   string `json:"y,omitempty"`
	D   string `json:"d,omitempty"`
	N   string `json:"n,omitempty"`
	E   string `json:"e,omitempty"`
	P   string `json:"p,omitempty"`
	Q   string `json:"q,omitempty"`
	Dp  string `json:"dp,omitempty"`
	Dq  string `json:"dq,omitempty"`
	Qi  string `json:"qi,omitempty"`
	K   string `json:"k,omitempty"`
}

// Import parses a JWK JSON document.
func Import(data []byte) (*JWK, error) {
	var raw rawJWK
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, invalidArg("Import: malformed JSON: %v", err)
	}
	if raw.Kty == "" {
		return nil, invalidArg("Import: missing kty")
	}

	var (
		key *JWK
		err error
	)

	switch Kty(raw.Kty) {
	case KtyOct:
		key, err = importOct(raw)
	case KtyEC:
		key, err = importEC(raw)
	case KtyRSA:
		key, err = importRSA(raw)
	default:
		return nil, invalidArg("Import: unknown kty %q", raw.Kty)
	}
	if err != nil {
		return nil, err
	}
	key.kid = raw.Kid
	return key, nil
}

func importOct(raw rawJWK) (*JWK, error) {
	if raw.K == "" {
		return nil, invalidArg("oct Import: missing k")
	}
	key, err := b64.Decode(raw.K)
	if err != nil {
		return nil, invalidArg("oct Import: k: %v", err)
	}
	return CreateOctSpec(key)
}

func importEC(raw rawJWK) (*JWK, error) {
	curve := Curve(raw.Crv)
	size, ok := curveSizeBytes(curve)
	if !ok {
		return nil, invalidArg("EC Import: unknown crv %q", raw.Crv)
	}
	if raw.X == "" || raw.Y == "" {
		return nil, invalidArg("EC Import: missing x or y")
	}
	x, err := decodeFixedWidth(raw.X, size)
	if err != nil {
		return nil, invalidArg("EC Import: x: %v", err)
	}
	y, err := decodeFixedWidth(raw.Y, size)
	if err != nil {
		return nil, invalidArg("EC Import: y: %v", err)
	}
	var d []byte
	if raw.D != "" {
		d, err = decodeFixedWidth(raw.D, size)
		if err != nil {
			return nil, invalidArg("EC Import: d: %v", err)
		}
	}
	return CreateECSpec(curve, d, x, y)
}

func importRSA(raw rawJWK) (*JWK, error) {
	if raw.N == "" || raw.E == "" {
		return nil, invalidArg("RSA Import: missing n or e")
	}
	n, err := decodeBigInt(raw.N)
	if err != nil {
		return nil, invalidArg("RSA Import: n: %v", err)
	}
	e, err := decodeBigInt(raw.E)
	if err != nil {
		return nil, invalidArg("RSA Import: e: %v", err)
	}
	dInt, err := decodeOptionalBigInt(raw.D)
	if err != nil {
		return nil, invalidArg("RSA Import: d: %v", err)
	}
	pInt, err := decodeOptionalBigInt(raw.P)
	if err != nil {
		return nil, invalidArg("RSA Import: p: %v", err)
	}
	qInt, err := decodeOptionalBigInt(raw.Q)
	if err != nil {
		return nil, invalidArg("RSA Import: q: %v", err)
	}
	dpInt, err := decodeOptionalBigInt(raw.Dp)
	if err != nil {
		return nil, invalidArg("RSA Import: dp: %v", err)
	}
	dqInt, err := decodeOptionalBigInt(raw.Dq)
	if err != nil {
		return nil, invalidArg("RSA Import: dq: %v", err)
	}
	qiInt, err := decodeOptionalBigInt(raw.Qi)
	if err != nil {
		return nil, invalidArg("RSA Import: qi: %v", err)
	}
	return CreateRSASpec(n, e, dInt, pInt, qInt, dpInt, dqInt, qiInt)
}

func decodeBigInt(s string) (*big.Int, error) {
	b, err := b64.Decode(s)
	if err != nil {
		return nil, err
	}
	return b64.FixedBytesToBigInt(b), nil
}

func decodeOptionalBigInt(s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	return decodeBigInt(s)
}

func decodeFixedWidth(s string, size int) ([]byte, error) {
	b, err := b64.Decode(s)
	if err != nil {
		return nil, err
	}
	if len(b) == size {
		return b, nil
	}
	if len(b) > size {
		return nil, fmt.Errorf("value is %d bytes, want at most %d", len(b), size)
	}
	padded := make([]byte, size)
	copy(padded[size-len(b):], b)
	return padded, nil
}
