package header

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/fanglinliu/cjose-for-windows/pkg/base64"
)

// There are three classes of Header Parameter names: Registered Header
// Parameter names, Public Header Parameter names, and Private Header
// Parameter names.
//
// https://datatracker.ietf.org/doc/html/rfc7515#section-4
type (
	ParameterName = string

	Registered = ParameterName
	Public     = ParameterName
	Private    = ParameterName
)

// Registered Header Parameter Names relevant to JWE.
//
// https://www.rfc-editor.org/rfc/rfc7516.html#section-4.1
const (
	Algorithm           Registered = "alg"
	Encryption          Registered = "enc"
	KeyID               Registered = "kid"
	ContentType         Registered = "cty"
	Zip                 Registered = "zip"
	Critical            Registered = "crit"
	EphemeralPublicKey  Registered = "epk"
	JWKSetURL           Registered = "jku"
	JSONWebKey          Registered = "jwk"
	X509URL             Registered = "x5u"
	X509CertificateChain              Registered = "x5c"
	X509CertificateSHA1Thumbprint     Registered = "x5t"
	X509CertificateSHA256Thumbprint   Registered = "x5t#S256"
)

var (
	// ErrParameterNotFound is returned by MustGet and the typed accessors
	// when the requested parameter is absent.
	ErrParameterNotFound = errors.New("header: parameter not found")

	// ErrInvalidParameterType is returned (wrapped) by Parse when a
	// member's value is not a JSON string.
	ErrInvalidParameterType = errors.New("header: invalid parameter type")
)

// entry is a single name/value pair. Header preserves the order in
// which entries are first set, which matters because the header's
// base64url-encoded bytes become AEAD associated data; re-ordering
// would change those bytes.
type entry struct {
	name  ParameterName
	value string
}

// Header is an ordered mapping from header parameter names to string
// values. Unlike a plain Go map, it preserves insertion order on
// serialization.
type Header struct {
	entries []entry
	index   map[ParameterName]int
}

// New returns an empty Header.
func New() *Header {
	return &Header{
		index: make(map[ParameterName]int),
	}
}

// Set assigns value to name, preserving the position of name if it is
// already present, or appending it at the end if it is new.
func (h *Header) Set(name ParameterName, value string) {
	if i, ok := h.index[name]; ok {
		h.entries[i].value = value
		return
	}
	h.index[name] = len(h.entries)
	h.entries = append(h.entries, entry{name: name, value: value})
}

// Get returns the value stored under name, and whether it was present.
func (h *Header) Get(name ParameterName) (string, bool) {
	i, ok := h.index[name]
	if !ok {
		return "", false
	}
	return h.entries[i].value, true
}

// MustGet returns the value stored under name, or ErrParameterNotFound.
func (h *Header) MustGet(name ParameterName) (string, error) {
	value, ok := h.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrParameterNotFound, name)
	}
	return value, nil
}

// Has reports whether name is present.
func (h *Header) Has(name ParameterName) bool {
	_, ok := h.index[name]
	return ok
}

// Keys returns the parameter names in insertion order.
func (h *Header) Keys() []string {
	keys := make([]string, len(h.entries))
	for i, e := range h.entries {
		keys[i] = e.name
	}
	return keys
}

// Algorithm returns the "alg" parameter.
func (h *Header) Algorithm() (string, error) {
	return h.MustGet(Algorithm)
}

// EncryptionAlgorithm returns the "enc" parameter.
func (h *Header) EncryptionAlgorithm() (string, error) {
	return h.MustGet(Encryption)
}

// MarshalJSON renders the header as a canonical JSON object with
// member order equal to insertion order and no extraneous whitespace.
func (h *Header) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range h.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		quotedName, err := marshalJSONString(e.name)
		if err != nil {
			return nil, fmt.Errorf("header: encoding parameter name %q: %w", e.name, err)
		}
		quotedValue, err := marshalJSONString(e.value)
		if err != nil {
			return nil, fmt.Errorf("header: encoding parameter value for %q: %w", e.name, err)
		}
		buf.Write(quotedName)
		buf.WriteByte(':')
		buf.Write(quotedValue)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Base64URLString renders the header as canonical JSON and then
// base64url-encodes it. This is the exact form used as AEAD
// associated data, and the exact form that must be preserved verbatim
// between an encrypt call and the bytes a decrypt call re-derives AAD
// from.
func (h *Header) Base64URLString() (string, error) {
	b, err := h.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("header: failed to encode base64url string: %w", err)
	}
	return base64.Encode(b), nil
}

// Parse decodes a canonical JSON object into an order-preserving
// Header. Only string-valued members are supported at the public API,
// matching the restriction that header values are string JSON values.
func Parse(data []byte) (*Header, error) {
	raw, order, err := decodeOrderedStringObject(data)
	if err != nil {
		return nil, fmt.Errorf("header: parse: %w", err)
	}
	h := New()
	for _, name := range order {
		h.Set(name, raw[name])
	}
	return h, nil
}
