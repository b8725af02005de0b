package base64

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"
)

// Decode returns the base64url decoded bytes from the given input.
// This function implements base64url decoding as defined in RFC 4648 Section 5,
// which is used in JWE and JWK serialization (RFC 7516, RFC 7517).
//
// Trailing '=' padding is accepted but not required; any other
// non-alphabet character is rejected.
func Decode(input string) ([]byte, error) {
	if padLen := len(input) % 4; padLen > 0 {
		var b strings.Builder
		b.Grow(len(input) + (4 - padLen))
		b.WriteString(input)
		for i := padLen; i < 4; i++ {
			b.WriteByte('=')
		}
		input = b.String()
	}

	result, err := base64.URLEncoding.DecodeString(input)
	if err != nil {
		return nil, fmt.Errorf("base64: invalid base64url input: %w", err)
	}
	return result, nil
}

// Encode returns the unpadded base64url encoded string from the given input.
//
// The empty byte slice encodes to the empty string, matching the
// property that decode(encode(b)) = b for every b, including b = nil
// or b = []byte{}.
func Encode(input []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(input), "=")
}

// BigIntToFixedBytes renders n as a big-endian byte slice of exactly
// size bytes, left-padding with zeros. It is an error for n's minimal
// big-endian representation to exceed size bytes.
func BigIntToFixedBytes(n *big.Int, size int) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("base64: nil big.Int")
	}
	b := n.Bytes()
	if len(b) > size {
		return nil, fmt.Errorf("base64: value too large for %d-byte field", size)
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out, nil
}

// FixedBytesToBigInt interprets b as a big-endian unsigned integer.
func FixedBytesToBigInt(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}
