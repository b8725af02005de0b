package base64_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fanglinliu/cjose-for-windows/pkg/base64"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", []byte{}},
		{"nil", nil},
		{"single byte", []byte{0x00}},
		{"ascii", []byte("Hello world!")},
		{"needs-one-pad", []byte{0x01, 0x02, 0x03, 0x04}},
		{"needs-two-pad", []byte{0x01, 0x02, 0x03}},
		{"binary", []byte{0xff, 0x00, 0xab, 0xcd, 0xef}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := base64.Encode(tt.input)
			decoded, err := base64.Decode(encoded)
			require.NoError(t, err)
			require.Equal(t, tt.input, decoded)
		})
	}
}

func TestEncodeEmptyIsEmptyString(t *testing.T) {
	require.Equal(t, "", base64.Encode(nil))
	require.Equal(t, "", base64.Encode([]byte{}))
}

func TestDecodeEmptyIsEmptyBytes(t *testing.T) {
	decoded, err := base64.Decode("")
	require.NoError(t, err)
	require.Empty(t, decoded)
}

func TestDecodeAcceptsOptionalPadding(t *testing.T) {
	decoded, err := base64.Decode("AQIDBA==")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, decoded)

	decodedUnpadded, err := base64.Decode("AQIDBA")
	require.NoError(t, err)
	require.Equal(t, decoded, decodedUnpadded)
}

func TestDecodeRejectsInvalidCharacters(t *testing.T) {
	_, err := base64.Decode("not valid base64url!!")
	require.Error(t, err)
}

func TestBigIntFixedWidthRoundTrip(t *testing.T) {
	n := big.NewInt(0x1234)
	b, err := base64.BigIntToFixedBytes(n, 32)
	require.NoError(t, err)
	require.Len(t, b, 32)

	back := base64.FixedBytesToBigInt(b)
	require.Equal(t, n, back)
}

func TestBigIntToFixedBytesTooLarge(t *testing.T) {
	n := new(big.Int).Lsh(big.NewInt(1), 300) // far larger than 32 bytes
	_, err := base64.BigIntToFixedBytes(n, 32)
	require.Error(t, err)
}
