package header_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fanglinliu/cjose-for-windows/pkg/header"
)

func TestSetGetPreservesInsertionOrder(t *testing.T) {
	h := header.New()
	h.Set(header.Encryption, "A256GCM")
	h.Set(header.Algorithm, "dir")
	h.Set(header.KeyID, "key-1")

	require.Equal(t, []string{"enc", "alg", "kid"}, h.Keys())

	b, err := h.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `{"enc":"A256GCM","alg":"dir","kid":"key-1"}`, string(b))
}

func TestSetOverwriteKeepsPosition(t *testing.T) {
	h := header.New()
	h.Set(header.Algorithm, "dir")
	h.Set(header.Encryption, "A256GCM")
	h.Set(header.Algorithm, "ECDH-ES")

	require.Equal(t, []string{"alg", "enc"}, h.Keys())
	v, ok := h.Get(header.Algorithm)
	require.True(t, ok)
	require.Equal(t, "ECDH-ES", v)
}

func TestGetMissingReturnsFalse(t *testing.T) {
	h := header.New()
	_, ok := h.Get(header.Algorithm)
	require.False(t, ok)

	_, err := h.MustGet(header.Algorithm)
	require.ErrorIs(t, err, header.ErrParameterNotFound)
}

func TestBase64URLStringIsUnpadded(t *testing.T) {
	h := header.New()
	h.Set(header.Algorithm, "dir")
	h.Set(header.Encryption, "A256GCM")

	s, err := h.Base64URLString()
	require.NoError(t, err)
	require.NotEmpty(t, s)
	require.NotContains(t, s, "=")
}

func TestParseRoundTripsThroughMarshalJSON(t *testing.T) {
	h := header.New()
	h.Set(header.Algorithm, "dir")
	h.Set(header.Encryption, "A256GCM")
	h.Set(header.KeyID, "k1")

	b, err := h.MarshalJSON()
	require.NoError(t, err)

	parsed, err := header.Parse(b)
	require.NoError(t, err)
	require.Equal(t, h.Keys(), parsed.Keys())

	b2, err := parsed.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, b, b2)
}

func TestParseRejectsNonStringMember(t *testing.T) {
	_, err := header.Parse([]byte(`{"alg":"dir","extra":5}`))
	require.Error(t, err)
}
