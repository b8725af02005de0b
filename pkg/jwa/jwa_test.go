package jwa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsAllowedKeyManagementAlgorithm(t *testing.T) {
	for _, alg := range AllowedKeyManagementAlgorithms() {
		require.True(t, IsAllowedKeyManagementAlgorithm(alg))
	}
	require.False(t, IsAllowedKeyManagementAlgorithm("HS256"))
	require.False(t, IsAllowedKeyManagementAlgorithm(""))
}

func TestIsAllowedContentEncryptionAlgorithm(t *testing.T) {
	for _, enc := range AllowedContentEncryptionAlgorithms() {
		require.True(t, IsAllowedContentEncryptionAlgorithm(enc))
	}
	require.False(t, IsAllowedContentEncryptionAlgorithm("A256CBC-HS512"))
	require.False(t, IsAllowedContentEncryptionAlgorithm(""))
}

func TestCEKBits(t *testing.T) {
	tests := []struct {
		enc  Algorithm
		bits int
		ok   bool
	}{
		{A128GCM, 128, true},
		{A192GCM, 192, true},
		{A256GCM, 256, true},
		{"A256CBC-HS512", 0, false},
	}
	for _, tt := range tests {
		bits, ok := CEKBits(tt.enc)
		require.Equal(t, tt.ok, ok)
		require.Equal(t, tt.bits, bits)
	}
}

func TestKeyWrapBits(t *testing.T) {
	tests := []struct {
		alg  Algorithm
		bits int
		ok   bool
	}{
		{A128KW, 128, true},
		{A192KW, 192, true},
		{A256KW, 256, true},
		{Dir, 0, false},
		{RSAOAEP, 0, false},
	}
	for _, tt := range tests {
		bits, ok := KeyWrapBits(tt.alg)
		require.Equal(t, tt.ok, ok)
		require.Equal(t, tt.bits, bits)
	}
}
