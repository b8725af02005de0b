package jwe

import (
	"crypto/aes"
	"encoding/binary"
	"fmt"
)

// defaultIV is the fixed initial value RFC 3394 §2.2.3.1 specifies
// for AES Key Wrap without padding: 0xA6A6A6A6A6A6A6A6.
var defaultIV = [8]byte{0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6}

// aesKeyWrap implements RFC 3394 AES Key Wrap (not the RFC 5649
// padded variant — JWE content encryption keys are always exactly
// 16/24/32 bytes, a multiple of the 8-byte wrap block, so the padding
// extension is never needed here).
func aesKeyWrap(kek, plaintext []byte) ([]byte, error) {
	if len(plaintext)%8 != 0 || len(plaintext) < 16 {
		return nil, fmt.Errorf("jwe: key wrap input must be a multiple of 8 bytes, at least 16, got %d", len(plaintext))
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, fmt.Errorf("jwe: key wrap cipher: %w", err)
	}

	n := len(plaintext) / 8
	r := make([][]byte, n+1)
	r[0] = defaultIV[:]
	for i := 0; i < n; i++ {
		r[i+1] = append([]byte(nil), plaintext[i*8:(i+1)*8]...)
	}

	buf := make([]byte, 16)
	for j := 0; j <= 5; j++ {
		for i := 1; i <= n; i++ {
			copy(buf[:8], r[0])
			copy(buf[8:], r[i])
			block.Encrypt(buf, buf)

			t := uint64(n*j + i)
			var tBytes [8]byte
			binary.BigEndian.PutUint64(tBytes[:], t)
			for k := 0; k < 8; k++ {
				buf[k] ^= tBytes[k]
			}

			r[0] = append([]byte(nil), buf[:8]...)
			r[i] = append([]byte(nil), buf[8:]...)
		}
	}

	out := make([]byte, 0, 8*(n+1))
	out = append(out, r[0]...)
	for i := 1; i <= n; i++ {
		out = append(out, r[i]...)
	}
	return out, nil
}

// aesKeyUnwrap is the inverse of aesKeyWrap. It returns an error if
// the recovered IV does not match defaultIV, which happens whenever
// the wrong key-encryption key was used or the ciphertext was
// tampered with.
func aesKeyUnwrap(kek, ciphertext []byte) ([]byte, error) {
	if len(ciphertext)%8 != 0 || len(ciphertext) < 24 {
		return nil, fmt.Errorf("jwe: key unwrap input must be a multiple of 8 bytes, at least 24, got %d", len(ciphertext))
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, fmt.Errorf("jwe: key unwrap cipher: %w", err)
	}

	n := len(ciphertext)/8 - 1
	r := make([][]byte, n+1)
	r[0] = append([]byte(nil), ciphertext[:8]...)
	for i := 1; i <= n; i++ {
		r[i] = append([]byte(nil), ciphertext[i*8:(i+1)*8]...)
	}

	buf := make([]byte, 16)
	for j := 5; j >= 0; j-- {
		for i := n; i >= 1; i-- {
			t := uint64(n*j + i)
			var tBytes [8]byte
			binary.BigEndian.PutUint64(tBytes[:], t)

			copy(buf[:8], r[0])
			for k := 0; k < 8; k++ {
				buf[k] ^= tBytes[k]
			}
			copy(buf[8:], r[i])

			block.Decrypt(buf, buf)

			r[0] = append([]byte(nil), buf[:8]...)
			r[i] = append([]byte(nil), buf[8:]...)
		}
	}

	for k := 0; k < 8; k++ {
		if r[0][k] != defaultIV[k] {
			return nil, ErrCrypto
		}
	}

	out := make([]byte, 0, 8*n)
	for i := 1; i <= n; i++ {
		out = append(out, r[i]...)
	}
	return out, nil
}
