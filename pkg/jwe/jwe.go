// Package jwe implements JSON Web Encryption (RFC 7516) compact
// serialization: building a JWE from a recipient key, header, and
// plaintext; authenticated decryption; and import/export of the
// five-segment compact form.
package jwe

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"fmt"

	b64 "github.com/fanglinliu/cjose-for-windows/pkg/base64"
	"github.com/fanglinliu/cjose-for-windows/pkg/header"
	"github.com/fanglinliu/cjose-for-windows/pkg/jwa"
	"github.com/fanglinliu/cjose-for-windows/pkg/jwk"
)

// Header is this package's header type, re-exported from pkg/header
// for callers that only interact with JWE.
type Header = header.Header

// state is a JWE object's position in its lifecycle: {built,
// serialized, parsed}. Decrypt is valid in built or parsed.
type state int

const (
	stateBuilt state = iota
	stateSerialized
	stateParsed
)

// JWE holds the five compact-serialization parts of a JSON Web
// Encryption object plus its parsed header.
type JWE struct {
	hdr          *header.Header
	hdrB64       string // the exact base64url header bytes used as AAD
	encryptedCEK []byte
	iv           []byte
	ciphertext   []byte
	tag          []byte
	state        state
}

// ivBits and tagBits are the fixed IV and tag widths for every "enc"
// value this module supports (AES-GCM).
const (
	ivBits  = 96
	tagBits = 128
)

// Encrypt builds a JWE: it reads alg/enc from hdr, materialises a
// content encryption key per the alg table, runs AES-GCM over
// plaintext with the canonical base64url header as associated data,
// and returns the resulting object in state "built".
func Encrypt(recipient *jwk.JWK, hdr *header.Header, plaintext []byte) (*JWE, error) {
	alg, err := hdr.Algorithm()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArg, err)
	}
	enc, err := hdr.EncryptionAlgorithm()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArg, err)
	}
	if !jwa.IsAllowedKeyManagementAlgorithm(alg) {
		return nil, fmt.Errorf("%w: unsupported alg %q", ErrInvalidArg, alg)
	}
	if !jwa.IsAllowedContentEncryptionAlgorithm(enc) {
		return nil, fmt.Errorf("%w: unsupported enc %q", ErrInvalidArg, enc)
	}
	cekBits, _ := jwa.CEKBits(enc)

	cek, encryptedCEK, err := materializeCEKForEncrypt(alg, enc, cekBits, recipient, hdr)
	if err != nil {
		return nil, err
	}
	defer cekZero(cek)

	hdrB64, err := hdr.Base64URLString()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArg, err)
	}

	iv := make([]byte, ivBits/8)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}

	ciphertext, tag, err := aesGCMSeal(cek, iv, plaintext, []byte(hdrB64))
	if err != nil {
		return nil, err
	}

	return &JWE{
		hdr:          hdr,
		hdrB64:       hdrB64,
		encryptedCEK: encryptedCEK,
		iv:           iv,
		ciphertext:   ciphertext,
		tag:          tag,
		state:        stateBuilt,
	}, nil
}

// materializeCEKForEncrypt determines/generates the CEK and, for the
// wrapping alg values, produces the encrypted-CEK segment. For dir
// and ECDH-ES the encrypted-CEK segment is empty.
func materializeCEKForEncrypt(alg, enc string, cekBits int, recipient *jwk.JWK, hdr *header.Header) (cek, encryptedCEK []byte, err error) {
	switch alg {
	case jwa.Dir:
		if recipient.Kty() != jwk.KtyOct {
			return nil, nil, fmt.Errorf("%w: alg=dir requires an oct key", ErrInvalidArg)
		}
		key, err := recipient.OctKey()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidArg, err)
		}
		if len(key)*8 != cekBits {
			return nil, nil, fmt.Errorf("%w: dir key is %d bits, enc demands %d", ErrInvalidArg, len(key)*8, cekBits)
		}
		return append([]byte(nil), key...), nil, nil

	case jwa.A128KW, jwa.A192KW, jwa.A256KW:
		wrapBits, _ := jwa.KeyWrapBits(alg)
		if recipient.Kty() != jwk.KtyOct {
			return nil, nil, fmt.Errorf("%w: %s requires an oct key", ErrInvalidArg, alg)
		}
		kek, err := recipient.OctKey()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidArg, err)
		}
		if len(kek)*8 != wrapBits {
			return nil, nil, fmt.Errorf("%w: %s requires a %d-bit key, got %d", ErrInvalidArg, alg, wrapBits, len(kek)*8)
		}
		cekKey, err := jwk.CreateOctRandom(cekBits)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrCrypto, err)
		}
		cek, _ := cekKey.OctKey()
		wrapped, err := aesKeyWrap(kek, cek)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrCrypto, err)
		}
		return cek, wrapped, nil

	case jwa.RSAOAEP:
		if recipient.Kty() != jwk.KtyRSA {
			return nil, nil, fmt.Errorf("%w: RSA-OAEP requires an RSA key", ErrInvalidArg)
		}
		pub, err := recipient.RSAPublicKey()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidArg, err)
		}
		cekKey, err := jwk.CreateOctRandom(cekBits)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrCrypto, err)
		}
		cek, _ := cekKey.OctKey()
		wrapped, err := rsa.EncryptOAEP(sha1.New(), rand.Reader, pub, cek, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrCrypto, err)
		}
		return cek, wrapped, nil

	case jwa.ECDHES:
		if recipient.Kty() != jwk.KtyEC {
			return nil, nil, fmt.Errorf("%w: ECDH-ES requires an EC key", ErrInvalidArg)
		}
		if cekBits != 256 {
			return nil, nil, fmt.Errorf("%w: ECDH-ES (direct) only produces a 256-bit CEK, enc demands %d", ErrInvalidArg, cekBits)
		}
		curve, _, _, _, err := recipient.ECFields()
		if err != nil {
			return nil, nil, err
		}
		ephemeral, err := jwk.CreateECRandom(curve)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrCrypto, err)
		}
		derived, err := jwk.DeriveECDH(ephemeral, recipient)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrCrypto, err)
		}
		cek, _ := derived.OctKey()

		epkJSON, err := ephemeral.Export(false)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrCrypto, err)
		}
		hdr.Set(header.EphemeralPublicKey, string(epkJSON))

		return cek, nil, nil

	default:
		return nil, nil, fmt.Errorf("%w: unsupported alg %q", ErrInvalidArg, alg)
	}
}

// CompactSerialize renders the JWE as RFC 7516 §7.1's five
// dot-separated base64url segments, transitioning the object to state
// "serialized".
func (j *JWE) CompactSerialize() (string, error) {
	if j.hdr == nil {
		return "", fmt.Errorf("%w: compact serialization requires an encrypted or parsed JWE", ErrInvalidState)
	}
	s := j.hdrB64 + "." +
		b64.Encode(j.encryptedCEK) + "." +
		b64.Encode(j.iv) + "." +
		b64.Encode(j.ciphertext) + "." +
		b64.Encode(j.tag)
	j.state = stateSerialized
	return s, nil
}

// ParseCompact splits s into exactly five segments, decodes each, and
// parses the header, producing a JWE in state "parsed". The tag and
// IV are validated against the widths "enc" demands.
func ParseCompact(s string) (*JWE, error) {
	parts := splitCompact(s)
	if len(parts) != 5 {
		return nil, fmt.Errorf("%w: compact serialization must have 5 segments, got %d", ErrInvalidArg, len(parts))
	}

	hdrBytes, err := b64.Decode(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidArg, err)
	}
	hdr, err := header.Parse(hdrBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArg, err)
	}
	alg, err := hdr.Algorithm()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArg, err)
	}
	enc, err := hdr.EncryptionAlgorithm()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArg, err)
	}
	if !jwa.IsAllowedKeyManagementAlgorithm(alg) {
		return nil, fmt.Errorf("%w: unsupported alg %q", ErrInvalidArg, alg)
	}
	if !jwa.IsAllowedContentEncryptionAlgorithm(enc) {
		return nil, fmt.Errorf("%w: unsupported enc %q", ErrInvalidArg, enc)
	}

	encryptedCEK, err := b64.Decode(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: encrypted CEK: %v", ErrInvalidArg, err)
	}
	iv, err := b64.Decode(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: IV: %v", ErrInvalidArg, err)
	}
	if len(iv)*8 != ivBits {
		return nil, fmt.Errorf("%w: IV must be %d bits, got %d", ErrInvalidArg, ivBits, len(iv)*8)
	}
	ciphertext, err := b64.Decode(parts[3])
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext: %v", ErrInvalidArg, err)
	}
	tag, err := b64.Decode(parts[4])
	if err != nil {
		return nil, fmt.Errorf("%w: tag: %v", ErrInvalidArg, err)
	}
	if len(tag)*8 != tagBits {
		return nil, fmt.Errorf("%w: tag must be %d bits, got %d", ErrInvalidArg, tagBits, len(tag)*8)
	}

	return &JWE{
		hdr:          hdr,
		hdrB64:       parts[0],
		encryptedCEK: encryptedCEK,
		iv:           iv,
		ciphertext:   ciphertext,
		tag:          tag,
		state:        stateParsed,
	}, nil
}

// Decrypt recovers the CEK per the alg table and runs AES-GCM
// decryption, using the exact base64url header bytes the object was
// built or parsed from as associated data. A tag mismatch or
// unpadding failure both surface as ErrCrypto with no further detail.
func (j *JWE) Decrypt(recipient *jwk.JWK) ([]byte, error) {
	if j.state != stateBuilt && j.state != stateParsed {
		return nil, fmt.Errorf("%w: decrypt requires state built or parsed", ErrInvalidState)
	}

	alg, err := j.hdr.Algorithm()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArg, err)
	}
	enc, err := j.hdr.EncryptionAlgorithm()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArg, err)
	}

	cek, err := recoverCEKForDecrypt(alg, enc, recipient, j)
	if err != nil {
		return nil, err
	}
	defer cekZero(cek)

	plaintext, err := aesGCMOpen(cek, j.iv, j.ciphertext, j.tag, []byte(j.hdrB64))
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}

func recoverCEKForDecrypt(alg, enc string, recipient *jwk.JWK, j *JWE) ([]byte, error) {
	cekBits, ok := jwa.CEKBits(enc)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported enc %q", ErrInvalidArg, enc)
	}

	switch alg {
	case jwa.Dir:
		if recipient.Kty() != jwk.KtyOct {
			return nil, fmt.Errorf("%w: alg=dir requires an oct key", ErrInvalidArg)
		}
		key, err := recipient.OctKey()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArg, err)
		}
		if len(key)*8 != cekBits {
			return nil, fmt.Errorf("%w: dir key is %d bits, enc demands %d", ErrInvalidArg, len(key)*8, cekBits)
		}
		return append([]byte(nil), key...), nil

	case jwa.A128KW, jwa.A192KW, jwa.A256KW:
		wrapBits, _ := jwa.KeyWrapBits(alg)
		if recipient.Kty() != jwk.KtyOct {
			return nil, fmt.Errorf("%w: %s requires an oct key", ErrInvalidArg, alg)
		}
		kek, err := recipient.OctKey()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArg, err)
		}
		if len(kek)*8 != wrapBits {
			return nil, fmt.Errorf("%w: %s requires a %d-bit key, got %d", ErrInvalidArg, alg, wrapBits, len(kek)*8)
		}
		cek, err := aesKeyUnwrap(kek, j.encryptedCEK)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
		}
		return cek, nil

	case jwa.RSAOAEP:
		if recipient.Kty() != jwk.KtyRSA {
			return nil, fmt.Errorf("%w: RSA-OAEP requires an RSA key", ErrInvalidArg)
		}
		priv, err := recipient.RSAPrivateKey()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArg, err)
		}
		cek, err := rsa.DecryptOAEP(sha1.New(), rand.Reader, priv, j.encryptedCEK, nil)
		if err != nil {
			return nil, ErrCrypto
		}
		return cek, nil

	case jwa.ECDHES:
		if recipient.Kty() != jwk.KtyEC {
			return nil, fmt.Errorf("%w: ECDH-ES requires an EC key", ErrInvalidArg)
		}
		epkJSON, ok := j.hdr.Get(header.EphemeralPublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: ECDH-ES header missing epk", ErrInvalidArg)
		}
		epk, err := jwk.Import([]byte(epkJSON))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid epk: %v", ErrInvalidArg, err)
		}
		derived, err := jwk.DeriveECDH(recipient, epk)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
		}
		cek, _ := derived.OctKey()
		if len(cek)*8 != cekBits {
			return nil, fmt.Errorf("%w: ECDH-ES derived %d bits, enc demands %d", ErrInvalidArg, len(cek)*8, cekBits)
		}
		return cek, nil

	default:
		return nil, fmt.Errorf("%w: unsupported alg %q", ErrInvalidArg, alg)
	}
}

func aesGCMSeal(key, iv, plaintext, aad []byte) (ciphertext, tag []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	sealed := gcm.Seal(nil, iv, plaintext, aad)
	split := len(sealed) - tagBits/8
	return sealed[:split], sealed[split:], nil
}

func aesGCMOpen(key, iv, ciphertext, tag, aad []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	sealed := append(append([]byte(nil), ciphertext...), tag...)
	plaintext, err := gcm.Open(nil, iv, sealed, aad)
	if err != nil {
		return nil, ErrCrypto
	}
	return plaintext, nil
}

func cekZero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func splitCompact(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}
