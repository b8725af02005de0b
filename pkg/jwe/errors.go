package jwe

import "errors"

var (
	// ErrInvalidArg reports a caller-supplied precondition that was
	// not met: an unsupported or missing alg/enc, a key type/size
	// mismatch, or a malformed compact serialization.
	ErrInvalidArg = errors.New("jwe: invalid argument")

	// ErrCrypto reports that the cryptographic backend failed: an
	// authentication tag mismatch, or an RSA-OAEP unpadding failure.
	// Decrypt never distinguishes which, to avoid giving an attacker
	// an oracle.
	ErrCrypto = errors.New("jwe: cryptographic failure")

	// ErrInvalidState reports an operation attempted on a JWE object
	// not in an admissible state, e.g. CompactSerialize before Encrypt.
	ErrInvalidState = errors.New("jwe: invalid state")
)
