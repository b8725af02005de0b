package jwk_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fanglinliu/cjose-for-windows/pkg/jwk"
)

func TestCreateOctRandomSize(t *testing.T) {
	key, err := jwk.CreateOctRandom(256)
	require.NoError(t, err)
	require.Equal(t, jwk.KtyOct, key.Kty())
	require.Equal(t, 256, key.KeySizeBits())
	require.True(t, key.IsPrivate())

	raw, err := key.OctKey()
	require.NoError(t, err)
	require.Len(t, raw, 32)
}

func TestCreateOctRandomRejectsBadSize(t *testing.T) {
	_, err := jwk.CreateOctRandom(0)
	require.ErrorIs(t, err, jwk.ErrInvalidArg)

	_, err = jwk.CreateOctRandom(7)
	require.ErrorIs(t, err, jwk.ErrInvalidArg)
}

func TestCreateOctSpecCopiesInput(t *testing.T) {
	material := []byte{1, 2, 3, 4}
	key, err := jwk.CreateOctSpec(material)
	require.NoError(t, err)

	material[0] = 0xff
	raw, err := key.OctKey()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, raw)
}

// Literal scenario S2: a known oct key JSON document imports to exactly
// the expected key bytes and re-exports to the same document.
func TestImportExportOctLiteralScenario(t *testing.T) {
	doc := `{"kty":"oct","k":"AAPapAv4LbFbiVawEjagUBluYqN5rhna-8nuldDvOx8"}`
	key, err := jwk.Import([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, jwk.KtyOct, key.Kty())
	require.Equal(t, 256, key.KeySizeBits())

	exported, err := key.Export(true)
	require.NoError(t, err)
	require.Equal(t, doc, string(exported))
}

func TestImportExportRoundTripOct(t *testing.T) {
	key, err := jwk.CreateOctRandom(128)
	require.NoError(t, err)

	exported, err := key.Export(true)
	require.NoError(t, err)

	imported, err := jwk.Import(exported)
	require.NoError(t, err)

	reexported, err := imported.Export(true)
	require.NoError(t, err)
	require.Equal(t, exported, reexported)
}

// Literal scenario S3: a fixed 32-byte private scalar on P-256 derives
// x,y coordinates that are themselves exactly 32 bytes and lie on the curve.
func TestCreateECSpecFixedScalarLiteralScenario(t *testing.T) {
	d := make([]byte, 32)
	for i := range d {
		d[i] = byte(i + 1)
	}
	key, err := jwk.CreateECSpec(jwk.P256, d, nil, nil)
	require.NoError(t, err)

	curve, x, y, priv, err := key.ECFields()
	require.NoError(t, err)
	require.Equal(t, jwk.P256, curve)
	require.Len(t, x, 32)
	require.Len(t, y, 32)
	require.Equal(t, d, priv)

	pub, err := key.ECPublicKey()
	require.NoError(t, err)
	require.True(t, pub.Curve.IsOnCurve(pub.X, pub.Y))
}

func TestCreateECRandomEachCurve(t *testing.T) {
	for _, curve := range []jwk.Curve{jwk.P256, jwk.P384, jwk.P521} {
		key, err := jwk.CreateECRandom(curve)
		require.NoError(t, err)
		require.Equal(t, jwk.KtyEC, key.Kty())
		require.True(t, key.IsPrivate())

		pub, err := key.ECPublicKey()
		require.NoError(t, err)
		require.True(t, pub.Curve.IsOnCurve(pub.X, pub.Y))
	}
}

func TestCreateECSpecRejectsPointNotOnCurve(t *testing.T) {
	x := make([]byte, 32)
	y := make([]byte, 32)
	x[31] = 1
	y[31] = 1
	_, err := jwk.CreateECSpec(jwk.P256, nil, x, y)
	require.ErrorIs(t, err, jwk.ErrCrypto)
}

func TestImportExportRoundTripEC(t *testing.T) {
	key, err := jwk.CreateECRandom(jwk.P256)
	require.NoError(t, err)

	exported, err := key.Export(true)
	require.NoError(t, err)

	imported, err := jwk.Import(exported)
	require.NoError(t, err)
	reexported, err := imported.Export(true)
	require.NoError(t, err)
	require.Equal(t, exported, reexported)

	publicOnly, err := key.Export(false)
	require.NoError(t, err)
	importedPublic, err := jwk.Import(publicOnly)
	require.NoError(t, err)
	require.False(t, importedPublic.IsPrivate())
}

func TestCreateRSARandomAndRoundTrip(t *testing.T) {
	key, err := jwk.CreateRSARandom(2048, nil)
	require.NoError(t, err)
	require.Equal(t, jwk.KtyRSA, key.Kty())
	require.True(t, key.IsPrivate())

	exported, err := key.Export(true)
	require.NoError(t, err)
	imported, err := jwk.Import(exported)
	require.NoError(t, err)

	n1, e1, d1, _, _, _, _, _, err := key.RSAFields()
	require.NoError(t, err)
	n2, e2, d2, _, _, _, _, _, err := imported.RSAFields()
	require.NoError(t, err)
	require.Equal(t, n1, n2)
	require.Equal(t, e1, e2)
	require.Equal(t, d1, d2)
}

func TestCreateRSARandomRejectsNonDefaultExponent(t *testing.T) {
	_, err := jwk.CreateRSARandom(2048, big.NewInt(3))
	require.ErrorIs(t, err, jwk.ErrInvalidArg)
}

func TestDeriveECDHSymmetry(t *testing.T) {
	alice, err := jwk.CreateECRandom(jwk.P256)
	require.NoError(t, err)
	bob, err := jwk.CreateECRandom(jwk.P256)
	require.NoError(t, err)

	_, aliceX, aliceY, _, err := alice.ECFields()
	require.NoError(t, err)
	alicePublic, err := jwk.CreateECSpec(jwk.P256, nil, aliceX, aliceY)
	require.NoError(t, err)

	_, bobX, bobY, _, err := bob.ECFields()
	require.NoError(t, err)
	bobPublic, err := jwk.CreateECSpec(jwk.P256, nil, bobX, bobY)
	require.NoError(t, err)

	fromAlice, err := jwk.DeriveECDH(alice, bobPublic)
	require.NoError(t, err)
	fromBob, err := jwk.DeriveECDH(bob, alicePublic)
	require.NoError(t, err)

	secretAlice, err := fromAlice.OctKey()
	require.NoError(t, err)
	secretBob, err := fromBob.OctKey()
	require.NoError(t, err)
	require.Equal(t, secretAlice, secretBob)
	require.Len(t, secretAlice, 32)
}

func TestDeriveECDHRejectsCurveMismatch(t *testing.T) {
	alice, err := jwk.CreateECRandom(jwk.P256)
	require.NoError(t, err)
	bob, err := jwk.CreateECRandom(jwk.P384)
	require.NoError(t, err)

	_, err = jwk.DeriveECDH(alice, bob)
	require.ErrorIs(t, err, jwk.ErrInvalidArg)
}

func TestReleaseZeroesSecretMaterial(t *testing.T) {
	key, err := jwk.CreateOctRandom(128)
	require.NoError(t, err)
	key.Release()

	raw, err := key.OctKey()
	require.NoError(t, err)
	for _, b := range raw {
		require.Zero(t, b)
	}
}
