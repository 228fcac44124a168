package stark

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eidos-exchange/eidos/eidos-stark/pkg/errors"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/field"
)

// =============================================================================
// Test Fixtures
// =============================================================================

// testEthSignature is a personal_sign signature from a throwaway wallet.
const testEthSignature = "0x9ef64d5936681edf44b4a7ad713f3bc24065d4039562af03fccf6a08d6996eab367df11439169b417b6a6d8ce81d409edb022597ce193916757c7d5d9cbf97301c"

const (
	testPrivateKeyDec = "3554363360756768076148116215296798451844584215587910826843139626172125285444"
	testPublicKeyHex  = "0x78298687996aff29a0bbcb994e1305db082d084f85ec38bb78c41e6787740ec"
)

// hardhat account #0, public test key
const testEthKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func testPrivateKey(t *testing.T) field.Felt {
	t.Helper()
	f, err := field.ParseDecimal("private_key", testPrivateKeyDec)
	require.NoError(t, err)
	return f
}

func mustHex(t *testing.T, s string) field.Felt {
	t.Helper()
	f, err := field.ParseHex("test", s)
	require.NoError(t, err)
	return f
}

func mustFelt(t *testing.T, v *big.Int) field.Felt {
	t.Helper()
	f, err := field.FromBigInt("test", v)
	require.NoError(t, err)
	return f
}

func pow2(n uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), n)
}

// =============================================================================
// Constant-time helper Tests
// =============================================================================

func TestLessThan(t *testing.T) {
	var a, b [ScalarBytes]byte
	assert.False(t, lessThan(&a, &b))

	b[31] = 1
	assert.True(t, lessThan(&a, &b))
	assert.False(t, lessThan(&b, &a))

	a[0] = 0x01
	b[0] = 0x01
	b[31] = 0x00
	a[31] = 0xff
	assert.False(t, lessThan(&a, &b))
	assert.True(t, lessThan(&b, &a))

	assert.True(t, lessThan(&boundBytes, &orderBytes))
	assert.False(t, lessThan(&orderBytes, &orderBytes))
}

func TestInRange(t *testing.T) {
	var zero, one [ScalarBytes]byte
	one[31] = 1
	assert.False(t, inRange(&zero, &orderBytes))
	assert.True(t, inRange(&one, &orderBytes))
	assert.False(t, inRange(&orderBytes, &orderBytes))
}

func TestShiftRight4(t *testing.T) {
	var b [ScalarBytes]byte
	for i := range b {
		b[i] = 0xff
	}
	shiftRight4(&b)
	assert.Equal(t, byte(0x0f), b[0])
	assert.Equal(t, byte(0xff), b[31])

	want := new(big.Int).Rsh(new(big.Int).Sub(pow2(256), big.NewInt(1)), 4)
	assert.Equal(t, 0, want.Cmp(new(big.Int).SetBytes(b[:])))
}

func TestCurveConstants(t *testing.T) {
	assert.Equal(t, "800000000000010ffffffffffffffffb781126dcae7b2321e66a241adc64d2f", CurveOrder().Text(16))

	g := Generator()
	assert.True(t, g.IsOnCurve())
	assert.Equal(t, "0x1ef15c18599971b7beced415a40f0c7deacfd9b0d1819e03d723d8bc943cfca", field.FromElement(g.X).Hex())
}

// =============================================================================
// Key Derivation Tests
// =============================================================================

func TestDerivePrivateKeyHex(t *testing.T) {
	got, err := DerivePrivateKeyHex(testEthSignature)
	require.NoError(t, err)
	assert.Equal(t, testPrivateKeyDec, got.Text(10))

	noPrefix, err := DerivePrivateKeyHex(testEthSignature[2:])
	require.NoError(t, err)
	assert.Equal(t, got, noPrefix)

	again, err := DerivePrivateKeyHex(testEthSignature)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestDerivePrivateKey_OnlyRMatters(t *testing.T) {
	raw, err := hex.DecodeString(testEthSignature[2:])
	require.NoError(t, err)

	altered := append([]byte(nil), raw...)
	altered[40] ^= 0xff
	altered[64] = 0x1b

	a, err := DerivePrivateKey(raw)
	require.NoError(t, err)
	b, err := DerivePrivateKey(altered)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	altered[0] ^= 0x01
	c, err := DerivePrivateKey(altered)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestDerivePrivateKey_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr *errors.Error
	}{
		{"empty", "", errors.ErrKeyDerivationFailure},
		{"prefix only", "0x", errors.ErrKeyDerivationFailure},
		{"short", testEthSignature[:len(testEthSignature)-2], errors.ErrKeyDerivationFailure},
		{"long", testEthSignature + "00", errors.ErrKeyDerivationFailure},
		{"odd length", testEthSignature + "0", errors.ErrInvalidHexEncoding},
		{"not hex", "0x" + "zz" + testEthSignature[4:], errors.ErrInvalidHexEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DerivePrivateKeyHex(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, "eth_signature", errors.FieldOf(err))
		})
	}
}

func TestDerivePrivateKey_ZeroR(t *testing.T) {
	sig := make([]byte, EthSignatureLen)
	key, err := DerivePrivateKey(sig)
	require.NoError(t, err)
	assert.False(t, key.IsZero())
	assert.Equal(t, -1, key.BigInt().Cmp(CurveOrder()))
}

func TestDeriveKeyPair(t *testing.T) {
	raw, err := hex.DecodeString(testEthSignature[2:])
	require.NoError(t, err)

	priv, pub, err := DeriveKeyPair(raw)
	require.NoError(t, err)
	assert.Equal(t, testPrivateKeyDec, priv.Text(10))
	assert.Equal(t, testPublicKeyHex, pub.Hex())
}

func TestRecoverEthereumAddress(t *testing.T) {
	key, err := crypto.HexToECDSA(testEthKeyHex)
	require.NoError(t, err)
	want := crypto.PubkeyToAddress(key.PublicKey)

	digest := PersonalMessageDigest([]byte("Sign in to Perpetuals"))
	sig, err := crypto.Sign(digest, key)
	require.NoError(t, err)

	got, err := RecoverEthereumAddress(digest, sig)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// wallets return v as 27/28
	sig[64] += 27
	got, err = RecoverEthereumAddress(digest, sig)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = RecoverEthereumAddress(digest, sig[:64])
	assert.ErrorIs(t, err, errors.ErrKeyDerivationFailure)

	// the derived STARK key only depends on the wallet signature
	_, err = DerivePrivateKey(sig)
	assert.NoError(t, err)
}

// =============================================================================
// Signer Tests
// =============================================================================

func TestPublicKey(t *testing.T) {
	pub, err := PublicKey(testPrivateKey(t))
	require.NoError(t, err)
	assert.Equal(t, testPublicKeyHex, pub.Hex())

	one, err := PublicKey(field.FromUint64(1))
	require.NoError(t, err)
	assert.Equal(t, "0x1ef15c18599971b7beced415a40f0c7deacfd9b0d1819e03d723d8bc943cfca", one.Hex())
}

func TestSign_KnownVectors(t *testing.T) {
	priv := testPrivateKey(t)
	tests := []struct {
		name string
		msg  field.Felt
		r    string
		s    string
	}{
		{
			name: "0x12345",
			msg:  field.FromUint64(0x12345),
			r:    "0x6490498b85b4eedb02416848deb856ecbcdd053d245ceb90281c30b66209ce5",
			s:    "0x5a831dcb96e04dda2128cde7361227a5267462799a9eb0e5140a90047ef06",
		},
		{
			name: "zero hash",
			msg:  field.Felt{},
			r:    "0x511077e5497dc92798f97c8341051bf331551dd3914eab48585d0ee956f9044",
			s:    "0x13728cc9d007a1f9adc213b921e8d9ca56e24a98c15e35c280022714231c197",
		},
		{
			name: "one",
			msg:  field.FromUint64(1),
			r:    "0x6bad1a96ef8c7f4320519cd7ed2bc0a49b09bbc0a11dc83d7a4e45c57fc53a6",
			s:    "0x3560f75811a94d29024fa55142b80a4c6e8031c18eb26780d55f425ad7ca551",
		},
		{
			name: "largest hash",
			msg:  mustFelt(t, new(big.Int).Sub(pow2(251), big.NewInt(1))),
			r:    "0x5a13f3acf9a23445ab41c123e7fda72583e0583c44ec2c4213dbdb1a683ce94",
			s:    "0x21a935b963676dd2d408bd900f5d775ec093701f406cfae899b20aec72c2e48",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := Sign(priv, tt.msg)
			require.NoError(t, err)
			assert.Equal(t, tt.r, sig.R.Hex())
			assert.Equal(t, tt.s, sig.S.Hex())
			assert.Equal(t, "0x1", sig.V.Hex())
		})
	}
}

func TestSign_Deterministic(t *testing.T) {
	priv := testPrivateKey(t)
	msg := mustHex(t, "0x56c7b21d13b79a33d7700dda20e22246c25e89818249504148174f527fc3f8f")

	a, err := Sign(priv, msg)
	require.NoError(t, err)
	b, err := Sign(priv, msg)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSign_Errors(t *testing.T) {
	priv := testPrivateKey(t)

	_, err := Sign(field.Felt{}, field.FromUint64(1))
	assert.ErrorIs(t, err, errors.ErrSigningFailure)
	assert.Equal(t, "private_key", errors.FieldOf(err))

	_, err = Sign(mustFelt(t, CurveOrder()), field.FromUint64(1))
	assert.ErrorIs(t, err, errors.ErrSigningFailure)

	_, err = Sign(priv, mustFelt(t, pow2(251)))
	assert.ErrorIs(t, err, errors.ErrSigningFailure)
	assert.Equal(t, "message_hash", errors.FieldOf(err))

	_, err = PublicKey(field.Felt{})
	assert.ErrorIs(t, err, errors.ErrSigningFailure)
}

func TestGenerateK_SeedChangesNonce(t *testing.T) {
	priv := testPrivateKey(t)
	msg := field.FromUint64(0x12345)

	k0 := generateK(priv, msg, field.Felt{})
	k1 := generateK(priv, msg, field.FromUint64(1))
	k2 := generateK(priv, msg, field.FromUint64(2))
	assert.NotEqual(t, k0, k1)
	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, generateK(priv, msg, field.FromUint64(1)))
}

// =============================================================================
// Verify Tests
// =============================================================================

func TestSignVerify_RoundTrip(t *testing.T) {
	keys := []field.Felt{
		field.FromUint64(1),
		field.FromUint64(0xdeadbeef),
		testPrivateKey(t),
		mustFelt(t, new(big.Int).Sub(CurveOrder(), big.NewInt(1))),
	}
	msgs := []field.Felt{
		field.Felt{},
		field.FromUint64(0x12345),
		mustHex(t, "0x56c7b21d13b79a33d7700dda20e22246c25e89818249504148174f527fc3f8f"),
	}

	for _, priv := range keys {
		pub, err := PublicKey(priv)
		require.NoError(t, err)
		for _, msg := range msgs {
			sig, err := Sign(priv, msg)
			require.NoError(t, err)
			assert.True(t, Verify(pub, msg, sig), "key %s msg %s", priv, msg)

			recovered, err := RecoverPublicKey(msg, sig)
			require.NoError(t, err)
			assert.Equal(t, pub, recovered)
		}
	}
}

func TestVerify_Rejects(t *testing.T) {
	priv := testPrivateKey(t)
	pub := mustHex(t, testPublicKeyHex)
	msg := field.FromUint64(0x12345)
	sig, err := Sign(priv, msg)
	require.NoError(t, err)
	require.True(t, Verify(pub, msg, sig))

	one := field.FromUint64(1)
	tests := []struct {
		name string
		pub  field.Felt
		msg  field.Felt
		sig  Signature
	}{
		{"other message", pub, field.FromUint64(0x12346), sig},
		{"other key", mustHex(t, "0x1ef15c18599971b7beced415a40f0c7deacfd9b0d1819e03d723d8bc943cfca"), msg, sig},
		{"key not on curve", field.FromUint64(5), msg, sig},
		{"tampered r", pub, msg, Signature{R: sig.R.Add(one), S: sig.S, V: sig.V}},
		{"tampered s", pub, msg, Signature{R: sig.R, S: sig.S.Add(one), V: sig.V}},
		{"zero r", pub, msg, Signature{S: sig.S, V: sig.V}},
		{"zero s", pub, msg, Signature{R: sig.R, V: sig.V}},
		{"r too large", pub, msg, Signature{R: mustFelt(t, pow2(251)), S: sig.S}},
		{"s too large", pub, msg, Signature{R: sig.R, S: mustFelt(t, pow2(251))}},
		{"hash too large", pub, mustFelt(t, pow2(251)), sig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Verify(tt.pub, tt.msg, tt.sig))
		})
	}
}

func TestVerify_IgnoresV(t *testing.T) {
	priv := testPrivateKey(t)
	pub := mustHex(t, testPublicKeyHex)
	msg := field.FromUint64(0x12345)
	sig, err := Sign(priv, msg)
	require.NoError(t, err)

	sig.V = field.Felt{}
	assert.True(t, Verify(pub, msg, sig))
}

func TestRecoverPublicKey_Errors(t *testing.T) {
	priv := testPrivateKey(t)
	msg := field.FromUint64(0x12345)
	sig, err := Sign(priv, msg)
	require.NoError(t, err)

	bad := sig
	bad.V = field.FromUint64(2)
	_, err = RecoverPublicKey(msg, bad)
	assert.ErrorIs(t, err, errors.ErrValueOutOfRange)
	assert.Equal(t, "signature.v", errors.FieldOf(err))

	bad = sig
	bad.R = field.FromUint64(5)
	_, err = RecoverPublicKey(msg, bad)
	assert.ErrorIs(t, err, errors.ErrValueOutOfRange)
	assert.Equal(t, "signature.r", errors.FieldOf(err))

	bad = sig
	bad.S = field.Felt{}
	_, err = RecoverPublicKey(msg, bad)
	assert.ErrorIs(t, err, errors.ErrValueOutOfRange)

	// the wrong parity recovers a different key
	flipped := sig
	flipped.V = field.Felt{}
	other, err := RecoverPublicKey(msg, flipped)
	require.NoError(t, err)
	assert.NotEqual(t, testPublicKeyHex, other.Hex())
}
