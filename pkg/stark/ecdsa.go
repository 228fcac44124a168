package stark

import (
	starkcurve "github.com/consensys/gnark-crypto/ecc/stark-curve"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fr"

	"github.com/eidos-exchange/eidos/eidos-stark/pkg/errors"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/field"
)

// maxSignAttempts bounds the seed retries in Sign.
const maxSignAttempts = 64

// Signature is an ECDSA signature on the STARK curve. V is the parity of the
// y coordinate of k·G and selects the point used by RecoverPublicKey.
type Signature struct {
	R field.Felt `json:"r"`
	S field.Felt `json:"s"`
	V field.Felt `json:"v"`
}

// PublicKey returns the x coordinate of priv·G.
func PublicKey(priv field.Felt) (field.Felt, error) {
	d, ok := scalarFromFelt(priv)
	if !ok {
		return field.Felt{}, errInvalidPrivateKey()
	}
	var q starkcurve.G1Affine
	q.ScalarMultiplicationBase(bigOf(&d))
	return field.FromElement(q.X), nil
}

// Sign signs msg with priv. The nonce is derived deterministically, so the
// same key and hash always produce the same signature.
func Sign(priv, msg field.Felt) (Signature, error) {
	d, ok := scalarFromFelt(priv)
	if !ok {
		return Signature{}, errInvalidPrivateKey()
	}
	mb := msg.Bytes()
	if !lessThan(&mb, &boundBytes) {
		return Signature{}, errors.ErrSigningFailure.WithField("message_hash").
			WithMessage("message hash must be below 2^251")
	}
	var z fr.Element
	z.SetBytes(mb[:])

	var seed field.Felt
	one := field.FromUint64(1)
	for i := 0; i < maxSignAttempts; i++ {
		k := generateK(priv, msg, seed)
		if sig, ok := signWithK(&d, &z, &k); ok {
			return sig, nil
		}
		seed = seed.Add(one)
	}
	return Signature{}, errors.ErrSigningFailure.
		WithMessagef("no usable nonce after %d attempts", maxSignAttempts)
}

// signWithK reports false when r or s falls outside [1, 2^251).
func signWithK(d, z, k *fr.Element) (Signature, bool) {
	var p starkcurve.G1Affine
	p.ScalarMultiplicationBase(bigOf(k))

	rb := p.X.Bytes()
	if !inRange(&rb, &boundBytes) {
		return Signature{}, false
	}

	var r, s, kInv fr.Element
	r.SetBytes(rb[:])
	s.Mul(&r, d).Add(&s, z)
	kInv.Inverse(k)
	s.Mul(&s, &kInv)

	sb := s.Bytes()
	if !inRange(&sb, &boundBytes) {
		return Signature{}, false
	}

	return Signature{
		R: field.FromBytes(rb),
		S: field.FromBytes(sb),
		V: field.FromUint64(uint64(yParity(&p.Y))),
	}, true
}

// Verify reports whether sig is a valid signature of msg by the key whose x
// coordinate is pub. Either y coordinate is accepted. Malformed inputs yield
// false.
func Verify(pub, msg field.Felt, sig Signature) bool {
	mb := msg.Bytes()
	rb := sig.R.Bytes()
	sb := sig.S.Bytes()
	if !lessThan(&mb, &boundBytes) || !inRange(&rb, &boundBytes) || !inRange(&sb, &boundBytes) {
		return false
	}

	q, ok := pointFromX(pub.Element())
	if !ok {
		return false
	}

	var z, r, w, u1, u2 fr.Element
	z.SetBytes(mb[:])
	r.SetBytes(rb[:])
	w.SetBytes(sb[:])
	w.Inverse(&w)
	u1.Mul(&z, &w)
	u2.Mul(&r, &w)

	var a, b, sum, diff starkcurve.G1Affine
	a.ScalarMultiplicationBase(bigOf(&u1))
	b.ScalarMultiplication(&q, bigOf(&u2))
	sum.Add(&a, &b)
	diff.Sub(&a, &b)

	rx := sig.R.Element()
	return sum.X.Equal(&rx) || diff.X.Equal(&rx)
}

// RecoverPublicKey returns the public key that produced sig over msg, using
// V to pick the nonce point.
func RecoverPublicKey(msg field.Felt, sig Signature) (field.Felt, error) {
	mb := msg.Bytes()
	rb := sig.R.Bytes()
	sb := sig.S.Bytes()
	switch {
	case !lessThan(&mb, &boundBytes):
		return field.Felt{}, errOutOfRange("message_hash", "must be below 2^251")
	case !inRange(&rb, &boundBytes):
		return field.Felt{}, errOutOfRange("signature.r", "must be in [1, 2^251)")
	case !inRange(&sb, &boundBytes):
		return field.Felt{}, errOutOfRange("signature.s", "must be in [1, 2^251)")
	}
	v, ok := sig.V.Uint64()
	if !ok || v > 1 {
		return field.Felt{}, errOutOfRange("signature.v", "must be 0 or 1")
	}

	p, ok := pointFromX(sig.R.Element())
	if !ok {
		return field.Felt{}, errOutOfRange("signature.r", "not the x coordinate of a curve point")
	}
	p = withParity(p, byte(v))

	// Q = r⁻¹·(s·R − z·G)
	var z, r, s, rInv, u1, u2 fr.Element
	z.SetBytes(mb[:])
	r.SetBytes(rb[:])
	s.SetBytes(sb[:])
	rInv.Inverse(&r)
	u1.Mul(&s, &rInv)
	u2.Mul(&z, &rInv)

	var sr, zg, q starkcurve.G1Affine
	sr.ScalarMultiplication(&p, bigOf(&u1))
	zg.ScalarMultiplicationBase(bigOf(&u2))
	q.Sub(&sr, &zg)
	if q.IsInfinity() {
		return field.Felt{}, errOutOfRange("signature", "recovers the point at infinity")
	}
	return field.FromElement(q.X), nil
}

func errInvalidPrivateKey() error {
	return errors.ErrSigningFailure.WithField("private_key").
		WithMessage("private key must be in [1, n)")
}

func errOutOfRange(name, msg string) error {
	return errors.ErrValueOutOfRange.WithField(name).WithMessage(msg)
}
