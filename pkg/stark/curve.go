package stark

import (
	"crypto/subtle"
	"math/big"

	starkcurve "github.com/consensys/gnark-crypto/ecc/stark-curve"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fr"

	"github.com/eidos-exchange/eidos/eidos-stark/pkg/field"
)

// ScalarBytes is the width of a big-endian encoded scalar.
const ScalarBytes = fr.Bytes

var (
	// generator is the affine base point G.
	generator starkcurve.G1Affine
	// beta is the b coefficient of y^2 = x^3 + x + b.
	beta fp.Element

	// orderBytes is the curve order n, big-endian.
	orderBytes [ScalarBytes]byte
	// boundBytes is 2^251, the exclusive bound on message hashes and
	// signature components.
	boundBytes [ScalarBytes]byte
)

func init() {
	_, generator = starkcurve.Generators()
	_, beta = starkcurve.CurveCoefficients()
	fr.Modulus().FillBytes(orderBytes[:])
	boundBytes[0] = 0x08
}

// CurveOrder returns a fresh copy of the order n of the generator.
func CurveOrder() *big.Int {
	return fr.Modulus()
}

// Generator returns the base point G.
func Generator() starkcurve.G1Affine {
	return generator
}

// lessThan reports a < b for 32-byte big-endian integers. The running time
// does not depend on the values.
func lessThan(a, b *[ScalarBytes]byte) bool {
	var borrow int
	for i := ScalarBytes - 1; i >= 0; i-- {
		d := int(a[i]) - int(b[i]) - borrow
		borrow = (d >> 8) & 1
	}
	return borrow == 1
}

func isZero(a *[ScalarBytes]byte) bool {
	var zero [ScalarBytes]byte
	return subtle.ConstantTimeCompare(a[:], zero[:]) == 1
}

// inRange reports 0 < a < bound in constant time.
func inRange(a, bound *[ScalarBytes]byte) bool {
	return !isZero(a) && lessThan(a, bound)
}

// scalarFromFelt converts f into a scalar when 0 < f < n.
func scalarFromFelt(f field.Felt) (fr.Element, bool) {
	b := f.Bytes()
	if !inRange(&b, &orderBytes) {
		return fr.Element{}, false
	}
	var s fr.Element
	s.SetBytes(b[:])
	return s, true
}

// pointFromX returns a curve point with the given x coordinate. The y
// coordinate is one of the two roots; callers that need a specific parity
// negate it.
func pointFromX(x fp.Element) (starkcurve.G1Affine, bool) {
	var y2, t fp.Element
	y2.Square(&x).Mul(&y2, &x)
	y2.Add(&y2, &x)
	y2.Add(&y2, &beta)

	var p starkcurve.G1Affine
	if t.Sqrt(&y2) == nil {
		return p, false
	}
	p.X = x
	p.Y = t
	return p, true
}

// withParity returns p or -p, whichever has y & 1 == parity.
func withParity(p starkcurve.G1Affine, parity byte) starkcurve.G1Affine {
	if yParity(&p.Y) != parity {
		p.Neg(&p)
	}
	return p
}

func yParity(y *fp.Element) byte {
	b := y.Bytes()
	return b[fp.Bytes-1] & 1
}

func bigOf(s *fr.Element) *big.Int {
	return s.BigInt(new(big.Int))
}

func feltOfScalar(s *fr.Element) field.Felt {
	return field.FromBytes(s.Bytes())
}
