// Package field implements the STARK prime field element (felt) and the strict
// text codecs used to build one from caller input.
//
// The modulus is p = 2^251 + 17·2^192 + 1. A Felt is always canonical: every
// constructor either reduces (integer constructors, arithmetic) or rejects
// (text and big.Int decoders) values outside [0, p).
package field

import (
	"math/big"

	jfelt "github.com/NethermindEth/juno/core/felt"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

// Bytes is the width of a big-endian encoded felt.
const Bytes = fp.Bytes

// Felt is an element of the STARK field. The zero value is 0.
// Felts are comparable with ==.
type Felt struct {
	v fp.Element
}

// Modulus returns a fresh copy of the field prime.
func Modulus() *big.Int {
	return fp.Modulus()
}

// FromUint64 returns n as a felt.
func FromUint64(n uint64) Felt {
	var f Felt
	f.v.SetUint64(n)
	return f
}

// FromUint32 returns n as a felt.
func FromUint32(n uint32) Felt {
	return FromUint64(uint64(n))
}

// FromInt64 returns n as a felt. Negative values wrap to p - |n|, which is how
// Cairo converts an i64 into a felt252.
func FromInt64(n int64) Felt {
	var f Felt
	f.v.SetBigInt(new(big.Int).SetInt64(n))
	return f
}

// FromBigInt returns v as a felt, failing when v is negative or not below p.
func FromBigInt(name string, v *big.Int) (Felt, error) {
	if v.Sign() < 0 {
		return Felt{}, errValueOutOfRange(name, "negative value")
	}
	if v.Cmp(fp.Modulus()) >= 0 {
		return Felt{}, errValueOutOfRange(name, "value is not below the field prime")
	}
	var f Felt
	f.v.SetBigInt(v)
	return f, nil
}

// FromElement wraps a gnark-crypto field element.
func FromElement(e fp.Element) Felt {
	return Felt{v: e}
}

// FromBytes interprets b as a big-endian integer reduced mod p. Hash outputs
// are already canonical, so no reduction happens for them.
func FromBytes(b [Bytes]byte) Felt {
	var f Felt
	f.v.SetBytes(b[:])
	return f
}

// Juno converts f into a juno felt for the hash primitives that take one.
func (f Felt) Juno() *jfelt.Felt {
	b := f.v.Bytes()
	return new(jfelt.Felt).SetBytes(b[:])
}

// Element returns the underlying gnark-crypto field element.
func (f Felt) Element() fp.Element {
	return f.v
}

// BigInt returns f as a non-negative integer below p.
func (f Felt) BigInt() *big.Int {
	return f.v.BigInt(new(big.Int))
}

// Bytes returns the 32-byte big-endian encoding of f.
func (f Felt) Bytes() [Bytes]byte {
	return f.v.Bytes()
}

// Uint64 returns f as a uint64 and whether it fit.
func (f Felt) Uint64() (uint64, bool) {
	b := f.BigInt()
	if !b.IsUint64() {
		return 0, false
	}
	return b.Uint64(), true
}

// Hex returns the canonical lowercase, 0x-prefixed, minimal-width hex encoding.
func (f Felt) Hex() string {
	return "0x" + f.BigInt().Text(16)
}

// String implements fmt.Stringer with the canonical hex encoding.
func (f Felt) String() string {
	return f.Hex()
}

// Text returns f in the given base without prefix.
func (f Felt) Text(base int) string {
	return f.BigInt().Text(base)
}

// IsZero reports whether f is 0.
func (f Felt) IsZero() bool {
	return f.v.IsZero()
}

// Equal reports whether f and o are the same element.
func (f Felt) Equal(o Felt) bool {
	return f.v.Equal(&o.v)
}

// Cmp compares f and o as integers in [0, p).
func (f Felt) Cmp(o Felt) int {
	return f.v.Cmp(&o.v)
}

// Add returns f + o mod p.
func (f Felt) Add(o Felt) Felt {
	var r Felt
	r.v.Add(&f.v, &o.v)
	return r
}

// Sub returns f - o mod p.
func (f Felt) Sub(o Felt) Felt {
	var r Felt
	r.v.Sub(&f.v, &o.v)
	return r
}

// Mul returns f · o mod p.
func (f Felt) Mul(o Felt) Felt {
	var r Felt
	r.v.Mul(&f.v, &o.v)
	return r
}

// Neg returns -f mod p.
func (f Felt) Neg() Felt {
	var r Felt
	r.v.Neg(&f.v)
	return r
}

// MarshalText encodes f as canonical hex.
func (f Felt) MarshalText() ([]byte, error) {
	return []byte(f.Hex()), nil
}

// UnmarshalText decodes a hex felt with the same rules as ParseHex.
func (f *Felt) UnmarshalText(text []byte) error {
	v, err := ParseHex("felt", string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
