package stark

import (
	"crypto/hmac"
	"crypto/sha256"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fr"

	"github.com/eidos-exchange/eidos/eidos-stark/pkg/field"
)

// generateK derives the RFC 6979 nonce (HMAC-SHA256 DRBG) for priv and msg.
// seed is passed as additional data with its leading zero bytes removed, so
// the zero seed and no seed agree. Candidates are the top 252 bits of V and
// are accepted when 0 < k < n.
func generateK(priv, msg, seed field.Felt) fr.Element {
	x := priv.Bytes()
	h := msg.Bytes()
	sb := seed.Bytes()
	extra := trimLeadingZeros(sb[:])

	v := make([]byte, sha256.Size)
	k := make([]byte, sha256.Size)
	for i := range v {
		v[i] = 0x01
	}

	for _, sep := range []byte{0x00, 0x01} {
		k = mac(k, v, []byte{sep}, x[:], h[:], extra)
		v = mac(k, v)
	}

	for {
		v = mac(k, v)

		var cand [ScalarBytes]byte
		copy(cand[:], v)
		shiftRight4(&cand)
		if inRange(&cand, &orderBytes) {
			var out fr.Element
			out.SetBytes(cand[:])
			return out
		}

		k = mac(k, v, []byte{0x00})
		v = mac(k, v)
	}
}

func mac(key []byte, parts ...[]byte) []byte {
	m := hmac.New(sha256.New, key)
	for _, p := range parts {
		m.Write(p)
	}
	return m.Sum(nil)
}

// shiftRight4 drops the low nibble, keeping the top 252 bits of a 256-bit
// DRBG output (bits2int for a 252-bit order).
func shiftRight4(b *[ScalarBytes]byte) {
	for i := ScalarBytes - 1; i > 0; i-- {
		b[i] = b[i]>>4 | b[i-1]<<4
	}
	b[0] >>= 4
}

func trimLeadingZeros(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	return b[i:]
}
