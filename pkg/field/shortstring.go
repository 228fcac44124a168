package field

import "github.com/eidos-exchange/eidos/eidos-stark/pkg/errors"

// MaxShortStringLen is the longest ASCII string that packs into one felt.
const MaxShortStringLen = 31

// ShortString packs an ASCII string of at most 31 bytes into a felt, big-endian,
// the way Cairo encodes 'short string' literals.
func ShortString(name, s string) (Felt, error) {
	if len(s) > MaxShortStringLen {
		return Felt{}, errValueOutOfRange(name, "short string longer than 31 characters")
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return Felt{}, errors.ErrValueOutOfRange.WithField(name).
				WithMessagef("non-ASCII byte at offset %d", i)
		}
	}
	var buf [Bytes]byte
	copy(buf[Bytes-len(s):], s)
	var f Felt
	f.v.SetBytes(buf[:])
	return f, nil
}

// MustShortString is ShortString for compile-time literals.
func MustShortString(s string) Felt {
	f, err := ShortString("literal", s)
	if err != nil {
		panic(err)
	}
	return f
}

// ShortStringText unpacks a felt produced by ShortString. Leading zero bytes
// are dropped, so the result is only meaningful for short-string felts.
func (f Felt) ShortStringText() string {
	b := f.Bytes()
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	return string(b[i:])
}
