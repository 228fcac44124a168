package field

import (
	stderrors "errors"
	"math/big"
	"strconv"

	"github.com/eidos-exchange/eidos/eidos-stark/pkg/errors"
)

// ParseHex decodes an optionally 0x-prefixed hex string into a felt.
// Values not below the field prime are rejected, never reduced.
func ParseHex(name, s string) (Felt, error) {
	digits := trimHexPrefix(s)
	if digits == "" {
		return Felt{}, errors.ErrInvalidHexEncoding.WithField(name).WithMessage("no hex digits")
	}
	for i := 0; i < len(digits); i++ {
		if !isHexDigit(digits[i]) {
			return Felt{}, errors.ErrInvalidHexEncoding.WithField(name).
				WithMessagef("invalid character %q at offset %d", digits[i], i+len(s)-len(digits))
		}
	}
	v, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return Felt{}, errors.ErrInvalidHexEncoding.WithField(name)
	}
	return FromBigInt(name, v)
}

// ParseDecimal decodes an unsigned base-10 string into a felt.
func ParseDecimal(name, s string) (Felt, error) {
	if negative(s) {
		return Felt{}, errValueOutOfRange(name, "value must be non-negative")
	}
	if err := checkDigits(name, s, false); err != nil {
		return Felt{}, err
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Felt{}, errors.ErrInvalidDecimalEncoding.WithField(name)
	}
	return FromBigInt(name, v)
}

// ParseUint32 decodes a strict base-10 uint32 (position ids).
func ParseUint32(name, s string) (uint32, error) {
	v, err := parseUint(name, s, 32)
	return uint32(v), err
}

// ParseUint64 decodes a strict base-10 uint64 (amounts, fees, timestamps).
func ParseUint64(name, s string) (uint64, error) {
	return parseUint(name, s, 64)
}

// ParseInt64 decodes a strict base-10 int64. A single leading '-' is the only
// sign accepted.
func ParseInt64(name, s string) (int64, error) {
	if err := checkDigits(name, s, true); err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, numError(name, err, 64)
	}
	return v, nil
}

func parseUint(name, s string, bits int) (uint64, error) {
	if negative(s) {
		return 0, errValueOutOfRange(name, "value must be non-negative")
	}
	if err := checkDigits(name, s, false); err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return 0, numError(name, err, bits)
	}
	return v, nil
}

// checkDigits runs before strconv, which would otherwise accept a leading '+'
// and, for base 0, underscores and prefixes.
func checkDigits(name, s string, signed bool) error {
	digits := s
	if signed && len(digits) > 0 && digits[0] == '-' {
		digits = digits[1:]
	}
	if digits == "" {
		return errors.ErrInvalidDecimalEncoding.WithField(name).WithMessage("no decimal digits")
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return errors.ErrInvalidDecimalEncoding.WithField(name).
				WithMessagef("invalid character %q at offset %d", digits[i], i+len(s)-len(digits))
		}
	}
	return nil
}

// negative reports whether s is a well-formed negative integer. Unsigned
// fields reject it as out of range, not as malformed.
func negative(s string) bool {
	return len(s) > 1 && s[0] == '-' && checkDigits("", s[1:], false) == nil
}

func numError(name string, err error, bits int) error {
	if stderrors.Is(err, strconv.ErrRange) {
		return errValueOutOfRange(name, "value does not fit in "+strconv.Itoa(bits)+" bits")
	}
	return errors.Wrap(errors.ErrInvalidDecimalEncoding.WithField(name), err)
}

func errValueOutOfRange(name, msg string) error {
	return errors.ErrValueOutOfRange.WithField(name).WithMessage(msg)
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
