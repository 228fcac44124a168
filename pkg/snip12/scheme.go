package snip12

import (
	"strings"

	"github.com/eidos-exchange/eidos/eidos-stark/pkg/errors"
)

// Scheme selects how the domain revision is encoded. It is always passed
// explicitly; the zero value is not a scheme and every hashing call rejects it.
type Scheme uint8

const (
	// SchemeLegacy encodes the revision as a Cairo short string ("1" -> 0x31).
	SchemeLegacy Scheme = iota + 1
	// SchemeTypedV1 parses the revision as an integer and encodes it as a
	// numeric felt. Only registered revisions are accepted.
	SchemeTypedV1
)

func (s Scheme) String() string {
	switch s {
	case SchemeLegacy:
		return "legacy"
	case SchemeTypedV1:
		return "v1"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the declared schemes.
func (s Scheme) Valid() bool {
	return s == SchemeLegacy || s == SchemeTypedV1
}

// ParseScheme maps a scheme tag to a Scheme. Tags are case-insensitive.
func ParseScheme(tag string) (Scheme, error) {
	switch strings.ToLower(tag) {
	case "legacy":
		return SchemeLegacy, nil
	case "v1", "typed_v1":
		return SchemeTypedV1, nil
	default:
		return 0, errors.ErrSchemeMismatch.WithField("scheme").
			WithMessagef("unknown scheme %q", tag)
	}
}

// MarshalText encodes s as its tag.
func (s Scheme) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.ErrSchemeMismatch.WithField("scheme").WithMessage("scheme not set")
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a scheme tag.
func (s *Scheme) UnmarshalText(text []byte) error {
	v, err := ParseScheme(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
