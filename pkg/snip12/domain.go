package snip12

import (
	"strconv"

	"github.com/eidos-exchange/eidos/eidos-stark/pkg/errors"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/field"
)

// Domain binds every message hash to one protocol deployment.
type Domain struct {
	Name     string `json:"name" yaml:"name"`
	Version  string `json:"version" yaml:"version"`
	ChainID  string `json:"chainId" yaml:"chain_id"`
	Revision string `json:"revision" yaml:"revision"`
}

// typedRevisions maps each revision accepted by SchemeTypedV1 to its domain
// type hash.
var typedRevisions = map[uint64]field.Felt{
	1: DomainTypeHash,
}

// Validate checks every domain field against the given scheme. It performs
// all the checks DomainHash performs, without hashing.
func (d Domain) Validate(scheme Scheme) error {
	_, err := d.encode(scheme)
	return err
}

// DomainHash returns Poseidon(domain_type_hash, name, version, chain_id,
// revision). Name, version and chain id are short strings; the revision is
// encoded according to scheme.
func DomainHash(d Domain, scheme Scheme) (field.Felt, error) {
	elems, err := d.encode(scheme)
	if err != nil {
		return field.Felt{}, err
	}
	return PoseidonMany(elems...), nil
}

func (d Domain) encode(scheme Scheme) ([]field.Felt, error) {
	if !scheme.Valid() {
		return nil, errors.ErrSchemeMismatch.WithField("scheme").WithMessage("scheme not set")
	}

	name, err := field.ShortString("domain.name", d.Name)
	if err != nil {
		return nil, err
	}
	version, err := field.ShortString("domain.version", d.Version)
	if err != nil {
		return nil, err
	}
	chainID, err := field.ShortString("domain.chain_id", d.ChainID)
	if err != nil {
		return nil, err
	}

	typeHash := DomainTypeHash
	var revision field.Felt
	switch scheme {
	case SchemeLegacy:
		revision, err = field.ShortString("domain.revision", d.Revision)
		if err != nil {
			return nil, err
		}
	case SchemeTypedV1:
		typeHash, revision, err = typedRevision(d.Revision)
		if err != nil {
			return nil, err
		}
	}

	return []field.Felt{typeHash, name, version, chainID, revision}, nil
}

func typedRevision(s string) (field.Felt, field.Felt, error) {
	n, err := field.ParseUint64("domain.revision", s)
	if err != nil {
		return field.Felt{}, field.Felt{}, errors.Wrap(
			errors.ErrSchemeMismatch.WithField("domain.revision").
				WithMessagef("revision %q is not an integer", s), err)
	}
	typeHash, ok := typedRevisions[n]
	if !ok {
		return field.Felt{}, field.Felt{}, errors.ErrSchemeMismatch.WithField("domain.revision").
			WithMessage("no typed domain registered for revision " + strconv.FormatUint(n, 10))
	}
	return typeHash, field.FromUint64(n), nil
}
