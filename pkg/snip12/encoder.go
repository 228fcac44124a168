package snip12

import (
	"github.com/NethermindEth/juno/core/crypto"
	jfelt "github.com/NethermindEth/juno/core/felt"

	"github.com/eidos-exchange/eidos/eidos-stark/pkg/field"
)

// Hashable is a typed struct that can be folded into a structure hash.
type Hashable interface {
	// TypeHash is the selector of the struct's encoded type string.
	TypeHash() field.Felt
	// Encode returns the struct members in declaration order. Single-member
	// nested structs contribute their member in place.
	Encode() []field.Felt
}

// StructHash computes Poseidon(type_hash, member_1, ..., member_n).
func StructHash(h Hashable) field.Felt {
	members := h.Encode()
	elems := make([]field.Felt, 0, len(members)+1)
	elems = append(elems, h.TypeHash())
	elems = append(elems, members...)
	return PoseidonMany(elems...)
}

// PoseidonMany is the Poseidon sponge over elems (rate 2, padded with 1).
func PoseidonMany(elems ...field.Felt) field.Felt {
	in := make([]*jfelt.Felt, len(elems))
	for i := range elems {
		in[i] = elems[i].Juno()
	}
	h := crypto.PoseidonArray(in...)
	return field.FromBytes(h.Bytes())
}
