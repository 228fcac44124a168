// Package snip12 computes SNIP-12 style off-chain message hashes for the
// perpetuals protocol: type hashes, structure hashes, the domain separator and
// the final message hash.
//
// Every hashing entry point takes an explicit Scheme. The same domain hashes
// differently under SchemeLegacy and SchemeTypedV1, and the package never
// infers one from the shape of the revision string.
//
//	domain := snip12.Domain{Name: "Perpetuals", Version: "v0", ChainID: "SN_SEPOLIA", Revision: "1"}
//	h, err := snip12.HashTransfer(args, domain, publicKey, snip12.SchemeTypedV1)
//
// All functions are pure. Callers that hash many messages for one domain may
// keep the result of DomainHash and call MessageHashWithDomain.
package snip12
