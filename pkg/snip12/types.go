package snip12

import (
	"golang.org/x/crypto/sha3"

	"github.com/eidos-exchange/eidos/eidos-stark/pkg/field"
)

// Encoded type strings. Referenced single-member structs are appended after
// the primary type in the order they are used.
const (
	DomainTypeString = `"StarknetDomain"("name":"shortstring","version":"shortstring","chainId":"shortstring","revision":"shortstring")`

	nestedTypes = `"PositionId"("value":"u32")"AssetId"("value":"felt")"Timestamp"("seconds":"u64")`

	// position_id is declared as felt in the deployed contract.
	OrderTypeString = `"Order"("position_id":"felt","base_asset_id":"AssetId","base_amount":"i64",` +
		`"quote_asset_id":"AssetId","quote_amount":"i64","fee_asset_id":"AssetId","fee_amount":"u64",` +
		`"expiration":"Timestamp","salt":"felt")` + nestedTypes

	TransferTypeString = `"TransferArgs"("recipient":"PositionId","position_id":"PositionId",` +
		`"collateral_id":"AssetId","amount":"u64","expiration":"Timestamp","salt":"felt")` + nestedTypes

	WithdrawTypeString = `"WithdrawArgs"("recipient":"ContractAddress","position_id":"PositionId",` +
		`"collateral_id":"AssetId","amount":"u64","expiration":"Timestamp","salt":"felt")` + nestedTypes
)

// Type hashes
var (
	DomainTypeHash   = TypeSelector(DomainTypeString)
	OrderTypeHash    = TypeSelector(OrderTypeString)
	TransferTypeHash = TypeSelector(TransferTypeString)
	WithdrawTypeHash = TypeSelector(WithdrawTypeString)
)

// TypeSelector returns starknet_keccak(s): Keccak-256 of s truncated to its
// low 250 bits. It is used for type hashes and entry point selectors.
func TypeSelector(s string) field.Felt {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(s))

	var out [field.Bytes]byte
	h.Sum(out[:0])
	out[0] &= 0x03
	return field.FromBytes(out)
}
