package snip12

import (
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/field"
)

// MessagePrefix is the short string "StarkNet Message".
var MessagePrefix = field.MustShortString("StarkNet Message")

// Order is a limit order on a perpetual market. Base and quote amounts are
// signed; a negative base amount sells.
type Order struct {
	PositionID   uint32
	BaseAssetID  field.Felt
	BaseAmount   int64
	QuoteAssetID field.Felt
	QuoteAmount  int64
	FeeAssetID   field.Felt
	FeeAmount    uint64
	Expiration   uint64
	Salt         field.Felt
}

func (Order) TypeHash() field.Felt { return OrderTypeHash }

func (o Order) Encode() []field.Felt {
	return []field.Felt{
		field.FromUint32(o.PositionID),
		o.BaseAssetID,
		field.FromInt64(o.BaseAmount),
		o.QuoteAssetID,
		field.FromInt64(o.QuoteAmount),
		o.FeeAssetID,
		field.FromUint64(o.FeeAmount),
		field.FromUint64(o.Expiration),
		o.Salt,
	}
}

// TransferArgs moves collateral between two positions.
type TransferArgs struct {
	Recipient    uint32
	PositionID   uint32
	CollateralID field.Felt
	Amount       uint64
	Expiration   uint64
	Salt         field.Felt
}

func (TransferArgs) TypeHash() field.Felt { return TransferTypeHash }

func (t TransferArgs) Encode() []field.Felt {
	return []field.Felt{
		field.FromUint32(t.Recipient),
		field.FromUint32(t.PositionID),
		t.CollateralID,
		field.FromUint64(t.Amount),
		field.FromUint64(t.Expiration),
		t.Salt,
	}
}

// WithdrawArgs withdraws collateral from a position to a contract address.
// The owner's public key is not a member; it enters the message hash as the
// signer key.
type WithdrawArgs struct {
	Recipient    field.Felt
	PositionID   uint32
	CollateralID field.Felt
	Amount       uint64
	Expiration   uint64
	Salt         field.Felt
}

func (WithdrawArgs) TypeHash() field.Felt { return WithdrawTypeHash }

func (w WithdrawArgs) Encode() []field.Felt {
	return []field.Felt{
		w.Recipient,
		field.FromUint32(w.PositionID),
		w.CollateralID,
		field.FromUint64(w.Amount),
		field.FromUint64(w.Expiration),
		w.Salt,
	}
}

// MessageHash validates the domain, then returns
// Poseidon("StarkNet Message", domain_hash, signer_key, struct_hash).
func MessageHash(msg Hashable, d Domain, signerKey field.Felt, scheme Scheme) (field.Felt, error) {
	domainHash, err := DomainHash(d, scheme)
	if err != nil {
		return field.Felt{}, err
	}
	return MessageHashWithDomain(msg, domainHash, signerKey), nil
}

// MessageHashWithDomain is MessageHash for a domain hash the caller already
// holds.
func MessageHashWithDomain(msg Hashable, domainHash, signerKey field.Felt) field.Felt {
	return PoseidonMany(MessagePrefix, domainHash, signerKey, StructHash(msg))
}

// HashOrder returns the message hash of an order.
func HashOrder(o Order, d Domain, signerKey field.Felt, scheme Scheme) (field.Felt, error) {
	return MessageHash(o, d, signerKey, scheme)
}

// HashTransfer returns the message hash of a transfer.
func HashTransfer(t TransferArgs, d Domain, signerKey field.Felt, scheme Scheme) (field.Felt, error) {
	return MessageHash(t, d, signerKey, scheme)
}

// HashWithdrawal returns the message hash of a withdrawal.
func HashWithdrawal(w WithdrawArgs, d Domain, signerKey field.Felt, scheme Scheme) (field.Felt, error) {
	return MessageHash(w, d, signerKey, scheme)
}
