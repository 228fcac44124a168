package service

import (
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/field"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/snip12"
)

// MessageOptions selects the domain and scheme of a hash request. Zero
// values fall back to the configured defaults.
type MessageOptions struct {
	Domain *snip12.Domain `json:"domain,omitempty"`
	Scheme string         `json:"scheme,omitempty"`
}

// HashOrderRequest carries an order in its wire encoding: ids in hex,
// amounts and salt in decimal.
type HashOrderRequest struct {
	PositionID   string `json:"position_id"`
	BaseAssetID  string `json:"base_asset_id"`
	BaseAmount   string `json:"base_amount"`
	QuoteAssetID string `json:"quote_asset_id"`
	QuoteAmount  string `json:"quote_amount"`
	FeeAssetID   string `json:"fee_asset_id"`
	FeeAmount    string `json:"fee_amount"`
	Expiration   string `json:"expiration"`
	Salt         string `json:"salt"`
	PublicKey    string `json:"public_key"`
	MessageOptions
}

// HashTransferRequest carries transfer arguments.
type HashTransferRequest struct {
	Recipient    string `json:"recipient"`
	PositionID   string `json:"position_id"`
	CollateralID string `json:"collateral_id"`
	Amount       string `json:"amount"`
	Expiration   string `json:"expiration"`
	Salt         string `json:"salt"`
	PublicKey    string `json:"public_key"`
	MessageOptions
}

// HashWithdrawalRequest carries withdrawal arguments. Recipient is a
// contract address in hex.
type HashWithdrawalRequest struct {
	Recipient    string `json:"recipient"`
	PositionID   string `json:"position_id"`
	CollateralID string `json:"collateral_id"`
	Amount       string `json:"amount"`
	Expiration   string `json:"expiration"`
	Salt         string `json:"salt"`
	PublicKey    string `json:"public_key"`
	MessageOptions
}

// SignatureDTO is a signature with hex components. V may be empty when only
// verifying.
type SignatureDTO struct {
	R string `json:"r"`
	S string `json:"s"`
	V string `json:"v,omitempty"`
}

// KeyPair is a derived STARK key pair.
type KeyPair struct {
	PrivateKey string `json:"private_key"`
	PublicKey  string `json:"public_key"`
}

// decoder decodes wire fields and keeps the first error.
type decoder struct {
	err error
}

func (d *decoder) hex(name, s string) field.Felt {
	if d.err != nil {
		return field.Felt{}
	}
	f, err := field.ParseHex(name, s)
	d.err = err
	return f
}

func (d *decoder) dec(name, s string) field.Felt {
	if d.err != nil {
		return field.Felt{}
	}
	f, err := field.ParseDecimal(name, s)
	d.err = err
	return f
}

func (d *decoder) u32(name, s string) uint32 {
	if d.err != nil {
		return 0
	}
	v, err := field.ParseUint32(name, s)
	d.err = err
	return v
}

func (d *decoder) u64(name, s string) uint64 {
	if d.err != nil {
		return 0
	}
	v, err := field.ParseUint64(name, s)
	d.err = err
	return v
}

func (d *decoder) i64(name, s string) int64 {
	if d.err != nil {
		return 0
	}
	v, err := field.ParseInt64(name, s)
	d.err = err
	return v
}

func (r *HashOrderRequest) decode() (snip12.Order, field.Felt, error) {
	var d decoder
	o := snip12.Order{
		PositionID:   d.u32("position_id", r.PositionID),
		BaseAssetID:  d.hex("base_asset_id", r.BaseAssetID),
		BaseAmount:   d.i64("base_amount", r.BaseAmount),
		QuoteAssetID: d.hex("quote_asset_id", r.QuoteAssetID),
		QuoteAmount:  d.i64("quote_amount", r.QuoteAmount),
		FeeAssetID:   d.hex("fee_asset_id", r.FeeAssetID),
		FeeAmount:    d.u64("fee_amount", r.FeeAmount),
		Expiration:   d.u64("expiration", r.Expiration),
		Salt:         d.dec("salt", r.Salt),
	}
	key := d.hex("public_key", r.PublicKey)
	return o, key, d.err
}

func (r *HashTransferRequest) decode() (snip12.TransferArgs, field.Felt, error) {
	var d decoder
	t := snip12.TransferArgs{
		Recipient:    d.u32("recipient", r.Recipient),
		PositionID:   d.u32("position_id", r.PositionID),
		CollateralID: d.hex("collateral_id", r.CollateralID),
		Amount:       d.u64("amount", r.Amount),
		Expiration:   d.u64("expiration", r.Expiration),
		Salt:         d.dec("salt", r.Salt),
	}
	key := d.hex("public_key", r.PublicKey)
	return t, key, d.err
}

func (r *HashWithdrawalRequest) decode() (snip12.WithdrawArgs, field.Felt, error) {
	var d decoder
	w := snip12.WithdrawArgs{
		Recipient:    d.hex("recipient", r.Recipient),
		PositionID:   d.u32("position_id", r.PositionID),
		CollateralID: d.hex("collateral_id", r.CollateralID),
		Amount:       d.u64("amount", r.Amount),
		Expiration:   d.u64("expiration", r.Expiration),
		Salt:         d.dec("salt", r.Salt),
	}
	key := d.hex("public_key", r.PublicKey)
	return w, key, d.err
}
