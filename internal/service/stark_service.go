// Package service exposes STARK key derivation, signing and SNIP-12 message
// hashing over string-encoded requests.
package service

import (
	"context"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/eidos-exchange/eidos/eidos-stark/internal/config"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/errors"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/field"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/logger"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/snip12"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/stark"
)

// Signer check errors
var (
	ErrSignerMismatch  = errors.ErrKeyDerivationFailure.WithField("address").WithMessage("eth signature was not produced by address")
	ErrMessageRequired = errors.ErrInvalidRequest.WithField("message").WithMessage("message is required to check the signer address")

	errSignatureRequired = errors.ErrInvalidRequest.WithField("signature").WithMessage("signature is required")
)

// StarkService derives STARK keys, hashes perpetuals messages and signs them.
type StarkService interface {
	// DeriveKeyPair derives a key pair from an Ethereum signature, optionally
	// checking that address signed message
	DeriveKeyPair(ctx context.Context, req *DeriveKeyRequest) (*KeyPair, error)

	// PublicKey returns the public key of a hex private key
	PublicKey(ctx context.Context, privateKey string) (string, error)

	// Sign signs a hex message hash
	Sign(ctx context.Context, privateKey, messageHash string) (*SignatureDTO, error)

	// Verify reports whether sig is a valid signature of messageHash by publicKey
	Verify(ctx context.Context, publicKey, messageHash string, sig *SignatureDTO) (bool, error)

	// RecoverPublicKey recovers the signer key from a signature with V set
	RecoverPublicKey(ctx context.Context, messageHash string, sig *SignatureDTO) (string, error)

	// HashOrder returns the SNIP-12 hash of an order
	HashOrder(ctx context.Context, req *HashOrderRequest) (string, error)

	// HashTransfer returns the SNIP-12 hash of a transfer
	HashTransfer(ctx context.Context, req *HashTransferRequest) (string, error)

	// HashWithdrawal returns the SNIP-12 hash of a withdrawal
	HashWithdrawal(ctx context.Context, req *HashWithdrawalRequest) (string, error)
}

// DeriveKeyRequest carries a 65-byte Ethereum signature in hex. When Address
// is set the signature must recover to it over the personal-sign digest of
// Message.
type DeriveKeyRequest struct {
	EthSignature string `json:"eth_signature"`
	Message      string `json:"message,omitempty"`
	Address      string `json:"address,omitempty"`
}

type domainKey struct {
	domain snip12.Domain
	scheme snip12.Scheme
}

// starkService implements StarkService
type starkService struct {
	domain snip12.Domain
	scheme snip12.Scheme

	// domainKey -> field.Felt. Unbounded; the service lives for one CLI
	// invocation.
	domainHashes sync.Map
}

// NewStarkService creates a service whose requests default to the configured
// domain and scheme.
func NewStarkService(cfg *config.StarkConfig) (StarkService, error) {
	scheme, err := cfg.SchemeValue()
	if err != nil {
		return nil, err
	}
	domain := cfg.Domain.SnipDomain()
	if err := domain.Validate(scheme); err != nil {
		return nil, err
	}
	return &starkService{
		domain: domain,
		scheme: scheme,
	}, nil
}

func (s *starkService) DeriveKeyPair(ctx context.Context, req *DeriveKeyRequest) (*KeyPair, error) {
	raw, err := decodeEthSignature(req.EthSignature)
	if err != nil {
		return nil, err
	}

	if req.Address != "" {
		if req.Message == "" {
			return nil, ErrMessageRequired
		}
		if !common.IsHexAddress(req.Address) {
			return nil, errors.ErrInvalidHexEncoding.WithField("address").WithMessage("not an address")
		}
		signer, err := stark.RecoverEthereumAddress(stark.PersonalMessageDigest([]byte(req.Message)), raw)
		if err != nil {
			return nil, err
		}
		if signer != common.HexToAddress(req.Address) {
			logger.WithContext(ctx).Debug("eth signer mismatch",
				zap.String("expected", req.Address),
				zap.String("recovered", signer.Hex()))
			return nil, ErrSignerMismatch.WithDetail("recovered", signer.Hex())
		}
	}

	priv, pub, err := stark.DeriveKeyPair(raw)
	if err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Debug("stark key derived", zap.String("public_key", pub.Hex()))

	return &KeyPair{
		PrivateKey: priv.Hex(),
		PublicKey:  pub.Hex(),
	}, nil
}

func (s *starkService) PublicKey(ctx context.Context, privateKey string) (string, error) {
	priv, err := field.ParseHex("private_key", privateKey)
	if err != nil {
		return "", err
	}
	pub, err := stark.PublicKey(priv)
	if err != nil {
		return "", err
	}
	return pub.Hex(), nil
}

func (s *starkService) Sign(ctx context.Context, privateKey, messageHash string) (*SignatureDTO, error) {
	var d decoder
	priv := d.hex("private_key", privateKey)
	msg := d.hex("message_hash", messageHash)
	if d.err != nil {
		return nil, d.err
	}

	sig, err := stark.Sign(priv, msg)
	if err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Debug("message signed",
		zap.String("message_hash", msg.Hex()),
		zap.String("r", sig.R.Hex()))

	return &SignatureDTO{
		R: sig.R.Hex(),
		S: sig.S.Hex(),
		V: sig.V.Hex(),
	}, nil
}

func (s *starkService) Verify(ctx context.Context, publicKey, messageHash string, sig *SignatureDTO) (bool, error) {
	var d decoder
	pub := d.hex("public_key", publicKey)
	msg := d.hex("message_hash", messageHash)
	if d.err != nil {
		return false, d.err
	}
	if sig == nil {
		return false, errSignatureRequired
	}

	// a signature that does not decode cannot be valid
	var sd decoder
	parsed := decodeSignature(&sd, sig, false)
	if sd.err != nil {
		logger.WithContext(ctx).Debug("malformed signature", zap.Error(sd.err))
		return false, nil
	}

	ok := stark.Verify(pub, msg, parsed)
	logger.WithContext(ctx).Debug("signature verified",
		zap.String("message_hash", msg.Hex()),
		zap.Bool("valid", ok))
	return ok, nil
}

func (s *starkService) RecoverPublicKey(ctx context.Context, messageHash string, sig *SignatureDTO) (string, error) {
	var d decoder
	msg := d.hex("message_hash", messageHash)
	parsed := decodeSignature(&d, sig, true)
	if d.err != nil {
		return "", d.err
	}

	pub, err := stark.RecoverPublicKey(msg, parsed)
	if err != nil {
		return "", err
	}
	return pub.Hex(), nil
}

func (s *starkService) HashOrder(ctx context.Context, req *HashOrderRequest) (string, error) {
	order, key, err := req.decode()
	if err != nil {
		return "", err
	}
	return s.hash(ctx, "order", order, key, &req.MessageOptions)
}

func (s *starkService) HashTransfer(ctx context.Context, req *HashTransferRequest) (string, error) {
	transfer, key, err := req.decode()
	if err != nil {
		return "", err
	}
	return s.hash(ctx, "transfer", transfer, key, &req.MessageOptions)
}

func (s *starkService) HashWithdrawal(ctx context.Context, req *HashWithdrawalRequest) (string, error) {
	withdrawal, key, err := req.decode()
	if err != nil {
		return "", err
	}
	return s.hash(ctx, "withdrawal", withdrawal, key, &req.MessageOptions)
}

func (s *starkService) hash(ctx context.Context, kind string, msg snip12.Hashable, key field.Felt, opts *MessageOptions) (string, error) {
	domain, scheme, err := s.resolve(opts)
	if err != nil {
		return "", err
	}
	domainHash, err := s.domainHash(domain, scheme)
	if err != nil {
		return "", err
	}

	h := snip12.MessageHashWithDomain(msg, domainHash, key)
	logger.WithContext(ctx).Debug("message hashed",
		zap.String("kind", kind),
		zap.Stringer("scheme", scheme),
		zap.String("hash", h.Hex()))
	return h.Hex(), nil
}

// resolve applies the configured defaults to opts
func (s *starkService) resolve(opts *MessageOptions) (snip12.Domain, snip12.Scheme, error) {
	domain, scheme := s.domain, s.scheme
	if opts == nil {
		return domain, scheme, nil
	}
	if opts.Domain != nil {
		domain = *opts.Domain
	}
	if opts.Scheme != "" {
		parsed, err := snip12.ParseScheme(opts.Scheme)
		if err != nil {
			return snip12.Domain{}, 0, err
		}
		scheme = parsed
	}
	return domain, scheme, nil
}

// domainHash memoizes snip12.DomainHash per domain and scheme
func (s *starkService) domainHash(d snip12.Domain, scheme snip12.Scheme) (field.Felt, error) {
	key := domainKey{domain: d, scheme: scheme}
	if v, ok := s.domainHashes.Load(key); ok {
		return v.(field.Felt), nil
	}
	h, err := snip12.DomainHash(d, scheme)
	if err != nil {
		return field.Felt{}, err
	}
	s.domainHashes.Store(key, h)
	return h, nil
}

func decodeEthSignature(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidHexEncoding.WithField("eth_signature"), err)
	}
	return raw, nil
}

func decodeSignature(d *decoder, sig *SignatureDTO, needV bool) stark.Signature {
	if sig == nil {
		if d.err == nil {
			d.err = errSignatureRequired
		}
		return stark.Signature{}
	}
	out := stark.Signature{
		R: d.hex("signature.r", sig.R),
		S: d.hex("signature.s", sig.S),
	}
	if needV || sig.V != "" {
		out.V = d.hex("signature.v", sig.V)
	}
	return out
}
