package stark

import (
	"crypto/sha256"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fr"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/eidos-exchange/eidos/eidos-stark/pkg/errors"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/field"
)

// EthSignatureLen is the length of an r‖s‖v Ethereum signature.
const EthSignatureLen = 65

// maxGrindAttempts bounds key grinding. Each attempt is rejected with
// probability below 2^-4.
const maxGrindAttempts = 1 << 10

// grindLimit is 2^256 - (2^256 mod n), the largest multiple of n that fits in
// 256 bits. Digests at or above it are discarded so that h mod n is uniform.
var grindLimit [sha256.Size]byte

func init() {
	two256 := new(big.Int).Lsh(big.NewInt(1), 256)
	rem := new(big.Int).Mod(two256, fr.Modulus())
	new(big.Int).Sub(two256, rem).FillBytes(grindLimit[:])
}

// DerivePrivateKey derives a STARK private key from an Ethereum signature.
// The r component seeds SHA-256 key grinding:
//
//	h_i = sha256(r ‖ i), both as minimal big-endian bytes
//
// and the first h_i below grindLimit, reduced mod n, is the key.
func DerivePrivateKey(sig []byte) (field.Felt, error) {
	if len(sig) != EthSignatureLen {
		return field.Felt{}, errors.ErrKeyDerivationFailure.WithField("eth_signature").
			WithMessagef("expected %d bytes, got %d", EthSignatureLen, len(sig))
	}
	return grindKey(sig[:32])
}

// DerivePrivateKeyHex is DerivePrivateKey for a hex signature, with or
// without the 0x prefix.
func DerivePrivateKeyHex(sig string) (field.Felt, error) {
	if !strings.HasPrefix(sig, "0x") && !strings.HasPrefix(sig, "0X") {
		sig = "0x" + sig
	}
	raw, err := hexutil.Decode(sig)
	if err != nil {
		return field.Felt{}, errors.Wrap(errors.ErrInvalidHexEncoding.WithField("eth_signature"), err)
	}
	return DerivePrivateKey(raw)
}

// DeriveKeyPair returns the derived private key and its public key.
func DeriveKeyPair(sig []byte) (priv, pub field.Felt, err error) {
	priv, err = DerivePrivateKey(sig)
	if err != nil {
		return field.Felt{}, field.Felt{}, err
	}
	pub, err = PublicKey(priv)
	if err != nil {
		return field.Felt{}, field.Felt{}, errors.Wrap(errors.ErrKeyDerivationFailure, err)
	}
	return priv, pub, nil
}

func grindKey(seed []byte) (field.Felt, error) {
	base := trimLeadingZeros(seed)
	if len(base) == 0 {
		base = []byte{0}
	}

	buf := make([]byte, 0, len(base)+8)
	for i := 0; i < maxGrindAttempts; i++ {
		buf = append(buf[:0], base...)
		buf = append(buf, indexBytes(i)...)
		h := sha256.Sum256(buf)
		if !lessThan(&h, &grindLimit) {
			continue
		}

		var key fr.Element
		key.SetBytes(h[:])
		if key.IsZero() {
			return field.Felt{}, errors.ErrKeyDerivationFailure.WithField("eth_signature").
				WithMessage("derived key is zero")
		}
		return feltOfScalar(&key), nil
	}
	return field.Felt{}, errors.ErrKeyDerivationFailure.WithField("eth_signature").
		WithMessagef("no key after %d attempts", maxGrindAttempts)
}

// indexBytes encodes i in minimal big-endian form; 0 encodes as one zero byte.
func indexBytes(i int) []byte {
	if i == 0 {
		return []byte{0}
	}
	return big.NewInt(int64(i)).Bytes()
}

// RecoverEthereumAddress returns the account that produced sig over digest.
// Both the 0/1 and 27/28 conventions for v are accepted.
func RecoverEthereumAddress(digest, sig []byte) (common.Address, error) {
	if len(sig) != EthSignatureLen {
		return common.Address{}, errors.ErrKeyDerivationFailure.WithField("eth_signature").
			WithMessagef("expected %d bytes, got %d", EthSignatureLen, len(sig))
	}
	normalized := make([]byte, EthSignatureLen)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}

	pub, err := crypto.SigToPub(digest, normalized)
	if err != nil {
		return common.Address{}, errors.Wrap(errors.ErrKeyDerivationFailure.WithField("eth_signature"), err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// PersonalMessageDigest is the EIP-191 digest a wallet signs for
// personal_sign, the usual way the derivation signature is requested.
func PersonalMessageDigest(msg []byte) []byte {
	return accounts.TextHash(msg)
}
