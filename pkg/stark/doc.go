// Package stark implements deterministic ECDSA on the STARK curve and the
// derivation of a STARK private key from an Ethereum wallet signature.
//
// Keys and message hashes are field.Felt values. Private keys must lie in
// [1, n) where n is the curve order; message hashes and the r and s
// signature components must lie below 2^251.
//
//	priv, err := stark.DerivePrivateKeyHex(walletSignature)
//	pub, err := stark.PublicKey(priv)
//	sig, err := stark.Sign(priv, msgHash)
//	ok := stark.Verify(pub, msgHash, sig)
//
// Curve arithmetic is provided by gnark-crypto. Range checks on private
// scalars and nonces compare fixed-width byte strings in constant time.
package stark
