package cli

import (
	"github.com/spf13/cobra"

	"github.com/eidos-exchange/eidos/eidos-stark/internal/service"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/config"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/errors"
)

// privateKeyEnv is read when --private-key is not given, so keys stay out of
// shell history.
const privateKeyEnv = "STARK_PRIVATE_KEY"

func addKeyCommands(root *cobra.Command, a *app) {
	root.AddCommand(
		newDeriveKeyCmd(a),
		newPublicKeyCmd(a),
		newSignCmd(a),
		newVerifyCmd(a),
		newRecoverCmd(a),
	)
}

func privateKeyFlag(cmd *cobra.Command, dst *string) {
	cmd.Flags().StringVar(dst, "private-key", "", "STARK private key in hex (default $"+privateKeyEnv+")")
}

func resolvePrivateKey(flag string) (string, error) {
	key := flag
	if key == "" {
		key = config.GetEnv(privateKeyEnv, "")
	}
	if key == "" {
		return "", errors.ErrInvalidRequest.WithField("private_key").
			WithMessage("--private-key or $" + privateKeyEnv + " is required")
	}
	return key, nil
}

func signatureFlags(cmd *cobra.Command, sig *service.SignatureDTO) {
	cmd.Flags().StringVar(&sig.R, "r", "", "signature r in hex")
	cmd.Flags().StringVar(&sig.S, "s", "", "signature s in hex")
	cmd.Flags().StringVar(&sig.V, "v", "", "signature v (0x0 or 0x1)")
}

func newDeriveKeyCmd(a *app) *cobra.Command {
	req := &service.DeriveKeyRequest{}
	cmd := &cobra.Command{
		Use:   "derive-key",
		Short: "Derive a STARK key pair from an Ethereum signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kp, err := a.svc.DeriveKeyPair(a.context(cmd), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd, kp)
		},
	}
	cmd.Flags().StringVar(&req.EthSignature, "eth-signature", "", "65-byte Ethereum signature in hex")
	cmd.Flags().StringVar(&req.Message, "message", "", "personal_sign message the signature was made over")
	cmd.Flags().StringVar(&req.Address, "address", "", "expected signer address, checked against --message")
	_ = cmd.MarkFlagRequired("eth-signature")
	return cmd
}

func newPublicKeyCmd(a *app) *cobra.Command {
	var privateKey string
	cmd := &cobra.Command{
		Use:   "public-key",
		Short: "Print the public key of a STARK private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := resolvePrivateKey(privateKey)
			if err != nil {
				return err
			}
			pub, err := a.svc.PublicKey(a.context(cmd), key)
			if err != nil {
				return err
			}
			return writeJSON(cmd, map[string]string{"public_key": pub})
		},
	}
	privateKeyFlag(cmd, &privateKey)
	return cmd
}

func newSignCmd(a *app) *cobra.Command {
	var privateKey, hash string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a message hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := resolvePrivateKey(privateKey)
			if err != nil {
				return err
			}
			sig, err := a.svc.Sign(a.context(cmd), key, hash)
			if err != nil {
				return err
			}
			return writeJSON(cmd, sig)
		},
	}
	privateKeyFlag(cmd, &privateKey)
	cmd.Flags().StringVar(&hash, "hash", "", "message hash in hex")
	_ = cmd.MarkFlagRequired("hash")
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	var publicKey, hash string
	sig := &service.SignatureDTO{}
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a signature over a message hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok, err := a.svc.Verify(a.context(cmd), publicKey, hash, sig)
			if err != nil {
				return err
			}
			return writeJSON(cmd, map[string]bool{"valid": ok})
		},
	}
	cmd.Flags().StringVar(&publicKey, "public-key", "", "STARK public key in hex")
	cmd.Flags().StringVar(&hash, "hash", "", "message hash in hex")
	signatureFlags(cmd, sig)
	for _, name := range []string{"public-key", "hash", "r", "s"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newRecoverCmd(a *app) *cobra.Command {
	var hash string
	sig := &service.SignatureDTO{}
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Recover the public key from a signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pub, err := a.svc.RecoverPublicKey(a.context(cmd), hash, sig)
			if err != nil {
				return err
			}
			return writeJSON(cmd, map[string]string{"public_key": pub})
		},
	}
	cmd.Flags().StringVar(&hash, "hash", "", "message hash in hex")
	signatureFlags(cmd, sig)
	for _, name := range []string{"hash", "r", "s", "v"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
