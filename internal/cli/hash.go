package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/eidos-exchange/eidos/eidos-stark/internal/service"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/snip12"
)

func addHashCommands(root *cobra.Command, a *app) {
	root.AddCommand(
		newHashOrderCmd(a),
		newHashTransferCmd(a),
		newHashWithdrawalCmd(a),
		newSelectorCmd(),
		newTypeHashesCmd(),
	)
}

// domainFlags overrides the configured domain for one request
type domainFlags struct {
	name     string
	version  string
	chainID  string
	revision string
	scheme   string
}

func (f *domainFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "domain-name", "", "domain name override")
	fs.StringVar(&f.version, "domain-version", "", "domain version override")
	fs.StringVar(&f.chainID, "chain-id", "", "domain chain id override")
	fs.StringVar(&f.revision, "revision", "", "domain revision override")
	fs.StringVar(&f.scheme, "scheme", "", "hashing scheme: legacy or v1 (default from config)")
}

// apply fills opts, starting from the configured domain when any domain flag
// is set
func (f *domainFlags) apply(a *app, opts *service.MessageOptions) {
	opts.Scheme = f.scheme
	if f.name == "" && f.version == "" && f.chainID == "" && f.revision == "" {
		return
	}
	d := a.cfg.Stark.Domain.SnipDomain()
	if f.name != "" {
		d.Name = f.name
	}
	if f.version != "" {
		d.Version = f.version
	}
	if f.chainID != "" {
		d.ChainID = f.chainID
	}
	if f.revision != "" {
		d.Revision = f.revision
	}
	opts.Domain = &d
}

// newHashCmd builds a hash subcommand around one service call
func newHashCmd(a *app, use, short string, opts *service.MessageOptions, bind func(fs *pflag.FlagSet),
	run func(ctx context.Context) (string, error)) *cobra.Command {
	df := &domainFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			df.apply(a, opts)
			h, err := run(a.context(cmd))
			if err != nil {
				return err
			}
			return writeJSON(cmd, map[string]string{"message_hash": h})
		},
	}
	bind(cmd.Flags())
	df.register(cmd.Flags())
	return cmd
}

func newHashOrderCmd(a *app) *cobra.Command {
	req := &service.HashOrderRequest{}
	return newHashCmd(a, "hash-order", "Compute the SNIP-12 hash of an order", &req.MessageOptions,
		func(fs *pflag.FlagSet) {
			fs.StringVar(&req.PositionID, "position-id", "", "position id")
			fs.StringVar(&req.BaseAssetID, "base-asset-id", "", "base asset id in hex")
			fs.StringVar(&req.BaseAmount, "base-amount", "", "signed base amount in quantums")
			fs.StringVar(&req.QuoteAssetID, "quote-asset-id", "", "quote asset id in hex")
			fs.StringVar(&req.QuoteAmount, "quote-amount", "", "signed quote amount in quantums")
			fs.StringVar(&req.FeeAssetID, "fee-asset-id", "", "fee asset id in hex")
			fs.StringVar(&req.FeeAmount, "fee-amount", "", "fee amount in quantums")
			fs.StringVar(&req.Expiration, "expiration", "", "expiration in unix seconds")
			fs.StringVar(&req.Salt, "salt", "", "salt in decimal")
			fs.StringVar(&req.PublicKey, "public-key", "", "signer STARK public key in hex")
		},
		func(ctx context.Context) (string, error) {
			return a.svc.HashOrder(ctx, req)
		})
}

func newHashTransferCmd(a *app) *cobra.Command {
	req := &service.HashTransferRequest{}
	return newHashCmd(a, "hash-transfer", "Compute the SNIP-12 hash of a transfer", &req.MessageOptions,
		func(fs *pflag.FlagSet) {
			fs.StringVar(&req.Recipient, "recipient", "", "recipient position id")
			fs.StringVar(&req.PositionID, "position-id", "", "sender position id")
			fs.StringVar(&req.CollateralID, "collateral-id", "", "collateral asset id in hex")
			fs.StringVar(&req.Amount, "amount", "", "amount in quantums")
			fs.StringVar(&req.Expiration, "expiration", "", "expiration in unix seconds")
			fs.StringVar(&req.Salt, "salt", "", "salt in decimal")
			fs.StringVar(&req.PublicKey, "public-key", "", "signer STARK public key in hex")
		},
		func(ctx context.Context) (string, error) {
			return a.svc.HashTransfer(ctx, req)
		})
}

func newHashWithdrawalCmd(a *app) *cobra.Command {
	req := &service.HashWithdrawalRequest{}
	return newHashCmd(a, "hash-withdrawal", "Compute the SNIP-12 hash of a withdrawal", &req.MessageOptions,
		func(fs *pflag.FlagSet) {
			fs.StringVar(&req.Recipient, "recipient", "", "recipient contract address in hex")
			fs.StringVar(&req.PositionID, "position-id", "", "position id")
			fs.StringVar(&req.CollateralID, "collateral-id", "", "collateral asset id in hex")
			fs.StringVar(&req.Amount, "amount", "", "amount in quantums")
			fs.StringVar(&req.Expiration, "expiration", "", "expiration in unix seconds")
			fs.StringVar(&req.Salt, "salt", "", "salt in decimal")
			fs.StringVar(&req.PublicKey, "public-key", "", "signer STARK public key in hex")
		},
		func(ctx context.Context) (string, error) {
			return a.svc.HashWithdrawal(ctx, req)
		})
}

func newSelectorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selector <name>",
		Short: "Print the starknet_keccak selector of a name or type string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd, map[string]string{"selector": snip12.TypeSelector(args[0]).Hex()})
		},
	}
}

type typeHash struct {
	Type string `json:"type"`
	Hash string `json:"hash"`
}

func newTypeHashesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "type-hashes",
		Short: "Print the encoded type strings and their hashes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd, map[string]typeHash{
				"domain":     {snip12.DomainTypeString, snip12.DomainTypeHash.Hex()},
				"order":      {snip12.OrderTypeString, snip12.OrderTypeHash.Hex()},
				"transfer":   {snip12.TransferTypeString, snip12.TransferTypeHash.Hex()},
				"withdrawal": {snip12.WithdrawTypeString, snip12.WithdrawTypeHash.Hex()},
			})
		},
	}
}
