package cli

import (
	"github.com/spf13/cobra"

	"github.com/eidos-exchange/eidos/eidos-stark/pkg/errors"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/quantum"
)

func addQuantumCommands(root *cobra.Command) {
	root.AddCommand(newQuantizeCmd(), newDequantizeCmd())
}

func newQuantizeCmd() *cobra.Command {
	var (
		amount     string
		resolution int64
		rounding   string
		unsigned   bool
	)
	cmd := &cobra.Command{
		Use:   "quantize",
		Short: "Convert a decimal amount to quantums",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := quantum.ParseRounding(rounding)
			if err != nil {
				return err
			}
			d, err := quantum.ParseAmount("amount", amount)
			if err != nil {
				return err
			}

			var q any
			if unsigned {
				q, err = quantum.ToUnsignedQuantums("amount", d, resolution, mode)
			} else {
				q, err = quantum.ToQuantums("amount", d, resolution, mode)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd, map[string]any{"quantums": q, "rounding": mode.String()})
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "decimal amount, e.g. 1.25")
	cmd.Flags().Int64Var(&resolution, "resolution", 0, "quantums per unit")
	cmd.Flags().StringVar(&rounding, "rounding", "exact", "exact, down, up or half_even")
	cmd.Flags().BoolVar(&unsigned, "unsigned", false, "reject negative amounts")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("resolution")
	return cmd
}

func newDequantizeCmd() *cobra.Command {
	var quantums, resolution int64
	cmd := &cobra.Command{
		Use:   "dequantize",
		Short: "Convert quantums back to a decimal amount",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if resolution <= 0 {
				return errors.ErrValueOutOfRange.WithField("resolution").WithMessage("resolution must be positive")
			}
			return writeJSON(cmd, map[string]string{"amount": quantum.FromQuantums(quantums, resolution).String()})
		},
	}
	cmd.Flags().Int64Var(&quantums, "quantums", 0, "amount in quantums")
	cmd.Flags().Int64Var(&resolution, "resolution", 0, "quantums per unit")
	_ = cmd.MarkFlagRequired("quantums")
	_ = cmd.MarkFlagRequired("resolution")
	return cmd
}
