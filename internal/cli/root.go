// Package cli provides the eidos-stark command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eidos-exchange/eidos/eidos-stark/internal/config"
	"github.com/eidos-exchange/eidos/eidos-stark/internal/service"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/errors"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/logger"
)

// app holds state shared by subcommands. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	configPath string
	logLevel   string

	cfg *config.Config
	svc service.StarkService
}

// context returns the command context with a logger carrying the command
// name and a fresh trace id
func (a *app) context(cmd *cobra.Command) context.Context {
	return logger.NewContext(cmd.Context(),
		zap.String("command", cmd.Name()),
		zap.String("trace_id", uuid.New().String()))
}

func newRootCmd(version string) *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "eidos-stark",
		Short: "STARK key derivation, signing and SNIP-12 message hashing",
		Long: `eidos-stark derives STARK keys from Ethereum wallet signatures, signs and
verifies message hashes on the STARK curve, and computes the SNIP-12 hashes of
perpetuals orders, transfers and withdrawals.

All results are written to stdout as JSON. Logs go to stderr.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if err := logger.Init(&cfg.Log); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			if a.logLevel != "" {
				if err := logger.SetLevel(a.logLevel); err != nil {
					return errors.ErrInvalidRequest.WithField("log-level").WithMessage(err.Error())
				}
			}

			svc, err := service.NewStarkService(&cfg.Stark)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.svc = svc
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default $CONFIG_PATH or config/config.yaml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	addKeyCommands(cmd, a)
	addHashCommands(cmd, a)
	addQuantumCommands(cmd)

	return cmd
}

// Execute runs the root command. Errors are written to stderr as JSON.
func Execute(ctx context.Context, version string) error {
	cmd := newRootCmd(version)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.FromError(err).JSON())
	}
	return err
}

// writeJSON writes v to the command's stdout
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
