package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vitalvas/reqsum/checksum"
	"go.uber.org/zap"
)

var errChecksumMismatch = errors.New("checksum does not match")

// app carries state shared by all subcommands of one command tree.
type app struct {
	v   *viper.Viper
	log *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{v: newViper(), log: zap.NewNop()}

	var configFile string

	cmd := &cobra.Command{
		Use:   "reqsum",
		Short: "Compute and verify keyed request checksums",
		Long: `reqsum computes keyed checksums over key=value attributes and a salt,
and verifies checksums received from a partner sharing the same secret.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := readConfigFile(a.v, configFile); err != nil {
				return err
			}

			logger, err := newLogger(a.v.GetString(keyLogLevel), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.log = logger

			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "YAML config file")
	flags.String("secret", "", "Shared secret (prefer REQSUM_SECRET)")
	flags.Bool("use-time", true, "Bind checksums to the current second")
	flags.Int64("time-delta", checksum.DefaultTimeDelta, "Accepted clock deviation in seconds")
	flags.String("algorithm", string(checksum.DefaultAlgorithm), "hmac-sha256, hmac-sha512 or legacy-sha512")
	flags.String("log-level", "warn", "debug, info, warn or error")

	if err := bindFlags(a.v, flags); err != nil {
		panic(err)
	}

	cmd.AddCommand(
		newSignCmd(a),
		newVerifyCmd(a),
		newSaltCmd(),
	)

	return cmd
}

// checksumConfig builds the checksum.Config for the current invocation.
func (a *app) checksumConfig() (*checksum.Config, error) {
	opts, err := checksumOptions(a.v)
	if err != nil {
		return nil, err
	}

	cfg, err := checksum.New(opts)
	if err != nil {
		return nil, err
	}

	a.log.Debug("checksum configured",
		zap.Stringer("algorithm", cfg.Algorithm()),
		zap.Bool("time_bound", cfg.UseTimeComponent()),
		zap.Int64("time_delta", cfg.TimeDelta()),
	)

	return cfg, nil
}

// atTime returns the time given by --at and whether the flag was set.
func atTime(cmd *cobra.Command, unix int64) (time.Time, bool) {
	if !cmd.Flags().Changed("at") {
		return time.Time{}, false
	}

	return time.Unix(unix, 0), true
}

func newSignCmd(a *app) *cobra.Command {
	var (
		salt      string
		attrsFile string
		at        int64
	)

	cmd := &cobra.Command{
		Use:   "sign [key=value...]",
		Short: "Print the checksum of the given attributes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.checksumConfig()
			if err != nil {
				return err
			}

			attrs, err := parseAttributes(attrsFile, args)
			if err != nil {
				return err
			}

			var sum string
			if t, ok := atTime(cmd, at); ok {
				sum, err = cfg.ChecksumAt(attrs, salt, t)
			} else {
				sum, err = cfg.Checksum(attrs, salt)
			}
			if err != nil {
				return err
			}

			a.log.Info("checksum computed", zap.Int("attributes", len(attrs)), zap.String("salt", salt))

			_, err = fmt.Fprintln(cmd.OutOrStdout(), sum)
			return err
		},
	}

	cmd.Flags().StringVarP(&salt, "salt", "s", "", "Salt, e.g. the request endpoint")
	cmd.Flags().StringVarP(&attrsFile, "attrs", "f", "", "YAML file with attributes")
	cmd.Flags().Int64Var(&at, "at", 0, "Unix time to bind to instead of now")

	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	var (
		salt      string
		attrsFile string
		candidate string
		at        int64
	)

	cmd := &cobra.Command{
		Use:   "verify [key=value...]",
		Short: "Check a checksum against the given attributes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.checksumConfig()
			if err != nil {
				return err
			}

			attrs, err := parseAttributes(attrsFile, args)
			if err != nil {
				return err
			}

			var ok bool
			if t, set := atTime(cmd, at); set {
				ok, err = cfg.ValidateAt(attrs, salt, candidate, t)
			} else {
				ok, err = cfg.Validate(attrs, salt, candidate)
			}
			if err != nil {
				return err
			}

			a.log.Info("checksum verified", zap.Int("attributes", len(attrs)), zap.Bool("valid", ok))

			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "invalid")
				return errChecksumMismatch
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return err
		},
	}

	cmd.Flags().StringVarP(&salt, "salt", "s", "", "Salt, e.g. the request endpoint")
	cmd.Flags().StringVarP(&attrsFile, "attrs", "f", "", "YAML file with attributes")
	cmd.Flags().StringVar(&candidate, "checksum", "", "Checksum to verify")
	cmd.Flags().Int64Var(&at, "at", 0, "Unix time to validate at instead of now")
	_ = cmd.MarkFlagRequired("checksum")

	return cmd
}

func newSaltCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "salt",
		Short: "Print a random salt suitable as a nonce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), uuid.NewString())
			return err
		},
	}
}
