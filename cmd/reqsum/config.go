package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vitalvas/reqsum/checksum"
)

// Configuration keys. Environment variables use the REQSUM_ prefix and
// upper case, e.g. REQSUM_TIME_DELTA.
const (
	keySecret    = "secret"
	keyUseTime   = "use_time"
	keyTimeDelta = "time_delta"
	keyAlgorithm = "algorithm"
	keyLogLevel  = "log_level"
)

var errMissingSecret = errors.New("no shared secret: set --secret, REQSUM_SECRET or secret in the config file")

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault(keyUseTime, true)
	v.SetDefault(keyTimeDelta, checksum.DefaultTimeDelta)
	v.SetDefault(keyAlgorithm, string(checksum.DefaultAlgorithm))
	v.SetDefault(keyLogLevel, "warn")

	v.SetEnvPrefix("REQSUM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

// bindFlags maps persistent flags onto configuration keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		keySecret:    "secret",
		keyUseTime:   "use-time",
		keyTimeDelta: "time-delta",
		keyAlgorithm: "algorithm",
		keyLogLevel:  "log-level",
	}

	for key, flag := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	return nil
}

// readConfigFile merges path into v. An empty path is a no-op.
func readConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	return nil
}

// checksumOptions builds checksum.Options from the merged configuration.
func checksumOptions(v *viper.Viper) (checksum.Options, error) {
	secret := v.GetString(keySecret)
	if secret == "" {
		return checksum.Options{}, errMissingSecret
	}

	alg, err := checksum.ParseAlgorithm(v.GetString(keyAlgorithm))
	if err != nil {
		return checksum.Options{}, err
	}

	return checksum.Options{
		SharedSecret:     []byte(secret),
		UseTimeComponent: v.GetBool(keyUseTime),
		TimeDelta:        v.GetInt64(keyTimeDelta),
		Algorithm:        alg,
	}, nil
}
