// Package cmd is the thin presentation layer over the deployment pipeline.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/r3e-network/neo-price-feed/deploy"
)

var (
	cfgFile     string
	flagRPC     string
	flagMagic   uint32
	flagWIF     string
	flagStore   string
	flagDryRun  bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pricefeed",
	Short: "Neo N3 contract deployment pipeline",
	Long:  `Builds, fee-estimates, signs and submits Neo N3 transactions for the price feed contract.`,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML/TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagRPC, "rpc", "", "node RPC endpoint (overrides config)")
	rootCmd.PersistentFlags().Uint32Var(&flagMagic, "magic", 0, "network magic (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagWIF, "wif", "", "signer WIF (prefer the NEO_WIF environment variable)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "path to the deployment record database")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "stop after fee estimation, do not sign or submit")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(invokeCmd)
	rootCmd.AddCommand(statusCmd)
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()
}

// loadConfig layers TestNet defaults, then the optional config file, then
// command-line flags.
func loadConfig(cmd *cobra.Command) (deploy.Config, error) {
	cfg := deploy.DefaultConfig()

	if cfgFile != "" {
		v := viper.New()
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("config file: %w", err)
		}
		if v.IsSet("rpc_endpoint") {
			cfg.RPCEndpoint = v.GetString("rpc_endpoint")
		}
		if v.IsSet("network_magic") {
			cfg.NetworkMagic = v.GetUint32("network_magic")
		}
		if v.IsSet("address_version") {
			cfg.AddressVersion = byte(v.GetUint("address_version"))
		}
		if v.IsSet("gas_token") {
			cfg.GasToken = v.GetString("gas_token")
		}
		if v.IsSet("management_contract") {
			cfg.ManagementContract = v.GetString("management_contract")
		}
		if v.IsSet("fee_per_byte") {
			cfg.FeePerByte = v.GetUint64("fee_per_byte")
		}
		if v.IsSet("valid_until_offset") {
			cfg.ValidUntilOffset = uint32(v.GetUint("valid_until_offset"))
		}
		if v.IsSet("minimum_balance") {
			cfg.MinimumBalance = v.GetUint64("minimum_balance")
		}
		if v.IsSet("rpc_timeout") {
			cfg.RPCTimeout = v.GetDuration("rpc_timeout")
		}
		if v.IsSet("deadline") {
			cfg.Deadline = v.GetDuration("deadline")
		}
	}

	if flagRPC != "" {
		cfg.RPCEndpoint = flagRPC
	}
	if flagMagic != 0 {
		cfg.NetworkMagic = flagMagic
	}
	cfg.DryRun = flagDryRun
	return cfg, nil
}

// signerWIF resolves the signing key from the flag or the NEO_WIF
// environment variable. It is passed straight into the pipeline and never
// stored.
func signerWIF() (string, error) {
	if flagWIF != "" {
		return flagWIF, nil
	}
	if wif := os.Getenv("NEO_WIF"); wif != "" {
		return wif, nil
	}
	return "", fmt.Errorf("no signer key: set NEO_WIF or pass --wif")
}

func openStore(log zerolog.Logger) *deploy.Store {
	if flagStore == "" {
		return nil
	}
	s, err := deploy.OpenStore(flagStore)
	if err != nil {
		log.Warn().Err(err).Msg("record store unavailable")
		return nil
	}
	return s
}
