package main

import (
	"context"
	"fmt"
	"net"

	"github.com/NethermindEth/juno-cheatnet/config"
	"github.com/NethermindEth/juno-cheatnet/metrics"
	"github.com/NethermindEth/juno-cheatnet/utils"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Version string

const (
	configF         = "config"
	logLevelF       = "log-level"
	colourF         = "colour"
	networkF        = "network"
	forkURLF        = "fork-url"
	forkBlockF      = "fork-block"
	forkCacheSizeF  = "fork-cache-size"
	forkCacheDirF   = "fork-cache-dir"
	forkMaxRetriesF = "fork-max-retries"
	forkTimeoutF    = "fork-timeout"
	forkAPIKeyF     = "fork-api-key"
	parallelismF    = "parallelism"
	metricsF        = "metrics"
	metricsAddrF    = "metrics-addr"

	configFlagUsage   = "The yaml configuration file."
	logLevelFlagUsage = "Options: trace, debug, info, warn, error."
	colourUsage       = "Use `--colour=false` command to disable colourized outputs (ANSI Escape Codes)."
	networkUsage      = "Options: mainnet, sepolia, sepolia-integration. Sets the chain id when not forking."
	forkURLUsage      = "Starknet JSON-RPC endpoint to read missing state from. Forking is disabled when empty."
	forkBlockUsage    = "Block to pin the fork to: a number, a 0x-prefixed hash or latest."
	cacheSizeUsage    = "Number of fork reads kept in memory."
	forkCacheDirUsage = "Directory of the persistent fork read cache. Reads are only cached in memory when empty."
	forkRetriesUsage  = "Maximum number of retries of a failed fork request."
	forkTimeoutUsage  = "Timeout of a single fork request."
	forkAPIKeyUsage   = "API key sent in the x-apikey header of fork requests."
	parallelismUsage  = "Number of test cases run at once."
	metricsUsage      = "Enables the prometheus metrics endpoint."
	metricsAddrUsage  = "Address the metrics endpoint listens on."
)

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	logLevelF:       "log-level",
	colourF:         "colour",
	networkF:        "network",
	forkURLF:        "fork.url",
	forkBlockF:      "fork.block",
	forkCacheSizeF:  "fork.cache-size",
	forkCacheDirF:   "fork.cache-dir",
	forkMaxRetriesF: "fork.max-retries",
	forkTimeoutF:    "fork.timeout",
	forkAPIKeyF:     "fork.api-key",
	parallelismF:    "parallelism",
	metricsF:        "metrics",
	metricsAddrF:    "metrics-addr",
}

// app is the state shared by all subcommands once flags are parsed
type app struct {
	cfg  *config.Config
	log  utils.Logger
	stop context.CancelFunc
	wg   conc.WaitGroup
}

func NewCmd() *cobra.Command {
	var (
		cfgFile string
		a       = new(app)
	)
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:           "cheatnet",
		Short:         "Inspect forked Starknet state and cheatnet call traces.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, configF, "", configFlagUsage)
	flags.Var(utils.NewLogLevel(utils.INFO), logLevelF, logLevelFlagUsage)
	flags.Bool(colourF, defaults.Colour, colourUsage)
	network := defaults.Network
	flags.Var(&network, networkF, networkUsage)
	flags.String(forkURLF, defaults.Fork.URL, forkURLUsage)
	flags.String(forkBlockF, defaults.Fork.Block, forkBlockUsage)
	flags.Int(forkCacheSizeF, defaults.Fork.CacheSize, cacheSizeUsage)
	flags.String(forkCacheDirF, defaults.Fork.CacheDir, forkCacheDirUsage)
	flags.Int(forkMaxRetriesF, defaults.Fork.MaxRetries, forkRetriesUsage)
	flags.Duration(forkTimeoutF, defaults.Fork.Timeout, forkTimeoutUsage)
	flags.String(forkAPIKeyF, defaults.Fork.APIKey, forkAPIKeyUsage)
	flags.Int(parallelismF, defaults.Parallelism, parallelismUsage)
	flags.Bool(metricsF, defaults.Metrics, metricsUsage)
	flags.String(metricsAddrF, defaults.MetricsAddr, metricsAddrUsage)

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		v := viper.New()
		if cfgFile != "" {
			v.SetConfigType("yaml")
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return err
			}
		}
		for flag, key := range flagKeys {
			if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
				return err
			}
		}

		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		log, err := cfg.Logger()
		if err != nil {
			return err
		}
		a.cfg, a.log = cfg, log
		return a.startMetrics(cmd.Context())
	}
	cmd.PersistentPostRun = func(*cobra.Command, []string) {
		a.shutdown()
	}

	cmd.AddCommand(ForkCmd(a), TraceCmd(), ConfigCmd(a), CheatcodesCmd())
	return cmd
}

func (a *app) startMetrics(ctx context.Context) error {
	a.stop = func() {}
	if !a.cfg.Metrics {
		return nil
	}
	listener, err := net.Listen("tcp", a.cfg.MetricsAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.cfg.MetricsAddr, err)
	}
	srv := metrics.NewServer(listener, &a.cfg.LogLevel, a.log)

	ctx, a.stop = context.WithCancel(ctx)
	a.wg.Go(func() {
		if err := srv.Run(ctx); err != nil {
			a.log.Errorw("Metrics server stopped", "err", err)
		}
	})
	return nil
}

func (a *app) shutdown() {
	if a.stop != nil {
		a.stop()
	}
	a.wg.Wait()
}
