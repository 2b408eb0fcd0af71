package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NethermindEth/juno-cheatnet/cheatnet"
	"github.com/NethermindEth/juno-cheatnet/db"
	"github.com/NethermindEth/juno-cheatnet/db/pebble"
	"github.com/NethermindEth/juno-cheatnet/fork"
	"github.com/NethermindEth/juno-cheatnet/runner"
	"github.com/NethermindEth/juno-cheatnet/starknet"
	"github.com/NethermindEth/juno-cheatnet/utils"
	"github.com/NethermindEth/juno-cheatnet/validator"
	"github.com/NethermindEth/juno-cheatnet/vm"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "CHEATNET"

// envKeyReplacer maps fork.cache-dir to CHEATNET_FORK_CACHE_DIR
var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

type Fork struct {
	URL        string        `mapstructure:"url" yaml:"url" validate:"omitempty,url"`
	Block      string        `mapstructure:"block" yaml:"block" validate:"blockid"`
	CacheSize  int           `mapstructure:"cache-size" yaml:"cache-size" validate:"gt=0"`
	CacheDir   string        `mapstructure:"cache-dir" yaml:"cache-dir,omitempty"`
	MaxRetries int           `mapstructure:"max-retries" yaml:"max-retries" validate:"min=0"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
	APIKey     string        `mapstructure:"api-key" yaml:"api-key,omitempty"`
}

// Execution holds the limits and block context of every runtime. Zero block
// fields keep the defaults, or the values of the fork block when forking.
type Execution struct {
	MaxSteps          uint64 `mapstructure:"max-steps" yaml:"max-steps"`
	MaxRecursionDepth int    `mapstructure:"max-recursion-depth" yaml:"max-recursion-depth" validate:"gt=0"`
	BlockNumber       uint64 `mapstructure:"block-number" yaml:"block-number,omitempty"`
	BlockTimestamp    uint64 `mapstructure:"block-timestamp" yaml:"block-timestamp,omitempty"`
	SequencerAddress  string `mapstructure:"sequencer-address" yaml:"sequencer-address,omitempty" validate:"omitempty,address"`
}

type Config struct {
	LogLevel    utils.LogLevel `mapstructure:"log-level" yaml:"log-level"`
	Colour      bool           `mapstructure:"colour" yaml:"colour"`
	Network     utils.Network  `mapstructure:"network" yaml:"network"`
	Fork        Fork           `mapstructure:"fork" yaml:"fork"`
	Execution   Execution      `mapstructure:"execution" yaml:"execution"`
	Parallelism int            `mapstructure:"parallelism" yaml:"parallelism" validate:"min=1"`
	Metrics     bool           `mapstructure:"metrics" yaml:"metrics"`
	MetricsAddr string         `mapstructure:"metrics-addr" yaml:"metrics-addr" validate:"hostname_port"`
}

func Default() *Config {
	return &Config{
		LogLevel: *utils.NewLogLevel(utils.INFO),
		Colour:   true,
		Network:  utils.Sepolia,
		Fork: Fork{
			Block:      fork.Latest,
			CacheSize:  4096,
			MaxRetries: 5,
			Timeout:    30 * time.Second,
		},
		Execution: Execution{
			MaxSteps:          cheatnet.DefaultMaxSteps,
			MaxRecursionDepth: cheatnet.DefaultMaxDepth,
		},
		Parallelism: 1,
		MetricsAddr: "localhost:9090",
	}
}

// SetDefaults registers the values of Default under their viper keys
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log-level", d.LogLevel.String())
	v.SetDefault("colour", d.Colour)
	v.SetDefault("network", d.Network.String())
	v.SetDefault("fork.url", d.Fork.URL)
	v.SetDefault("fork.block", d.Fork.Block)
	v.SetDefault("fork.cache-size", d.Fork.CacheSize)
	v.SetDefault("fork.cache-dir", d.Fork.CacheDir)
	v.SetDefault("fork.max-retries", d.Fork.MaxRetries)
	v.SetDefault("fork.timeout", d.Fork.Timeout)
	v.SetDefault("fork.api-key", d.Fork.APIKey)
	v.SetDefault("execution.max-steps", d.Execution.MaxSteps)
	v.SetDefault("execution.max-recursion-depth", d.Execution.MaxRecursionDepth)
	v.SetDefault("execution.block-number", d.Execution.BlockNumber)
	v.SetDefault("execution.block-timestamp", d.Execution.BlockTimestamp)
	v.SetDefault("execution.sequencer-address", d.Execution.SequencerAddress)
	v.SetDefault("parallelism", d.Parallelism)
	v.SetDefault("metrics", d.Metrics)
	v.SetDefault("metrics-addr", d.MetricsAddr)
}

// Load decodes and validates the configuration held by v. Environment
// variables prefixed with CHEATNET_ override file values.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	cfg := new(Config)
	err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	)))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.Validator().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) Logger() (*utils.ZapLogger, error) {
	return utils.NewZapLogger(&c.LogLevel, c.Colour)
}

// Forking reports whether runtimes read missing state from a node
func (c *Config) Forking() bool {
	return c.Fork.URL != ""
}

// OpenFork pins the configured fork block. The returned close function
// releases the persistent cache and must be called once the reference is no
// longer used.
func (c *Config) OpenFork(ctx context.Context, log utils.Logger) (*fork.Reference, func() error, error) {
	nop := func() error { return nil }
	if !c.Forking() {
		return nil, nop, nil
	}
	block, err := fork.ParseBlockID(c.Fork.Block)
	if err != nil {
		return nil, nop, err
	}

	client := fork.NewRPCClient(c.Fork.URL).
		WithMaxRetries(c.Fork.MaxRetries).
		WithTimeout(c.Fork.Timeout).
		WithAPIKey(c.Fork.APIKey).
		WithLogger(log)
	ref, err := fork.NewReference(ctx, client, block, log)
	if err != nil {
		return nil, nop, err
	}
	chainID := ref.ChainID()
	if network, ok := utils.NetworkOf(&chainID); !ok || network != c.Network {
		log.Warnw("Fork chain id differs from the configured network",
			"network", c.Network.String(), "chainID", chainID.String())
	}

	var store db.KeyValueStore
	closeFn := nop
	if c.Fork.CacheDir != "" {
		pebbleDB, err := pebble.New(c.Fork.CacheDir, pebble.WithLogger(c.Colour))
		if err != nil {
			return nil, nop, fmt.Errorf("open fork cache: %w", err)
		}
		store, closeFn = pebbleDB, pebbleDB.Close
	}
	cache, err := fork.NewCache(c.Fork.CacheSize, store, log)
	if err != nil {
		return nil, nop, closeAfter(closeFn, err)
	}
	return ref.WithCache(cache), closeFn, nil
}

func closeAfter(closeFn func() error, err error) error {
	if closeErr := closeFn(); closeErr != nil {
		return fmt.Errorf("%w (close: %v)", err, closeErr)
	}
	return err
}

// RuntimeOptions translates the configuration into runtime options. ref may
// be nil when not forking.
func (c *Config) RuntimeOptions(ref *fork.Reference, log utils.Logger) []cheatnet.Option {
	opts := []cheatnet.Option{
		cheatnet.WithLogger(log),
		cheatnet.WithMaxSteps(c.Execution.MaxSteps),
		cheatnet.WithMaxDepth(c.Execution.MaxRecursionDepth),
	}
	var block starknet.BlockInfo
	if ref != nil {
		opts = append(opts, cheatnet.WithFork(ref))
		header := ref.Header()
		block = header.BlockInfo()
	} else {
		opts = append(opts, cheatnet.WithChainID(c.Network.ChainID()))
		block = cheatnet.DefaultBlockInfo()
	}

	if c.Execution.BlockNumber != 0 {
		block.BlockNumber = c.Execution.BlockNumber
	}
	if c.Execution.BlockTimestamp != 0 {
		block.BlockTimestamp = c.Execution.BlockTimestamp
	}
	if c.Execution.SequencerAddress != "" {
		if addr, err := starknet.ParseAddress(c.Execution.SequencerAddress); err == nil {
			block.SequencerAddress = addr
		}
	}
	return append(opts, cheatnet.WithBlockInfo(block))
}

// Factory builds runtimes for the runner, each with its own executor
func (c *Config) Factory(newExecutor func() (vm.Executor, error), ref *fork.Reference, log utils.Logger) runner.Factory {
	opts := c.RuntimeOptions(ref, log)
	return func() (*cheatnet.Runtime, error) {
		executor, err := newExecutor()
		if err != nil {
			return nil, err
		}
		return cheatnet.New(executor, opts...), nil
	}
}
