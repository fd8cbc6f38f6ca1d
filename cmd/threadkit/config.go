package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/utkarsh5026/threadkit/pool"
	"go.uber.org/zap"
)

const (
	envPrefix     = "THREADKIT"
	defaultJitter = 0.2
)

// Config holds the settings shared by every subcommand. Values come from
// flags, THREADKIT_* environment variables and an optional config file, in
// that order of precedence, on top of the defaults below.
type Config struct {
	LogLevel  string        `mapstructure:"log-level" default:"info"`
	Workers   int           `mapstructure:"workers" default:"4"`
	Timeout   time.Duration `mapstructure:"timeout" default:"0s"`
	RateLimit float64       `mapstructure:"rate" default:"0"`
	Burst     int           `mapstructure:"burst" default:"1"`
	Affinity  bool          `mapstructure:"affinity"`
	Backoff   string        `mapstructure:"backoff" default:"exponential"`
}

func defaultConfig() Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		panic(fmt.Sprintf("invalid config defaults: %v", err))
	}
	return cfg
}

// registerFlags declares the shared flags with the defaults of Config.
func registerFlags(flags *pflag.FlagSet) {
	def := defaultConfig()

	flags.String("config", "", "path to a config file (yaml, toml or json)")
	flags.String("log-level", def.LogLevel, "log level: debug, info, warn or error")
	flags.Int("workers", def.Workers, "number of pool workers")
	flags.Duration("timeout", def.Timeout, "per-operation queue timeout, 0 waits forever")
	flags.Float64("rate", def.RateLimit, "maximum tasks started per second, 0 disables limiting")
	flags.Int("burst", def.Burst, "rate limiter burst size")
	flags.Bool("affinity", def.Affinity, "pin every worker to its own CPU")
	flags.String("backoff", def.Backoff, "worker retry backoff: exponential, jittered or decorrelated")
}

func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

func loadConfig(v *viper.Viper) (Config, error) {
	cfg := defaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if c.RateLimit < 0 {
		return errors.New("rate must not be negative")
	}
	if c.RateLimit > 0 && c.Burst <= 0 {
		return fmt.Errorf("burst must be positive when rate limiting, got %d", c.Burst)
	}
	if _, err := parseBackoff(c.Backoff); err != nil {
		return err
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log-level %q: %w", c.LogLevel, err)
	}
	return nil
}

func parseBackoff(name string) (pool.BackoffType, error) {
	switch strings.ToLower(name) {
	case "exponential", "":
		return pool.BackoffExponential, nil
	case "jittered":
		return pool.BackoffJittered, nil
	case "decorrelated":
		return pool.BackoffDecorrelated, nil
	default:
		return 0, fmt.Errorf("invalid backoff %q: must be exponential, jittered or decorrelated", name)
	}
}

// poolOptions translates cfg into pool options. workers overrides
// cfg.Workers when positive.
func (c Config) poolOptions(name string, workers int, logger *zap.Logger) []pool.Option {
	if workers <= 0 {
		workers = c.Workers
	}
	backoff, _ := parseBackoff(c.Backoff)

	opts := []pool.Option{
		pool.WithName(name),
		pool.WithSize(workers),
		pool.WithTimeout(c.Timeout),
		pool.WithLogger(logger),
	}
	if backoff == pool.BackoffJittered {
		opts = append(opts, pool.WithJitteredBackoff(0, 0, defaultJitter))
	} else {
		opts = append(opts, pool.WithBackoff(backoff, 0, 0))
	}
	if c.RateLimit > 0 {
		opts = append(opts, pool.WithRateLimit(c.RateLimit, c.Burst))
	}
	if c.Affinity {
		opts = append(opts, pool.WithWorkerAffinity())
	}
	return opts
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
