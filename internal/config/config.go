package config

import (
	"errors"

	"netdiag/internal/env"

	"github.com/spf13/viper"
)

/**
 * Server configuration parameters
 * @property {string} address - Server listening address (e.g. ":8091")
 * @property {string} mode - Application mode (debug/release/test)
 */
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"`
}

/**
 * Logging configuration
 * @property {string} level - Log level (debug/info/warn/error)
 * @property {string} path - Log file path
 */
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

/**
 * Diagnostic engine configuration
 * @property {string} target - Hostname whose reachability is being diagnosed
 * @property {[]string} resolvers - External DNS resolvers ("host:port")
 * @property {[]int} candidate_ports - Well-known local proxy ports to sweep
 * @property {[]string} sentinel_cidrs - CIDR blocks treated as fake/placeholder addresses
 * @property {[]string} ambiguous_cidrs - CIDR blocks needing the latency heuristic
 * @property {int} probe_timeout_ms - Per-probe time budget
 * @property {int} session_timeout_ms - Whole session wall-clock budget
 * @property {int} fast_latency_ms - Below this, an ambiguous address counts as sentinel
 * @property {int} latency_samples - Echo attempts used for the median latency
 */
type DiagnoseConfig struct {
	Target           string   `mapstructure:"target"`
	Resolvers        []string `mapstructure:"resolvers"`
	CandidatePorts   []int    `mapstructure:"candidate_ports"`
	SentinelCIDRs    []string `mapstructure:"sentinel_cidrs"`
	AmbiguousCIDRs   []string `mapstructure:"ambiguous_cidrs"`
	ProbeTimeoutMs   int      `mapstructure:"probe_timeout_ms"`
	SessionTimeoutMs int      `mapstructure:"session_timeout_ms"`
	FastLatencyMs    int      `mapstructure:"fast_latency_ms"`
	LatencySamples   int      `mapstructure:"latency_samples"`
}

var ErrInvalidTarget = errors.New("invalid diagnose target")
var ErrNoResolvers = errors.New("no external resolvers configured")
var ErrNoCandidatePorts = errors.New("no candidate ports configured")

type AppConfig struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Diagnose DiagnoseConfig `mapstructure:"diagnose"`
}

/**
 * Load application configuration from YAML file
 */
func LoadConfig() (*AppConfig, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(env.NetdiagDir)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

var Config AppConfig

func collectConfig(cfg *AppConfig) *AppConfig {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8091"
	}
	if cfg.Diagnose.Target == "" {
		cfg.Diagnose.Target = "www.google.com"
	}
	if len(cfg.Diagnose.Resolvers) == 0 {
		cfg.Diagnose.Resolvers = []string{"8.8.8.8:53", "1.1.1.1:53"}
	}
	if len(cfg.Diagnose.CandidatePorts) == 0 {
		cfg.Diagnose.CandidatePorts = []int{7890, 7891, 7897, 1080, 1087, 9090, 2080}
	}
	if len(cfg.Diagnose.SentinelCIDRs) == 0 {
		cfg.Diagnose.SentinelCIDRs = []string{"198.18.0.0/15", "28.0.0.0/8"}
	}
	if len(cfg.Diagnose.AmbiguousCIDRs) == 0 {
		cfg.Diagnose.AmbiguousCIDRs = []string{"10.0.0.0/8", "100.64.0.0/10"}
	}
	if cfg.Diagnose.ProbeTimeoutMs <= 0 {
		cfg.Diagnose.ProbeTimeoutMs = 3000
	}
	if cfg.Diagnose.SessionTimeoutMs <= 0 {
		cfg.Diagnose.SessionTimeoutMs = 10000
	}
	if cfg.Diagnose.FastLatencyMs <= 0 {
		cfg.Diagnose.FastLatencyMs = 5
	}
	if cfg.Diagnose.LatencySamples <= 0 {
		cfg.Diagnose.LatencySamples = 3
	}
	return cfg
}

/**
 * Reload configuration from disk
 * @returns {error} Returns error if reloading fails, nil on success
 */
func ReloadConfig() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	Config = *cfg
	collectConfig(&Config)
	return nil
}

func init() {
	cfg, err := LoadConfig()
	if err == nil {
		Config = *cfg
	}
	collectConfig(&Config)
}
