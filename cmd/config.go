package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/xiam/to"
	"gopkg.in/yaml.v2"

	"github.com/moira-alert/mutguard/metrics"
	"github.com/moira-alert/mutguard/policy/redis"
	"github.com/moira-alert/mutguard/policy/remote"
	"github.com/moira-alert/mutguard/policy/schedule"
)

// RedisConfig is a redis config structure that initialises at the start of mutguard
// Redis configuration depends on fields specified in redis config section:
// 1. Use fields MasterName and Addrs to enable Redis Sentinel support
// 2. Specify two or more comma-separated Addrs to enable cluster support
// 3. Otherwise, standalone configuration is enabled
type RedisConfig struct {
	// Redis Sentinel master name
	MasterName string `yaml:"master_name"`
	// Redis address list, format: {host1_name:port},{ip:port}
	Addrs string `yaml:"addrs"`
	// Redis username
	Username string `yaml:"username"`
	// Redis password
	Password string `yaml:"password"`
	// Dial connection timeout. Default is 500ms.
	DialTimeout string `yaml:"dial_timeout"`
	// Read-operation timeout. Default is 3000ms.
	ReadTimeout string `yaml:"read_timeout"`
	// Write-operation timeout. Default is ReadTimeout seconds.
	WriteTimeout string `yaml:"write_timeout"`
	// MaxRetries count of retries.
	MaxRetries int `yaml:"max_retries"`
	// Key holding mutations block state. Default is mutguard:block-mutations.
	Key string `yaml:"key"`
	// State read from redis is kept in memory for this time. Empty means every request reads redis.
	CacheTTL string `yaml:"cache_ttl"`
}

// GetSettings returns redis policy source config parsed from mutguard config files
func (config *RedisConfig) GetSettings() redis.Config {
	return redis.Config{
		MasterName:   config.MasterName,
		Addrs:        strings.Split(config.Addrs, ","),
		Username:     config.Username,
		Password:     config.Password,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  to.Duration(config.DialTimeout),
		ReadTimeout:  to.Duration(config.ReadTimeout),
		WriteTimeout: to.Duration(config.WriteTimeout),
		Key:          config.Key,
		CacheTTL:     to.Duration(config.CacheTTL),
	}
}

// RemoteConfig is remote policy endpoint settings structure
type RemoteConfig struct {
	// Endpoint url answering {"block_mutations": true|false}
	URL string `yaml:"url"`
	// Timeout for one remote request
	Timeout string `yaml:"timeout"`
	// Username for basic auth
	User string `yaml:"user"`
	// Password for basic auth
	Password string `yaml:"password"`
	// Count of retries after network errors and 5xx responses
	MaxRetries uint64 `yaml:"max_retries"`
	// First delay between retries, grows exponentially up to retry_max_interval
	RetryInitialInterval string `yaml:"retry_initial_interval"`
	RetryMaxInterval     string `yaml:"retry_max_interval"`
}

// GetSettings returns remote policy source config parsed from mutguard config files
func (config *RemoteConfig) GetSettings() remote.Config {
	return remote.Config{
		URL:                  config.URL,
		Timeout:              to.Duration(config.Timeout),
		User:                 config.User,
		Password:             config.Password,
		MaxRetries:           config.MaxRetries,
		RetryInitialInterval: to.Duration(config.RetryInitialInterval),
		RetryMaxInterval:     to.Duration(config.RetryMaxInterval),
	}
}

// ScheduleConfig is maintenance windows settings structure
type ScheduleConfig struct {
	// Daily windows in HH:MM-HH:MM format, window may wrap midnight
	Windows []string `yaml:"windows"`
	// IANA time zone of windows, UTC if empty
	Location string `yaml:"location"`
}

// GetSettings returns schedule policy source config parsed from mutguard config files
func (config *ScheduleConfig) GetSettings() schedule.Config {
	return schedule.Config{
		Windows:  config.Windows,
		Location: config.Location,
	}
}

// GraphiteConfig is graphite metrics config structure that initialises at the start of mutguard
type GraphiteConfig struct {
	// If true, graphite sender will be enabled.
	Enabled bool `yaml:"enabled"`
	// If true, runtime stats will be captured and sent to graphite. Note: It takes to call stoptheworld() with configured "graphite.interval" to capture runtime stats (https://golang.org/src/runtime/mstats.go)
	RuntimeStats bool `yaml:"runtime_stats"`
	// Graphite relay URI, format: ip:port
	URI string `yaml:"uri"`
	// Mutguard metrics prefix. Use 'prefix: {hostname}' to use hostname autoresolver.
	Prefix string `yaml:"prefix"`
	// Metrics sending interval
	Interval string `yaml:"interval"`
}

// GetSettings returns graphite metrics config parsed from mutguard config files
func (graphiteConfig *GraphiteConfig) GetSettings() metrics.GraphiteRegistryConfig {
	return metrics.GraphiteRegistryConfig{
		Enabled:      graphiteConfig.Enabled,
		RuntimeStats: graphiteConfig.RuntimeStats,
		URI:          graphiteConfig.URI,
		Prefix:       graphiteConfig.Prefix,
		Interval:     to.Duration(graphiteConfig.Interval),
	}
}

// PrometheusConfig is prometheus exposition settings
type PrometheusConfig struct {
	Enabled     bool   `yaml:"enabled"`
	MetricsPath string `yaml:"metrics_path"`
}

// LoggerConfig is logger settings structure that initialises at the start of mutguard
type LoggerConfig struct {
	LogFile         string `yaml:"log_file"`
	LogLevel        string `yaml:"log_level"`
	LogPrettyFormat bool   `yaml:"log_pretty_format"`
}

// TelemetryConfig is settings for listener, pprof, graphite and prometheus
type TelemetryConfig struct {
	Listen     string           `yaml:"listen"`
	Pprof      ProfilerConfig   `yaml:"pprof"`
	Graphite   GraphiteConfig   `yaml:"graphite"`
	Prometheus PrometheusConfig `yaml:"prometheus"`
}

// ProfilerConfig is pprof settings structure that initialises at the start of mutguard
type ProfilerConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ReadConfig parses config file by the given path into mutguard-used type
func ReadConfig(configFileName string, config interface{}) error {
	configYaml, err := os.ReadFile(configFileName)
	if err != nil {
		return fmt.Errorf("can't read file [%s] [%s]", configFileName, err.Error())
	}
	err = yaml.Unmarshal(configYaml, config)
	if err != nil {
		return fmt.Errorf("can't parse config file [%s] [%s]", configFileName, err.Error())
	}
	return nil
}

// PrintConfig prints config to stdout
func PrintConfig(config interface{}) {
	d, _ := yaml.Marshal(&config)
	fmt.Println(string(d))
}
