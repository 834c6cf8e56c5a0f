// Package config contains the hub configuration definitions.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/hubsync/go-hub/api/client"
	"github.com/hubsync/go-hub/api/grpcserver"
	"github.com/hubsync/go-hub/syncengine"
)

const (
	defaultConfigFileName = "./config.toml"
	defaultDataDirName    = "hub"
)

// Config defines the top level configuration of a hub.
type Config struct {
	BaseConfig `mapstructure:"main"`
	Sync       syncengine.Config `mapstructure:"sync"`
	Client     client.Config     `mapstructure:"client"`
	API        grpcserver.Config `mapstructure:"api"`
	Logging    LoggerConfig      `mapstructure:"logging"`
	// Peers is the static address book of remote hubs.
	Peers PeerAddresses `mapstructure:"peers"`
}

// BaseConfig defines the process wide options.
type BaseConfig struct {
	DataDir    string `mapstructure:"data-folder"`
	ConfigFile string `mapstructure:"config"`
	Nickname   string `mapstructure:"nickname"`

	CollectMetrics    bool          `mapstructure:"metrics"`
	MetricsListener   string        `mapstructure:"metrics-listener"`
	MetricsPush       string        `mapstructure:"metrics-push"`
	MetricsPushPeriod time.Duration `mapstructure:"metrics-push-period"`

	// MessageCacheSize is the number of decoded messages kept in memory.
	MessageCacheSize int `mapstructure:"message-cache-size"`
	// RebuildTrie discards the persisted trie and rebuilds it from stored messages.
	RebuildTrie bool `mapstructure:"rebuild-trie"`
}

// DefaultConfig returns the default configuration of a hub.
func DefaultConfig() Config {
	return Config{
		BaseConfig: defaultBaseConfig(),
		Sync:       syncengine.DefaultConfig(),
		Client:     client.DefaultConfig(),
		API:        grpcserver.DefaultConfig(),
		Logging:    defaultLoggingConfig(),
		Peers:      PeerAddresses{},
	}
}

func defaultBaseConfig() BaseConfig {
	return BaseConfig{
		DataDir:           filepath.Join(".", defaultDataDirName),
		ConfigFile:        defaultConfigFileName,
		MetricsListener:   "127.0.0.1:2284",
		MetricsPushPeriod: time.Minute,
		MessageCacheSize:  10_000,
	}
}

// LoadConfig reads the config file into vip. A missing default config file is not an error.
func LoadConfig(fs afero.Fs, fileLocation string, vip *viper.Viper) error {
	vip.SetFs(fs)
	if fileLocation == "" {
		fileLocation = defaultConfigFileName
	}
	vip.SetConfigFile(fileLocation)
	if err := vip.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		exists, _ := afero.Exists(fs, fileLocation)
		if fileLocation == defaultConfigFileName && (errors.As(err, &notFound) || !exists) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", fileLocation, err)
	}
	return nil
}

// DecodeHook converts the textual values of files, flags and env to config types.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		PeerAddressesDecodeFunc(),
	)
}

// Unmarshal decodes vip over the defaults.
func Unmarshal(vip *viper.Viper) (*Config, error) {
	conf := DefaultConfig()
	if err := vip.Unmarshal(&conf, viper.DecodeHook(DecodeHook())); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &conf, nil
}
