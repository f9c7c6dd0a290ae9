// Package config loads beecrypt settings from file, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"slices"

	"github.com/spf13/viper"

	"bee-crypto/pkg/appdir"
	"bee-crypto/pkg/engine"
	"bee-crypto/pkg/transform"
)

type Config struct {
	Cipher        string `mapstructure:"cipher"`
	Mode          string `mapstructure:"mode"`
	Compress      string `mapstructure:"compress"`
	KeyFile       string `mapstructure:"key_file"`
	Journal       string `mapstructure:"journal"` // sqlite path, empty disables the journal
	ListenAddress string `mapstructure:"listen_address"`
	LogLevel      string `mapstructure:"log_level"`
	Workers       int    `mapstructure:"workers"`
	LockMemory    bool   `mapstructure:"lock_memory"`
	ConfigFile    string `mapstructure:"config_file"`
}

func DefaultConfig() *Config {
	return &Config{
		Cipher:        engine.Blowfish,
		Mode:          engine.ModeCBC,
		Compress:      transform.CompressNone,
		ListenAddress: ":7780",
		LogLevel:      "info",
		Workers:       runtime.NumCPU(),
		ConfigFile:    "beecrypt",
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("cipher", cfg.Cipher)
	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("compress", cfg.Compress)
	v.SetDefault("key_file", cfg.KeyFile)
	v.SetDefault("journal", cfg.Journal)
	v.SetDefault("listen_address", cfg.ListenAddress)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("lock_memory", cfg.LockMemory)
	v.SetDefault("config_file", cfg.ConfigFile)
}

// Load reads beecrypt.yaml from the working directory, /etc/bee-crypto or
// $HOME/.bee-crypto, or from path when it is not empty. BEE_* environment
// variables override the file. A missing file in the search paths is not an
// error; a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(cfg.ConfigFile)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/bee-crypto/")
		if dir, err := appdir.Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}
	v.SetEnvPrefix("BEE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if used := v.ConfigFileUsed(); used != "" {
		cfg.ConfigFile = used
	}
	return cfg, nil
}

// Validate rejects unknown cipher, mode or compression names.
func (c *Config) Validate() error {
	if !slices.Contains(engine.Ciphers(), c.Cipher) {
		return fmt.Errorf("config: %w %q", engine.ErrUnknownCipher, c.Cipher)
	}
	if !slices.Contains(engine.Modes(), c.Mode) {
		return fmt.Errorf("config: %w %q", engine.ErrUnknownMode, c.Mode)
	}
	if c.Compress != "" && !slices.Contains(transform.Compressions(), c.Compress) {
		return fmt.Errorf("config: unknown compression %q", c.Compress)
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be positive, got %d", c.Workers)
	}
	return nil
}
