package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/wheelhouse-labs/wheelhouse/internal/branding"
	"github.com/wheelhouse-labs/wheelhouse/internal/index"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys.
const (
	KeyIndexURL         = "index_url"
	KeyIndexTimeout     = "index_timeout"
	KeyOnlineAccess     = "online_access"
	KeyDownloader       = "downloader"
	KeyReloadCommand    = "reload_command"
	KeyReloadDelay      = "reload_delay"
	KeyCleanupOnFailure = "cleanup_on_failure"
	KeyLogLevel         = "log_level"
	KeyLogDev           = "log_dev"
)

// Defaults applied before the config file and environment are read.
const (
	DefaultIndexURL     = index.DefaultBaseURL
	DefaultIndexTimeout = index.DefaultTimeout
	DefaultDownloader   = "pip download"
	DefaultReloadDelay  = 2 * time.Second
)

// Settings is the typed view of the configuration used to wire components.
type Settings struct {
	IndexURL         string
	IndexTimeout     time.Duration
	OnlineAccess     bool
	Downloader       []string
	ReloadCommand    []string
	ReloadDelay      time.Duration
	CleanupOnFailure bool
	LogLevel         string
	LogDev           bool
}

// Dir returns the path to the config directory (~/.wheelhouse/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.wheelhouse/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	setDefaults()
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

func setDefaults() {
	viper.SetDefault(KeyIndexURL, DefaultIndexURL)
	viper.SetDefault(KeyIndexTimeout, DefaultIndexTimeout)
	viper.SetDefault(KeyOnlineAccess, true)
	viper.SetDefault(KeyDownloader, DefaultDownloader)
	viper.SetDefault(KeyReloadCommand, "")
	viper.SetDefault(KeyReloadDelay, DefaultReloadDelay)
	viper.SetDefault(KeyCleanupOnFailure, false)
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyLogDev, false)
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Current returns the typed settings. Call Load first.
func Current() Settings {
	return Settings{
		IndexURL:         strings.TrimRight(viper.GetString(KeyIndexURL), "/"),
		IndexTimeout:     viper.GetDuration(KeyIndexTimeout),
		OnlineAccess:     viper.GetBool(KeyOnlineAccess),
		Downloader:       strings.Fields(viper.GetString(KeyDownloader)),
		ReloadCommand:    strings.Fields(viper.GetString(KeyReloadCommand)),
		ReloadDelay:      viper.GetDuration(KeyReloadDelay),
		CleanupOnFailure: viper.GetBool(KeyCleanupOnFailure),
		LogLevel:         viper.GetString(KeyLogLevel),
		LogDev:           viper.GetBool(KeyLogDev),
	}
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
