package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const configFileName = ".stepview.toml"

type Config struct {
	APIURL           string
	Language         Language
	Timeout          time.Duration
	AutoplayInterval time.Duration
	SaveDirectory    string
	StartTab         ViewTab
}

// fileConfig is the on-disk shape of ~/.stepview.toml.
type fileConfig struct {
	APIURL           string `toml:"api_url"`
	Language         string `toml:"language"`
	Timeout          string `toml:"timeout"`
	AutoplayInterval string `toml:"autoplay_interval"`
	SaveDirectory    string `toml:"save_directory"`
	StartTab         string `toml:"start_tab"`
}

func defaultConfig() *Config {
	return &Config{
		APIURL:           defaultAPIURL,
		Language:         LangPython,
		Timeout:          defaultTimeout,
		AutoplayInterval: defaultAutoplayInterval,
		StartTab:         TabTimeline,
	}
}

func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, configFileName)
}

// loadConfig reads path over the defaults. A missing file is not an error
// unless the path was given explicitly.
func loadConfig(path string, explicit bool) (*Config, error) {
	config := defaultConfig()
	if path == "" {
		return config, nil
	}
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return config, nil
		}
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("api_url") {
		config.APIURL = strings.TrimRight(raw.APIURL, "/")
	}
	if meta.IsDefined("language") {
		lang, err := parseLanguage(raw.Language)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		config.Language = lang
	}
	if meta.IsDefined("timeout") {
		d, err := parsePositiveDuration(raw.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%s: timeout: %w", path, err)
		}
		config.Timeout = d
	}
	if meta.IsDefined("autoplay_interval") {
		d, err := parsePositiveDuration(raw.AutoplayInterval)
		if err != nil {
			return nil, fmt.Errorf("%s: autoplay_interval: %w", path, err)
		}
		config.AutoplayInterval = d
	}
	if meta.IsDefined("save_directory") {
		config.SaveDirectory = expandHome(raw.SaveDirectory)
	}
	if meta.IsDefined("start_tab") {
		tab, err := parseViewTab(raw.StartTab)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		config.StartTab = tab
	}
	return config, nil
}

func parsePositiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

// expandTilde replaces a leading ~ with the home directory. Relative names
// stay relative so GetSavePath can place them.
func expandTilde(value string) string {
	if !strings.HasPrefix(value, "~") {
		return value
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	return value
}

func expandHome(value string) string {
	if value == "" {
		return value
	}
	value = expandTilde(value)
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

// GetSavePath places filename in the save directory, if one is configured.
func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	if err := os.MkdirAll(c.SaveDirectory, 0o755); err != nil {
		return filename
	}
	return filepath.Join(c.SaveDirectory, filename)
}
