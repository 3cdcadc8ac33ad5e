package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/stuxhq/stux/pkg/model"
)

// Config is the resolved runtime configuration
type Config struct {
	DefaultRegion string        `mapstructure:"default_region"`
	Registry      string        `mapstructure:"registry"`
	FeedsDir      string        `mapstructure:"feeds_dir"`
	Watch         bool          `mapstructure:"watch"`
	Log           LogConfig     `mapstructure:"log"`
	Profile       model.Profile `mapstructure:"profile"`
}

// LogConfig controls the charmbracelet logger
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

const (
	configName = "stux"
	envPrefix  = "STUX"
)

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("default_region", "")
	v.SetDefault("registry", "")
	v.SetDefault("feeds_dir", "")
	v.SetDefault("watch", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("profile.username", "")
	v.SetDefault("profile.name", "")
	v.SetDefault("profile.role", "")
	v.SetDefault("profile.balance", 0)
	v.SetDefault("profile.bio", "")
	v.SetDefault("profile.region", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// configDirs lists where stux.yaml is looked up, in order
func configDirs() []string {
	dirs := []string{"."}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, configName))
	} else if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, configName))
	}
	return dirs
}

// loadConfig reads the config file (explicit path, or stux.yaml in the
// search path) into v and decodes the result. A missing search-path file is
// not an error; a missing explicit file is.
func loadConfig(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		for _, dir := range configDirs() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
