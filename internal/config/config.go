// Package config loads the YAML configuration document and resolves
// environment variable placeholders in it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/nhle/news-digest/internal/model"
)

// ErrNotFound indicates the configuration file does not exist. Startup
// treats this as fatal; everything else degrades gracefully.
var ErrNotFound = errors.New("configuration file not found")

// Load reads the YAML configuration at path, resolves ${VAR}
// placeholders from the process environment, and decodes it into the
// typed configuration.
func Load(path string) (*model.Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup LookupFunc) (*model.Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("checking config %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	resolved := Resolve(v.AllSettings(), lookup)

	var cfg model.Config
	if err := mapstructure.Decode(resolved, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return &cfg, nil
}
