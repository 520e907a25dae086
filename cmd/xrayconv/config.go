package main

import (
	"os"

	"github.com/xoplog/xray-go/xraycause"

	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is read from the --config file. Command line flags override it.
type Config struct {
	IndexedAttributes  []string `yaml:"indexed_attributes"`
	IndexAllAttributes bool     `yaml:"index_all_attributes"`
	DefaultLanguage    string   `yaml:"default_language"`
	Daemon             bool     `yaml:"daemon"`
	Verbose            bool     `yaml:"verbose"`
}

var defaultConfig = Config{
	DefaultLanguage: xraycause.DefaultLanguage,
}

func Default() *Config {
	return deepcopy.Copy(&defaultConfig).(*Config)
}

// LoadConfig reads path over the defaults. An empty path returns the
// defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = defaultConfig.DefaultLanguage
	}
	if _, ok := xraycause.DialectFor(cfg.DefaultLanguage); !ok {
		return nil, errors.Errorf("config %s: no stack trace parser for default_language %q", path, cfg.DefaultLanguage)
	}
	return cfg, nil
}
