package main

import (
	"strings"

	"github.com/iov-one/tlescrow/errors"
	"github.com/spf13/viper"
)

// configuration of the daemon. Every value can be set in the config file or
// through a TLESCROW_ prefixed environment variable.
type configuration struct {
	Listen   string `mapstructure:"listen"`
	Genesis  string `mapstructure:"genesis"`
	LogLevel string `mapstructure:"log_level"`
	Debug    bool   `mapstructure:"debug"`
}

func loadConfig(v *viper.Viper, file string) (configuration, error) {
	v.SetDefault("listen", ":8080")
	v.SetDefault("genesis", "genesis.json")
	v.SetDefault("log_level", "info")
	v.SetDefault("debug", false)

	v.SetEnvPrefix("TLESCROW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var conf configuration
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return conf, errors.Wrapf(errors.ErrInvalidInput, "read config %q: %s", file, err)
		}
	}
	if err := v.Unmarshal(&conf); err != nil {
		return conf, errors.Wrapf(errors.ErrInvalidInput, "decode config: %s", err)
	}
	if conf.Listen == "" {
		return conf, errors.Wrap(errors.ErrInvalidInput, "listen address required")
	}
	return conf, nil
}
