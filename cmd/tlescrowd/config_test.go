package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	conf, err := loadConfig(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, configuration{
		Listen:   ":8080",
		Genesis:  "genesis.json",
		LogLevel: "info",
	}, conf)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir, err := ioutil.TempDir("", "tlescrowd")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "tlescrowd.yaml")
	content := "listen: \":9000\"\ngenesis: /tmp/gen.json\nlog_level: debug\n"
	require.NoError(t, ioutil.WriteFile(file, []byte(content), 0600))

	os.Setenv("TLESCROW_DEBUG", "true")
	defer os.Unsetenv("TLESCROW_DEBUG")

	conf, err := loadConfig(viper.New(), file)
	require.NoError(t, err)
	assert.Equal(t, configuration{
		Listen:   ":9000",
		Genesis:  "/tmp/gen.json",
		LogLevel: "debug",
		Debug:    true,
	}, conf)
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := newLogger("loud")
	assert.Error(t, err)
}
