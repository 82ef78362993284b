package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.RPC.Port)
	assert.Equal(t, "kodi", cfg.RPC.Username)
	assert.Equal(t, []string{"192.168.0.0/24", "192.168.1.0/24"}, cfg.Discover.Networks)
	assert.Equal(t, 100, cfg.Discover.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.Discover.ProbeTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
rpc:
  port: 9090
  username: media
storage:
  mode: mount
  mount:
    remote_prefix: smb://nas/tv
    local_prefix: /mnt/tv
keep_list:
  - Deadwood
  - Rick and Morty
discover:
  workers: 25
  probe_timeout: 250ms
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.RPC.Port)
	assert.Equal(t, "media", cfg.RPC.Username)
	assert.Equal(t, "mount", cfg.Storage.Mode)
	assert.Equal(t, "smb://nas/tv", cfg.Storage.Mount.RemotePrefix)
	assert.Equal(t, []string{"Deadwood", "Rick and Morty"}, cfg.KeepList)
	assert.Equal(t, 25, cfg.Discover.Workers)
	assert.Equal(t, 250*time.Millisecond, cfg.Discover.ProbeTimeout)

	// untouched sections keep their defaults
	assert.Equal(t, "http", cfg.RPC.Transport)
	assert.Equal(t, 8080, cfg.Discover.Port)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rpc: [not a map"), 0o644))

	_, err := Load(path)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "file", cerr.Field)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KODISWEEP_RPC_PORT", "8081")
	t.Setenv("KODISWEEP_SMB_USERNAME", "sm")
	t.Setenv("KODISWEEP_KEEP_LIST", "Deadwood, The Wire")
	t.Setenv("KODISWEEP_PROBE_TIMEOUT", "1s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.RPC.Port)
	assert.Equal(t, "sm", cfg.Storage.SMB.Username)
	assert.Equal(t, []string{"Deadwood", "The Wire"}, cfg.KeepList)
	assert.Equal(t, time.Second, cfg.Discover.ProbeTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad rpc port", func(c *Config) { c.RPC.Port = 0 }, "rpc.port"},
		{"bad transport", func(c *Config) { c.RPC.Transport = "carrier-pigeon" }, "rpc.transport"},
		{"unknown storage mode", func(c *Config) { c.Storage.Mode = "ftp" }, "storage.mode"},
		{"smb without username", func(c *Config) { c.Storage.SMB.Username = "" }, "storage.smb.username"},
		{"mount without remote prefix", func(c *Config) {
			c.Storage.Mode = "mount"
			c.Storage.Mount.LocalPrefix = "/mnt/tv"
		}, "storage.mount.remote_prefix"},
		{"mount without local prefix", func(c *Config) {
			c.Storage.Mode = "mount"
			c.Storage.Mount.RemotePrefix = "smb://nas/tv"
		}, "storage.mount.local_prefix"},
		{"no workers", func(c *Config) { c.Discover.Workers = 0 }, "discover.workers"},
		{"zero probe timeout", func(c *Config) { c.Discover.ProbeTimeout = 0 }, "discover"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			var cerr *Error
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}
