package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Error reports a bad or missing configuration value. It is always
// raised before any network or filesystem I/O happens.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

type Config struct {
	RPC      RPCConfig      `yaml:"rpc"`
	Storage  StorageConfig  `yaml:"storage"`
	KeepList []string       `yaml:"keep_list"`
	Discover DiscoverConfig `yaml:"discover"`
}

// RPCConfig addresses a device's JSON-RPC endpoint. Kodi serves the same
// API over HTTP (port 8080) and WebSocket (port 9090); transport picks one.
type RPCConfig struct {
	Port      int           `yaml:"port"`
	WSPort    int           `yaml:"ws_port"`
	Username  string        `yaml:"username"`
	Password  string        `yaml:"password"`
	Transport string        `yaml:"transport"`
	Timeout   time.Duration `yaml:"timeout"`
}

type StorageConfig struct {
	Mode  string      `yaml:"mode"`
	SMB   SMBConfig   `yaml:"smb"`
	Mount MountConfig `yaml:"mount"`
}

type SMBConfig struct {
	Workgroup   string        `yaml:"workgroup"`
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// MountConfig maps share paths onto a local mount point by literal
// prefix substitution.
type MountConfig struct {
	RemotePrefix string `yaml:"remote_prefix"`
	LocalPrefix  string `yaml:"local_prefix"`
}

type DiscoverConfig struct {
	Networks     []string      `yaml:"networks"`
	Port         int           `yaml:"port"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
	PingTimeout  time.Duration `yaml:"ping_timeout"`
	QueryTimeout time.Duration `yaml:"query_timeout"`
	Workers      int           `yaml:"workers"`
}

// Default returns the built-in configuration: a stock Kodi endpoint, SMB
// guest access and the two home /24 ranges discovery scans when no range
// is given.
func Default() *Config {
	return &Config{
		RPC: RPCConfig{
			Port:      8080,
			WSPort:    9090,
			Username:  "kodi",
			Password:  "",
			Transport: "http",
			Timeout:   30 * time.Second,
		},
		Storage: StorageConfig{
			Mode: "smb",
			SMB: SMBConfig{
				Workgroup:   "WORKGROUP",
				Username:    "guest",
				DialTimeout: 10 * time.Second,
			},
		},
		Discover: DiscoverConfig{
			Networks:     []string{"192.168.0.0/24", "192.168.1.0/24"},
			Port:         8080,
			ProbeTimeout: 500 * time.Millisecond,
			PingTimeout:  2 * time.Second,
			QueryTimeout: 3 * time.Second,
			Workers:      100,
		},
	}
}

// DefaultPath is where Load looks for the config file when no --config
// flag is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "kodisweep", "config.yaml")
}

// Load builds the configuration from defaults, an optional YAML file and
// KODISWEEP_* environment overrides, then validates it. A missing file is
// fine; an unreadable or malformed one is not.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// no file, defaults apply
		case err != nil:
			return nil, &Error{Field: "file", Reason: err.Error()}
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, &Error{Field: "file", Reason: fmt.Sprintf("parsing %s: %v", path, err)}
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.RPC.Port = envInt("KODISWEEP_RPC_PORT", c.RPC.Port)
	c.RPC.WSPort = envInt("KODISWEEP_RPC_WS_PORT", c.RPC.WSPort)
	c.RPC.Username = env("KODISWEEP_RPC_USERNAME", c.RPC.Username)
	c.RPC.Password = env("KODISWEEP_RPC_PASSWORD", c.RPC.Password)
	c.RPC.Transport = env("KODISWEEP_RPC_TRANSPORT", c.RPC.Transport)
	c.RPC.Timeout = envDuration("KODISWEEP_RPC_TIMEOUT", c.RPC.Timeout)

	c.Storage.Mode = env("KODISWEEP_STORAGE_MODE", c.Storage.Mode)
	c.Storage.SMB.Workgroup = env("KODISWEEP_SMB_WORKGROUP", c.Storage.SMB.Workgroup)
	c.Storage.SMB.Username = env("KODISWEEP_SMB_USERNAME", c.Storage.SMB.Username)
	c.Storage.SMB.Password = env("KODISWEEP_SMB_PASSWORD", c.Storage.SMB.Password)
	c.Storage.SMB.DialTimeout = envDuration("KODISWEEP_SMB_DIAL_TIMEOUT", c.Storage.SMB.DialTimeout)
	c.Storage.Mount.RemotePrefix = env("KODISWEEP_MOUNT_REMOTE_PREFIX", c.Storage.Mount.RemotePrefix)
	c.Storage.Mount.LocalPrefix = env("KODISWEEP_MOUNT_LOCAL_PREFIX", c.Storage.Mount.LocalPrefix)

	c.KeepList = envList("KODISWEEP_KEEP_LIST", c.KeepList)

	c.Discover.Networks = envList("KODISWEEP_NETWORKS", c.Discover.Networks)
	c.Discover.Port = envInt("KODISWEEP_DISCOVER_PORT", c.Discover.Port)
	c.Discover.ProbeTimeout = envDuration("KODISWEEP_PROBE_TIMEOUT", c.Discover.ProbeTimeout)
	c.Discover.Workers = envInt("KODISWEEP_WORKERS", c.Discover.Workers)
}

// Validate checks the whole configuration up front so every bad value is
// caught before any file or socket is touched.
func (c *Config) Validate() error {
	if c.RPC.Port < 1 || c.RPC.Port > 65535 {
		return &Error{Field: "rpc.port", Reason: fmt.Sprintf("port %d out of range", c.RPC.Port)}
	}
	if c.RPC.WSPort < 1 || c.RPC.WSPort > 65535 {
		return &Error{Field: "rpc.ws_port", Reason: fmt.Sprintf("port %d out of range", c.RPC.WSPort)}
	}
	if c.RPC.Transport != "http" && c.RPC.Transport != "ws" {
		return &Error{Field: "rpc.transport", Reason: fmt.Sprintf("unknown transport %q (want http or ws)", c.RPC.Transport)}
	}
	if c.RPC.Timeout <= 0 {
		return &Error{Field: "rpc.timeout", Reason: "must be positive"}
	}

	switch c.Storage.Mode {
	case "smb":
		if c.Storage.SMB.Username == "" {
			return &Error{Field: "storage.smb.username", Reason: "required in smb mode"}
		}
		if c.Storage.SMB.DialTimeout <= 0 {
			return &Error{Field: "storage.smb.dial_timeout", Reason: "must be positive"}
		}
	case "mount":
		if c.Storage.Mount.RemotePrefix == "" {
			return &Error{Field: "storage.mount.remote_prefix", Reason: "required in mount mode"}
		}
		if c.Storage.Mount.LocalPrefix == "" {
			return &Error{Field: "storage.mount.local_prefix", Reason: "required in mount mode"}
		}
	default:
		return &Error{Field: "storage.mode", Reason: fmt.Sprintf("unknown mode %q (want smb or mount)", c.Storage.Mode)}
	}

	if c.Discover.Port < 1 || c.Discover.Port > 65535 {
		return &Error{Field: "discover.port", Reason: fmt.Sprintf("port %d out of range", c.Discover.Port)}
	}
	if c.Discover.ProbeTimeout <= 0 || c.Discover.PingTimeout <= 0 || c.Discover.QueryTimeout <= 0 {
		return &Error{Field: "discover", Reason: "timeouts must be positive"}
	}
	if c.Discover.Workers < 1 {
		return &Error{Field: "discover.workers", Reason: "need at least one worker"}
	}
	return nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
