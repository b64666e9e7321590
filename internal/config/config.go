package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ConfigDirName  = "sshportal"
	ConfigFileName = "config.json"
	DefaultPort    = 22

	filePerms = 0600
	dirPerms  = 0755
)

// Host holds the connection information for a configured remote endpoint.
type Host struct {
	Connection string `json:"connection" yaml:"connection"`
	Port       uint16 `json:"port" yaml:"port"`
	KeyPath    string `json:"key_path,omitempty" yaml:"key_path,omitempty"`
	// Password is age-encrypted at rest, see internal/crypto. Only the
	// native transfer path ever decrypts it.
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// EffectivePort maps an unspecified port to the SSH default.
func (h Host) EffectivePort() uint16 {
	if h.Port == 0 {
		return DefaultPort
	}
	return h.Port
}

// Addr returns the host part of the connection string joined with the
// effective port, in the form ssh.Dial expects.
func (h Host) Addr() string {
	hostPart := h.Connection
	if _, after, ok := strings.Cut(h.Connection, "@"); ok {
		hostPart = after
	}
	return fmt.Sprintf("%s:%d", hostPart, h.EffectivePort())
}

// User returns the user part of the connection string.
func (h Host) User() string {
	before, _, _ := strings.Cut(h.Connection, "@")
	return before
}

// FlatPath is the legacy path-alias shape: a single global table where
// each entry carries its own remote flag instead of a host binding.
// Kept readable and writable so old config files keep working.
type FlatPath struct {
	Path     string `json:"path" yaml:"path"`
	IsRemote bool   `json:"is_remote" yaml:"is_remote"`
}

// LocalPath is a named shortcut to a local filesystem location.
type LocalPath struct {
	Path string `json:"path" yaml:"path"`
}

// RemotePath is a named shortcut to a path on a specific host. The host
// binding is the key of the enclosing HostPaths table, not a field here.
type RemotePath struct {
	Path string `json:"path" yaml:"path"`
}

// Config is the full on-disk configuration. It doubles as the read-only
// alias store handed into the resolver: resolution never mutates it.
type Config struct {
	Hosts      map[string]Host                  `json:"hosts" yaml:"hosts"`
	LocalPaths map[string]LocalPath             `json:"local_paths" yaml:"local_paths"`
	HostPaths  map[string]map[string]RemotePath `json:"host_paths" yaml:"host_paths"`
	// Paths is the legacy flat table. Omitted from new files once empty.
	Paths map[string]FlatPath `json:"paths,omitempty" yaml:"paths,omitempty"`
}

func New() *Config {
	return &Config{
		Hosts:      make(map[string]Host),
		LocalPaths: make(map[string]LocalPath),
		HostPaths:  make(map[string]map[string]RemotePath),
	}
}

// Dir returns the configuration directory, ~/.config/sshportal by default.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", ConfigDirName), nil
}

// File returns the configuration file path. SSHPORTAL_CONFIG overrides the
// default location; a .env next to the config file is loaded first so the
// override can live there as well.
func File() (string, error) {
	dir, err := Dir()
	if err == nil {
		// Best effort, a missing .env is the normal case.
		_ = godotenv.Load(filepath.Join(dir, ".env"))
	}
	if override := os.Getenv("SSHPORTAL_CONFIG"); override != "" {
		return ExpandPath(override), nil
	}
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load reads the configuration from path. An empty path means the default
// location. A missing file is not an error: the directory is created and a
// fresh empty configuration is written and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = File()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := New()
			if err := cfg.Save(path); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.ensureMaps()
	return cfg, nil
}

// Save writes the configuration to path (default location when empty),
// creating the directory as needed. The file is user-readable only since
// it may carry encrypted credentials.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		path, err = File()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerms); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, filePerms); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) ensureMaps() {
	if c.Hosts == nil {
		c.Hosts = make(map[string]Host)
	}
	if c.LocalPaths == nil {
		c.LocalPaths = make(map[string]LocalPath)
	}
	if c.HostPaths == nil {
		c.HostPaths = make(map[string]map[string]RemotePath)
	}
}

// LookupHost returns the host registered under alias.
func (c *Config) LookupHost(alias string) (Host, bool) {
	h, ok := c.Hosts[alias]
	return h, ok
}

// PathEntry is the result of a path-alias lookup, normalized across the
// three alias tables.
type PathEntry struct {
	Path   string
	Remote bool
}

// LookupPath resolves a path alias. When hostScope is non-empty the
// host-scoped table for that host is consulted first and only entries
// usable as remote paths match; outside a host scope, local path aliases
// shadow the legacy flat table.
func (c *Config) LookupPath(alias, hostScope string) (PathEntry, bool) {
	if hostScope != "" {
		if scoped, ok := c.HostPaths[hostScope]; ok {
			if p, ok := scoped[alias]; ok {
				return PathEntry{Path: p.Path, Remote: true}, true
			}
		}
		if p, ok := c.Paths[alias]; ok && p.IsRemote {
			return PathEntry{Path: p.Path, Remote: true}, true
		}
		return PathEntry{}, false
	}

	if p, ok := c.LocalPaths[alias]; ok {
		return PathEntry{Path: p.Path, Remote: false}, true
	}
	if p, ok := c.Paths[alias]; ok {
		return PathEntry{Path: p.Path, Remote: p.IsRemote}, true
	}
	return PathEntry{}, false
}

// ExpandPath expands a leading ~ against the current user's home
// directory. Anything else passes through unchanged.
func ExpandPath(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
