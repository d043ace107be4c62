package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Storage StorageConfig `yaml:"storage" toml:"storage" json:"storage"`
	Server  ServerConfig  `yaml:"server" toml:"server" json:"server"`
	UI      UIConfig      `yaml:"ui" toml:"ui" json:"ui"`
}

type StorageConfig struct {
	// Driver is one of file, sqlite, memory.
	Driver  string `yaml:"driver" toml:"driver" json:"driver"`
	DataDir string `yaml:"data_dir" toml:"data_dir" json:"data_dir"`
	// Path defaults to <data_dir>/tasks.json or <data_dir>/tasks.db.
	Path string `yaml:"path" toml:"path" json:"path"`
	Key  string `yaml:"key" toml:"key" json:"key"`
}

type ServerConfig struct {
	Addr          string `yaml:"addr" toml:"addr" json:"addr"`
	UseDiskStatic bool   `yaml:"use_disk_static" toml:"use_disk_static" json:"use_disk_static"`
	StaticDir     string `yaml:"static_dir" toml:"static_dir" json:"static_dir"`
}

type UIConfig struct {
	NoticeTTL     string `yaml:"notice_ttl" toml:"notice_ttl" json:"notice_ttl"`
	DiscardOnBlur bool   `yaml:"discard_on_blur" toml:"discard_on_blur" json:"discard_on_blur"`
}

func (s *StorageConfig) ApplyDefaults() {
	if strings.TrimSpace(s.Driver) == "" {
		s.Driver = "file"
	}
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	if strings.TrimSpace(s.DataDir) == "" {
		s.DataDir = "data"
	}
	if strings.TrimSpace(s.Key) == "" {
		s.Key = "tasklist_tasks"
	}
	if strings.TrimSpace(s.Path) == "" {
		switch s.Driver {
		case "sqlite":
			s.Path = filepath.Join(s.DataDir, "tasks.db")
		default:
			s.Path = filepath.Join(s.DataDir, "tasks.json")
		}
	}
}

func (s *ServerConfig) ApplyDefaults() {
	if strings.TrimSpace(s.Addr) == "" {
		s.Addr = "127.0.0.1:42069"
	}
	if strings.TrimSpace(s.StaticDir) == "" {
		s.StaticDir = "static"
	}
}

func (u *UIConfig) ApplyDefaults() {
	if strings.TrimSpace(u.NoticeTTL) == "" {
		u.NoticeTTL = "3s"
	}
}

func (c *Config) ApplyDefaults() {
	c.Storage.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.UI.ApplyDefaults()
}

// NoticeTTLDuration parses UI.NoticeTTL. ApplyDefaults and Validate make
// sure it parses.
func (c *Config) NoticeTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.UI.NoticeTTL)
	if err != nil || d <= 0 {
		return 3 * time.Second
	}
	return d
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("storage.driver: unsupported value %q", c.Storage.Driver)
	}
	d, err := time.ParseDuration(c.UI.NoticeTTL)
	if err != nil {
		return fmt.Errorf("ui.notice_ttl: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("ui.notice_ttl: must be positive, got %s", d)
	}
	return nil
}

func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// Load reads a .yml/.yaml or .toml file. An empty path or a missing file
// yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	var c Config

	path = strings.TrimSpace(path)
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := decode(path, b, &c); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	applyEnv(&c)
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func decode(path string, b []byte, out *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(string(b), out)
		return err
	case ".yml", ".yaml", "":
		return yaml.Unmarshal(b, out)
	default:
		return fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}
