// Package config loads the service configuration from a yaml file.
package config

import (
	"os"
	"sync"

	"github.com/ErenKizilay/parroton/internal/logger"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Client   ClientConfig   `yaml:"client"`
	Log      logger.Config  `yaml:"log"`
}

// AppConfig identifies the running application.
type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"` // dev, test, prod
}

// ServerConfig controls the fiber listener.
type ServerConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout"`  // seconds
	WriteTimeout int    `yaml:"write_timeout"` // seconds
	BodyLimit    int    `yaml:"body_limit"`    // bytes, bounds HAR upload size
}

// DatabaseConfig controls the gorm connection.
type DatabaseConfig struct {
	Driver          string `yaml:"driver"` // mysql
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	Database        string `yaml:"database"`
	Charset         string `yaml:"charset"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
}

// ClientConfig controls the outbound replay HTTP client.
type ClientConfig struct {
	RequestTimeout  int  `yaml:"request_timeout"` // seconds
	ConnectTimeout  int  `yaml:"connect_timeout"` // seconds
	FollowRedirects bool `yaml:"follow_redirects"`
	SkipTLSVerify   bool `yaml:"skip_tls_verify"`
}

var (
	globalConfig *Config
	once         sync.Once
)

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	once.Do(func() {
		globalConfig = &cfg
	})

	return &cfg, nil
}

// Get returns the global configuration.
func Get() *Config {
	return globalConfig
}

// Set replaces the global configuration, used by tests.
func Set(cfg *Config) {
	globalConfig = cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.BodyLimit == 0 {
		c.Server.BodyLimit = 64 << 20
	}
	if c.Client.RequestTimeout == 0 {
		c.Client.RequestTimeout = 30
	}
	if c.Client.ConnectTimeout == 0 {
		c.Client.ConnectTimeout = 10
	}
}
