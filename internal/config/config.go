package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Pg               Pg            `yaml:"pg"`
	Redis            Redis         `yaml:"redis"`
	Port             int           `yaml:"port"`
	SessionTTL       time.Duration `yaml:"session_ttl"`
	SecureCookies    bool          `yaml:"secure_cookies"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
	DefaultMaxVotes  int           `yaml:"default_max_votes"` // per-participant vote quota if the creator does not set one
	MaxTimerSeconds  int           `yaml:"max_timer_seconds"` // upper bound for a single countdown
	BroadcastTimeout time.Duration `yaml:"broadcast_timeout"` // per-publish deadline towards redis
	LogLevel         string        `yaml:"log_level"`
	LogJSON          bool          `yaml:"log_json"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Redis struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

type Private struct {
	SessionKey string `yaml:"session_key"`
}

func (c *Config) SessionKey() string {
	return c.Private.SessionKey
}

func (c *Config) SessionTTL() time.Duration {
	return c.Public.SessionTTL
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Public.Port == 0 {
		c.Public.Port = 8080
	}
	if c.Public.SessionTTL == 0 {
		c.Public.SessionTTL = 24 * time.Hour
	}
	if c.Public.DefaultMaxVotes == 0 {
		c.Public.DefaultMaxVotes = 5
	}
	if c.Public.MaxTimerSeconds == 0 {
		c.Public.MaxTimerSeconds = 3600
	}
	if c.Public.BroadcastTimeout == 0 {
		c.Public.BroadcastTimeout = 2 * time.Second
	}
	if c.Public.LogLevel == "" {
		c.Public.LogLevel = "info"
	}
}
