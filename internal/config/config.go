// Package config holds the structures and loader for the site gateway
// configuration.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the top-level configuration for the gateway.
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	RemoteAPI  `yaml:"remote_api"`
	Cache      `yaml:"cache"`
	RateLimit  `yaml:"rate_limit"`
}

// HTTPServer configures the gateway's own listener.
type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RemoteAPI configures the upstream marketplace API. BaseURL may be
// overridden for development; the default is the production origin.
type RemoteAPI struct {
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL" env-default:"https://acode.app"`
	Timeout time.Duration `yaml:"timeout" env-default:"15s"`
}

// Cache selects and configures the query-cache backend.
type Cache struct {
	Backend         string `yaml:"backend" env:"CACHE_BACKEND" env-default:"memory"`
	RedisConnection `yaml:"redis_connection"`
}

// RedisConnection configures the redis backend when Cache.Backend is "redis".
type RedisConnection struct {
	Addr        string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	User        string        `yaml:"user"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries"`
	DialTimeout time.Duration `yaml:"dial_timeout" env-default:"5s"`
	Timeout     time.Duration `yaml:"timeout" env-default:"3s"`
}

// RateLimit configures the per-instance request limiter.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"25"`
	Burst int     `yaml:"burst" env-default:"50"`
}

// MustLoad reads the config from the file named by CONFIG_PATH and
// terminates the process when it cannot.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"RemoteAPI:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"Cache:\n"+
			"  Backend: %s\n"+
			"  RedisAddr: %s\n"+
			"RateLimit:\n"+
			"  RPS: %.1f\n"+
			"  Burst: %d\n",
		c.Env,
		c.Address,
		c.HTTPServer.Timeout,
		c.IdleTimeout,
		c.BaseURL,
		c.RemoteAPI.Timeout,
		c.Backend,
		c.Addr,
		c.RPS,
		c.Burst,
	)
}
