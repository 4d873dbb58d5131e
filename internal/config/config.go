// Package config carga la configuración desde variables de entorno, con
// defaults, y la valida al arrancar.
package config

import (
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Catalog CatalogConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port acepta también PORT (compat con el deploy anterior).
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"5s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"10s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`
}

type StoreConfig struct {
	// Driver: memory, postgres, sqlite, redis.
	Driver string `env:"STORE_DRIVER" default:"memory"`

	// DSN para postgres (DB_DSN como en el router viejo) o path para sqlite.
	DSN string `env:"DATABASE_URL" envAlt:"DB_DSN"`

	RedisAddr   string `env:"REDIS_ADDR" default:"localhost:6379"`
	RedisPrefix string `env:"REDIS_PREFIX" default:"catalog:"`

	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

type CatalogConfig struct {
	PageSize      int `env:"CATALOG_PAGE_SIZE" default:"12"`
	FeaturedCount int `env:"CATALOG_FEATURED_COUNT" default:"5"`
	MaxSample     int `env:"CATALOG_MAX_SAMPLE" default:"50"`
}

type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" default:"info"`
	Format string `env:"LOG_FORMAT" default:"text"`
	App    string `env:"APP_NAME" default:"pet-adoption-catalog"`
}

func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
