package config

import (
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load lee el entorno, aplica defaults y valida. Los problemas de lectura
// (requeridas ausentes, valores que no parsean) se reportan todos juntos,
// antes de Validate.
func Load() (*Config, error) {
	cfg := &Config{}

	var problems []string
	loadStruct(reflect.ValueOf(cfg).Elem(), &problems)
	if len(problems) > 0 {
		return nil, fmt.Errorf("config load:\n  - %s", strings.Join(problems, "\n  - "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// lookupEnv devuelve el valor de name, o de alt si name está vacío, y cuál
// de las dos variables lo aportó.
func lookupEnv(name, alt string) (value, from string) {
	if v := os.Getenv(name); v != "" {
		return v, name
	}
	if alt != "" {
		if v := os.Getenv(alt); v != "" {
			return v, alt
		}
	}
	return "", name
}

// loadStruct recorre v (y sus structs anidados) llenando los campos con tag env.
// No corta en el primer error: cada problema queda en problems.
func loadStruct(v reflect.Value, problems *[]string) {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			loadStruct(fieldVal, problems)
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		value, from := lookupEnv(envName, field.Tag.Get("envAlt"))
		if value == "" {
			if field.Tag.Get("required") == "true" {
				*problems = append(*problems, fmt.Sprintf("required environment variable %s is not set", envName))
				continue
			}
			value, from = field.Tag.Get("default"), "default"
		}
		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			*problems = append(*problems, fmt.Sprintf("invalid value for %s=%q (from %s): %v", envName, value, from, err))
		}
	}
}

// setField convierte value al tipo del campo (string, int, duration, bool).
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
			return nil
		}
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate junta todos los problemas en un solo error.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT and SERVER_WRITE_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	switch strings.ToLower(c.Store.Driver) {
	case "memory", "redis":
	case "postgres", "sqlite":
		if c.Store.DSN == "" {
			errs = append(errs, fmt.Sprintf("DATABASE_URL is required for STORE_DRIVER=%s", c.Store.Driver))
		}
	default:
		errs = append(errs, fmt.Sprintf("STORE_DRIVER (%q) must be one of: memory, postgres, sqlite, redis", c.Store.Driver))
	}
	if strings.EqualFold(c.Store.Driver, "redis") && c.Store.RedisAddr == "" {
		errs = append(errs, "REDIS_ADDR is required for STORE_DRIVER=redis")
	}
	if c.Store.MaxOpenConns <= 0 {
		errs = append(errs, "DB_MAX_OPEN_CONNS must be positive")
	}
	if c.Store.MaxIdleConns < 0 || c.Store.MaxIdleConns > c.Store.MaxOpenConns {
		errs = append(errs, fmt.Sprintf("DB_MAX_IDLE_CONNS (%d) must be 0-%d", c.Store.MaxIdleConns, c.Store.MaxOpenConns))
	}

	if c.Catalog.PageSize <= 0 {
		errs = append(errs, "CATALOG_PAGE_SIZE must be positive")
	}
	if c.Catalog.FeaturedCount <= 0 {
		errs = append(errs, "CATALOG_FEATURED_COUNT must be positive")
	}
	if c.Catalog.MaxSample <= 0 {
		errs = append(errs, "CATALOG_MAX_SAMPLE must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// String enmascara credenciales del DSN.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Server: {Addr: %q}, ", c.Server.Addr())
	fmt.Fprintf(&b, "Store: {Driver: %q, DSN: %q}, ", c.Store.Driver, maskDSN(c.Store.DSN))
	fmt.Fprintf(&b, "Catalog: {PageSize: %d, FeaturedCount: %d}, ", c.Catalog.PageSize, c.Catalog.FeaturedCount)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}

func maskDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		// paths de sqlite no llevan credenciales
		return dsn
	}
	if u.User != nil {
		u.User = url.User("[MASKED]")
	}
	return u.String()
}
