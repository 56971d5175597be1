package config

import (
	"fmt"
	"net/url"
	"strings"
)

// DSN returns the driver-specific data source name for the configured database
func (cfg DatabaseFullConfig) DSN() string {
	switch cfg.Type {
	case "postgres":
		if cfg.URL != "" {
			return cfg.URL
		}
		return buildPostgresDSN(cfg)
	default:
		path := cfg.DatabasePath
		if cfg.URL != "" {
			path = strings.TrimPrefix(cfg.URL, "sqlite://")
		}
		return sqliteDSN(path)
	}
}

// sqliteDSN appends the foreign key pragma so reference invariants hold at the storage level too
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys") || strings.Contains(path, "_fk") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

// buildPostgresDSN builds a PostgreSQL connection URL from config
func buildPostgresDSN(cfg DatabaseFullConfig) string {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 5432
	}
	if cfg.Username == "" {
		cfg.Username = "moviegraph"
	}
	if cfg.Database == "" {
		cfg.Database = "moviegraph"
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Database,
		RawQuery: url.Values{"sslmode": []string{cfg.SSLMode}}.Encode(),
	}
	if cfg.Password != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	} else {
		u.User = url.User(cfg.Username)
	}
	return u.String()
}
