package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// defaultBatchSize is the number of rows per extraction batch when the
// config does not say otherwise.
const defaultBatchSize = 10000

// Config holds the full TOML-driven migration configuration.
type Config struct {
	Source          SourceConfig          `toml:"source"`
	Target          TargetConfig          `toml:"target"`
	BatchSize       int                   `toml:"batch_size"`
	ConversionRules ConversionRulesConfig `toml:"conversion_rules"`
	DataMapping     DataMappingConfig     `toml:"data_mapping"`
	Logging         LoggingConfig         `toml:"logging"`

	// configDir is the directory containing the TOML file, used to
	// resolve relative paths.
	configDir string
}

// SourceConfig identifies the source engine and how to reach it.
type SourceConfig struct {
	Type     string `toml:"type"` // "sqlserver", "mysql", or "sqlite"
	Server   string `toml:"server"`
	Port     int    `toml:"port"`
	Database string `toml:"database"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Encrypt  string `toml:"encrypt"` // sqlserver only
	DSN      string `toml:"dsn"`     // mysql/sqlite alternative to the field form
}

// TargetConfig identifies the PostgreSQL target.
type TargetConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Database string `toml:"database"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	SSLMode  string `toml:"sslmode"`
}

// ConversionRulesConfig merges user mappings over the dialect tables.
type ConversionRulesConfig struct {
	TypeOverrides    map[string]string `toml:"type_overrides"`
	DefaultOverrides map[string]string `toml:"default_overrides"`
}

// DataMappingConfig controls value normalization during data migration.
type DataMappingConfig struct {
	StripNullBytes  bool `toml:"strip_null_bytes"`
	ZeroDatesAsNull bool `toml:"zero_dates_as_null"`
}

// LoggingConfig controls console verbosity and the audit trail location.
type LoggingConfig struct {
	Verbose   bool   `toml:"verbose"`
	AuditPath string `toml:"audit_path"`
}

// loadConfig reads a TOML config file and returns a Config with
// defaults applied and all required fields validated.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Config{
		BatchSize:   defaultBatchSize,
		DataMapping: DataMappingConfig{StripNullBytes: true, ZeroDatesAsNull: true},
		Logging:     LoggingConfig{AuditPath: "migration_audit.jsonl"},
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if unknown := md.Undecoded(); len(unknown) > 0 {
		keys := make([]string, len(unknown))
		for i, k := range unknown {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg.configDir = filepath.Dir(absPath)

	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch_size must be greater than zero")
	}

	if err := cfg.validateSource(); err != nil {
		return nil, err
	}
	if err := cfg.validateTarget(); err != nil {
		return nil, err
	}

	cfg.Logging.AuditPath = cfg.resolvePath(cfg.Logging.AuditPath)
	return &cfg, nil
}

func (c *Config) validateSource() error {
	switch c.Source.Type {
	case "sqlserver":
		if c.Source.Server == "" {
			return fmt.Errorf("source.server is required for sqlserver sources")
		}
		if c.Source.Database == "" {
			return fmt.Errorf("source.database is required for sqlserver sources")
		}
		if c.Source.Username == "" {
			return fmt.Errorf("source.username is required for sqlserver sources")
		}
		if c.Source.Port == 0 {
			c.Source.Port = 1433
		}
		switch c.Source.Encrypt {
		case "", "disable", "false", "true", "strict":
		default:
			return fmt.Errorf("source.encrypt must be one of: disable, false, true, strict")
		}
	case "mysql":
		if c.Source.DSN == "" {
			if c.Source.Server == "" || c.Source.Database == "" || c.Source.Username == "" {
				return fmt.Errorf("mysql sources need source.dsn or source.server/database/username")
			}
			if c.Source.Port == 0 {
				c.Source.Port = 3306
			}
		}
	case "sqlite":
		if c.Source.DSN == "" && c.Source.Database == "" {
			return fmt.Errorf("sqlite sources need source.dsn or source.database (file path)")
		}
		if c.Source.DSN == "" && !strings.HasPrefix(c.Source.Database, "file:") {
			c.Source.Database = c.resolvePath(c.Source.Database)
		}
	case "":
		return fmt.Errorf("source.type is required (must be sqlserver, mysql, or sqlite)")
	default:
		return fmt.Errorf("source.type must be one of: sqlserver, mysql, sqlite")
	}
	return nil
}

func (c *Config) validateTarget() error {
	if c.Target.Host == "" {
		return fmt.Errorf("target.host is required")
	}
	if c.Target.Database == "" {
		return fmt.Errorf("target.database is required")
	}
	if c.Target.Username == "" {
		return fmt.Errorf("target.username is required")
	}
	if c.Target.Port == 0 {
		c.Target.Port = 5432
	}
	switch c.Target.SSLMode {
	case "", "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
	default:
		return fmt.Errorf("target.sslmode must be a libpq sslmode value")
	}
	return nil
}

// resolvePath resolves a path relative to the config file directory.
func (c *Config) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.configDir, p)
}
