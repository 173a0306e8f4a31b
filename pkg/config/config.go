package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"tableadmin/internal/ident"
)

const (
	DefaultPort      = 8080
	DefaultTimeout   = 10
	DefaultRowLimit  = 100
	DefaultKeyColumn = "id"
)

type DBConfig struct {
	Type         string `yaml:"type" json:"type"`
	Host         string `yaml:"host" json:"host"`
	Port         int    `yaml:"port" json:"port"`
	Username     string `yaml:"username" json:"username"`
	Password     string `yaml:"password" json:"password"`
	DatabaseName string `yaml:"database_name" json:"database_name"`
	DSN          string `yaml:"dsn" json:"dsn"`               // optional explicit DSN
	Schema       string `yaml:"schema" json:"schema"`         // catalog schema, dialect default when empty
	Timeout      int    `yaml:"timeout" json:"timeout"`       // connect timeout in seconds
	MaxOpenConns int    `yaml:"max_open_conns" json:"max_open_conns"`
}

type ServerConfig struct {
	Port     int    `yaml:"port" json:"port"`
	WebDir   string `yaml:"web_dir" json:"web_dir"`
	SeedFile string `yaml:"seed_file" json:"seed_file"`
}

type GatewayConfig struct {
	RowLimit      int    `yaml:"row_limit" json:"row_limit"`
	KeyColumn     string `yaml:"key_column" json:"key_column"`
	StrictColumns bool   `yaml:"strict_columns" json:"strict_columns"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type AppConfig struct {
	Database DBConfig      `yaml:"database" json:"database"`
	Server   ServerConfig  `yaml:"server" json:"server"`
	Gateway  GatewayConfig `yaml:"gateway" json:"gateway"`
	Log      LogConfig     `yaml:"log" json:"log"`
}

// LoadFile loads YAML config from path.
func LoadFile(path string) (AppConfig, error) {
	var cfg AppConfig
	f, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(f, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate fills in defaults and rejects settings the server cannot run with.
func (c *AppConfig) Validate() error {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Timeout <= 0 {
		c.Database.Timeout = DefaultTimeout
	}
	if c.Gateway.RowLimit <= 0 {
		c.Gateway.RowLimit = DefaultRowLimit
	}
	if c.Gateway.KeyColumn == "" {
		c.Gateway.KeyColumn = DefaultKeyColumn
	}
	if !ident.Valid(c.Gateway.KeyColumn) {
		return fmt.Errorf("invalid key column: %q", c.Gateway.KeyColumn)
	}
	return nil
}

// NormalizeDriver maps common aliases to canonical keys (keeps backwards compat).
func NormalizeDriver(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "postgresql", "pg", "postgres":
		return "postgres"
	case "mysql", "mariadb":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite"
	case "mssql", "sqlserver":
		return "sqlserver"
	case "godror", "oracle":
		return "godror"
	default:
		return strings.ToLower(d)
	}
}

// BuildDriverAndDSN produces a driver name and DSN string for supported DB types.
func BuildDriverAndDSN(db DBConfig) (driver string, dsn string, err error) {
	// If explicit DSN provided, user must also set Type to choose driver or we guess
	t := NormalizeDriver(db.Type)

	if db.DSN != "" {
		return t, db.DSN, nil
	}

	switch t {
	case "postgres":
		driver = "postgres"
		// simple URL form
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			db.Username, db.Password, db.Host, db.Port, db.DatabaseName)
	case "mysql":
		driver = "mysql"
		// clientFoundRows makes UPDATE report matched rather than changed rows
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&clientFoundRows=true&multiStatements=true",
			db.Username, db.Password, db.Host, db.Port, db.DatabaseName)
	case "sqlite":
		driver = "sqlite"
		if db.DatabaseName == "" {
			return "", "", fmt.Errorf("sqlite needs a file path in database_name")
		}
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", db.DatabaseName)
	case "sqlserver":
		driver = "sqlserver"
		dsn = fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s",
			db.Username, db.Password, db.Host, db.Port, db.DatabaseName)
	case "godror":
		driver = "godror"
		// simple EZCONNECT style; may need adjustments per environment
		dsn = fmt.Sprintf("%s/%s@%s:%d/%s",
			db.Username, db.Password, db.Host, db.Port, db.DatabaseName)
	default:
		err = fmt.Errorf("unsupported database type: %s", db.Type)
	}
	return
}
