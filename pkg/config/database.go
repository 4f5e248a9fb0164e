package config

import (
	"fmt"

	dbutils "github.com/tendant/db-utils/db"
)

// DatabaseConfig holds PostgreSQL database configuration
// This is shared across all services to avoid duplication
type DatabaseConfig struct {
	Host     string `env:"KAFEX_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"KAFEX_PG_PORT" env-default:"5432"`
	Database string `env:"KAFEX_PG_DATABASE" env-default:"kafex_db"`
	User     string `env:"KAFEX_PG_USER" env-default:"kafex"`
	Password string `env:"KAFEX_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"KAFEX_PG_SCHEMA" env-default:"public"`
}

// ToDatabaseURL converts the config to a PostgreSQL connection URL
func (d DatabaseConfig) ToDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s,public",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Schema)
}

// ToDbConfig converts the config to a db-utils DbConfig
func (d DatabaseConfig) ToDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}

// NewDatabaseConfigFromEnv creates a DatabaseConfig from environment variables
func NewDatabaseConfigFromEnv() DatabaseConfig {
	return DatabaseConfig{
		Host:     GetEnvOrDefault("KAFEX_PG_HOST", "localhost"),
		Port:     GetEnvUint16("KAFEX_PG_PORT", 5432),
		Database: GetEnvOrDefault("KAFEX_PG_DATABASE", "kafex_db"),
		User:     GetEnvOrDefault("KAFEX_PG_USER", "kafex"),
		Password: GetEnvOrDefault("KAFEX_PG_PASSWORD", "pwd"),
		Schema:   GetEnvOrDefault("KAFEX_PG_SCHEMA", "public"),
	}
}
