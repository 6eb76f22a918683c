package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Storage backends understood by the development store.
const (
	BackendMemory = "memory"
	BackendMySQL  = "mysql"
	BackendSQLite = "sqlite"
)

const (
	defaultServerAddr    = ":3000"
	defaultServerTimeout = 5 * time.Second
	defaultSQLitePath    = "todos.db"
	defaultMySQLAddr     = "127.0.0.1:3306"
	defaultMySQLUser     = "root"
	defaultMySQLDatabase = "todos"

	serverAddrEnv    = "TODOSTORE_ADDR"
	serverBackendEnv = "TODOSTORE_BACKEND"
	serverTimeoutEnv = "TODOSTORE_REQUEST_TIMEOUT"
	serverTraceEnv   = "TODOSTORE_TRACE"
	serverDebugEnv   = "TODOSTORE_DEBUG"
	sqlitePathEnv    = "TODOSTORE_SQLITE_PATH"
	mysqlAddrEnv     = "TODOSTORE_MYSQL_ADDR"
	mysqlUserEnv     = "TODOSTORE_MYSQL_USER"
	mysqlPasswordEnv = "TODOSTORE_MYSQL_PASSWORD"
	mysqlDatabaseEnv = "TODOSTORE_MYSQL_DATABASE"
)

// MySQLConfig holds the connection settings for the mysql backend.
type MySQLConfig struct {
	Addr     string
	User     string
	Password string
	Database string
}

// DSN renders the connection string for database/sql.
func (c MySQLConfig) DSN() string {
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = c.Addr
	mc.User = c.User
	mc.Passwd = c.Password
	mc.DBName = c.Database
	mc.ParseTime = true
	// RowsAffected must count matched rows so an unchanged PUT is not a 404.
	mc.ClientFoundRows = true
	mc.Timeout = 5 * time.Second
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// ServerConfig configures the development task store.
type ServerConfig struct {
	Addr           string
	Backend        string
	RequestTimeout time.Duration
	Trace          bool
	Debug          bool
	SQLitePath     string
	MySQL          MySQLConfig
}

// LoadServer reads TODOSTORE_* environment variables.
func LoadServer() (*ServerConfig, error) {
	cfg := &ServerConfig{
		Addr:           getEnv(serverAddrEnv, defaultServerAddr),
		Backend:        strings.ToLower(getEnv(serverBackendEnv, BackendMemory)),
		RequestTimeout: defaultServerTimeout,
		SQLitePath:     getEnv(sqlitePathEnv, defaultSQLitePath),
		MySQL: MySQLConfig{
			Addr:     getEnv(mysqlAddrEnv, defaultMySQLAddr),
			User:     getEnv(mysqlUserEnv, defaultMySQLUser),
			Password: getEnv(mysqlPasswordEnv, ""),
			Database: getEnv(mysqlDatabaseEnv, defaultMySQLDatabase),
		},
	}

	if raw := getEnv(serverTimeoutEnv, ""); raw != "" {
		d, err := parseTimeout(raw)
		if err != nil {
			return nil, err
		}
		cfg.RequestTimeout = d
	}

	if raw := getEnv(serverTraceEnv, ""); raw != "" {
		on, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", serverTraceEnv, raw, err)
		}
		cfg.Trace = on
	}

	if raw := getEnv(serverDebugEnv, ""); raw != "" {
		on, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", serverDebugEnv, raw, err)
		}
		cfg.Debug = on
	}

	return cfg, cfg.Validate()
}

// Validate checks the settings required by the selected backend.
func (c *ServerConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrAddrMissing)
	}
	if c.Addr == "" {
		return ErrAddrMissing
	}

	switch c.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLitePath == "" {
			return ErrSQLitePathMissing
		}
	case BackendMySQL:
		if c.MySQL.Addr == "" || c.MySQL.User == "" || c.MySQL.Database == "" {
			return fmt.Errorf("%w: addr, user and database are required", ErrMySQLConfigInvalid)
		}
	default:
		return fmt.Errorf("%w: %q (want memory, mysql or sqlite)", ErrBackendInvalid, c.Backend)
	}
	return nil
}
