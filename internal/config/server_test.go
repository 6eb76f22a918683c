package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func clearServerEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		serverAddrEnv, serverBackendEnv, serverTimeoutEnv, serverTraceEnv, serverDebugEnv,
		sqlitePathEnv, mysqlAddrEnv, mysqlUserEnv, mysqlPasswordEnv, mysqlDatabaseEnv,
	} {
		t.Setenv(k, "")
	}
}

func TestLoadServer_Defaults(t *testing.T) {
	clearServerEnv(t)

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.Addr != ":3000" {
		t.Errorf("expected addr :3000, got %q", cfg.Addr)
	}
	if cfg.Backend != BackendMemory {
		t.Errorf("expected memory backend, got %q", cfg.Backend)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.RequestTimeout)
	}
}

func TestLoadServer_Env(t *testing.T) {
	clearServerEnv(t)
	t.Setenv(serverAddrEnv, "127.0.0.1:8081")
	t.Setenv(serverBackendEnv, "SQLite")
	t.Setenv(sqlitePathEnv, "/var/lib/todos.db")
	t.Setenv(serverTimeoutEnv, "1s")
	t.Setenv(serverTraceEnv, "true")
	t.Setenv(serverDebugEnv, "1")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.Backend != BackendSQLite || cfg.SQLitePath != "/var/lib/todos.db" {
		t.Errorf("unexpected backend settings %+v", cfg)
	}
	if cfg.RequestTimeout != time.Second || !cfg.Trace || !cfg.Debug {
		t.Errorf("unexpected timeout/trace %+v", cfg)
	}
}

func TestLoadServer_UnknownBackend(t *testing.T) {
	clearServerEnv(t)
	t.Setenv(serverBackendEnv, "postgres")

	if _, err := LoadServer(); !errors.Is(err, ErrBackendInvalid) {
		t.Fatalf("LoadServer() error = %v, want %v", err, ErrBackendInvalid)
	}
}

func TestServerConfigValidate_MySQL(t *testing.T) {
	cfg := &ServerConfig{Addr: ":3000", Backend: BackendMySQL}
	if err := cfg.Validate(); !errors.Is(err, ErrMySQLConfigInvalid) {
		t.Fatalf("Validate() error = %v, want %v", err, ErrMySQLConfigInvalid)
	}
}

func TestMySQLConfigDSN(t *testing.T) {
	dsn := MySQLConfig{
		Addr:     "db:3306",
		User:     "todo",
		Password: "secret",
		Database: "todos",
	}.DSN()

	for _, want := range []string{"todo:secret@tcp(db:3306)/todos", "clientFoundRows=true", "parseTime=true"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("expected DSN to contain %q, got %q", want, dsn)
		}
	}
}
