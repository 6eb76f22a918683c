package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"todoctl/internal/config"
	"todoctl/internal/service"
)

// Schemas per driver. IDs are assigned by the database.
const (
	mysqlSchema = `CREATE TABLE IF NOT EXISTS todos (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    title VARCHAR(1024) NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE
) CHARACTER SET utf8mb4`

	sqliteSchema = `CREATE TABLE IF NOT EXISTS todos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT 0
)`
)

// SQLRepository stores tasks in a MySQL or SQLite table.
type SQLRepository struct {
	db     *sql.DB
	retry  RetryPolicy
	logger *zap.Logger
}

// OpenMySQL connects to MySQL, waiting for the server to come up, and
// creates the todos table if needed.
func OpenMySQL(ctx context.Context, cfg config.MySQLConfig, logger *zap.Logger) (*SQLRepository, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := pingWithRetry(ctx, db, logger, 20, 3*time.Second); err != nil {
		db.Close()
		return nil, err
	}
	return newSQLRepository(ctx, db, mysqlSchema, logger)
}

// OpenSQLite opens the SQLite database at path (":memory:" works) and creates
// the todos table if needed.
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	return newSQLRepository(ctx, db, sqliteSchema, logger)
}

func newSQLRepository(ctx context.Context, db *sql.DB, schema string, logger *zap.Logger) (*SQLRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLRepository{db: db, retry: DefaultReadRetry, logger: logger}, nil
}

func pingWithRetry(ctx context.Context, db *sql.DB, logger *zap.Logger, maxAttempts int, interval time.Duration) error {
	for i := 1; i <= maxAttempts; i++ {
		err := db.PingContext(ctx)
		if err == nil {
			return nil
		}
		logger.Warn("failed to ping db",
			zap.Int("attempt", i),
			zap.Int("maxAttempts", maxAttempts),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("failed to ping db after %d attempts", maxAttempts)
}

func (r *SQLRepository) List(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	err := doWithRetry(ctx, r.retry, func() error {
		tasks = tasks[:0]
		rows, err := r.db.QueryContext(ctx, "SELECT id, title, completed FROM todos ORDER BY id")
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				return err
			}
			tasks = append(tasks, t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

func (r *SQLRepository) Get(ctx context.Context, id service.ID) (service.Task, error) {
	n, ok := rowID(id)
	if !ok {
		return service.Task{}, ErrNotFound
	}

	var t service.Task
	err := doWithRetry(ctx, r.retry, func() error {
		row := r.db.QueryRowContext(ctx, "SELECT id, title, completed FROM todos WHERE id = ?", n)
		var err error
		t, err = scanTask(row)
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return service.Task{}, ErrNotFound
	}
	return t, err
}

func (r *SQLRepository) Create(ctx context.Context, nt service.NewTask) (service.Task, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO todos (title, completed) VALUES (?, ?)",
		nt.Title,
		nt.Completed,
	)
	if err != nil {
		return service.Task{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return service.Task{}, err
	}
	return service.Task{
		ID:        service.ID(strconv.FormatInt(id, 10)),
		Title:     nt.Title,
		Completed: nt.Completed,
	}, nil
}

// Update relies on RowsAffected counting matched rows. The MySQL DSN sets
// clientFoundRows so an unchanged row still counts.
func (r *SQLRepository) Update(ctx context.Context, t service.Task) (service.Task, error) {
	n, ok := rowID(t.ID)
	if !ok {
		return service.Task{}, ErrNotFound
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE todos SET title = ?, completed = ? WHERE id = ?",
		t.Title,
		t.Completed,
		n,
	)
	if err != nil {
		return service.Task{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return service.Task{}, err
	}
	if affected == 0 {
		return service.Task{}, ErrNotFound
	}
	return t, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id service.ID) error {
	n, ok := rowID(id)
	if !ok {
		return ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", n)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLRepository) Close() error { return r.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (service.Task, error) {
	var (
		id        int64
		t         service.Task
		completed bool
	)
	if err := s.Scan(&id, &t.Title, &completed); err != nil {
		return service.Task{}, err
	}
	t.ID = service.ID(strconv.FormatInt(id, 10))
	t.Completed = completed
	return t, nil
}

// rowID converts a task ID to the integer primary key.
func rowID(id service.ID) (int64, bool) {
	n, err := strconv.ParseInt(id.String(), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
