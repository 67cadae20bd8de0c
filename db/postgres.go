package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

//go:embed schema.sql
var schema string

// Open returns a pool for driver "postgres" or "sqlite".
func Open(driver, connStr string) (*sql.DB, error) {
	if connStr == "" {
		return nil, fmt.Errorf("database url is not set")
	}

	switch driver {
	case "postgres":
	case "sqlite":
		if !strings.Contains(connStr, "_pragma=") {
			sep := "?"
			if strings.Contains(connStr, "?") {
				sep = "&"
			}
			connStr += sep + "_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)"
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(25)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func Connect(driver, connStr string) error {
	conn, err := Open(driver, connStr)
	if err != nil {
		return err
	}
	DB = conn
	return nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}
