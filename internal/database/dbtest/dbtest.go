// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package dbtest provides a migrated PostgreSQL handle for integration
// tests. It prefers a server described by the POSTGRES_* variables and
// falls back to a disposable container. Tests are skipped when neither is
// reachable.
package dbtest

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"autoparc/internal/database"
)

var (
	once     sync.Once
	dsn      string
	setupErr error
	migrate  sync.Mutex
)

// envDSN returns the PostgreSQL connection string from the environment.
func envDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "autoparc")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "autoparc")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable&connect_timeout=2"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func reachable(conn string) bool {
	db, err := sql.Open("pgx", conn)
	if err != nil {
		return false
	}
	defer db.Close()
	return db.Ping() == nil
}

// startContainer launches a throwaway postgres. The testcontainers reaper
// removes it when the test binary exits.
func startContainer() (string, error) {
	ctx := context.Background()
	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("autoparc"),
		postgres.WithUsername("autoparc"),
		postgres.WithPassword("autoparc"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return "", err
	}
	return pg.ConnectionString(ctx, "sslmode=disable")
}

func resolve() {
	if conn := envDSN(); reachable(conn) {
		dsn = conn
		return
	}
	if os.Getenv("AUTOPARC_NO_CONTAINERS") != "" {
		setupErr = os.ErrNotExist
		return
	}
	defer func() {
		// testcontainers panics when no Docker provider can be found.
		if r := recover(); r != nil {
			setupErr = os.ErrNotExist
		}
	}()
	dsn, setupErr = startContainer()
}

// Open returns a migrated database handle closed at test cleanup.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	once.Do(resolve)
	if setupErr != nil {
		t.Skipf("skipping integration test: no PostgreSQL available: %v", setupErr)
	}

	db, err := database.Connect(dsn)
	if err != nil {
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// goose keeps package-level state.
	migrate.Lock()
	err = database.Migrate(db)
	goose.SetBaseFS(nil)
	migrate.Unlock()
	if err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}
