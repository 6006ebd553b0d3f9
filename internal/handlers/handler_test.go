// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests that need PostgreSQL are skipped when it is
// unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"autoparc/internal/auth"
	"autoparc/internal/database/dbtest"
	"autoparc/internal/middleware"
	"autoparc/internal/models"
	"autoparc/internal/store"
)

// testDB opens a migrated test database or skips the test.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	return dbtest.Open(t)
}

func testTokens() *auth.Tokens {
	return auth.NewTokens("handler-test-secret", time.Hour)
}

// uniqueEmail returns an address no other test run will use.
func uniqueEmail(prefix string) string {
	return prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12] + "@handler-test.local"
}

// createUser registers an account and removes it with everything that
// references it when the test finishes.
func createUser(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()
	u, err := store.NewUserStore(db).Create(context.Background(), store.NewUser{
		Nom:      "Test",
		Prenom:   "Handler",
		Email:    uniqueEmail("user"),
		Password: "testpass123",
		Phone:    "0551234567",
		Ville:    "Alger",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { cleanUser(db, u.ID) })
	return u
}

// cleanUser removes a test account and everything that references it.
func cleanUser(db *sql.DB, id uuid.UUID) {
	db.Exec("DELETE FROM cars WHERE user_id = $1", id)
	db.Exec("DELETE FROM showrooms WHERE user_id = $1", id)
	db.Exec("DELETE FROM news WHERE author_id = $1", id)
	db.Exec("DELETE FROM users WHERE id = $1", id)
}

// reload fetches the current state of an account.
func reload(t *testing.T, db *sql.DB, id uuid.UUID) *models.User {
	t.Helper()
	u, err := store.NewUserStore(db).FindByID(context.Background(), id)
	if err != nil || u == nil {
		t.Fatalf("reload user %s: %v, %v", id, u, err)
	}
	return u
}

// request builds a request with an optional JSON body, authenticated
// account and chi URL parameters.
func request(method, target string, body any, user *models.User, params map[string]string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")

	ctx := r.Context()
	if user != nil {
		ctx = middleware.WithUser(ctx, user)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return r.WithContext(ctx)
}

// serve runs h against r and returns the recorded response.
func serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, r)
	return rec
}

// decode unmarshals a JSON response body into v.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

// message returns the "message" field of a JSON response.
func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	decode(t, rec, &body)
	return body.Message
}

// fakeCache is an in-memory ResponseCache that records invalidations.
type fakeCache struct {
	mu          sync.Mutex
	values      map[string][]byte
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string, dst any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.values[key]
	if !ok {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (c *fakeCache) Set(_ context.Context, key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, _ := json.Marshal(v)
	c.values[key] = data
}

func (c *fakeCache) Invalidate(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
		c.invalidated = append(c.invalidated, k)
	}
}

func (c *fakeCache) invalidations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.invalidated)
}

func ptr[T any](v T) *T { return &v }
