// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides shared helpers for all store integration tests.
// Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/google/uuid"

	"autoparc/internal/database/dbtest"
	"autoparc/internal/models"
)

// testDB opens a migrated test database or skips the test.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	return dbtest.Open(t)
}

// uniqueEmail returns an address no other test run will use.
func uniqueEmail(prefix string) string {
	return prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12] + "@store-test.local"
}

// createTestUser registers an account and removes it, its listings and
// its dealer profile when the test finishes.
func createTestUser(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()
	u, err := NewUserStore(db).Create(context.Background(), NewUser{
		Nom:      "Test",
		Prenom:   "User",
		Email:    uniqueEmail("user"),
		Password: "testpass123",
		Phone:    "0550000000",
		Ville:    "Alger",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { cleanUser(t, db, u.ID) })
	return u
}

// cleanUser removes a test account and everything that references it.
func cleanUser(t *testing.T, db *sql.DB, id uuid.UUID) {
	t.Helper()
	db.Exec("DELETE FROM cars WHERE user_id = $1", id)
	db.Exec("DELETE FROM showrooms WHERE user_id = $1", id)
	db.Exec("DELETE FROM users WHERE id = $1", id)
}

// cleanNews removes test articles by slug. Call in t.Cleanup().
func cleanNews(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM news WHERE slug = $1", slug)
	}
}

// newTestCar returns a valid listing owned by owner.
func newTestCar(owner uuid.UUID, marque string, prix int64) *models.Car {
	return &models.Car{
		UserID:    owner,
		Marque:    marque,
		Modele:    "Clio",
		Prix:      prix,
		Annee:     2018,
		Km:        80000,
		Carburant: models.FuelDiesel,
		Boite:     models.GearboxManuelle,
		Ville:     "Oran",
		Images:    models.StringList{"/uploads/car.jpg"},
		Specifications: models.Specifications{
			Moteur:    "1.5 dCi",
			Puissance: "90ch",
			Options:   []string{"Climatisation"},
		},
	}
}

func ptr[T any](v T) *T { return &v }
