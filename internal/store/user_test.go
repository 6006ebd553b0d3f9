// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"autoparc/internal/models"
)

func TestUserStoreCreate(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	email := uniqueEmail("Create")
	user, err := s.Create(ctx, NewUser{
		Nom: "Benali", Prenom: "Amine", Email: email, Password: "testpass123", Phone: "0550",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanUser(t, db, user.ID) })

	if user.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if user.Email != strings.ToLower(email) {
		t.Errorf("email: got %q, want lowercased %q", user.Email, strings.ToLower(email))
	}
	if user.Role != models.RoleUser {
		t.Errorf("role: got %q, want %q", user.Role, models.RoleUser)
	}
	if user.Ville != "Alger" {
		t.Errorf("ville: got %q, want default Alger", user.Ville)
	}
	if user.PasswordHash == "" || user.PasswordHash == "testpass123" {
		t.Error("password must be stored hashed")
	}
	if !s.CheckPassword(user, "testpass123") {
		t.Error("CheckPassword rejected the right password")
	}
	if s.CheckPassword(user, "wrong") {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func TestUserStoreCreateDuplicateEmail(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	u := createTestUser(t, db, models.RoleUser)

	_, err := s.Create(ctx, NewUser{
		Nom: "Dup", Prenom: "Dup", Email: strings.ToUpper(u.Email), Password: "x", Phone: "1",
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Create duplicate: got %v, want ErrDuplicate", err)
	}
}

func TestUserStoreFind(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	missing, err := s.FindByEmail(ctx, uniqueEmail("missing"))
	if err != nil {
		t.Fatalf("FindByEmail (not found): %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown email")
	}

	u := createTestUser(t, db, models.RoleShowroom)

	byEmail, err := s.FindByEmail(ctx, strings.ToUpper(u.Email))
	if err != nil || byEmail == nil {
		t.Fatalf("FindByEmail: got %v, %v", byEmail, err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("FindByEmail id: got %s, want %s", byEmail.ID, u.ID)
	}

	byID, err := s.FindByID(ctx, u.ID)
	if err != nil || byID == nil {
		t.Fatalf("FindByID: got %v, %v", byID, err)
	}
	if byID.Role != models.RoleShowroom {
		t.Errorf("role: got %q", byID.Role)
	}

	none, err := s.FindByID(ctx, uuid.New())
	if err != nil || none != nil {
		t.Errorf("FindByID unknown: got %v, %v", none, err)
	}
}

func TestUserStoreFindByIDs(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	a := createTestUser(t, db, models.RoleUser)
	b := createTestUser(t, db, models.RoleShowroom)

	got, err := s.FindByIDs(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	if err != nil {
		t.Fatalf("FindByIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(got))
	}
	if got[b.ID] == nil || got[b.ID].Role != models.RoleShowroom {
		t.Errorf("missing or wrong account for %s: %+v", b.ID, got[b.ID])
	}

	empty, err := s.FindByIDs(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("FindByIDs(nil): got %v, %v", empty, err)
	}
}

// TestUserStoreApplySync checks that only the supplied fields change.
func TestUserStoreApplySync(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	u := createTestUser(t, db, models.RoleUser)

	role := models.RoleShowroom
	err := s.ApplySync(ctx, u.ID, AccountSync{
		Ville:         ptr("Oran"),
		GoogleMapLink: ptr("https://maps.example/x"),
		Role:          &role,
	})
	if err != nil {
		t.Fatalf("ApplySync: %v", err)
	}

	got, _ := s.FindByID(ctx, u.ID)
	if got.Ville != "Oran" {
		t.Errorf("ville: got %q, want Oran", got.Ville)
	}
	if got.GoogleMapLink != "https://maps.example/x" {
		t.Errorf("googleMapLink: got %q", got.GoogleMapLink)
	}
	if got.Role != models.RoleShowroom {
		t.Errorf("role: got %q", got.Role)
	}
	if got.Nom != u.Nom || got.Phone != u.Phone {
		t.Errorf("untouched fields changed: nom %q phone %q", got.Nom, got.Phone)
	}

	if err := s.ApplySync(ctx, u.ID, AccountSync{}); err != nil {
		t.Errorf("empty ApplySync: %v", err)
	}
}

func TestUserStoreSave(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	a := createTestUser(t, db, models.RoleUser)
	b := createTestUser(t, db, models.RoleUser)

	a.Prenom = "Renamed"
	if err := s.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := s.FindByID(ctx, a.ID)
	if got.Prenom != "Renamed" {
		t.Errorf("prenom: got %q", got.Prenom)
	}

	a.Email = b.Email
	if err := s.Save(ctx, a); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Save taken email: got %v, want ErrDuplicate", err)
	}
}

// TestUserStoreSaveWithPasswordRollsBack checks that a profile save and a
// password change made in one transaction are discarded together.
func TestUserStoreSaveWithPasswordRollsBack(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	u := createTestUser(t, db, models.RoleUser)

	abort := errors.New("abort")
	err := InTx(ctx, db, func(tx *sql.Tx) error {
		users := NewUserStore(tx)
		changed := *u
		changed.Prenom = "Discarded"
		if err := users.Save(ctx, &changed); err != nil {
			return err
		}
		if err := users.SetPassword(ctx, u.ID, "otherpass456"); err != nil {
			return err
		}
		return abort
	})
	if !errors.Is(err, abort) {
		t.Fatalf("InTx: got %v, want abort", err)
	}

	s := NewUserStore(db)
	got, err := s.FindByID(ctx, u.ID)
	if err != nil || got == nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Prenom != u.Prenom {
		t.Errorf("prenom: got %q, want %q", got.Prenom, u.Prenom)
	}
	if !s.CheckPassword(got, "testpass123") {
		t.Error("original password should still be valid")
	}
	if s.CheckPassword(got, "otherpass456") {
		t.Error("discarded password should not be valid")
	}
}

// TestUserStoreFavorites verifies add-if-absent / remove-if-present.
func TestUserStoreFavorites(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	u := createTestUser(t, db, models.RoleUser)
	car := uuid.New()

	for range 2 {
		if err := s.AddFavorite(ctx, u.ID, car); err != nil {
			t.Fatalf("AddFavorite: %v", err)
		}
	}
	ids, err := s.FavoriteIDs(ctx, u.ID)
	if err != nil {
		t.Fatalf("FavoriteIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != car {
		t.Errorf("favorites after double add: got %v", ids)
	}

	for range 2 {
		if err := s.RemoveFavorite(ctx, u.ID, car); err != nil {
			t.Fatalf("RemoveFavorite: %v", err)
		}
	}
	ids, _ = s.FavoriteIDs(ctx, u.ID)
	if len(ids) != 0 {
		t.Errorf("favorites after remove: got %v", ids)
	}
}

func TestUserStoreTOTP(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	u := createTestUser(t, db, models.RoleUser)

	if err := s.SetTOTPSecret(ctx, u.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	if err := s.EnableTOTP(ctx, u.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}
	got, _ := s.FindByID(ctx, u.ID)
	if !got.TOTPEnabled || got.TOTPSecret == nil || *got.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Errorf("after enable: enabled=%v secret=%v", got.TOTPEnabled, got.TOTPSecret)
	}

	if err := s.ResetTOTP(ctx, u.ID); err != nil {
		t.Fatalf("ResetTOTP: %v", err)
	}
	got, _ = s.FindByID(ctx, u.ID)
	if got.TOTPEnabled || got.TOTPSecret != nil {
		t.Error("ResetTOTP should clear secret and flag")
	}
}

func TestUserStoreDeleteKeepsListings(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	u := createTestUser(t, db, models.RoleUser)
	cars := NewCarStore(db)
	c := newTestCar(u.ID, "Orphan", 1000)
	if err := cars.Create(ctx, c); err != nil {
		t.Fatalf("Create car: %v", err)
	}

	if err := NewUserStore(db).Delete(ctx, u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := cars.FindByID(ctx, c.ID)
	if err != nil || got == nil {
		t.Fatalf("listing must survive account deletion: %v, %v", got, err)
	}
	if got.User == nil || got.User.ID != u.ID || got.User.Nom != "" {
		t.Errorf("dangling owner: got %+v", got.User)
	}
}
