// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package dealer keeps an account and its dealer profile consistent. Every
// profile write and the account update it implies run in one transaction.
package dealer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"autoparc/internal/models"
	"autoparc/internal/store"
)

var (
	// ErrProfileExists is returned when an account already owns a profile.
	ErrProfileExists = errors.New("dealer profile already exists")
	// ErrProfileNotFound is returned when the targeted profile is missing.
	ErrProfileNotFound = errors.New("dealer profile not found")
	// ErrAccountNotFound is returned when the acting account is missing.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidProfile is returned when required fields are missing.
	ErrInvalidProfile = errors.New("nom, ville et telephone sont requis")
)

// Service runs the dealer profile write paths.
type Service struct {
	db *sql.DB
}

// NewService creates a Service backed by db.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Create makes the first profile of accountID from p, copies its
// non-empty fields onto the account and promotes an ordinary account to
// dealer. The account row is locked so concurrent creates serialize.
func (s *Service) Create(ctx context.Context, accountID uuid.UUID, p ProfilePatch) (*models.Showroom, error) {
	if nonEmpty(p.Nom) == nil || nonEmpty(p.Ville) == nil || nonEmpty(p.Telephone) == nil {
		return nil, ErrInvalidProfile
	}

	var sr *models.Showroom
	err := store.InTx(ctx, s.db, func(tx *sql.Tx) error {
		users := store.NewUserStore(tx)
		showrooms := store.NewShowroomStore(tx)

		u, err := users.FindByIDForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if u == nil {
			return ErrAccountNotFound
		}

		existing, err := showrooms.FindByUser(ctx, accountID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrProfileExists
		}

		sr = newProfile(accountID, p)
		if err := showrooms.Create(ctx, sr); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return ErrProfileExists
			}
			return err
		}

		return users.ApplySync(ctx, accountID, createSync(u, sr))
	})
	if err != nil {
		return nil, fmt.Errorf("create dealer profile: %w", err)
	}

	slog.Info("dealer profile created", "showroom_id", sr.ID, "user_id", accountID)
	return sr, nil
}

// UpdateOwn patches the profile owned by accountID and re-copies the
// whole mirrored field set onto the account.
func (s *Service) UpdateOwn(ctx context.Context, accountID uuid.UUID, p ProfilePatch) (*models.Showroom, error) {
	var sr *models.Showroom
	err := store.InTx(ctx, s.db, func(tx *sql.Tx) error {
		showrooms := store.NewShowroomStore(tx)

		var err error
		sr, err = showrooms.FindByUser(ctx, accountID)
		if err != nil {
			return err
		}
		if sr == nil {
			return ErrProfileNotFound
		}

		applyOwnerPatch(sr, p)
		if err := showrooms.Save(ctx, sr); err != nil {
			return err
		}
		return store.NewUserStore(tx).ApplySync(ctx, accountID, fullSync(sr))
	})
	if err != nil {
		return nil, fmt.Errorf("update dealer profile: %w", err)
	}
	return sr, nil
}

// AdminUpdate merges p into any profile and mirrors only the fields
// present in p onto the owning account.
func (s *Service) AdminUpdate(ctx context.Context, id uuid.UUID, p ProfilePatch) (*models.Showroom, error) {
	var sr *models.Showroom
	err := store.InTx(ctx, s.db, func(tx *sql.Tx) error {
		showrooms := store.NewShowroomStore(tx)

		var err error
		sr, err = showrooms.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if sr == nil {
			return ErrProfileNotFound
		}

		applyAdminPatch(sr, p)
		if !complete(sr) {
			return ErrInvalidProfile
		}
		if err := showrooms.Save(ctx, sr); err != nil {
			return err
		}
		return store.NewUserStore(tx).ApplySync(ctx, sr.UserID, sparseSync(p))
	})
	if err != nil {
		return nil, fmt.Errorf("admin update dealer profile: %w", err)
	}

	slog.Info("dealer profile updated by admin", "showroom_id", id)
	return sr, nil
}

// Delete removes a profile. The owner keeps the dealer role.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	showrooms := store.NewShowroomStore(s.db)
	sr, err := showrooms.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete dealer profile: %w", err)
	}
	if sr == nil {
		return ErrProfileNotFound
	}
	if err := showrooms.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete dealer profile: %w", err)
	}
	return nil
}
