// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"autoparc/internal/models"
)

const userColumns = `id, nom, prenom, email, password_hash, phone, ville, role,
	description, adresse, logo, cover_image, horaires, google_map_link,
	totp_secret, totp_enabled, created_at, updated_at`

// UserStore handles all account-related database operations.
type UserStore struct {
	db DBTX
}

// NewUserStore creates a new UserStore with the given database handle.
func NewUserStore(db DBTX) *UserStore {
	return &UserStore{db: db}
}

// NewUser carries the fields needed to register an account.
type NewUser struct {
	Nom      string
	Prenom   string
	Email    string
	Password string
	Phone    string
	Ville    string
	Role     models.Role
}

// AccountSync lists the account fields a dealer profile write may
// overwrite. Nil fields are left untouched.
type AccountSync struct {
	Nom           *string
	Phone         *string
	Ville         *string
	Description   *string
	Adresse       *string
	Logo          *string
	CoverImage    *string
	Horaires      *string
	GoogleMapLink *string
	Role          *models.Role
}

// Empty reports whether the sync would change nothing.
func (a AccountSync) Empty() bool {
	return a.Nom == nil && a.Phone == nil && a.Ville == nil &&
		a.Description == nil && a.Adresse == nil && a.Logo == nil &&
		a.CoverImage == nil && a.Horaires == nil && a.GoogleMapLink == nil &&
		a.Role == nil
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Nom, &u.Prenom, &u.Email, &u.PasswordHash, &u.Phone, &u.Ville, &u.Role,
		&u.Description, &u.Adresse, &u.Logo, &u.CoverImage, &u.Horaires, &u.GoogleMapLink,
		&u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (s *UserStore) findOne(ctx context.Context, op, query string, args ...any) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// FindByEmail retrieves an account by email (case-insensitive). Returns nil if not found.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "find user by email",
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

// FindByID retrieves an account by its UUID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.findOne(ctx, "find user by id",
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByIDForUpdate is FindByID with a row lock. Only meaningful inside a
// transaction.
func (s *UserStore) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.findOne(ctx, "lock user",
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

// FindByIDs returns the accounts among ids that exist, keyed by id.
func (s *UserStore) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	out := make(map[uuid.UUID]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ANY($1::uuid[])`, strs)
	if err != nil {
		return nil, fmt.Errorf("find users by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}

// List returns all accounts, newest first.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Create inserts a new account with a bcrypt-hashed password. A taken
// email yields ErrDuplicate.
func (s *UserStore) Create(ctx context.Context, nu NewUser) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if nu.Role == "" {
		nu.Role = models.RoleUser
	}

	u, err := scanUser(s.db.QueryRowContext(ctx, `
		INSERT INTO users (nom, prenom, email, password_hash, phone, ville, role)
		VALUES ($1, $2, lower($3), $4, $5, COALESCE(NULLIF($6, ''), 'Alger'), $7)
		RETURNING `+userColumns,
		nu.Nom, nu.Prenom, nu.Email, string(hash), nu.Phone, nu.Ville, nu.Role,
	))
	if err != nil {
		return nil, translate("create user", err)
	}
	return u, nil
}

// Save persists the identity fields of u (nom, prenom, email, phone,
// ville, role). A taken email yields ErrDuplicate.
func (s *UserStore) Save(ctx context.Context, u *models.User) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE users SET
			nom = $1, prenom = $2, email = lower($3), phone = $4, ville = $5, role = $6,
			updated_at = NOW()
		WHERE id = $7
		RETURNING email, updated_at
	`, u.Nom, u.Prenom, u.Email, u.Phone, u.Ville, u.Role, u.ID).Scan(&u.Email, &u.UpdatedAt)
	if err != nil {
		return translate("save user", err)
	}
	return nil
}

// SetPassword replaces the password hash.
func (s *UserStore) SetPassword(ctx context.Context, id uuid.UUID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2
	`, string(hash), id)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}

// ApplySync writes the non-nil fields of sync onto the account.
func (s *UserStore) ApplySync(ctx context.Context, id uuid.UUID, sync AccountSync) error {
	if sync.Empty() {
		return nil
	}

	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if sync.Nom != nil {
		set("nom", *sync.Nom)
	}
	if sync.Phone != nil {
		set("phone", *sync.Phone)
	}
	if sync.Ville != nil {
		set("ville", *sync.Ville)
	}
	if sync.Description != nil {
		set("description", *sync.Description)
	}
	if sync.Adresse != nil {
		set("adresse", *sync.Adresse)
	}
	if sync.Logo != nil {
		set("logo", *sync.Logo)
	}
	if sync.CoverImage != nil {
		set("cover_image", *sync.CoverImage)
	}
	if sync.Horaires != nil {
		set("horaires", *sync.Horaires)
	}
	if sync.GoogleMapLink != nil {
		set("google_map_link", *sync.GoogleMapLink)
	}
	if sync.Role != nil {
		set("role", *sync.Role)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s, updated_at = NOW() WHERE id = $%d`,
		strings.Join(sets, ", "), len(args))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sync user: %w", err)
	}
	return nil
}

// CountByRole returns the number of accounts holding role.
func (s *UserStore) CountByRole(ctx context.Context, role models.Role) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}

// FavoriteIDs returns the listing ids the account saved, oldest first.
func (s *UserStore) FavoriteIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT car_id FROM user_favorites WHERE user_id = $1 ORDER BY created_at, car_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddFavorite saves a listing for the account. Adding twice is a no-op.
func (s *UserStore) AddFavorite(ctx context.Context, userID, carID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_favorites (user_id, car_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, carID)
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite drops a saved listing. Removing an absent one is a no-op.
func (s *UserStore) RemoveFavorite(ctx context.Context, userID, carID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM user_favorites WHERE user_id = $1 AND car_id = $2
	`, userID, carID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// SetTOTPSecret saves the TOTP secret for an account (during 2FA setup).
func (s *UserStore) SetTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET totp_secret = $1, totp_enabled = FALSE, updated_at = NOW() WHERE id = $2
	`, secret, userID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active (after successful code verification).
func (s *UserStore) EnableTOTP(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// ResetTOTP clears the TOTP secret and disables 2FA.
func (s *UserStore) ResetTOTP(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET totp_secret = NULL, totp_enabled = FALSE, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("reset totp: %w", err)
	}
	return nil
}

// Delete removes an account by ID. Listings and dealer profiles are left
// in place; only saved favorites go with the account.
func (s *UserStore) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the account's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
