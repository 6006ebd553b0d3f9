// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents an account's permission level in the system.
type Role string

const (
	RoleUser     Role = "USER"
	RoleShowroom Role = "SHOWROOM"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleShowroom, RoleAdmin:
		return true
	}
	return false
}

// User is a marketplace account. Dealer accounts also carry the fields
// mirrored from their showroom profile (description through GoogleMapLink).
type User struct {
	ID            uuid.UUID `json:"_id"`
	Nom           string    `json:"nom"`
	Prenom        string    `json:"prenom"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"` // Never serialize the hash
	Phone         string    `json:"phone"`
	Ville         string    `json:"ville"`
	Role          Role      `json:"role"`
	Description   string    `json:"description"`
	Adresse       string    `json:"adresse"`
	Logo          string    `json:"logo"`
	CoverImage    string    `json:"coverImage"`
	Horaires      string    `json:"horaires"`
	GoogleMapLink string    `json:"googleMapLink"`
	TOTPSecret    *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled   bool      `json:"totpEnabled"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsShowroom returns true for dealer accounts.
func (u *User) IsShowroom() bool {
	return u.Role == RoleShowroom
}

// Owns reports whether the account is the owner referenced by ownerID.
func (u *User) Owns(ownerID uuid.UUID) bool {
	return u.ID == ownerID
}

// CanManage reports whether the account may modify a record owned by
// ownerID: its owner or any administrator.
func (u *User) CanManage(ownerID uuid.UUID) bool {
	return u.Owns(ownerID) || u.IsAdmin()
}

// Owner is the public projection of an account embedded in listings.
type Owner struct {
	ID     uuid.UUID `json:"_id"`
	Nom    string    `json:"nom"`
	Prenom string    `json:"prenom"`
	Phone  string    `json:"phone"`
	Ville  string    `json:"ville"`
}
