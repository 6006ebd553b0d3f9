// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Location is the geolocation block of a dealer profile.
type Location struct {
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	Address       string   `json:"address"`
	GoogleMapLink string   `json:"googleMapLink"`
}

// Showroom is the dealer profile of an account. An account owns at most one.
type Showroom struct {
	ID           uuid.UUID `json:"_id"`
	UserID       uuid.UUID `json:"user"`
	Nom          string    `json:"nom"`
	Description  string    `json:"description"`
	Ville        string    `json:"ville"`
	Adresse      string    `json:"adresse"`
	Telephone    string    `json:"telephone"`
	Email        string    `json:"email"`
	Logo         string    `json:"logo"`
	CoverImage   string    `json:"coverImage"`
	Horaires     string    `json:"horaires"`
	Rating       float64   `json:"rating"`
	ReviewsCount int       `json:"reviewsCount"`
	IsVerified   bool      `json:"isVerified"`
	Location     Location  `json:"location"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// CarsCount is derived at read time; it is never stored.
	CarsCount int `json:"carsCount"`
}

// PreferOwnerImages replaces the profile logo and cover with the owner's
// when the account carries them.
func (s *Showroom) PreferOwnerImages(owner *User) {
	if owner == nil {
		return
	}
	if owner.Logo != "" {
		s.Logo = owner.Logo
	}
	if owner.CoverImage != "" {
		s.CoverImage = owner.CoverImage
	}
}
