// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package dealer

import (
	"strings"

	"github.com/google/uuid"

	"autoparc/internal/models"
	"autoparc/internal/store"
)

// LocationPatch carries the geolocation sub-fields of a profile write.
// Each one is patched on its own; nil leaves the stored value alone.
type LocationPatch struct {
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	Address       *string  `json:"address"`
	GoogleMapLink *string  `json:"googleMapLink"`
}

// ProfilePatch is the body of every dealer profile write. A nil field was
// absent from the request.
type ProfilePatch struct {
	Nom         *string        `json:"nom"`
	Description *string        `json:"description"`
	Ville       *string        `json:"ville"`
	Adresse     *string        `json:"adresse"`
	Telephone   *string        `json:"telephone"`
	Email       *string        `json:"email"`
	Logo        *string        `json:"logo"`
	CoverImage  *string        `json:"coverImage"`
	Horaires    *string        `json:"horaires"`
	Location    *LocationPatch `json:"location"`

	// Administrator only; ignored on the owner paths.
	Rating       *float64 `json:"rating"`
	ReviewsCount *int     `json:"reviewsCount"`
	IsVerified   *bool    `json:"isVerified"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// nonEmpty returns p when it points at a non-empty string.
func nonEmpty(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return p
}

// newProfile builds the record created for owner from p.
func newProfile(owner uuid.UUID, p ProfilePatch) *models.Showroom {
	sr := &models.Showroom{
		UserID:      owner,
		Nom:         str(p.Nom),
		Description: str(p.Description),
		Ville:       str(p.Ville),
		Adresse:     str(p.Adresse),
		Telephone:   str(p.Telephone),
		Email:       str(p.Email),
		Logo:        str(p.Logo),
		CoverImage:  str(p.CoverImage),
		Horaires:    str(p.Horaires),
	}
	mergeLocation(&sr.Location, p.Location)
	return sr
}

func mergeLocation(dst *models.Location, p *LocationPatch) {
	if p == nil {
		return
	}
	if p.Lat != nil {
		dst.Lat = p.Lat
	}
	if p.Lng != nil {
		dst.Lng = p.Lng
	}
	if p.Address != nil {
		dst.Address = *p.Address
	}
	if p.GoogleMapLink != nil {
		dst.GoogleMapLink = *p.GoogleMapLink
	}
}

// promote returns the role an account holds after creating a profile.
// Only ordinary accounts change; administrators and dealers keep theirs.
func promote(role models.Role) (models.Role, bool) {
	if role == models.RoleUser {
		return models.RoleShowroom, true
	}
	return role, false
}

// createSync is the account update that follows profile creation. Empty
// incoming values keep the account's current value, so they are omitted.
func createSync(u *models.User, sr *models.Showroom) store.AccountSync {
	sync := store.AccountSync{
		Nom:           nonEmpty(&sr.Nom),
		Phone:         nonEmpty(&sr.Telephone),
		Ville:         nonEmpty(&sr.Ville),
		Description:   nonEmpty(&sr.Description),
		Adresse:       nonEmpty(&sr.Adresse),
		Logo:          nonEmpty(&sr.Logo),
		Horaires:      nonEmpty(&sr.Horaires),
		GoogleMapLink: nonEmpty(&sr.Location.GoogleMapLink),
	}
	if role, changed := promote(u.Role); changed {
		sync.Role = &role
	}
	return sync
}

// applyOwnerPatch merges an owner's edit: non-empty top-level values
// overwrite, location sub-fields overwrite whenever present.
func applyOwnerPatch(sr *models.Showroom, p ProfilePatch) {
	set := func(dst *string, v *string) {
		if v := nonEmpty(v); v != nil {
			*dst = *v
		}
	}
	set(&sr.Nom, p.Nom)
	set(&sr.Description, p.Description)
	set(&sr.Ville, p.Ville)
	set(&sr.Adresse, p.Adresse)
	set(&sr.Telephone, p.Telephone)
	set(&sr.Email, p.Email)
	set(&sr.Logo, p.Logo)
	set(&sr.CoverImage, p.CoverImage)
	set(&sr.Horaires, p.Horaires)
	mergeLocation(&sr.Location, p.Location)
}

// fullSync copies the whole mirrored field set from the saved profile.
func fullSync(sr *models.Showroom) store.AccountSync {
	return store.AccountSync{
		Nom:           &sr.Nom,
		Phone:         &sr.Telephone,
		Ville:         &sr.Ville,
		Description:   &sr.Description,
		Adresse:       &sr.Adresse,
		Logo:          &sr.Logo,
		CoverImage:    &sr.CoverImage,
		Horaires:      &sr.Horaires,
		GoogleMapLink: &sr.Location.GoogleMapLink,
	}
}

// applyAdminPatch merges an administrator's edit: every present value
// overwrites, empty strings included.
func applyAdminPatch(sr *models.Showroom, p ProfilePatch) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&sr.Nom, p.Nom)
	set(&sr.Description, p.Description)
	set(&sr.Ville, p.Ville)
	set(&sr.Adresse, p.Adresse)
	set(&sr.Telephone, p.Telephone)
	set(&sr.Email, p.Email)
	set(&sr.Logo, p.Logo)
	set(&sr.CoverImage, p.CoverImage)
	set(&sr.Horaires, p.Horaires)
	mergeLocation(&sr.Location, p.Location)

	if p.Rating != nil {
		sr.Rating = *p.Rating
	}
	if p.ReviewsCount != nil {
		sr.ReviewsCount = *p.ReviewsCount
	}
	if p.IsVerified != nil {
		sr.IsVerified = *p.IsVerified
	}
}

// complete reports whether the merged profile still has its required
// fields.
func complete(sr *models.Showroom) bool {
	return strings.TrimSpace(sr.Nom) != "" &&
		strings.TrimSpace(sr.Ville) != "" &&
		strings.TrimSpace(sr.Telephone) != ""
}

// sparseSync mirrors only the fields present in an administrator's edit.
func sparseSync(p ProfilePatch) store.AccountSync {
	sync := store.AccountSync{
		Nom:         p.Nom,
		Phone:       p.Telephone,
		Ville:       p.Ville,
		Description: p.Description,
		Adresse:     p.Adresse,
		Logo:        p.Logo,
		CoverImage:  p.CoverImage,
		Horaires:    p.Horaires,
	}
	if p.Location != nil {
		sync.GoogleMapLink = p.Location.GoogleMapLink
	}
	return sync
}
