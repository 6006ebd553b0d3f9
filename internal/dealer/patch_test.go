// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package dealer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoparc/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestPromote(t *testing.T) {
	tests := []struct {
		from    models.Role
		want    models.Role
		changed bool
	}{
		{models.RoleUser, models.RoleShowroom, true},
		{models.RoleShowroom, models.RoleShowroom, false},
		{models.RoleAdmin, models.RoleAdmin, false},
	}
	for _, tt := range tests {
		got, changed := promote(tt.from)
		assert.Equal(t, tt.want, got, "promote(%s)", tt.from)
		assert.Equal(t, tt.changed, changed, "promote(%s) changed", tt.from)
	}
}

// TestCreateSyncFallsBack checks that empty profile values leave the
// account untouched while non-empty ones overwrite.
func TestCreateSyncFallsBack(t *testing.T) {
	u := &models.User{Role: models.RoleUser, Nom: "Old", Phone: "0550", Logo: "/old.png"}
	sr := newProfile(uuid.New(), ProfilePatch{
		Nom:       ptr("Auto Plus"),
		Ville:     ptr("Oran"),
		Telephone: ptr("041000000"),
		Logo:      ptr(""),
		Location:  &LocationPatch{GoogleMapLink: ptr("https://maps.example/p")},
	})

	sync := createSync(u, sr)

	require.NotNil(t, sync.Nom)
	assert.Equal(t, "Auto Plus", *sync.Nom)
	require.NotNil(t, sync.Phone)
	assert.Equal(t, "041000000", *sync.Phone, "phone comes from telephone")
	require.NotNil(t, sync.Ville)
	assert.Nil(t, sync.Logo, "empty logo keeps the account value")
	assert.Nil(t, sync.Description)
	assert.Nil(t, sync.CoverImage, "cover image is not copied on create")
	require.NotNil(t, sync.GoogleMapLink)
	assert.Equal(t, "https://maps.example/p", *sync.GoogleMapLink)
	require.NotNil(t, sync.Role)
	assert.Equal(t, models.RoleShowroom, *sync.Role)

	admin := &models.User{Role: models.RoleAdmin}
	assert.Nil(t, createSync(admin, sr).Role, "administrators keep their role")
}

func TestApplyOwnerPatch(t *testing.T) {
	base := func() *models.Showroom {
		return &models.Showroom{
			Nom:       "Auto Plus",
			Ville:     "Alger",
			Telephone: "021",
			Rating:    3,
			Location: models.Location{
				Lat:           ptr(36.7),
				Lng:           ptr(3.0),
				Address:       "Centre",
				GoogleMapLink: "https://maps.example/a",
			},
		}
	}

	t.Run("only ville", func(t *testing.T) {
		sr := base()
		applyOwnerPatch(sr, ProfilePatch{Ville: ptr("Oran")})
		assert.Equal(t, "Oran", sr.Ville)
		assert.Equal(t, "Auto Plus", sr.Nom)
		assert.Equal(t, "021", sr.Telephone)
	})

	t.Run("empty values are ignored", func(t *testing.T) {
		sr := base()
		applyOwnerPatch(sr, ProfilePatch{Nom: ptr(""), Telephone: ptr("")})
		assert.Equal(t, "Auto Plus", sr.Nom)
		assert.Equal(t, "021", sr.Telephone)
	})

	t.Run("single location sub-field", func(t *testing.T) {
		sr := base()
		applyOwnerPatch(sr, ProfilePatch{Location: &LocationPatch{Lat: ptr(35.7)}})
		assert.InDelta(t, 35.7, *sr.Location.Lat, 1e-9)
		assert.InDelta(t, 3.0, *sr.Location.Lng, 1e-9)
		assert.Equal(t, "Centre", sr.Location.Address)
		assert.Equal(t, "https://maps.example/a", sr.Location.GoogleMapLink)
	})

	t.Run("location sub-field may be cleared", func(t *testing.T) {
		sr := base()
		applyOwnerPatch(sr, ProfilePatch{Location: &LocationPatch{Address: ptr("")}})
		assert.Equal(t, "", sr.Location.Address)
		assert.Equal(t, "https://maps.example/a", sr.Location.GoogleMapLink)
	})

	t.Run("admin fields ignored", func(t *testing.T) {
		sr := base()
		applyOwnerPatch(sr, ProfilePatch{Rating: ptr(5.0), IsVerified: ptr(true)})
		assert.Equal(t, 3.0, sr.Rating)
		assert.False(t, sr.IsVerified)
	})
}

func TestFullSync(t *testing.T) {
	sr := &models.Showroom{
		Nom: "N", Telephone: "T", Ville: "V", Description: "D", Adresse: "A",
		Logo: "L", CoverImage: "C", Horaires: "H",
		Location: models.Location{GoogleMapLink: "G"},
	}
	sync := fullSync(sr)

	got := []string{
		*sync.Nom, *sync.Phone, *sync.Ville, *sync.Description, *sync.Adresse,
		*sync.Logo, *sync.CoverImage, *sync.Horaires, *sync.GoogleMapLink,
	}
	assert.Equal(t, []string{"N", "T", "V", "D", "A", "L", "C", "H", "G"}, got)
	assert.Nil(t, sync.Role, "updates never touch the role")
}

func TestApplyAdminPatchAndSparseSync(t *testing.T) {
	sr := &models.Showroom{
		Nom: "Auto Plus", Description: "Desc", Ville: "Alger",
		Location: models.Location{Lat: ptr(1.0), Address: "Centre"},
	}
	p := ProfilePatch{
		Description:  ptr(""),
		Rating:       ptr(4.5),
		ReviewsCount: ptr(12),
		IsVerified:   ptr(true),
		Location:     &LocationPatch{GoogleMapLink: ptr("https://maps.example/z")},
	}

	applyAdminPatch(sr, p)
	assert.Equal(t, "", sr.Description, "admin may blank a field")
	assert.Equal(t, "Auto Plus", sr.Nom)
	assert.Equal(t, 4.5, sr.Rating)
	assert.Equal(t, 12, sr.ReviewsCount)
	assert.True(t, sr.IsVerified)
	assert.Equal(t, "Centre", sr.Location.Address)
	assert.Equal(t, "https://maps.example/z", sr.Location.GoogleMapLink)
	require.NotNil(t, sr.Location.Lat)

	sync := sparseSync(p)
	require.NotNil(t, sync.Description)
	assert.Equal(t, "", *sync.Description)
	require.NotNil(t, sync.GoogleMapLink)
	assert.Nil(t, sync.Nom)
	assert.Nil(t, sync.Phone)
	assert.Nil(t, sync.Ville)
	assert.Nil(t, sync.Role)

	assert.True(t, sparseSync(ProfilePatch{Rating: ptr(1.0)}).Empty())
}

func TestComplete(t *testing.T) {
	sr := &models.Showroom{Nom: "Auto Plus", Ville: "Alger", Telephone: "021000000"}
	assert.True(t, complete(sr))

	for _, p := range []ProfilePatch{
		{Nom: ptr("")},
		{Ville: ptr("   ")},
		{Telephone: ptr("")},
	} {
		cp := *sr
		applyAdminPatch(&cp, p)
		assert.False(t, complete(&cp), "patch %+v", p)
	}
}
