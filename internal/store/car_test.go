// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoparc/internal/filter"
	"autoparc/internal/models"
)

// marqueToken returns a make name unique to this run so searches only see
// the rows this test inserted.
func marqueToken() string {
	return "Mk" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

func TestCarStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewCarStore(db)
	ctx := context.Background()

	owner := createTestUser(t, db, models.RoleUser)
	c := newTestCar(owner.ID, marqueToken(), 2500000)
	c.Images = nil
	require.NoError(t, s.Create(ctx, c))

	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, models.CarStatusDisponible, c.Status)

	got, err := s.FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, c.Marque, got.Marque)
	assert.Empty(t, got.Images)
	assert.Equal(t, "1.5 dCi", got.Specifications.Moteur)
	assert.Equal(t, []string{"Climatisation"}, got.Specifications.Options)
	require.NotNil(t, got.User)
	assert.Equal(t, owner.Nom, got.User.Nom)
	assert.Equal(t, owner.Phone, got.User.Phone)

	none, err := s.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestCarStoreSearchPriceRange(t *testing.T) {
	db := testDB(t)
	s := NewCarStore(db)
	ctx := context.Background()

	owner := createTestUser(t, db, models.RoleUser)
	mk := marqueToken()
	for _, prix := range []int64{1000000, 2000000, 3500000, 5000000, 9000000} {
		require.NoError(t, s.Create(ctx, newTestCar(owner.ID, mk, prix)))
	}

	res, err := s.Search(ctx, filter.CarFilter{
		Marque:  mk,
		PrixMin: ptr(int64(2000000)),
		PrixMax: ptr(int64(5000000)),
	}, filter.Page{Number: 1, Size: 12})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	for _, c := range res.Items {
		assert.GreaterOrEqual(t, c.Prix, int64(2000000))
		assert.LessOrEqual(t, c.Prix, int64(5000000))
	}

	// A lower bound alone must not cap the upper end.
	res, err = s.Search(ctx, filter.CarFilter{Marque: mk, PrixMin: ptr(int64(2000000))}, filter.Page{Number: 1, Size: 12})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
}

func TestCarStoreSearchPaging(t *testing.T) {
	db := testDB(t)
	s := NewCarStore(db)
	ctx := context.Background()

	owner := createTestUser(t, db, models.RoleUser)
	mk := marqueToken()
	for i := range 5 {
		require.NoError(t, s.Create(ctx, newTestCar(owner.ID, mk, int64(i))))
	}

	f := filter.CarFilter{Marque: strings.ToLower(mk)}

	last, err := s.Search(ctx, f, filter.Page{Number: 3, Size: 2})
	require.NoError(t, err)
	assert.Len(t, last.Items, 1)
	assert.Equal(t, 3, last.Pages)
	assert.Equal(t, 5, last.Total)

	past, err := s.Search(ctx, f, filter.Page{Number: 7, Size: 2})
	require.NoError(t, err)
	assert.Empty(t, past.Items)
	assert.Equal(t, 7, past.Page)
	assert.Equal(t, 3, past.Pages)
	assert.Equal(t, 5, past.Total)

	first, err := s.Search(ctx, f, filter.Page{Number: 1, Size: 5})
	require.NoError(t, err)
	require.Len(t, first.Items, 5)
	for i := 1; i < len(first.Items); i++ {
		assert.False(t, first.Items[i].CreatedAt.After(first.Items[i-1].CreatedAt), "results must be newest first")
	}
}

func TestCarStoreSearchIsNewAndText(t *testing.T) {
	db := testDB(t)
	s := NewCarStore(db)
	ctx := context.Background()

	owner := createTestUser(t, db, models.RoleUser)
	mk := marqueToken()

	used := newTestCar(owner.ID, mk, 1)
	used.Description = "Toit ouvrant panoramique"
	brandNew := newTestCar(owner.ID, mk, 2)
	brandNew.IsNew = true
	brandNew.Modele = "Megane"
	require.NoError(t, s.Create(ctx, used))
	require.NoError(t, s.Create(ctx, brandNew))

	page := filter.Page{Number: 1, Size: 12}

	all, err := s.Search(ctx, filter.CarFilter{Marque: mk}, page)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total, "absent isNew must not exclude anything")

	onlyNew, err := s.Search(ctx, filter.CarFilter{Marque: mk, IsNew: ptr(true)}, page)
	require.NoError(t, err)
	require.Equal(t, 1, onlyNew.Total)
	assert.Equal(t, brandNew.ID, onlyNew.Items[0].ID)

	// Any term may match: "panoramique" hits the description of one,
	// "megane" the model of the other.
	text, err := s.Search(ctx, filter.CarFilter{Marque: mk, Q: "panoramique megane"}, page)
	require.NoError(t, err)
	assert.Equal(t, 2, text.Total)

	one, err := s.Search(ctx, filter.CarFilter{Marque: mk, Q: "Panoramique"}, page)
	require.NoError(t, err)
	require.Equal(t, 1, one.Total)
	assert.Equal(t, used.ID, one.Items[0].ID)
}

// TestCarStoreSuggest checks the cap of five and favorite-based ordering.
func TestCarStoreSuggest(t *testing.T) {
	db := testDB(t)
	s := NewCarStore(db)
	users := NewUserStore(db)
	ctx := context.Background()

	empty, err := s.Suggest(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, empty)

	owner := createTestUser(t, db, models.RoleUser)
	mk := marqueToken()
	var cars []*models.Car
	for i := range 7 {
		c := newTestCar(owner.ID, mk, int64(i))
		require.NoError(t, s.Create(ctx, c))
		cars = append(cars, c)
	}

	// The oldest listing gets two favorites, the second oldest one.
	fan1 := createTestUser(t, db, models.RoleUser)
	fan2 := createTestUser(t, db, models.RoleUser)
	require.NoError(t, users.AddFavorite(ctx, fan1.ID, cars[0].ID))
	require.NoError(t, users.AddFavorite(ctx, fan2.ID, cars[0].ID))
	require.NoError(t, users.AddFavorite(ctx, fan1.ID, cars[1].ID))

	got, err := s.Suggest(ctx, strings.ToUpper(mk[2:8]))
	require.NoError(t, err)
	require.Len(t, got, filter.SuggestionLimit)
	assert.Equal(t, cars[0].ID, got[0].ID)
	assert.Equal(t, cars[1].ID, got[1].ID)
	assert.Equal(t, mk, got[0].Marque)
	assert.Equal(t, models.FuelDiesel, got[0].Carburant)
}

func TestCarStoreUpdateListByUserDelete(t *testing.T) {
	db := testDB(t)
	s := NewCarStore(db)
	ctx := context.Background()

	owner := createTestUser(t, db, models.RoleUser)
	c := newTestCar(owner.ID, marqueToken(), 100)
	require.NoError(t, s.Create(ctx, c))

	c.Status = models.CarStatusVendu
	c.Prix = 90
	require.NoError(t, s.Update(ctx, c))

	mine, err := s.ListByUser(ctx, owner.ID, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, models.CarStatusVendu, mine[0].Status)
	assert.Equal(t, int64(90), mine[0].Prix)

	n, err := s.CountByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, NewUserStore(db).AddFavorite(ctx, owner.ID, c.ID))
	favs, err := s.ListFavorites(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)

	require.NoError(t, s.Delete(ctx, c.ID))
	got, err := s.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	favs, err = s.ListFavorites(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, favs, "deleted listings drop out of favorites")
}
