package database_test

import (
	"testing"

	"russify/internal/database/dbtest"
	"russify/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_CreatesTables(t *testing.T) {
	db := dbtest.New(t)

	for _, model := range []any{
		&domain.User{},
		&domain.ServiceRequest{},
		&domain.Message{},
		&domain.CompletedWork{},
		&domain.BonusTransaction{},
		&domain.CatalogItem{},
		&domain.Upload{},
		&domain.ContactLead{},
	} {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}
}

func TestCatalogItem_GalleryRoundTrip(t *testing.T) {
	db := dbtest.New(t)

	item := domain.CatalogItem{
		Type:        domain.CatalogWorks,
		Title:       "Camry 70",
		IsActive:    true,
		GalleryURLs: []string{"/static/a.jpg", "/static/b.jpg"},
	}
	require.NoError(t, db.Create(&item).Error)

	var got domain.CatalogItem
	require.NoError(t, db.First(&got, item.ID).Error)
	assert.Equal(t, []string{"/static/a.jpg", "/static/b.jpg"}, []string(got.GalleryURLs))
}
