package portal

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"russify/internal/domain"
	"russify/internal/modules/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicItems(t *testing.T) {
	items := []domain.CatalogItem{
		{ID: 1, IsActive: true, DisplayOrder: 2, Category: "audio"},
		{ID: 2, IsActive: false, DisplayOrder: 0, Category: "audio"},
		{ID: 3, IsActive: true, DisplayOrder: 0, Category: "video"},
		{ID: 4, IsActive: true, DisplayOrder: 2, Category: "Audio"},
	}

	all := PublicItems(items, "")
	require.Len(t, all, 3)
	assert.LessOrEqual(t, len(all), len(items))
	for _, it := range all {
		assert.True(t, it.IsActive)
	}
	assert.Equal(t, []int64{3, 1, 4}, []int64{all[0].ID, all[1].ID, all[2].ID})

	audio := PublicItems(items, "audio")
	assert.Len(t, audio, 2)
}

func TestSaveWork_GalleryCapAndPartialFailure(t *testing.T) {
	api, client := newFakeAPI(t, func(w http.ResponseWriter, r recorded) {
		switch r.Body["action"] {
		case "upload_image":
			name, _ := r.Body["image_name"].(string)
			if strings.HasPrefix(name, "broken") {
				writeJSON(w, http.StatusUnsupportedMediaType, map[string]any{"code": "NOT_AN_IMAGE", "message": "not an image"})
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"image_url": "/static/" + name})
		case "create_content":
			var gallery []string
			for _, g := range r.Body["gallery_urls"].([]any) {
				gallery = append(gallery, g.(string))
			}
			writeJSON(w, http.StatusCreated, map[string]any{"item": map[string]any{
				"id":           1,
				"type":         r.Body["type"],
				"title":        r.Body["title"],
				"image_url":    r.Body["image_url"],
				"gallery_urls": gallery,
				"is_active":    true,
			}})
		}
	})

	var images []Image
	for i := 0; i < 11; i++ {
		name := fmt.Sprintf("img-%02d.jpg", i)
		if i == 3 {
			name = "broken.jpg"
		}
		images = append(images, Image{Name: name, Data: []byte{0xff, 0xd8, 0xff}})
	}

	title := "Prado 150"
	item, err := client.Catalog().SaveWork(context.Background(),
		catalog.ContentRequest{Title: &title},
		[]string{"/static/kept-1.jpg", "/static/kept-2.jpg"},
		images,
	)
	require.NoError(t, err)

	assert.Len(t, item.GalleryURLs, domain.MaxGallerySize)
	assert.Equal(t, "/static/kept-1.jpg", item.GalleryURLs[0])
	assert.Equal(t, "/static/kept-2.jpg", item.GalleryURLs[1])
	assert.Equal(t, "/static/img-00.jpg", item.GalleryURLs[2])
	assert.NotContains(t, []string(item.GalleryURLs), "/static/broken.jpg")
	// The failed slot is refilled by the next image; later ones stay local.
	assert.Equal(t, "/static/img-08.jpg", item.GalleryURLs[domain.MaxGallerySize-1])
	require.NotNil(t, item.ImageURL)
	assert.Equal(t, item.GalleryURLs[0], *item.ImageURL)

	var uploaded []string
	creates := 0
	for _, c := range api.Calls() {
		switch c.Body["action"] {
		case "upload_image":
			uploaded = append(uploaded, c.Body["image_name"].(string))
		case "create_content":
			creates++
			assert.Equal(t, "works", c.Body["type"])
		}
	}
	assert.Len(t, uploaded, 9)
	assert.NotContains(t, uploaded, "img-09.jpg")
	assert.NotContains(t, uploaded, "img-10.jpg")
	assert.Equal(t, 1, creates)
}

func TestCatalog_ListSendsType(t *testing.T) {
	api, client := newFakeAPI(t, func(w http.ResponseWriter, r recorded) {
		writeJSON(w, http.StatusOK, map[string]any{"items": []map[string]any{
			{"id": 1, "is_active": true, "display_order": 1},
			{"id": 2, "is_active": false},
		}})
	})

	items, err := client.Catalog().Public(context.Background(), domain.CatalogProducts, "")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"content"}, calls[0].Query["action"])
	assert.Equal(t, []string{"products"}, calls[0].Query["type"])
}
