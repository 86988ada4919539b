package portal

import (
	"cmp"
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"russify/internal/domain"
	"russify/internal/modules/catalog"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const uploadConcurrency = 4

// Image is a local image picked for upload.
type Image struct {
	Name string
	Data []byte
}

// Catalog manages the works, products and services collections.
type Catalog struct {
	client *Client
}

func (c *Client) Catalog() *Catalog {
	return &Catalog{client: c}
}

// List fetches one collection. Anonymous callers get active items only;
// admins get everything.
func (c *Catalog) List(ctx context.Context, typ domain.CatalogType) ([]domain.CatalogItem, error) {
	var res struct {
		Items []domain.CatalogItem `json:"items"`
	}
	q := url.Values{"action": {"content"}, "type": {string(typ)}}
	if err := c.client.do(ctx, http.MethodGet, "/api/content", q, nil, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

// Public fetches a collection the way the public pages show it.
func (c *Catalog) Public(ctx context.Context, typ domain.CatalogType, category string) ([]domain.CatalogItem, error) {
	items, err := c.List(ctx, typ)
	if err != nil {
		return nil, err
	}
	return PublicItems(items, category), nil
}

// PublicItems keeps active items, optionally of one category, ordered by
// display_order and then id.
func PublicItems(items []domain.CatalogItem, category string) []domain.CatalogItem {
	out := make([]domain.CatalogItem, 0, len(items))
	for _, it := range items {
		if !it.IsActive {
			continue
		}
		if category != "" && !strings.EqualFold(it.Category, category) {
			continue
		}
		out = append(out, it)
	}
	slices.SortStableFunc(out, func(a, b domain.CatalogItem) int {
		if c := cmp.Compare(a.DisplayOrder, b.DisplayOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Create adds an item. image, when set, is uploaded with the request.
func (c *Catalog) Create(ctx context.Context, in catalog.ContentRequest, image *Image) (*domain.CatalogItem, error) {
	return c.save(ctx, catalog.ActionCreate, in, image)
}

// Update changes the fields of in that are set.
func (c *Catalog) Update(ctx context.Context, in catalog.ContentRequest, image *Image) (*domain.CatalogItem, error) {
	return c.save(ctx, catalog.ActionUpdate, in, image)
}

func (c *Catalog) save(ctx context.Context, action string, in catalog.ContentRequest, image *Image) (*domain.CatalogItem, error) {
	if image != nil && len(image.Data) > 0 {
		in.ImageBase64 = base64.StdEncoding.EncodeToString(image.Data)
		in.ImageName = image.Name
	}
	body, err := withAction(action, in)
	if err != nil {
		return nil, err
	}
	var res struct {
		Item *domain.CatalogItem `json:"item"`
	}
	if err := c.client.do(ctx, http.MethodPost, "/api/content", nil, body, &res); err != nil {
		return nil, err
	}
	return res.Item, nil
}

func (c *Catalog) Delete(ctx context.Context, typ domain.CatalogType, id int64) error {
	body, err := withAction(catalog.ActionDelete, catalog.DeleteRequest{Type: typ, ID: id})
	if err != nil {
		return err
	}
	return c.client.do(ctx, http.MethodPost, "/api/content", nil, body, nil)
}

// UploadImage stores one image and returns its URL.
func (c *Catalog) UploadImage(ctx context.Context, img Image) (string, error) {
	body, err := withAction(catalog.ActionUploadImage, catalog.UploadImageRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(img.Data),
		ImageName:   img.Name,
	})
	if err != nil {
		return "", err
	}
	var res struct {
		ImageURL string `json:"image_url"`
	}
	if err := c.client.do(ctx, http.MethodPost, "/api/content", nil, body, &res); err != nil {
		return "", err
	}
	return res.ImageURL, nil
}

// SaveWork creates (in.ID == 0) or updates a portfolio work with a gallery.
// Each new image is uploaded on its own; an image whose upload fails is
// logged and left out. The gallery is the retained URLs followed by the
// uploaded ones, capped at domain.MaxGallerySize, and its first entry
// becomes image_url. Images past the cap are never uploaded.
func (c *Catalog) SaveWork(ctx context.Context, in catalog.ContentRequest, retained []string, images []Image) (*domain.CatalogItem, error) {
	gallery := catalog.NormalizeGallery(retained)
	gallery = append(gallery, c.uploadUpTo(ctx, images, domain.MaxGallerySize-len(gallery))...)

	in.Type = domain.CatalogWorks
	in.GalleryURLs = gallery
	if len(gallery) > 0 {
		first := gallery[0]
		in.ImageURL = &first
	}

	if in.ID == 0 {
		return c.Create(ctx, in, nil)
	}
	return c.Update(ctx, in, nil)
}

// uploadUpTo uploads images in order until room uploads succeeded. Each
// round only sends as many images as there are free slots left.
func (c *Catalog) uploadUpTo(ctx context.Context, images []Image, room int) []string {
	var urls []string
	for len(images) > 0 && len(urls) < room {
		n := min(room-len(urls), len(images))
		for _, u := range c.uploadAll(ctx, images[:n]) {
			if u != "" {
				urls = append(urls, u)
			}
		}
		images = images[n:]
	}
	return urls
}

// uploadAll returns one URL per image in input order, "" for failures.
func (c *Catalog) uploadAll(ctx context.Context, images []Image) []string {
	urls := make([]string, len(images))

	var g errgroup.Group
	g.SetLimit(uploadConcurrency)
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			u, err := c.UploadImage(ctx, img)
			if err != nil {
				c.client.log.Warn("gallery image upload failed", zap.String("name", img.Name), zap.Error(err))
				return nil
			}
			urls[i] = u
			return nil
		})
	}
	_ = g.Wait()
	return urls
}
