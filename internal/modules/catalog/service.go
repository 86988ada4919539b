package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"russify/internal/domain"
	"russify/internal/modules/upload"
	"russify/internal/repository"

	"go.uber.org/zap"
)

// Service is one CRUD implementation for all catalog types; the Schema of
// each type decides which extension fields apply.
type Service struct {
	repo   Repository
	images ImageStore
	log    *zap.Logger
}

func NewService(repo Repository, images ImageStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, images: images, log: log}
}

// List returns items by display_order then id. Public callers only see
// active items.
func (s *Service) List(ctx context.Context, typ domain.CatalogType, includeInactive bool) ([]domain.CatalogItem, error) {
	if !typ.Valid() {
		return nil, ErrInvalidType
	}
	items, err := s.repo.List(ctx, typ, includeInactive)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.CatalogItem{}
	}
	return items, nil
}

func (s *Service) Create(ctx context.Context, adminID int64, in ContentRequest) (*domain.CatalogItem, error) {
	schema, ok := SchemaFor(in.Type)
	if !ok {
		return nil, ErrInvalidType
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, ErrTitleRequired
	}
	if err := schema.check(in, true); err != nil {
		return nil, err
	}

	item := &domain.CatalogItem{Type: in.Type, IsActive: true}
	if err := s.apply(ctx, adminID, schema, item, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create catalog item: %w", err)
	}

	s.log.Info("catalog item created", zap.String("type", string(item.Type)), zap.Int64("id", item.ID))
	return item, nil
}

func (s *Service) Update(ctx context.Context, adminID int64, in ContentRequest) (*domain.CatalogItem, error) {
	schema, ok := SchemaFor(in.Type)
	if !ok {
		return nil, ErrInvalidType
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, ErrTitleRequired
	}
	if err := schema.check(in, false); err != nil {
		return nil, err
	}

	item, err := s.repo.GetByID(ctx, in.Type, in.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	before := imageRefs(item)

	if err := s.apply(ctx, adminID, schema, item, in); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("update catalog item: %w", err)
	}
	s.releaseOrphans(ctx, before, imageRefs(item))

	s.log.Info("catalog item updated", zap.String("type", string(item.Type)), zap.Int64("id", item.ID))
	return item, nil
}

func (s *Service) Delete(ctx context.Context, typ domain.CatalogType, id int64) error {
	if !typ.Valid() {
		return ErrInvalidType
	}
	item, err := s.repo.GetByID(ctx, typ, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	if err := s.repo.Delete(ctx, typ, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	s.releaseOrphans(ctx, imageRefs(item), nil)

	s.log.Info("catalog item deleted", zap.String("type", string(typ)), zap.Int64("id", id))
	return nil
}

// UploadImage stores one image and returns its public URL.
func (s *Service) UploadImage(ctx context.Context, adminID int64, content, name string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrImageRequired
	}
	stored, err := s.images.SaveBase64(ctx, adminID, upload.File{Content: content, Name: name}, true)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrInvalidMimeType),
			errors.Is(err, upload.ErrInvalidEncoding),
			errors.Is(err, upload.ErrEmptyFile):
			return "", ErrNotAnImage
		case errors.Is(err, upload.ErrFileTooLarge):
			return "", ErrImageTooLarge
		}
		return "", err
	}
	return stored.FileURL, nil
}

func (s *Service) apply(ctx context.Context, adminID int64, schema Schema, item *domain.CatalogItem, in ContentRequest) error {
	if in.Title != nil {
		item.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		item.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		item.Category = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		item.Price = in.Price
	}
	if in.StockQuantity != nil {
		item.StockQuantity = in.StockQuantity
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	if in.DisplayOrder != nil {
		item.DisplayOrder = *in.DisplayOrder
	}
	if in.ImageURL != nil {
		item.ImageURL = nonEmpty(*in.ImageURL)
	}

	var uploaded string
	if strings.TrimSpace(in.ImageBase64) != "" {
		url, err := s.UploadImage(ctx, adminID, in.ImageBase64, in.ImageName)
		if err != nil {
			return err
		}
		uploaded = url
		item.ImageURL = &uploaded
	}

	if !schema.Gallery {
		return nil
	}

	gallery := in.GalleryURLs
	if gallery == nil {
		gallery = item.GalleryURLs
	}
	if uploaded != "" {
		gallery = append([]string{uploaded}, gallery...)
	}
	if gallery != nil {
		item.GalleryURLs = NormalizeGallery(gallery)
	}
	// image_url always follows the gallery when there is one
	if len(item.GalleryURLs) > 0 {
		first := item.GalleryURLs[0]
		item.ImageURL = &first
	}
	return nil
}

// imageRefs lists every image URL an item points at.
func imageRefs(item *domain.CatalogItem) []string {
	refs := make([]string, 0, len(item.GalleryURLs)+1)
	if item.ImageURL != nil {
		refs = append(refs, *item.ImageURL)
	}
	return append(refs, item.GalleryURLs...)
}

// releaseOrphans frees stored images that were in before, are not in after
// and no other catalog item still points at. Failures are only logged.
func (s *Service) releaseOrphans(ctx context.Context, before, after []string) {
	var dropped []string
	for _, u := range before {
		if u != "" && !slices.Contains(after, u) && !slices.Contains(dropped, u) {
			dropped = append(dropped, u)
		}
	}
	if len(dropped) == 0 {
		return
	}

	inUse := make(map[string]bool)
	for _, typ := range []domain.CatalogType{domain.CatalogWorks, domain.CatalogProducts, domain.CatalogServices} {
		items, err := s.repo.List(ctx, typ, true)
		if err != nil {
			s.log.Warn("skip image cleanup", zap.Error(err))
			return
		}
		for i := range items {
			for _, u := range imageRefs(&items[i]) {
				inUse[u] = true
			}
		}
	}

	for _, u := range dropped {
		if inUse[u] {
			continue
		}
		if err := s.images.Release(ctx, u); err != nil {
			s.log.Warn("image cleanup failed", zap.String("url", u), zap.Error(err))
		}
	}
}

// NormalizeGallery drops blanks and duplicates, keeps order and caps the
// result at MaxGallerySize.
func NormalizeGallery(urls []string) []string {
	out := make([]string, 0, min(len(urls), domain.MaxGallerySize))
	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
		if len(out) == domain.MaxGallerySize {
			break
		}
	}
	return out
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
