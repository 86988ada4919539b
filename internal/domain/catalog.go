package domain

import (
	"time"

	"gorm.io/datatypes"
)

type CatalogType string

const (
	CatalogWorks    CatalogType = "works"
	CatalogProducts CatalogType = "products"
	CatalogServices CatalogType = "services"
)

func (t CatalogType) Valid() bool {
	return t == CatalogWorks || t == CatalogProducts || t == CatalogServices
}

// MaxGallerySize caps gallery_urls on portfolio works.
const MaxGallerySize = 10

// CatalogItem backs all three public collections. StockQuantity is only
// set for products and GalleryURLs only for works.
type CatalogItem struct {
	ID            int64                       `json:"id" gorm:"primaryKey"`
	Type          CatalogType                 `json:"type" gorm:"type:varchar(16);not null;index"`
	Title         string                      `json:"title" gorm:"not null"`
	Description   string                      `json:"description"`
	Category      string                      `json:"category" gorm:"index"`
	ImageURL      *string                     `json:"image_url"`
	GalleryURLs   datatypes.JSONSlice[string] `json:"gallery_urls,omitempty"`
	Price         *float64                    `json:"price"`
	StockQuantity *int                        `json:"stock_quantity,omitempty"`
	IsActive      bool                        `json:"is_active" gorm:"not null"`
	DisplayOrder  int                         `json:"display_order" gorm:"not null;default:0"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

func (CatalogItem) TableName() string {
	return "catalog_items"
}
