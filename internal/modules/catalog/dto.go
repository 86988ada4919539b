package catalog

import "russify/internal/domain"

const (
	ActionCreate      = "create_content"
	ActionUpdate      = "update_content"
	ActionDelete      = "delete_content"
	ActionUploadImage = "upload_image"
)

type actionEnvelope struct {
	Action string `json:"action"`
}

// ContentRequest covers create and update. On update nil fields keep their
// stored value.
type ContentRequest struct {
	Type          domain.CatalogType `json:"type"`
	ID            int64              `json:"id"`
	Title         *string            `json:"title"`
	Description   *string            `json:"description"`
	Category      *string            `json:"category"`
	ImageURL      *string            `json:"image_url"`
	GalleryURLs   []string           `json:"gallery_urls"`
	Price         *float64           `json:"price"`
	StockQuantity *int               `json:"stock_quantity"`
	IsActive      *bool              `json:"is_active"`
	DisplayOrder  *int               `json:"display_order"`
	ImageBase64   string             `json:"image_base64"`
	ImageName     string             `json:"image_name"`
}

type DeleteRequest struct {
	Type domain.CatalogType `json:"type" binding:"required"`
	ID   int64              `json:"id" binding:"required"`
}

type UploadImageRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
	ImageName   string `json:"image_name"`
}
