package catalog

import "errors"

var (
	ErrInvalidType     = errors.New("type must be works, products or services")
	ErrItemNotFound    = errors.New("catalog item not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrPriceRequired   = errors.New("price is required for this type")
	ErrNegativeNumber  = errors.New("price and stock_quantity must not be negative")
	ErrFieldNotAllowed = errors.New("field is not supported for this type")
	ErrImageRequired   = errors.New("image_base64 is required")
	ErrNotAnImage      = errors.New("uploaded file is not an image")
	ErrImageTooLarge   = errors.New("image exceeds the maximum size")
)
