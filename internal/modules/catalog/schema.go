package catalog

import "russify/internal/domain"

// Schema lists what a catalog type accepts on top of the shared fields.
type Schema struct {
	Type          domain.CatalogType
	PriceRequired bool
	Stock         bool
	Gallery       bool
}

var schemas = map[domain.CatalogType]Schema{
	domain.CatalogWorks:    {Type: domain.CatalogWorks, Gallery: true},
	domain.CatalogProducts: {Type: domain.CatalogProducts, PriceRequired: true, Stock: true},
	domain.CatalogServices: {Type: domain.CatalogServices},
}

func SchemaFor(t domain.CatalogType) (Schema, bool) {
	s, ok := schemas[t]
	return s, ok
}

// check validates the fields of in that the schema governs. With creating
// set, required fields must be present.
func (s Schema) check(in ContentRequest, creating bool) error {
	if in.StockQuantity != nil && !s.Stock {
		return ErrFieldNotAllowed
	}
	if in.GalleryURLs != nil && !s.Gallery {
		return ErrFieldNotAllowed
	}
	if creating && s.PriceRequired && in.Price == nil {
		return ErrPriceRequired
	}
	if in.Price != nil && *in.Price < 0 {
		return ErrNegativeNumber
	}
	if in.StockQuantity != nil && *in.StockQuantity < 0 {
		return ErrNegativeNumber
	}
	return nil
}
