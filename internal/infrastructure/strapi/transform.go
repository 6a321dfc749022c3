package strapi

import (
	"strings"
	"time"

	"github.com/jhoicas/veloce-moto-api/internal/domain/entity"
)

// MediaURL normaliza una URL de medio: vacía → "", absoluta → tal cual, relativa → baseURL + path.
func MediaURL(baseURL, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	return strings.TrimRight(baseURL, "/") + path
}

// transformProduct convierte una entrada de Strapi en entity.Product.
func transformProduct(e entry[productAttributes], baseURL, currency string) entity.Product {
	a := e.Attributes

	p := entity.Product{
		ID:               e.ID.String(),
		Slug:             a.Slug,
		Name:             a.Name,
		Description:      a.Description,
		ShortDescription: a.ShortDescription,
		Currency:         currency,
		Brand:            a.Brand,
		SKU:              a.SKU,
		InStock:          boolOr(a.InStock, true),
		StockQuantity:    a.StockQuantity,
		Tags:             a.Tags,
		Rating:           a.Rating,
		ReviewCount:      intOr(a.ReviewCount, 0),
		Featured:         boolOr(a.Featured, false),
		IsNew:            boolOr(a.IsNew, false),
		IsBestSeller:     boolOr(a.IsBestSeller, false),
		CreatedAt:        parseTime(a.CreatedAt),
		UpdatedAt:        parseTime(a.UpdatedAt),
	}
	if a.Price.Valid {
		p.Price = a.Price.Decimal
	}
	// Oferta ausente o en cero = sin oferta.
	if a.SalePrice.Valid && !a.SalePrice.Decimal.IsZero() {
		sp := a.SalePrice.Decimal
		p.SalePrice = &sp
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	p.Images = make([]entity.ProductImage, 0, len(a.Images.Data))
	for i, img := range a.Images.Data {
		alt := img.Attributes.AlternativeText
		if alt == "" {
			alt = a.Name
		}
		p.Images = append(p.Images, entity.ProductImage{
			ID:        img.ID.String(),
			URL:       MediaURL(baseURL, img.Attributes.URL),
			Alt:       alt,
			IsPrimary: i == 0,
			Order:     i,
		})
	}

	p.Specifications = make([]entity.Specification, 0, len(a.Specifications))
	for _, s := range a.Specifications {
		p.Specifications = append(p.Specifications, entity.Specification{Name: s.Name, Value: s.Value, Unit: s.Unit})
	}

	if a.Category.Data != nil {
		p.Category = transformCategory(*a.Category.Data, baseURL)
	} else {
		p.Category = entity.Uncategorized()
	}
	return p
}

// transformCategory convierte una entrada de Strapi en entity.Category.
func transformCategory(e entry[categoryAttributes], baseURL string) entity.Category {
	a := e.Attributes
	c := entity.Category{
		ID:          e.ID.String(),
		Slug:        a.Slug,
		Name:        a.Name,
		Description: a.Description,
		Order:       intOr(a.Order, 0),
	}
	if a.Image.Data != nil {
		c.Image = MediaURL(baseURL, a.Image.Data.Attributes.URL)
	}
	return c
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func intOr(n *int, def int) int {
	if n == nil {
		return def
	}
	return *n
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
