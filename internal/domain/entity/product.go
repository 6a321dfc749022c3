package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo tal como lo expone el CMS, ya normalizado.
// SalePrice es nil cuando no hay oferta; Price es el precio base.
type Product struct {
	ID               string
	Slug             string
	Name             string
	Description      string
	ShortDescription string
	Price            decimal.Decimal
	SalePrice        *decimal.Decimal
	Currency         string
	Images           []ProductImage
	Category         Category
	Brand            string
	SKU              string
	InStock          bool
	StockQuantity    *int
	Tags             []string
	Specifications   []Specification
	Rating           *float64
	ReviewCount      int
	Featured         bool
	IsNew            bool
	IsBestSeller     bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// EffectivePrice devuelve el precio de oferta si existe y es distinto de cero; si no, el precio base.
func (p Product) EffectivePrice() decimal.Decimal {
	return EffectivePrice(p.Price, p.SalePrice)
}

// HasDiscount indica si la oferta es menor al precio base.
func (p Product) HasDiscount() bool {
	return p.SalePrice != nil && !p.SalePrice.IsZero() && p.SalePrice.LessThan(p.Price)
}

// PrimaryImage devuelve la imagen principal o nil si el producto no tiene imágenes.
func (p Product) PrimaryImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}

// EffectivePrice aplica la regla de precio: oferta si está definida y no es cero.
func EffectivePrice(price decimal.Decimal, salePrice *decimal.Decimal) decimal.Decimal {
	if salePrice != nil && !salePrice.IsZero() {
		return *salePrice
	}
	return price
}

// ProductImage imagen de producto con URL absoluta.
type ProductImage struct {
	ID        string
	URL       string
	Alt       string
	IsPrimary bool
	Order     int
}

// Specification ficha técnica (nombre, valor y unidad opcional).
type Specification struct {
	Name  string
	Value string
	Unit  string
}
