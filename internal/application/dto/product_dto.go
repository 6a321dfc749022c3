package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductImageResponse imagen de producto.
type ProductImageResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	IsPrimary bool   `json:"is_primary"`
	Order     int    `json:"order"`
}

// SpecificationResponse fila de ficha técnica.
type SpecificationResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// ProductResponse salida de un producto del catálogo.
// EffectivePrice es el precio que se cobra (oferta si existe); FormattedPrice lo muestra en la moneda de la tienda.
type ProductResponse struct {
	ID               string                  `json:"id"`
	Slug             string                  `json:"slug"`
	Name             string                  `json:"name"`
	Description      string                  `json:"description"`
	ShortDescription string                  `json:"short_description,omitempty"`
	Price            decimal.Decimal         `json:"price"`
	SalePrice        *decimal.Decimal        `json:"sale_price,omitempty"`
	EffectivePrice   decimal.Decimal         `json:"effective_price"`
	HasDiscount      bool                    `json:"has_discount"`
	Currency         string                  `json:"currency"`
	FormattedPrice   string                  `json:"formatted_price"`
	Images           []ProductImageResponse  `json:"images"`
	Category         CategoryResponse        `json:"category"`
	Brand            string                  `json:"brand,omitempty"`
	SKU              string                  `json:"sku,omitempty"`
	InStock          bool                    `json:"in_stock"`
	StockQuantity    *int                    `json:"stock_quantity,omitempty"`
	Tags             []string                `json:"tags"`
	Specifications   []SpecificationResponse `json:"specifications"`
	Rating           *float64                `json:"rating,omitempty"`
	ReviewCount      int                     `json:"review_count"`
	Featured         bool                    `json:"featured"`
	IsNew            bool                    `json:"is_new"`
	IsBestSeller     bool                    `json:"is_best_seller"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}

// ProductDetailResponse producto con hasta 4 relacionados de la misma categoría.
type ProductDetailResponse struct {
	Product ProductResponse   `json:"product"`
	Related []ProductResponse `json:"related"`
}

// SearchResponse resultado de búsqueda. Con query vacía Items es una muestra aleatoria.
type SearchResponse struct {
	Query string            `json:"query"`
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
