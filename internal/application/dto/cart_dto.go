package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddCartItemRequest agrega un producto al carrito por ID o por slug. Quantity por defecto 1.
type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
	Slug      string `json:"slug"`
	Quantity  *int   `json:"quantity"`
}

// UpdateCartItemRequest fija la cantidad de una línea; <= 0 la elimina.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartItemResponse línea del carrito con importes ya calculados.
type CartItemResponse struct {
	ProductID          string           `json:"product_id"`
	Slug               string           `json:"slug"`
	Name               string           `json:"name"`
	Brand              string           `json:"brand,omitempty"`
	SKU                string           `json:"sku,omitempty"`
	ImageURL           string           `json:"image_url,omitempty"`
	ImageAlt           string           `json:"image_alt,omitempty"`
	Currency           string           `json:"currency"`
	Price              decimal.Decimal  `json:"price"`
	SalePrice          *decimal.Decimal `json:"sale_price,omitempty"`
	UnitPrice          decimal.Decimal  `json:"unit_price"`
	Quantity           int              `json:"quantity"`
	LineTotal          decimal.Decimal  `json:"line_total"`
	FormattedUnitPrice string           `json:"formatted_unit_price"`
	FormattedLineTotal string           `json:"formatted_line_total"`
}

// CartSummaryResponse totales del carrito redondeados a 2 decimales.
type CartSummaryResponse struct {
	ItemCount             int             `json:"item_count"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	Tax                   decimal.Decimal `json:"tax"`
	Shipping              decimal.Decimal `json:"shipping"`
	Total                 decimal.Decimal `json:"total"`
	FreeShippingRemaining decimal.Decimal `json:"free_shipping_remaining"`
	FormattedTotal        string          `json:"formatted_total"`
}

// CartResponse carrito completo.
type CartResponse struct {
	ID        string              `json:"id"`
	Items     []CartItemResponse  `json:"items"`
	Summary   CartSummaryResponse `json:"summary"`
	UpdatedAt *time.Time          `json:"updated_at,omitempty"`
}
