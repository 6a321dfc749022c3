package strapi

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ── Estructuras del protocolo REST de Strapi v4 ───────────────────────────────
// Cada entidad llega como {id, attributes}; las relaciones como {data: ...}.

type listResponse[T any] struct {
	Data []entry[T] `json:"data"`
}

type entry[T any] struct {
	ID         json.Number `json:"id"`
	Attributes T           `json:"attributes"`
}

type relation[T any] struct {
	Data *entry[T] `json:"data"`
}

type relationList[T any] struct {
	Data []entry[T] `json:"data"`
}

type errorResponse struct {
	Error *struct {
		Status  int    `json:"status"`
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

type mediaAttributes struct {
	URL             string `json:"url"`
	AlternativeText string `json:"alternativeText"`
}

type categoryAttributes struct {
	Slug        string                    `json:"slug"`
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Image       relation[mediaAttributes] `json:"image"`
	Order       *int                      `json:"order"`
}

type specificationAttributes struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

type productAttributes struct {
	Slug             string                        `json:"slug"`
	Name             string                        `json:"name"`
	Description      string                        `json:"description"`
	ShortDescription string                        `json:"shortDescription"`
	Price            decimal.NullDecimal           `json:"price"`
	SalePrice        decimal.NullDecimal           `json:"salePrice"`
	Images           relationList[mediaAttributes] `json:"images"`
	Category         relation[categoryAttributes]  `json:"category"`
	Brand            string                        `json:"brand"`
	SKU              string                        `json:"sku"`
	InStock          *bool                         `json:"inStock"`
	StockQuantity    *int                          `json:"stockQuantity"`
	Tags             []string                      `json:"tags"`
	Specifications   []specificationAttributes     `json:"specifications"`
	Rating           *float64                      `json:"rating"`
	ReviewCount      *int                          `json:"reviewCount"`
	Featured         *bool                         `json:"featured"`
	IsNew            *bool                         `json:"isNew"`
	IsBestSeller     *bool                         `json:"isBestSeller"`
	CreatedAt        string                        `json:"createdAt"`
	UpdatedAt        string                        `json:"updatedAt"`
}
