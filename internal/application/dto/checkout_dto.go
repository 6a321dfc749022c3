package dto

import "github.com/shopspring/decimal"

// OrderProductRequest pedido directo de un producto.
type OrderProductRequest struct {
	Quantity int `json:"quantity"`
}

// CheckoutResponse mensaje pre-armado y enlace de WhatsApp para cerrar el pedido con la tienda.
type CheckoutResponse struct {
	Message        string          `json:"message"`
	Link           string          `json:"link"`
	ItemCount      int             `json:"item_count"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	FormattedTotal string          `json:"formatted_total"`
}
