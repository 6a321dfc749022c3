package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart carrito identificado por un ID opaco que guarda el cliente.
// Items mantiene el orden de inserción; hay como máximo un item por producto.
type Cart struct {
	ID        string
	Items     []CartItem
	UpdatedAt time.Time
}

// CartItem línea del carrito: snapshot del producto + cantidad (>= 1).
type CartItem struct {
	Product  CartProduct
	Quantity int
}

// UnitPrice precio unitario efectivo de la línea.
func (i CartItem) UnitPrice() decimal.Decimal {
	return EffectivePrice(i.Product.Price, i.Product.SalePrice)
}

// LineTotal precio unitario efectivo por cantidad.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartProduct snapshot del producto al momento de agregarlo al carrito.
type CartProduct struct {
	ID        string
	Slug      string
	Name      string
	Brand     string
	SKU       string
	Price     decimal.Decimal
	SalePrice *decimal.Decimal
	Currency  string
	ImageURL  string
	ImageAlt  string
}

// NewCartProduct toma el snapshot de un producto del catálogo.
func NewCartProduct(p Product) CartProduct {
	cp := CartProduct{
		ID:       p.ID,
		Slug:     p.Slug,
		Name:     p.Name,
		Brand:    p.Brand,
		SKU:      p.SKU,
		Price:    p.Price,
		Currency: p.Currency,
	}
	if p.SalePrice != nil {
		sp := *p.SalePrice
		cp.SalePrice = &sp
	}
	if img := p.PrimaryImage(); img != nil {
		cp.ImageURL = img.URL
		cp.ImageAlt = img.Alt
	}
	return cp
}
