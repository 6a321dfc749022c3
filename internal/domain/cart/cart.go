// Package cart contiene las reglas del carrito: mutaciones de líneas y totales derivados.
// Todas las funciones son puras salvo las mutaciones, que modifican el *entity.Cart recibido.
package cart

import (
	"github.com/jhoicas/veloce-moto-api/internal/domain"
	"github.com/jhoicas/veloce-moto-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Pricing reglas de impuesto y envío aplicadas al subtotal.
type Pricing struct {
	TaxRate               decimal.Decimal
	ShippingFlat          decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// DefaultPricing 8% de impuesto, envío plano de 15 y gratis por encima de 100.
func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:               decimal.RequireFromString("0.08"),
		ShippingFlat:          decimal.NewFromInt(15),
		FreeShippingThreshold: decimal.NewFromInt(100),
	}
}

// Summary agregados derivados del carrito.
type Summary struct {
	ItemCount             int
	Subtotal              decimal.Decimal
	Tax                   decimal.Decimal
	Shipping              decimal.Decimal
	Total                 decimal.Decimal
	FreeShippingRemaining decimal.Decimal
}

// Add agrega quantity unidades del producto. Si ya existe una línea para ese producto
// se suma la cantidad y se refresca el snapshot; si no, se agrega al final.
func Add(c *entity.Cart, product entity.CartProduct, quantity int) error {
	if quantity < 1 || product.ID == "" {
		return domain.ErrInvalidInput
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == product.ID {
			c.Items[i].Quantity += quantity
			c.Items[i].Product = product
			return nil
		}
	}
	c.Items = append(c.Items, entity.CartItem{Product: product, Quantity: quantity})
	return nil
}

// Remove elimina la línea del producto. Devuelve false si no existía.
func Remove(c *entity.Cart, productID string) bool {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// SetQuantity fija la cantidad de una línea; quantity <= 0 equivale a Remove.
// Devuelve false si el producto no está en el carrito.
func SetQuantity(c *entity.Cart, productID string, quantity int) bool {
	if quantity <= 0 {
		return Remove(c, productID)
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items[i].Quantity = quantity
			return true
		}
	}
	return false
}

// ItemCount suma de cantidades.
func ItemCount(items []entity.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// Subtotal suma de precio efectivo por cantidad.
func Subtotal(items []entity.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// Tax impuesto sobre el subtotal.
func (p Pricing) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(p.TaxRate)
}

// Shipping gratis si el subtotal supera el umbral (estrictamente); si no, tarifa plana.
func (p Pricing) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.ShippingFlat
}

// Total subtotal + impuesto + envío.
func (p Pricing) Total(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Add(p.Tax(subtotal)).Add(p.Shipping(subtotal))
}

// Summarize calcula todos los agregados. Un carrito vacío no paga envío.
func (p Pricing) Summarize(items []entity.CartItem) Summary {
	subtotal := Subtotal(items)
	s := Summary{
		ItemCount:             ItemCount(items),
		Subtotal:              subtotal,
		Tax:                   p.Tax(subtotal),
		Shipping:              p.Shipping(subtotal),
		FreeShippingRemaining: decimal.Zero,
	}
	if len(items) == 0 {
		s.Shipping = decimal.Zero
	}
	s.Total = s.Subtotal.Add(s.Tax).Add(s.Shipping)
	if subtotal.LessThan(p.FreeShippingThreshold) && len(items) > 0 {
		s.FreeShippingRemaining = p.FreeShippingThreshold.Sub(subtotal)
	}
	return s
}
