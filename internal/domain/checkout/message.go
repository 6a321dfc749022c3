// Package checkout arma el mensaje de pedido y el enlace de WhatsApp con el que el cliente
// cierra la compra con la tienda. No hay procesamiento de pedidos del lado del servidor.
package checkout

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/veloce-moto-api/internal/domain/entity"
	"github.com/jhoicas/veloce-moto-api/pkg/money"
)

// DefaultShopNumber número de WhatsApp de la tienda, sin el signo +.
const DefaultShopNumber = "94741813772"

const waBaseURL = "https://wa.me/"

// ProductMessage mensaje para pedir un único producto.
func ProductMessage(name string, quantity int, unitPrice decimal.Decimal, currency string) string {
	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	var b strings.Builder
	b.WriteString("Hi! I'm interested in ordering:\n\n")
	fmt.Fprintf(&b, "*Product:* %s\n", name)
	fmt.Fprintf(&b, "*Quantity:* %d\n", quantity)
	fmt.Fprintf(&b, "*Unit Price:* %s\n", money.Format(unitPrice, currency))
	fmt.Fprintf(&b, "*Total:* %s\n\n", money.Format(total, currency))
	b.WriteString("Please confirm availability and delivery details.")
	return b.String()
}

// CartMessage mensaje con todas las líneas del carrito y su suma.
// El gran total es la suma de las líneas: no incluye impuesto ni envío.
func CartMessage(items []entity.CartItem, currency string) (string, decimal.Decimal) {
	var b strings.Builder
	b.WriteString("Hi! I'd like to order the following items:\n\n")

	total := decimal.Zero
	for i, it := range items {
		unit := it.UnitPrice()
		line := it.LineTotal()
		total = total.Add(line)

		fmt.Fprintf(&b, "*%d. %s*\n", i+1, it.Product.Name)
		fmt.Fprintf(&b, "   Quantity: %d\n", it.Quantity)
		fmt.Fprintf(&b, "   Unit Price: %s\n", money.Format(unit, currency))
		fmt.Fprintf(&b, "   Subtotal: %s\n\n", money.Format(line, currency))
	}

	fmt.Fprintf(&b, "*Grand Total: %s*\n\n", money.Format(total, currency))
	b.WriteString("Please confirm availability and provide delivery details.")
	return b.String(), total
}

// Link enlace wa.me con el mensaje pre-cargado.
func Link(number, message string) string {
	return waBaseURL + strings.TrimPrefix(number, "+") + "?text=" + EncodeURIComponent(message)
}

// EncodeURIComponent escapa igual que encodeURIComponent de JavaScript:
// solo quedan sin escapar A-Z a-z 0-9 y - _ . ! ~ * ' ( ).
func EncodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
