// Package money formatea importes para mostrarlos al cliente y en los mensajes de pedido.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyLKR rupia de Sri Lanka, moneda por defecto de la tienda.
const CurrencyLKR = "LKR"

// Format formatea un importe según la moneda:
// LKR → "Rs. 1,234.00"; cualquier otra → "USD 1234.00".
func Format(amount decimal.Decimal, currency string) string {
	if currency == "" || strings.EqualFold(currency, CurrencyLKR) {
		return FormatLKR(amount)
	}
	return strings.ToUpper(currency) + " " + amount.StringFixed(2)
}

// FormatLKR formato de rupias con separador de miles y dos decimales.
func FormatLKR(amount decimal.Decimal) string {
	return "Rs. " + Group(amount.StringFixed(2))
}

// Group inserta comas de miles en la parte entera de un número ya formateado.
// Ej: "1234567.50" → "1,234,567.50", "-1000" → "-1,000"
func Group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	n := len(intPart)
	if n <= 3 {
		return sign + intPart + frac
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + frac
}
