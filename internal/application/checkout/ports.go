package checkout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domaincart "github.com/jhoicas/veloce-moto-api/internal/domain/cart"
)

// QRGenerator codifica un texto (el enlace de WhatsApp) como imagen PNG.
type QRGenerator interface {
	PNG(content string) ([]byte, error)
}

// QuotePDFGenerator genera la cotización imprimible del carrito.
type QuotePDFGenerator interface {
	GenerateQuotePDF(ctx context.Context, q Quote) ([]byte, error)
}

// Quote datos de la cotización: líneas, totales y enlace para confirmar por WhatsApp.
type Quote struct {
	ShopName   string
	ShopNumber string
	CartID     string
	Date       time.Time
	Currency   string
	Lines      []QuoteLine
	Summary    domaincart.Summary
	Link       string
}

// QuoteLine línea de la cotización.
type QuoteLine struct {
	Name      string
	SKU       string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}
