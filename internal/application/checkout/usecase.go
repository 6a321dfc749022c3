// Package checkout compone el handoff por WhatsApp: mensaje, enlace, QR y cotización PDF.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/veloce-moto-api/internal/application/dto"
	"github.com/jhoicas/veloce-moto-api/internal/domain"
	domaincart "github.com/jhoicas/veloce-moto-api/internal/domain/cart"
	domaincheckout "github.com/jhoicas/veloce-moto-api/internal/domain/checkout"
	"github.com/jhoicas/veloce-moto-api/internal/domain/entity"
	"github.com/jhoicas/veloce-moto-api/internal/domain/repository"
	"github.com/jhoicas/veloce-moto-api/pkg/logger"
	"github.com/jhoicas/veloce-moto-api/pkg/money"
)

// Shop datos de la tienda que aparecen en el mensaje y la cotización.
type Shop struct {
	Name           string
	WhatsAppNumber string
	Currency       string
}

// UseCase arma los pedidos por WhatsApp. No registra pedidos: solo compone el mensaje.
type UseCase struct {
	carts   repository.CartRepository
	catalog repository.CatalogRepository
	qr      QRGenerator
	pdf     QuotePDFGenerator
	pricing domaincart.Pricing
	shop    Shop
	log     *logger.Logger
}

// NewUseCase construye el caso de uso inyectando todas sus dependencias.
func NewUseCase(
	carts repository.CartRepository,
	catalog repository.CatalogRepository,
	qr QRGenerator,
	pdf QuotePDFGenerator,
	pricing domaincart.Pricing,
	shop Shop,
	log *logger.Logger,
) *UseCase {
	if shop.WhatsAppNumber == "" {
		shop.WhatsAppNumber = domaincheckout.DefaultShopNumber
	}
	if shop.Currency == "" {
		shop.Currency = money.CurrencyLKR
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		carts:   carts,
		catalog: catalog,
		qr:      qr,
		pdf:     pdf,
		pricing: pricing,
		shop:    shop,
		log:     log.Named("checkout"),
	}
}

// CheckoutCart mensaje y enlace con todas las líneas del carrito.
// Retorna domain.ErrEmptyCart si el carrito no existe o no tiene líneas.
func (uc *UseCase) CheckoutCart(ctx context.Context, cartID string) (*dto.CheckoutResponse, error) {
	c, err := uc.nonEmptyCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	msg, total := domaincheckout.CartMessage(c.Items, uc.shop.Currency)
	uc.log.Info().Str("cart_id", cartID).Int("items", len(c.Items)).Msg("checkout por WhatsApp")
	return &dto.CheckoutResponse{
		Message:        msg,
		Link:           domaincheckout.Link(uc.shop.WhatsAppNumber, msg),
		ItemCount:      domaincart.ItemCount(c.Items),
		GrandTotal:     total.Round(2),
		FormattedTotal: money.Format(total, uc.shop.Currency),
	}, nil
}

// OrderProduct mensaje y enlace para pedir un solo producto sin pasar por el carrito.
//
// Retorna:
//   - domain.ErrInvalidInput  si quantity < 1.
//   - domain.ErrNotFound      si el slug no existe.
//   - domain.ErrOutOfStock    si el producto está sin stock.
//   - domain.ErrUnavailable   si el CMS no responde.
func (uc *UseCase) OrderProduct(ctx context.Context, slug string, quantity int) (*dto.CheckoutResponse, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor o igual a 1", domain.ErrInvalidInput)
	}
	p, err := uc.catalog.GetProductBySlug(ctx, slug)
	if err != nil {
		uc.log.Error().Err(err).Str("slug", slug).Msg("obtener producto para pedido")
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if !p.InStock {
		return nil, domain.ErrOutOfStock
	}

	currency := p.Currency
	if currency == "" {
		currency = uc.shop.Currency
	}
	unit := p.EffectivePrice()
	msg := domaincheckout.ProductMessage(p.Name, quantity, unit, currency)
	total := entity.CartItem{Product: entity.NewCartProduct(*p), Quantity: quantity}.LineTotal()
	return &dto.CheckoutResponse{
		Message:        msg,
		Link:           domaincheckout.Link(uc.shop.WhatsAppNumber, msg),
		ItemCount:      quantity,
		GrandTotal:     total.Round(2),
		FormattedTotal: money.Format(total, currency),
	}, nil
}

// CheckoutQR PNG con el QR del enlace de checkout del carrito.
func (uc *UseCase) CheckoutQR(ctx context.Context, cartID string) ([]byte, error) {
	out, err := uc.CheckoutCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	png, err := uc.qr.PNG(out.Link)
	if err != nil {
		return nil, fmt.Errorf("checkout: generar QR: %w", err)
	}
	return png, nil
}

// Quote genera la cotización PDF del carrito.
//
// Retorna (pdfBytes, filename, nil) o domain.ErrEmptyCart si no hay líneas.
func (uc *UseCase) Quote(ctx context.Context, cartID string) (pdfBytes []byte, filename string, err error) {
	c, err := uc.nonEmptyCart(ctx, cartID)
	if err != nil {
		return nil, "", err
	}

	msg, _ := domaincheckout.CartMessage(c.Items, uc.shop.Currency)
	q := Quote{
		ShopName:   uc.shop.Name,
		ShopNumber: uc.shop.WhatsAppNumber,
		CartID:     c.ID,
		Date:       time.Now(),
		Currency:   uc.shop.Currency,
		Lines:      make([]QuoteLine, 0, len(c.Items)),
		Summary:    uc.pricing.Summarize(c.Items),
		Link:       domaincheckout.Link(uc.shop.WhatsAppNumber, msg),
	}
	for _, it := range c.Items {
		q.Lines = append(q.Lines, QuoteLine{
			Name:      it.Product.Name,
			SKU:       it.Product.SKU,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice(),
			LineTotal: it.LineTotal(),
		})
	}

	pdfBytes, err = uc.pdf.GenerateQuotePDF(ctx, q)
	if err != nil {
		return nil, "", fmt.Errorf("checkout: generar cotización: %w", err)
	}
	filename = fmt.Sprintf("quotation_%s.pdf", q.Date.Format("20060102"))
	return pdfBytes, filename, nil
}

func (uc *UseCase) nonEmptyCart(ctx context.Context, cartID string) (*entity.Cart, error) {
	if cartID == "" {
		return nil, domain.ErrEmptyCart
	}
	c, err := uc.carts.Get(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("checkout: obtener carrito: %w", err)
	}
	if c == nil || len(c.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	return c, nil
}
