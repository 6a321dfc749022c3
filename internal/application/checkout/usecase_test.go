package checkout_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/veloce-moto-api/internal/application/checkout"
	"github.com/jhoicas/veloce-moto-api/internal/domain"
	domaincart "github.com/jhoicas/veloce-moto-api/internal/domain/cart"
	"github.com/jhoicas/veloce-moto-api/internal/domain/entity"
	"github.com/jhoicas/veloce-moto-api/internal/domain/repository"
	"github.com/jhoicas/veloce-moto-api/internal/infrastructure/memory"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type slugCatalog struct {
	repository.CatalogRepository
	products map[string]entity.Product
	err      error
}

func (s *slugCatalog) GetProductBySlug(_ context.Context, slug string) (*entity.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[slug]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type fakeQR struct{ content string }

func (f *fakeQR) PNG(content string) ([]byte, error) {
	f.content = content
	return []byte("png"), nil
}

type fakePDF struct{ quote checkout.Quote }

func (f *fakePDF) GenerateQuotePDF(_ context.Context, q checkout.Quote) ([]byte, error) {
	f.quote = q
	return []byte("%PDF-1.3"), nil
}

func newUseCase(t *testing.T) (*checkout.UseCase, *memory.CartRepo, *slugCatalog, *fakeQR, *fakePDF) {
	t.Helper()
	carts := memory.NewCartRepository()
	catalog := &slugCatalog{products: map[string]entity.Product{
		"chain": {ID: "1", Slug: "chain", Name: "Chain Kit", Price: decimal.NewFromInt(2500), Currency: "LKR", InStock: true},
		"tyre":  {ID: "2", Slug: "tyre", Name: "Tyre", Price: decimal.NewFromInt(9000), Currency: "LKR", InStock: false},
	}}
	qr := &fakeQR{}
	pdf := &fakePDF{}
	uc := checkout.NewUseCase(carts, catalog, qr, pdf, domaincart.DefaultPricing(),
		checkout.Shop{Name: "Veloce Moto"}, nil)
	return uc, carts, catalog, qr, pdf
}

func seedCart(t *testing.T, carts *memory.CartRepo) {
	t.Helper()
	sale := decimal.NewFromInt(40)
	_, err := carts.Update(context.Background(), "c1", func(c *entity.Cart) (bool, error) {
		c.Items = []entity.CartItem{
			{Product: entity.CartProduct{ID: "1", Name: "Brake Pads", SKU: "BP-1", Price: decimal.NewFromInt(50), SalePrice: &sale}, Quantity: 2},
			{Product: entity.CartProduct{ID: "2", Name: "Oil", Price: decimal.NewFromInt(30)}, Quantity: 1},
		}
		return true, nil
	})
	require.NoError(t, err)
}

// ── Carrito ───────────────────────────────────────────────────────────────────

func TestCheckoutCart(t *testing.T) {
	uc, carts, _, _, _ := newUseCase(t)
	seedCart(t, carts)

	out, err := uc.CheckoutCart(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, 3, out.ItemCount)
	assert.Equal(t, "110", out.GrandTotal.String(), "gran total sin impuesto ni envío")
	assert.Equal(t, "Rs. 110.00", out.FormattedTotal)
	assert.True(t, strings.HasPrefix(out.Message, "Hi! I'd like to order the following items:"))
	assert.Contains(t, out.Message, "*1. Brake Pads*\n   Quantity: 2\n   Unit Price: Rs. 40.00\n   Subtotal: Rs. 80.00")

	require.True(t, strings.HasPrefix(out.Link, "https://wa.me/94741813772?text="))
	u, err := url.Parse(out.Link)
	require.NoError(t, err)
	assert.Equal(t, out.Message, u.Query().Get("text"))
}

func TestCheckoutCart_Vacio(t *testing.T) {
	uc, carts, _, _, _ := newUseCase(t)

	_, err := uc.CheckoutCart(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	_, err = carts.Update(context.Background(), "vacio", func(*entity.Cart) (bool, error) { return true, nil })
	require.NoError(t, err)
	_, err = uc.CheckoutCart(context.Background(), "vacio")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	_, err = uc.CheckoutQR(context.Background(), "vacio")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	_, _, err = uc.Quote(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCheckoutQR_CodificaElEnlace(t *testing.T) {
	uc, carts, _, qr, _ := newUseCase(t)
	seedCart(t, carts)

	png, err := uc.CheckoutQR(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), png)
	assert.True(t, strings.HasPrefix(qr.content, "https://wa.me/94741813772?text=Hi"))
}

func TestQuote(t *testing.T) {
	uc, carts, _, _, pdf := newUseCase(t)
	seedCart(t, carts)

	out, filename, err := uc.Quote(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3"), out)
	assert.True(t, strings.HasPrefix(filename, "quotation_"))
	assert.True(t, strings.HasSuffix(filename, ".pdf"))

	q := pdf.quote
	assert.Equal(t, "Veloce Moto", q.ShopName)
	assert.Equal(t, "LKR", q.Currency)
	require.Len(t, q.Lines, 2)
	assert.Equal(t, "80", q.Lines[0].LineTotal.String())
	// 110 > 100: envío gratis; impuesto 8.8
	assert.True(t, q.Summary.Shipping.IsZero())
	assert.Equal(t, "8.8", q.Summary.Tax.String())
	assert.Equal(t, "118.8", q.Summary.Total.String())
	assert.NotEmpty(t, q.Link)
}

// ── Producto individual ───────────────────────────────────────────────────────

func TestOrderProduct(t *testing.T) {
	uc, _, _, _, _ := newUseCase(t)

	out, err := uc.OrderProduct(context.Background(), "chain", 2)
	require.NoError(t, err)
	assert.Equal(t, "Hi! I'm interested in ordering:\n\n*Product:* Chain Kit\n*Quantity:* 2\n*Unit Price:* Rs. 2,500.00\n*Total:* Rs. 5,000.00\n\nPlease confirm availability and delivery details.", out.Message)
	assert.Equal(t, 2, out.ItemCount)
	assert.Equal(t, "5000", out.GrandTotal.String())
	assert.Contains(t, out.Link, "Chain%20Kit")
}

func TestOrderProduct_Errores(t *testing.T) {
	uc, _, catalog, _, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.OrderProduct(ctx, "chain", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.OrderProduct(ctx, "nada", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.OrderProduct(ctx, "tyre", 1)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)

	catalog.err = errors.New("timeout")
	_, err = uc.OrderProduct(ctx, "chain", 1)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}
