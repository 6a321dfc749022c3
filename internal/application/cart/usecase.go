// Package cart orquesta el carrito: resuelve productos en el catálogo, aplica las reglas de
// internal/domain/cart y persiste el documento en el CartRepository configurado.
package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/veloce-moto-api/internal/application/dto"
	"github.com/jhoicas/veloce-moto-api/internal/domain"
	domaincart "github.com/jhoicas/veloce-moto-api/internal/domain/cart"
	"github.com/jhoicas/veloce-moto-api/internal/domain/entity"
	"github.com/jhoicas/veloce-moto-api/internal/domain/repository"
	"github.com/jhoicas/veloce-moto-api/pkg/logger"
	"github.com/jhoicas/veloce-moto-api/pkg/money"
)

// UseCase operaciones sobre un carrito identificado por un ID opaco.
type UseCase struct {
	carts    repository.CartRepository
	catalog  repository.CatalogRepository
	pricing  domaincart.Pricing
	currency string
	log      *logger.Logger
}

// NewUseCase construye el caso de uso. currency se usa para formatear totales.
func NewUseCase(
	carts repository.CartRepository,
	catalog repository.CatalogRepository,
	pricing domaincart.Pricing,
	currency string,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		carts:    carts,
		catalog:  catalog,
		pricing:  pricing,
		currency: currency,
		log:      log.Named("cart"),
	}
}

// Get devuelve el carrito con sus totales. Un ID desconocido es un carrito vacío.
func (uc *UseCase) Get(ctx context.Context, cartID string) (*dto.CartResponse, error) {
	c, err := uc.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return uc.toCartResponse(c), nil
}

// AddItem agrega un producto (por ID o slug) con la cantidad indicada (1 si se omite).
//
// Retorna:
//   - domain.ErrInvalidInput  si falta el producto o la cantidad es < 1.
//   - domain.ErrNotFound      si el producto no existe en el catálogo.
//   - domain.ErrOutOfStock    si el producto está marcado sin stock.
//   - domain.ErrUnavailable   si el CMS no responde.
func (uc *UseCase) AddItem(ctx context.Context, cartID string, in dto.AddCartItemRequest) (*dto.CartResponse, error) {
	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor o igual a 1", domain.ErrInvalidInput)
	}

	product, err := uc.resolveProduct(ctx, in)
	if err != nil {
		return nil, err
	}
	if !product.InStock {
		return nil, domain.ErrOutOfStock
	}

	snapshot := entity.NewCartProduct(*product)
	c, err := uc.mutate(ctx, cartID, func(c *entity.Cart) (bool, error) {
		if err := domaincart.Add(c, snapshot, quantity); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("cart_id", cartID).Str("product_id", product.ID).Int("quantity", quantity).Msg("producto agregado")
	return uc.toCartResponse(c), nil
}

// UpdateQuantity fija la cantidad; quantity <= 0 elimina la línea. Un producto ausente no cambia nada.
func (uc *UseCase) UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) (*dto.CartResponse, error) {
	c, err := uc.mutate(ctx, cartID, func(c *entity.Cart) (bool, error) {
		return domaincart.SetQuantity(c, productID, quantity), nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toCartResponse(c), nil
}

// RemoveItem elimina la línea del producto. Eliminar un producto ausente no es error.
func (uc *UseCase) RemoveItem(ctx context.Context, cartID, productID string) (*dto.CartResponse, error) {
	c, err := uc.mutate(ctx, cartID, func(c *entity.Cart) (bool, error) {
		return domaincart.Remove(c, productID), nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toCartResponse(c), nil
}

// Clear vacía el carrito borrando el documento persistido.
func (uc *UseCase) Clear(ctx context.Context, cartID string) (*dto.CartResponse, error) {
	if err := uc.carts.Delete(ctx, cartID); err != nil {
		return nil, fmt.Errorf("cart: borrar carrito: %w", err)
	}
	return uc.toCartResponse(&entity.Cart{ID: cartID}), nil
}

func (uc *UseCase) resolveProduct(ctx context.Context, in dto.AddCartItemRequest) (*entity.Product, error) {
	var (
		p   *entity.Product
		err error
	)
	switch {
	case in.ProductID != "":
		p, err = uc.catalog.GetProductByID(ctx, in.ProductID)
	case in.Slug != "":
		p, err = uc.catalog.GetProductBySlug(ctx, in.Slug)
	default:
		return nil, fmt.Errorf("%w: product_id o slug es requerido", domain.ErrInvalidInput)
	}
	if err != nil {
		uc.log.Error().Err(err).Str("product_id", in.ProductID).Str("slug", in.Slug).Msg("resolver producto")
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (uc *UseCase) load(ctx context.Context, cartID string) (*entity.Cart, error) {
	if cartID == "" {
		return nil, fmt.Errorf("%w: cart id vacío", domain.ErrInvalidInput)
	}
	c, err := uc.carts.Get(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("cart: obtener carrito: %w", err)
	}
	if c == nil {
		return &entity.Cart{ID: cartID}, nil
	}
	return c, nil
}

// mutate aplica fn sobre el estado actual del carrito de forma atómica en el repositorio.
// Los errores de fn (reglas de dominio) se devuelven tal cual.
func (uc *UseCase) mutate(ctx context.Context, cartID string, fn func(c *entity.Cart) (bool, error)) (*entity.Cart, error) {
	if cartID == "" {
		return nil, fmt.Errorf("%w: cart id vacío", domain.ErrInvalidInput)
	}
	var fnErr error
	c, err := uc.carts.Update(ctx, cartID, func(c *entity.Cart) (bool, error) {
		changed, err := fn(c)
		if err != nil {
			fnErr = err
			return false, err
		}
		if changed {
			c.UpdatedAt = time.Now().UTC()
		}
		return changed, nil
	})
	if fnErr != nil {
		return nil, fnErr
	}
	if err != nil {
		return nil, fmt.Errorf("cart: actualizar carrito: %w", err)
	}
	return c, nil
}

func (uc *UseCase) toCartResponse(c *entity.Cart) *dto.CartResponse {
	return ToCartResponse(c, uc.pricing, uc.currency)
}

// ToCartResponse arma el DTO del carrito con totales redondeados a 2 decimales.
func ToCartResponse(c *entity.Cart, pricing domaincart.Pricing, currency string) *dto.CartResponse {
	items := make([]dto.CartItemResponse, 0, len(c.Items))
	for _, it := range c.Items {
		cur := it.Product.Currency
		if cur == "" {
			cur = currency
		}
		unit := it.UnitPrice()
		line := it.LineTotal()
		items = append(items, dto.CartItemResponse{
			ProductID:          it.Product.ID,
			Slug:               it.Product.Slug,
			Name:               it.Product.Name,
			Brand:              it.Product.Brand,
			SKU:                it.Product.SKU,
			ImageURL:           it.Product.ImageURL,
			ImageAlt:           it.Product.ImageAlt,
			Currency:           cur,
			Price:              it.Product.Price,
			SalePrice:          it.Product.SalePrice,
			UnitPrice:          unit,
			Quantity:           it.Quantity,
			LineTotal:          line,
			FormattedUnitPrice: money.Format(unit, cur),
			FormattedLineTotal: money.Format(line, cur),
		})
	}

	s := pricing.Summarize(c.Items)
	out := &dto.CartResponse{
		ID:    c.ID,
		Items: items,
		Summary: dto.CartSummaryResponse{
			ItemCount:             s.ItemCount,
			Subtotal:              s.Subtotal.Round(2),
			Tax:                   s.Tax.Round(2),
			Shipping:              s.Shipping.Round(2),
			Total:                 s.Total.Round(2),
			FreeShippingRemaining: s.FreeShippingRemaining.Round(2),
			FormattedTotal:        money.Format(s.Total, currency),
		},
	}
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}
