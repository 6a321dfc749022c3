package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/veloce-moto-api/internal/domain/entity"
	"github.com/jhoicas/veloce-moto-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// DefaultCartTTL expiración deslizante del carrito.
const DefaultCartTTL = 30 * 24 * time.Hour

// maxUpdateRetries intentos de Update ante escrituras concurrentes sobre el mismo carrito.
const maxUpdateRetries = 32

// CartRepo guarda cada carrito como un documento JSON en cart:<id>.
// Cada lectura y escritura renueva el TTL. Update usa WATCH/MULTI, por eso requiere un cliente
// completo (UniversalClient) y no solo Cmdable.
type CartRepo struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// NewCartRepository construye el repositorio. ttl <= 0 usa DefaultCartTTL.
func NewCartRepository(rdb redis.UniversalClient, ttl time.Duration) *CartRepo {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &CartRepo{rdb: rdb, ttl: ttl}
}

func cartKey(id string) string {
	return "cart:" + id
}

// Get lee el carrito renovando su expiración. nil si no existe o expiró.
func (r *CartRepo) Get(ctx context.Context, cartID string) (*entity.Cart, error) {
	raw, err := r.rdb.GetEx(ctx, cartKey(cartID), r.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}
	var doc cartDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decodificar carrito: %w", err)
	}
	return doc.toEntity(), nil
}

// Update lee, modifica y escribe el carrito bajo WATCH. Si otro cliente escribe la clave entre
// la lectura y el EXEC, la transacción falla y se reintenta con el estado nuevo.
func (r *CartRepo) Update(ctx context.Context, cartID string, fn repository.CartMutation) (*entity.Cart, error) {
	key := cartKey(cartID)

	var out *entity.Cart
	txf := func(tx *redis.Tx) error {
		c := &entity.Cart{ID: cartID}
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var doc cartDocument
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("decodificar carrito: %w", err)
			}
			c = doc.toEntity()
		case !errors.Is(err, redis.Nil):
			return fmt.Errorf("redis get cart: %w", err)
		}

		changed, err := fn(c)
		if err != nil {
			return err
		}
		out = c
		if !changed {
			return nil
		}

		payload, err := json.Marshal(newCartDocument(c))
		if err != nil {
			return fmt.Errorf("serializar carrito: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := r.rdb.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("redis update cart %s: %w", cartID, redis.TxFailedErr)
}

// Delete borra el documento; no falla si no existe.
func (r *CartRepo) Delete(ctx context.Context, cartID string) error {
	if err := r.rdb.Del(ctx, cartKey(cartID)).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}

// ── Documento persistido ──────────────────────────────────────────────────────

type cartDocument struct {
	ID        string         `json:"id"`
	Items     []cartItemJSON `json:"items"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type cartItemJSON struct {
	ProductID string           `json:"product_id"`
	Slug      string           `json:"slug"`
	Name      string           `json:"name"`
	Brand     string           `json:"brand,omitempty"`
	SKU       string           `json:"sku,omitempty"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"sale_price,omitempty"`
	Currency  string           `json:"currency"`
	ImageURL  string           `json:"image_url,omitempty"`
	ImageAlt  string           `json:"image_alt,omitempty"`
	Quantity  int              `json:"quantity"`
}

func newCartDocument(c *entity.Cart) cartDocument {
	doc := cartDocument{ID: c.ID, UpdatedAt: c.UpdatedAt, Items: make([]cartItemJSON, 0, len(c.Items))}
	for _, it := range c.Items {
		p := it.Product
		doc.Items = append(doc.Items, cartItemJSON{
			ProductID: p.ID,
			Slug:      p.Slug,
			Name:      p.Name,
			Brand:     p.Brand,
			SKU:       p.SKU,
			Price:     p.Price,
			SalePrice: p.SalePrice,
			Currency:  p.Currency,
			ImageURL:  p.ImageURL,
			ImageAlt:  p.ImageAlt,
			Quantity:  it.Quantity,
		})
	}
	return doc
}

func (d cartDocument) toEntity() *entity.Cart {
	c := &entity.Cart{ID: d.ID, UpdatedAt: d.UpdatedAt, Items: make([]entity.CartItem, 0, len(d.Items))}
	for _, it := range d.Items {
		c.Items = append(c.Items, entity.CartItem{
			Product: entity.CartProduct{
				ID:        it.ProductID,
				Slug:      it.Slug,
				Name:      it.Name,
				Brand:     it.Brand,
				SKU:       it.SKU,
				Price:     it.Price,
				SalePrice: it.SalePrice,
				Currency:  it.Currency,
				ImageURL:  it.ImageURL,
				ImageAlt:  it.ImageAlt,
			},
			Quantity: it.Quantity,
		})
	}
	return c
}
