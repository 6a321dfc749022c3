package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/veloce-moto-api/internal/domain/entity"
	"github.com/jhoicas/veloce-moto-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo implementación del puerto CartRepository sobre PostgreSQL (tablas carts y cart_items).
// Un carrito sin actividad durante ttl se considera inexistente.
type CartRepo struct {
	q   Querier
	ttl time.Duration
}

// NewCartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCartRepository(q Querier, ttl time.Duration) *CartRepo {
	return &CartRepo{q: q, ttl: ttl}
}

// errUnchanged aborta la transacción de Update cuando la mutación no modificó el carrito.
var errUnchanged = errors.New("carrito sin cambios")

// Get obtiene el carrito con sus líneas en orden de inserción. nil si no existe o expiró.
func (r *CartRepo) Get(ctx context.Context, cartID string) (*entity.Cart, error) {
	c := entity.Cart{ID: cartID}
	err := r.q.QueryRow(ctx,
		`SELECT updated_at FROM carts WHERE id = $1 AND updated_at >= $2`,
		cartID, r.cutoff(),
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	if c.Items, err = loadItems(ctx, r.q, cartID); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update bloquea la cabecera con SELECT ... FOR UPDATE, aplica fn y reescribe el carrito en la
// misma transacción. La cabecera se crea antes de bloquearla para serializar también el primer
// alta; si fn no cambia nada la transacción se descarta.
func (r *CartRepo) Update(ctx context.Context, cartID string, fn repository.CartMutation) (*entity.Cart, error) {
	var out *entity.Cart
	err := runInTx(ctx, r.q, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO carts (id, updated_at) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
			cartID, time.Now().UTC(),
		); err != nil {
			return fmt.Errorf("insert cart: %w", err)
		}

		var updatedAt time.Time
		if err := tx.QueryRow(ctx,
			`SELECT updated_at FROM carts WHERE id = $1 FOR UPDATE`, cartID,
		).Scan(&updatedAt); err != nil {
			return fmt.Errorf("lock cart: %w", err)
		}

		c := &entity.Cart{ID: cartID}
		// Un carrito vencido se trata como vacío; sus líneas se reescriben abajo.
		if !updatedAt.Before(r.cutoff()) {
			items, err := loadItems(ctx, tx, cartID)
			if err != nil {
				return err
			}
			c.Items = items
			c.UpdatedAt = updatedAt
		}

		changed, err := fn(c)
		if err != nil {
			return err
		}
		out = c
		if !changed {
			return errUnchanged
		}
		return writeCart(ctx, tx, c)
	})
	if err != nil && !errors.Is(err, errUnchanged) {
		return nil, err
	}
	return out, nil
}

// itemQuerier lo cumplen Querier y pgx.Tx.
type itemQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadItems(ctx context.Context, q itemQuerier, cartID string) ([]entity.CartItem, error) {
	rows, err := q.Query(ctx, `
		SELECT product_id, slug, name, brand, sku, price, sale_price, currency, image_url, image_alt, quantity
		FROM cart_items WHERE cart_id = $1 ORDER BY position`, cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	var items []entity.CartItem
	for rows.Next() {
		var (
			it   entity.CartItem
			sale decimal.NullDecimal
		)
		p := &it.Product
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.Brand, &p.SKU, &p.Price, &sale,
			&p.Currency, &p.ImageURL, &p.ImageAlt, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		if sale.Valid {
			p.SalePrice = &sale.Decimal
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}
	return items, nil
}

// writeCart reemplaza el carrito completo dentro de tx (upsert de cabecera + reescritura de líneas).
func writeCart(ctx context.Context, tx pgx.Tx, cart *entity.Cart) error {
	updatedAt := cart.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO carts (id, updated_at) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET updated_at = EXCLUDED.updated_at`,
		cart.ID, updatedAt,
	); err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, it := range cart.Items {
		p := it.Product
		batch.Queue(`
			INSERT INTO cart_items (cart_id, position, product_id, slug, name, brand, sku, price, sale_price, currency, image_url, image_alt, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			cart.ID, i, p.ID, p.Slug, p.Name, p.Brand, p.SKU, p.Price, nullDecimal(p.SalePrice),
			p.Currency, p.ImageURL, p.ImageAlt, it.Quantity,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert cart items: %w", err)
	}
	return nil
}

// Delete elimina el carrito; las líneas caen por ON DELETE CASCADE.
func (r *CartRepo) Delete(ctx context.Context, cartID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cartID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

// PurgeExpired borra los carritos sin actividad dentro del TTL. Devuelve cuántos borró.
func (r *CartRepo) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM carts WHERE updated_at < $1`, r.cutoff())
	if err != nil {
		return 0, fmt.Errorf("purge carts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *CartRepo) cutoff() time.Time {
	if r.ttl <= 0 {
		return time.Time{}
	}
	return time.Now().UTC().Add(-r.ttl)
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
