// Package memory implementa un CartRepository en memoria del proceso (desarrollo y tests).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/veloce-moto-api/internal/domain/entity"
	"github.com/jhoicas/veloce-moto-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo guarda copias de los carritos en un map protegido por mutex.
type CartRepo struct {
	mu    sync.RWMutex
	carts map[string]entity.Cart
}

// NewCartRepository construye el repositorio vacío.
func NewCartRepository() *CartRepo {
	return &CartRepo{carts: make(map[string]entity.Cart)}
}

// Get devuelve una copia del carrito o nil si no existe.
func (r *CartRepo) Get(_ context.Context, cartID string) (*entity.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.carts[cartID]
	if !ok {
		return nil, nil
	}
	out := clone(c)
	return &out, nil
}

// Update aplica fn con el lock tomado durante toda la lectura-modificación-escritura.
func (r *CartRepo) Update(_ context.Context, cartID string, fn repository.CartMutation) (*entity.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := entity.Cart{ID: cartID}
	if stored, ok := r.carts[cartID]; ok {
		c = clone(stored)
	}
	changed, err := fn(&c)
	if err != nil {
		return nil, err
	}
	if changed {
		r.carts[cartID] = clone(c)
	}
	out := clone(c)
	return &out, nil
}

// Delete elimina el carrito; no falla si no existe.
func (r *CartRepo) Delete(_ context.Context, cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, cartID)
	return nil
}

func clone(c entity.Cart) entity.Cart {
	items := make([]entity.CartItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}
