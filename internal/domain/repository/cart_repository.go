package repository

import (
	"context"

	"github.com/jhoicas/veloce-moto-api/internal/domain/entity"
)

// CartMutation modifica el carrito recibido. changed=false evita la escritura.
// Puede ejecutarse más de una vez si el adaptador reintenta, así que no debe tener efectos externos.
type CartMutation func(c *entity.Cart) (changed bool, err error)

// CartRepository define el puerto de persistencia del carrito (DIP).
// Get devuelve (nil, nil) si el carrito no existe.
//
// Update aplica fn sobre el estado más reciente del carrito (vacío si no existe) y persiste el
// resultado si fn informa cambios. Dos Update sobre el mismo ID nunca se pisan: el segundo ve lo
// que escribió el primero. Si fn devuelve error no se persiste nada y el error se devuelve tal cual.
type CartRepository interface {
	Get(ctx context.Context, cartID string) (*entity.Cart, error)
	Update(ctx context.Context, cartID string, fn CartMutation) (*entity.Cart, error)
	Delete(ctx context.Context, cartID string) error
}
