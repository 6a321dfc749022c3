package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Identidad del carrito: header X-Cart-ID o cookie cart_id.
const (
	HeaderCartID = "X-Cart-ID"
	CookieCartID = "cart_id"
	LocalCartID  = "cart_id"
)

const maxCartIDLen = 64

// CartSessionConfig opciones de la cookie del carrito.
type CartSessionConfig struct {
	TTL          time.Duration
	CookieSecure bool
}

// CartSession resuelve el ID del carrito y lo deja en c.Locals(LocalCartID).
// Prioridad: header, luego cookie. Si ninguno es válido se genera un UUID nuevo.
// El ID se devuelve siempre en el header de respuesta y en la cookie.
func CartSession(cfg CartSessionConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderCartID)
		if !validCartID(id) {
			id = c.Cookies(CookieCartID)
		}
		if !validCartID(id) {
			id = uuid.NewString()
		}

		c.Locals(LocalCartID, id)
		c.Set(HeaderCartID, id)
		cookie := &fiber.Cookie{
			Name:     CookieCartID,
			Value:    id,
			Path:     "/",
			HTTPOnly: true,
			Secure:   cfg.CookieSecure,
			SameSite: fiber.CookieSameSiteLaxMode,
		}
		if cfg.TTL > 0 {
			cookie.Expires = time.Now().Add(cfg.TTL)
		}
		c.Cookie(cookie)
		return c.Next()
	}
}

// GetCartID devuelve el ID del carrito del contexto (después de CartSession).
func GetCartID(c *fiber.Ctx) string {
	v := c.Locals(LocalCartID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// validCartID acepta IDs opacos cortos de letras, dígitos, guion y guion bajo.
func validCartID(id string) bool {
	if id == "" || len(id) > maxCartIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
