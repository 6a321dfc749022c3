package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/veloce-moto-api/internal/application/cart"
	"github.com/jhoicas/veloce-moto-api/internal/application/catalog"
	"github.com/jhoicas/veloce-moto-api/internal/application/checkout"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC        *catalog.UseCase
	CartUC           *cart.UseCase
	CheckoutUC       *checkout.UseCase
	CartTTL          time.Duration
	CartCookieSecure bool
}

// Router registra las rutas de la API. Todo es público: no hay autenticación.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	checkoutHandler := NewCheckoutHandler(deps.CheckoutUC)
	cartHandler := NewCartHandler(deps.CartUC)

	// Catálogo
	products := api.Group("/products")
	products.Get("/", catalogHandler.ListProducts)
	products.Get("/featured", catalogHandler.FeaturedProducts)
	products.Get("/:slug", catalogHandler.GetProduct)
	products.Post("/:slug/order", checkoutHandler.OrderProduct)

	categories := api.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Get("/:slug", catalogHandler.GetCategory)

	api.Get("/search", catalogHandler.Search)

	// Carrito (identificado por X-Cart-ID / cookie cart_id)
	cartGroup := api.Group("/cart", CartSession(CartSessionConfig{
		TTL:          deps.CartTTL,
		CookieSecure: deps.CartCookieSecure,
	}))
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Delete("/", cartHandler.Clear)
	cartGroup.Post("/items", cartHandler.AddItem)
	cartGroup.Put("/items/:productId", cartHandler.UpdateItem)
	cartGroup.Delete("/items/:productId", cartHandler.RemoveItem)
	cartGroup.Post("/checkout", checkoutHandler.Checkout)
	cartGroup.Get("/checkout/qr", checkoutHandler.CheckoutQR)
	cartGroup.Get("/quote", checkoutHandler.Quote)
}
