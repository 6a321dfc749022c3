package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/veloce-moto-api/internal/application/cart"
	"github.com/jhoicas/veloce-moto-api/internal/application/catalog"
	"github.com/jhoicas/veloce-moto-api/internal/application/checkout"
	domaincart "github.com/jhoicas/veloce-moto-api/internal/domain/cart"
	"github.com/jhoicas/veloce-moto-api/internal/domain/repository"
	"github.com/jhoicas/veloce-moto-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/veloce-moto-api/internal/infrastructure/pdf"
	"github.com/jhoicas/veloce-moto-api/internal/infrastructure/postgres"
	infraqr "github.com/jhoicas/veloce-moto-api/internal/infrastructure/qr"
	infraredis "github.com/jhoicas/veloce-moto-api/internal/infrastructure/redis"
	"github.com/jhoicas/veloce-moto-api/internal/infrastructure/strapi"
	httpRouter "github.com/jhoicas/veloce-moto-api/internal/interfaces/http"
	"github.com/jhoicas/veloce-moto-api/pkg/config"
	"github.com/jhoicas/veloce-moto-api/pkg/logger"
)

const purgeInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("cms", cfg.CMS.APIURL).
		Str("cart_store", cfg.Cart.Store).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Catálogo: Strapi, con caché read-through en Redis si hay REDIS_URL.
	var catalogRepo repository.CatalogRepository = strapi.NewClient(strapi.Config{
		BaseURL:  cfg.CMS.BaseURL,
		APIURL:   cfg.CMS.APIURL,
		APIToken: cfg.CMS.APIToken,
		Currency: cfg.CMS.Currency,
		Timeout:  cfg.CMS.Timeout,
	})

	var cartRepo repository.CartRepository
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()

		catalogRepo = infraredis.NewCachedCatalog(catalogRepo, rdb, cfg.CMS.Revalidate, log)
		if cfg.Cart.Store == config.CartStoreRedis {
			cartRepo = infraredis.NewCartRepository(rdb, cfg.Cart.TTL)
		}
	}

	switch cfg.Cart.Store {
	case config.CartStorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		pgCarts := postgres.NewCartRepository(pool, cfg.Cart.TTL)
		go purgeCarts(ctx, pgCarts, log)
		cartRepo = pgCarts
	case config.CartStoreMemory:
		cartRepo = memory.NewCartRepository()
	}

	pricing := domaincart.Pricing{
		TaxRate:               cfg.Cart.TaxRate,
		ShippingFlat:          cfg.Cart.ShippingFlat,
		FreeShippingThreshold: cfg.Cart.FreeShippingThreshold,
	}

	catalogUC := catalog.NewUseCase(catalogRepo, catalog.Config{
		FeaturedLimit:   cfg.Shop.FeaturedLimit,
		SearchSampleLen: cfg.Shop.SearchSampleLen,
	}, log)
	cartUC := cart.NewUseCase(cartRepo, catalogRepo, pricing, cfg.CMS.Currency, log)
	checkoutUC := checkout.NewUseCase(
		cartRepo, catalogRepo,
		infraqr.NewEncoder(256), infrapdf.NewMarotoQuoteGenerator(),
		pricing,
		checkout.Shop{
			Name:           cfg.Shop.Name,
			WhatsAppNumber: cfg.Shop.WhatsAppNumber,
			Currency:       cfg.CMS.Currency,
		},
		log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Veloce Moto API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:        catalogUC,
		CartUC:           cartUC,
		CheckoutUC:       checkoutUC,
		CartTTL:          cfg.Cart.TTL,
		CartCookieSecure: cfg.Cart.CookieSecure,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// purgeCarts borra periódicamente los carritos vencidos en PostgreSQL hasta que ctx se cancela.
func purgeCarts(ctx context.Context, carts *postgres.CartRepo, log *logger.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := carts.PurgeExpired(ctx)
			if err != nil {
				log.Error().Err(err).Msg("purgar carritos vencidos")
				continue
			}
			if n > 0 {
				log.Info().Int64("carritos", n).Msg("carritos vencidos purgados")
			}
		}
	}
}
