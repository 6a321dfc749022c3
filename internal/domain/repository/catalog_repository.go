package repository

import (
	"context"

	"github.com/jhoicas/veloce-moto-api/internal/domain/entity"
)

// CatalogRepository define el puerto de lectura del catálogo (CMS headless).
// Los Get* devuelven (nil, nil) cuando no hay coincidencias.
type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*entity.Product, error)
	GetProductByID(ctx context.Context, id string) (*entity.Product, error)
	ListProductsByCategory(ctx context.Context, categorySlug string) ([]entity.Product, error)
	ListFeaturedProducts(ctx context.Context, limit int) ([]entity.Product, error)
	SearchProducts(ctx context.Context, query string) ([]entity.Product, error)
	ListCategories(ctx context.Context) ([]entity.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*entity.Category, error)
}
