// Package catalog expone la lectura del catálogo (productos y categorías) hacia la capa HTTP.
// Los fallos del CMS se registran y se degradan a listas vacías o "no encontrado"; no hay reintentos.
package catalog

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/veloce-moto-api/internal/application/dto"
	"github.com/jhoicas/veloce-moto-api/internal/domain/entity"
	"github.com/jhoicas/veloce-moto-api/internal/domain/repository"
	"github.com/jhoicas/veloce-moto-api/pkg/logger"
)

// Claves de ordenamiento aceptadas por ListProducts.
const (
	SortFeatured  = "featured"
	SortName      = "name"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
)

// MaxRelated cantidad máxima de productos relacionados en el detalle.
const MaxRelated = 4

// Config límites del catálogo.
type Config struct {
	FeaturedLimit   int          // por defecto 8
	SearchSampleLen int          // muestra aleatoria para búsquedas vacías, por defecto 6
	Locale          language.Tag // colación para ordenar por nombre
}

// UseCase casos de uso de lectura del catálogo.
type UseCase struct {
	repo repository.CatalogRepository
	cfg  Config
	log  *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.CatalogRepository, cfg Config, log *logger.Logger) *UseCase {
	if cfg.FeaturedLimit <= 0 {
		cfg.FeaturedLimit = 8
	}
	if cfg.SearchSampleLen <= 0 {
		cfg.SearchSampleLen = 6
	}
	if cfg.Locale == language.Und {
		cfg.Locale = language.English
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{repo: repo, cfg: cfg, log: log.Named("catalog")}
}

// ListProducts lista productos, opcionalmente de una categoría (slug), ordenados por sortKey.
// Una clave desconocida se trata como SortFeatured.
func (uc *UseCase) ListProducts(ctx context.Context, categorySlug, sortKey string) dto.ProductListResponse {
	var (
		list []entity.Product
		err  error
	)
	if categorySlug != "" {
		list, err = uc.repo.ListProductsByCategory(ctx, categorySlug)
	} else {
		list, err = uc.repo.ListProducts(ctx)
	}
	if err != nil {
		uc.log.Error().Err(err).Str("category", categorySlug).Msg("listar productos")
		list = nil
	}
	uc.sortProducts(list, sortKey)
	return dto.ProductListResponse{Items: toProductResponses(list), Total: len(list)}
}

// FeaturedProducts productos destacados; limit <= 0 usa el límite configurado.
func (uc *UseCase) FeaturedProducts(ctx context.Context, limit int) dto.ProductListResponse {
	if limit <= 0 {
		limit = uc.cfg.FeaturedLimit
	}
	list, err := uc.repo.ListFeaturedProducts(ctx, limit)
	if err != nil {
		uc.log.Error().Err(err).Int("limit", limit).Msg("listar destacados")
		list = nil
	}
	return dto.ProductListResponse{Items: toProductResponses(list), Total: len(list)}
}

// GetProduct devuelve el producto y hasta MaxRelated productos de su misma categoría.
// Devuelve nil si no existe o si el CMS falla.
func (uc *UseCase) GetProduct(ctx context.Context, slug string) *dto.ProductDetailResponse {
	p, err := uc.repo.GetProductBySlug(ctx, slug)
	if err != nil {
		uc.log.Error().Err(err).Str("slug", slug).Msg("obtener producto")
		return nil
	}
	if p == nil {
		return nil
	}

	out := &dto.ProductDetailResponse{
		Product: toProductResponse(*p),
		Related: []dto.ProductResponse{},
	}
	siblings, err := uc.sameCategory(ctx, p.Category)
	if err != nil {
		uc.log.Warn().Err(err).Str("category", p.Category.Slug).Msg("productos relacionados")
		return out
	}
	for _, s := range siblings {
		if s.ID == p.ID {
			continue
		}
		out.Related = append(out.Related, toProductResponse(s))
		if len(out.Related) == MaxRelated {
			break
		}
	}
	return out
}

// sameCategory productos de la categoría. Los productos sin categoría no tienen una categoría
// real en el CMS: se agrupan filtrando el listado completo por el ID "0".
func (uc *UseCase) sameCategory(ctx context.Context, c entity.Category) ([]entity.Product, error) {
	uncategorized := entity.Uncategorized()
	if c.ID != uncategorized.ID {
		return uc.repo.ListProductsByCategory(ctx, c.Slug)
	}
	all, err := uc.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(all))
	for _, p := range all {
		if p.Category.ID == uncategorized.ID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListCategories categorías en el orden del CMS (order, nombre).
func (uc *UseCase) ListCategories(ctx context.Context) dto.CategoryListResponse {
	list, err := uc.repo.ListCategories(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("listar categorías")
		list = nil
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, toCategoryResponse(c))
	}
	return dto.CategoryListResponse{Items: items}
}

// GetCategory categoría por slug con sus productos ordenados. nil si no existe.
func (uc *UseCase) GetCategory(ctx context.Context, slug, sortKey string) *dto.CategoryDetailResponse {
	c, err := uc.repo.GetCategoryBySlug(ctx, slug)
	if err != nil {
		uc.log.Error().Err(err).Str("slug", slug).Msg("obtener categoría")
		return nil
	}
	if c == nil {
		return nil
	}
	products := uc.ListProducts(ctx, slug, sortKey)
	return &dto.CategoryDetailResponse{
		Category: toCategoryResponse(*c),
		Products: products.Items,
	}
}

// Search busca por nombre, descripción y marca. Una query vacía devuelve una muestra aleatoria.
func (uc *UseCase) Search(ctx context.Context, query string) dto.SearchResponse {
	query = strings.TrimSpace(query)

	var (
		list []entity.Product
		err  error
	)
	if query == "" {
		list, err = uc.repo.ListProducts(ctx)
		if err == nil {
			list = sample(list, uc.cfg.SearchSampleLen)
		}
	} else {
		list, err = uc.repo.SearchProducts(ctx, query)
	}
	if err != nil {
		uc.log.Error().Err(err).Str("query", query).Msg("buscar productos")
		list = nil
	}
	return dto.SearchResponse{Query: query, Items: toProductResponses(list), Total: len(list)}
}

// sortProducts ordena in-place. El orden es estable para conservar el del CMS en empates.
func (uc *UseCase) sortProducts(list []entity.Product, key string) {
	switch key {
	case SortPriceLow:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].EffectivePrice().LessThan(list[j].EffectivePrice())
		})
	case SortPriceHigh:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].EffectivePrice().GreaterThan(list[j].EffectivePrice())
		})
	case SortName:
		// collate.Collator no es seguro para uso concurrente: uno por llamada.
		col := collate.New(uc.cfg.Locale, collate.IgnoreCase)
		sort.SliceStable(list, func(i, j int) bool {
			return col.CompareString(list[i].Name, list[j].Name) < 0
		})
	case SortRating:
		sort.SliceStable(list, func(i, j int) bool {
			return ratingOf(list[i]) > ratingOf(list[j])
		})
	default:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Featured && !list[j].Featured
		})
	}
}

func ratingOf(p entity.Product) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// sample devuelve hasta n productos elegidos al azar.
func sample(list []entity.Product, n int) []entity.Product {
	out := make([]entity.Product, len(list))
	copy(out, list)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
