package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/veloce-moto-api/internal/application/catalog"
	"github.com/jhoicas/veloce-moto-api/internal/application/dto"
)

// CatalogHandler maneja las peticiones HTTP de productos, categorías y búsqueda (público).
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// ListProducts godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Param        category  query  string  false  "Slug de categoría"
// @Param        sort      query  string  false  "featured | name | price-low | price-high | rating"  default(featured)
// @Success      200       {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	return c.JSON(h.uc.ListProducts(c.Context(), c.Query("category"), c.Query("sort", catalog.SortFeatured)))
}

// FeaturedProducts godoc
// @Summary      Productos destacados
// @Tags         products
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(8)
// @Success      200    {object}  dto.ProductListResponse
// @Router       /api/products/featured [get]
func (h *CatalogHandler) FeaturedProducts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit > 50 {
		limit = 50
	}
	return c.JSON(h.uc.FeaturedProducts(c.Context(), limit))
}

// GetProduct godoc
// @Summary      Detalle de producto con relacionados
// @Tags         products
// @Produce      json
// @Param        slug  path  string  true  "Slug del producto"
// @Success      200   {object}  dto.ProductDetailResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{slug} [get]
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_SLUG", Message: "slug es requerido"})
	}
	out := h.uc.GetProduct(c.Context(), slug)
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.JSON(out)
}

// ListCategories godoc
// @Summary      Listar categorías
// @Tags         categories
// @Produce      json
// @Success      200  {object}  dto.CategoryListResponse
// @Router       /api/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	return c.JSON(h.uc.ListCategories(c.Context()))
}

// GetCategory godoc
// @Summary      Categoría con sus productos
// @Tags         categories
// @Produce      json
// @Param        slug  path   string  true   "Slug de la categoría"
// @Param        sort  query  string  false  "featured | name | price-low | price-high | rating"
// @Success      200   {object}  dto.CategoryDetailResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/categories/{slug} [get]
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	out := h.uc.GetCategory(c.Context(), c.Params("slug"), c.Query("sort", catalog.SortFeatured))
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "categoría no encontrada"})
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar productos
// @Description  Busca en nombre, descripción y marca. Sin q devuelve una muestra aleatoria.
// @Tags         search
// @Produce      json
// @Param        q  query  string  false  "Texto a buscar"
// @Success      200  {object}  dto.SearchResponse
// @Router       /api/search [get]
func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	return c.JSON(h.uc.Search(c.Context(), c.Query("q")))
}
