// Package strapi implementa el adaptador de catálogo sobre la API REST de Strapi v4.
// Usa net/http de la librería estándar; no hay SDK oficial de Strapi para Go.
package strapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/veloce-moto-api/internal/domain/entity"
	"github.com/jhoicas/veloce-moto-api/internal/domain/repository"
)

// Verificar en tiempo de compilación que Client implementa CatalogRepository.
var _ repository.CatalogRepository = (*Client)(nil)

const maxResponseBytes = 4 << 20

var (
	productPopulate       = []string{"images", "category", "category.image"}
	productSearchPopulate = []string{"images", "category"}
)

// Config parámetros del cliente.
type Config struct {
	BaseURL  string // origen de medios, ej. http://localhost:1337
	APIURL   string // raíz REST, ej. http://localhost:1337/api
	APIToken string
	Currency string
	Timeout  time.Duration
}

// Client adaptador HTTP contra Strapi.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient construye el adaptador.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// StatusError respuesta HTTP no exitosa del CMS.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cms: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("cms: status %d", e.Status)
}

// ListProducts todos los productos: destacados primero y luego los más recientes.
func (c *Client) ListProducts(ctx context.Context) ([]entity.Product, error) {
	q := NewQuery().Populate(productPopulate...).Sort("featured:desc", "createdAt:desc")
	return c.products(ctx, q)
}

// GetProductBySlug primer producto con el slug dado o nil.
func (c *Client) GetProductBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	q := NewQuery().Filter(slug, "slug", "$eq").Populate(productPopulate...)
	return c.firstProduct(ctx, q)
}

// GetProductByID producto por ID del CMS o nil.
func (c *Client) GetProductByID(ctx context.Context, id string) (*entity.Product, error) {
	q := NewQuery().Filter(id, "id", "$eq").Populate(productPopulate...)
	return c.firstProduct(ctx, q)
}

// ListProductsByCategory productos cuya categoría tiene el slug dado.
func (c *Client) ListProductsByCategory(ctx context.Context, categorySlug string) ([]entity.Product, error) {
	q := NewQuery().Filter(categorySlug, "category", "slug", "$eq").Populate(productPopulate...)
	return c.products(ctx, q)
}

// ListFeaturedProducts productos destacados, como máximo limit.
func (c *Client) ListFeaturedProducts(ctx context.Context, limit int) ([]entity.Product, error) {
	q := NewQuery().Filter("true", "featured", "$eq").Populate(productPopulate...).Limit(limit)
	return c.products(ctx, q)
}

// SearchProducts búsqueda sin distinguir mayúsculas en nombre, descripción, descripción corta,
// marca y nombre de la categoría.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]entity.Product, error) {
	q := NewQuery().
		Filter(query, "$or", "0", "name", "$containsi").
		Filter(query, "$or", "1", "description", "$containsi").
		Filter(query, "$or", "2", "shortDescription", "$containsi").
		Filter(query, "$or", "3", "brand", "$containsi").
		Filter(query, "$or", "4", "category", "name", "$containsi").
		Populate(productSearchPopulate...)
	return c.products(ctx, q)
}

// ListCategories categorías ordenadas por order y luego por nombre.
func (c *Client) ListCategories(ctx context.Context) ([]entity.Category, error) {
	q := NewQuery().Populate("image").Sort("order:asc", "name:asc")
	var resp listResponse[categoryAttributes]
	if err := c.get(ctx, "/categories", q, &resp); err != nil {
		return nil, err
	}
	out := make([]entity.Category, 0, len(resp.Data))
	for _, e := range resp.Data {
		out = append(out, transformCategory(e, c.cfg.BaseURL))
	}
	return out, nil
}

// GetCategoryBySlug categoría por slug o nil.
func (c *Client) GetCategoryBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	q := NewQuery().Filter(slug, "slug", "$eq").Populate("image")
	var resp listResponse[categoryAttributes]
	if err := c.get(ctx, "/categories", q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	cat := transformCategory(resp.Data[0], c.cfg.BaseURL)
	return &cat, nil
}

func (c *Client) products(ctx context.Context, q *Query) ([]entity.Product, error) {
	var resp listResponse[productAttributes]
	if err := c.get(ctx, "/products", q, &resp); err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(resp.Data))
	for _, e := range resp.Data {
		out = append(out, transformProduct(e, c.cfg.BaseURL, c.cfg.Currency))
	}
	return out, nil
}

func (c *Client) firstProduct(ctx context.Context, q *Query) (*entity.Product, error) {
	list, err := c.products(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

// get ejecuta GET {APIURL}{path}?{query} y decodifica el JSON en out.
func (c *Client) get(ctx context.Context, path string, q *Query, out any) error {
	u := c.cfg.APIURL + path
	if qs := q.Encode(); qs != "" {
		u += "?" + qs
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("cms: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("cms: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("cms: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("cms: leer respuesta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Status: resp.StatusCode}
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != nil {
			se.Message = errResp.Error.Message
		}
		return se
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("cms: decodificar respuesta: %w", err)
	}
	return nil
}
