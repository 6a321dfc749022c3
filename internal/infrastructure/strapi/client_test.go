package strapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/veloce-moto-api/internal/infrastructure/strapi"
)

const productsFixture = `{
  "data": [
    {
      "id": 7,
      "attributes": {
        "slug": "brembo-brake-pads",
        "name": "Brembo Brake Pads",
        "description": "Sintered pads",
        "shortDescription": "Front pads",
        "price": "4500.50",
        "salePrice": 3999,
        "brand": "Brembo",
        "sku": "BR-001",
        "stockQuantity": 12,
        "tags": ["brakes"],
        "specifications": [{"name": "Material", "value": "Sintered"}],
        "rating": 4.5,
        "reviewCount": 3,
        "featured": true,
        "createdAt": "2024-05-01T10:00:00.000Z",
        "updatedAt": "2024-05-02T10:00:00.000Z",
        "images": {"data": [
          {"id": 1, "attributes": {"url": "/uploads/pads.jpg", "alternativeText": ""}},
          {"id": 2, "attributes": {"url": "https://cdn.example.com/pads-2.jpg", "alternativeText": "Side"}}
        ]},
        "category": {"data": {"id": 3, "attributes": {
          "slug": "brakes", "name": "Brakes", "description": "Stop fast",
          "image": {"data": {"id": 9, "attributes": {"url": "/uploads/brakes.png"}}}
        }}}
      }
    },
    {
      "id": 8,
      "attributes": {
        "slug": "chain-lube",
        "name": "Chain Lube",
        "price": 1200,
        "salePrice": null,
        "inStock": false,
        "images": {"data": null},
        "category": {"data": null}
      }
    }
  ],
  "meta": {"pagination": {"page": 1, "pageSize": 25, "pageCount": 1, "total": 2}}
}`

func newServer(t *testing.T, handler http.HandlerFunc) *strapi.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return strapi.NewClient(strapi.Config{
		BaseURL:  "http://cms.local",
		APIURL:   srv.URL + "/api",
		APIToken: "secreto",
		Currency: "LKR",
	})
}

func TestListProducts_TransformaRespuesta(t *testing.T) {
	var gotQuery, gotAuth, gotPath string
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(productsFixture))
	})

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "/api/products", gotPath)
	assert.Equal(t, "populate[0]=images&populate[1]=category&populate[2]=category.image&sort[0]=featured%3Adesc&sort[1]=createdAt%3Adesc", gotQuery)
	assert.Equal(t, "Bearer secreto", gotAuth)

	p := products[0]
	assert.Equal(t, "7", p.ID)
	assert.Equal(t, "brembo-brake-pads", p.Slug)
	assert.True(t, decimal.RequireFromString("4500.50").Equal(p.Price))
	require.NotNil(t, p.SalePrice)
	assert.True(t, decimal.NewFromInt(3999).Equal(*p.SalePrice))
	assert.Equal(t, "LKR", p.Currency)
	assert.True(t, p.InStock, "inStock ausente vale true")
	assert.True(t, p.Featured)
	require.NotNil(t, p.StockQuantity)
	assert.Equal(t, 12, *p.StockQuantity)
	assert.Equal(t, []string{"brakes"}, p.Tags)
	assert.Equal(t, "Material", p.Specifications[0].Name)
	assert.Equal(t, 2024, p.CreatedAt.Year())

	require.Len(t, p.Images, 2)
	assert.Equal(t, "http://cms.local/uploads/pads.jpg", p.Images[0].URL)
	assert.Equal(t, "Brembo Brake Pads", p.Images[0].Alt, "alt vacío usa el nombre del producto")
	assert.True(t, p.Images[0].IsPrimary)
	assert.Equal(t, "https://cdn.example.com/pads-2.jpg", p.Images[1].URL)
	assert.False(t, p.Images[1].IsPrimary)
	assert.Equal(t, 1, p.Images[1].Order)

	assert.Equal(t, "3", p.Category.ID)
	assert.Equal(t, "brakes", p.Category.Slug)
	assert.Equal(t, "http://cms.local/uploads/brakes.png", p.Category.Image)

	lube := products[1]
	assert.Nil(t, lube.SalePrice)
	assert.False(t, lube.InStock)
	assert.Empty(t, lube.Images)
	assert.Equal(t, "uncategorized", lube.Category.Slug)
	assert.Equal(t, "0", lube.Category.ID)
	assert.Equal(t, []string{}, lube.Tags)
}

func TestGetProductBySlug(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("filters[slug][$eq]") == "nada" {
			_, _ = w.Write([]byte(`{"data": [], "meta": {}}`))
			return
		}
		_, _ = w.Write([]byte(productsFixture))
	})

	p, err := client.GetProductBySlug(context.Background(), "brembo-brake-pads")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "7", p.ID)

	missing, err := client.GetProductBySlug(context.Background(), "nada")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSearchProducts_ConstruyeFiltroOr(t *testing.T) {
	var values map[string][]string
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		values = r.URL.Query()
		_, _ = w.Write([]byte(`{"data": []}`))
	})

	_, err := client.SearchProducts(context.Background(), "brake & pad")
	require.NoError(t, err)
	assert.Equal(t, "brake & pad", values["filters[$or][0][name][$containsi]"][0])
	assert.Equal(t, "brake & pad", values["filters[$or][1][description][$containsi]"][0])
	assert.Equal(t, "brake & pad", values["filters[$or][2][shortDescription][$containsi]"][0])
	assert.Equal(t, "brake & pad", values["filters[$or][3][brand][$containsi]"][0])
	assert.Equal(t, "brake & pad", values["filters[$or][4][category][name][$containsi]"][0])
	assert.Equal(t, "images", values["populate[0]"][0])
}

func TestListFeaturedProducts_Limite(t *testing.T) {
	var values map[string][]string
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		values = r.URL.Query()
		_, _ = w.Write([]byte(`{"data": []}`))
	})

	_, err := client.ListFeaturedProducts(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, "true", values["filters[featured][$eq]"][0])
	assert.Equal(t, "8", values["pagination[limit]"][0])
}

func TestListCategories(t *testing.T) {
	var gotQuery string
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data": [
			{"id": 1, "attributes": {"slug": "engine", "name": "Engine", "order": 2, "image": {"data": null}}},
			{"id": 2, "attributes": {"slug": "tyres", "name": "Tyres", "image": {"data": {"id": 5, "attributes": {"url": "https://img/t.png"}}}}}
		]}`))
	})

	cats, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "populate[0]=image&sort[0]=order%3Aasc&sort[1]=name%3Aasc", gotQuery)
	require.Len(t, cats, 2)
	assert.Equal(t, 2, cats[0].Order)
	assert.Empty(t, cats[0].Image)
	assert.Equal(t, "https://img/t.png", cats[1].Image)
}

func TestClient_ErrorDeEstado(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"data": null, "error": {"status": 403, "name": "ForbiddenError", "message": "Forbidden"}}`))
	})

	_, err := client.ListCategories(context.Background())
	require.Error(t, err)
	var se *strapi.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.Status)
	assert.Equal(t, "cms: status 403: Forbidden", err.Error())
}

func TestClient_JSONInvalido(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := client.ListProducts(context.Background())
	assert.Error(t, err)
}

func TestMediaURL(t *testing.T) {
	assert.Equal(t, "", strapi.MediaURL("http://cms", ""))
	assert.Equal(t, "https://x/y.png", strapi.MediaURL("http://cms", "https://x/y.png"))
	assert.Equal(t, "http://cms/uploads/a.png", strapi.MediaURL("http://cms/", "/uploads/a.png"))
}

func TestQuery_Encode(t *testing.T) {
	q := strapi.NewQuery().
		Filter("frenos y más", "category", "slug", "$eq").
		Limit(4)
	assert.Equal(t, "filters[category][slug][$eq]=frenos+y+m%C3%A1s&pagination[limit]=4", q.Encode())
	assert.Equal(t, "", strapi.NewQuery().Encode())
}
