package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/veloce-moto-api/internal/domain/entity"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// put reemplaza el carrito completo vía Update.
func put(t *testing.T, repo *CartRepo, in *entity.Cart) {
	t.Helper()
	_, err := repo.Update(context.Background(), in.ID, func(c *entity.Cart) (bool, error) {
		*c = *in
		return true, nil
	})
	require.NoError(t, err)
}

func TestCartRepo_GuardarYLeer(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewCartRepository(rdb, time.Hour)
	ctx := context.Background()

	missing, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	sale := decimal.RequireFromString("9.99")
	updated := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	in := &entity.Cart{
		ID:        "c1",
		UpdatedAt: updated,
		Items: []entity.CartItem{
			{Product: entity.CartProduct{ID: "1", Slug: "a", Name: "A", Price: decimal.NewFromInt(12), SalePrice: &sale, Currency: "LKR"}, Quantity: 2},
			{Product: entity.CartProduct{ID: "2", Slug: "b", Name: "B", Price: decimal.NewFromInt(5), Currency: "LKR"}, Quantity: 1},
		},
	}
	put(t, repo, in)
	assert.True(t, mr.Exists("cart:c1"))
	assert.Equal(t, time.Hour, mr.TTL("cart:c1"))

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "c1", got.ID)
	assert.True(t, updated.Equal(got.UpdatedAt))
	require.Len(t, got.Items, 2)
	assert.Equal(t, "1", got.Items[0].Product.ID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	require.NotNil(t, got.Items[0].Product.SalePrice)
	assert.True(t, sale.Equal(*got.Items[0].Product.SalePrice))
	assert.Nil(t, got.Items[1].Product.SalePrice)
}

func TestCartRepo_TTLDeslizante(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewCartRepository(rdb, time.Hour)
	ctx := context.Background()

	put(t, repo, &entity.Cart{ID: "c1"})

	mr.FastForward(50 * time.Minute)
	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Hour, mr.TTL("cart:c1"), "leer renueva la expiración")

	mr.FastForward(61 * time.Minute)
	expired, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, expired)
}

func TestCartRepo_Delete(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewCartRepository(rdb, 0)
	ctx := context.Background()

	put(t, repo, &entity.Cart{ID: "c1"})
	assert.Equal(t, DefaultCartTTL, mr.TTL("cart:c1"))

	require.NoError(t, repo.Delete(ctx, "c1"))
	require.NoError(t, repo.Delete(ctx, "c1"))
	assert.False(t, mr.Exists("cart:c1"))
}

func TestCartRepo_DocumentoCorrupto(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewCartRepository(rdb, time.Hour)

	require.NoError(t, mr.Set("cart:c1", "{no es json"))
	_, err := repo.Get(context.Background(), "c1")
	assert.Error(t, err)
}

func TestCartRepo_UpdateSinCambiosNoEscribe(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewCartRepository(rdb, time.Hour)
	ctx := context.Background()

	out, err := repo.Update(ctx, "c1", func(*entity.Cart) (bool, error) { return false, nil })
	require.NoError(t, err)
	assert.Equal(t, "c1", out.ID)
	assert.False(t, mr.Exists("cart:c1"))

	boom := errors.New("boom")
	_, err = repo.Update(ctx, "c1", func(*entity.Cart) (bool, error) { return true, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("cart:c1"))
}

func TestCartRepo_UpdateReintentaSiOtroEscribe(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewCartRepository(rdb, time.Hour)
	ctx := context.Background()
	put(t, repo, &entity.Cart{ID: "c1", Items: []entity.CartItem{
		{Product: entity.CartProduct{ID: "1", Price: decimal.NewFromInt(10)}, Quantity: 1},
	}})

	calls := 0
	out, err := repo.Update(ctx, "c1", func(c *entity.Cart) (bool, error) {
		calls++
		if calls == 1 {
			// Escritura concurrente entre la lectura y el EXEC.
			put(t, repo, &entity.Cart{ID: "c1", Items: []entity.CartItem{
				{Product: entity.CartProduct{ID: "1", Price: decimal.NewFromInt(10)}, Quantity: 5},
			}})
		}
		c.Items[0].Quantity++
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "el primer intento se descarta")
	assert.Equal(t, 6, out.Items[0].Quantity)

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 6, got.Items[0].Quantity)
	assert.True(t, mr.Exists("cart:c1"))
}

func TestCartRepo_UpdateConcurrenteNoPierdeCambios(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewCartRepository(rdb, time.Hour)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, "c1", func(c *entity.Cart) (bool, error) {
				if len(c.Items) == 0 {
					c.Items = []entity.CartItem{{Product: entity.CartProduct{ID: "1"}}}
				}
				c.Items[0].Quantity++
				return true, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, n, got.Items[0].Quantity)
}
