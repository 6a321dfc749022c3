package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/veloce-moto-api/internal/domain/entity"
)

func TestRunInTx_Commit(t *testing.T) {
	q := &fakeQuerier{tx: &fakeTx{}}

	err := runInTx(context.Background(), q, func(tx pgx.Tx) error {
		_, err := tx.Exec(context.Background(), "SELECT 1")
		return err
	})
	require.NoError(t, err)
	assert.True(t, q.tx.committed)
	assert.False(t, q.tx.rolledBack)
}

func TestRunInTx_RollbackEnError(t *testing.T) {
	q := &fakeQuerier{tx: &fakeTx{}}
	boom := errors.New("boom")

	err := runInTx(context.Background(), q, func(pgx.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, q.tx.committed)
	assert.True(t, q.tx.rolledBack)
}

func TestRunInTx_ErrorAlAbrir(t *testing.T) {
	q := &fakeQuerier{beginErr: errors.New("sin conexión")}

	err := runInTx(context.Background(), q, func(pgx.Tx) error {
		t.Fatal("no debe ejecutarse")
		return nil
	})
	assert.ErrorContains(t, err, "begin transaction")
}

func TestMigrate_AplicaEnTransaccion(t *testing.T) {
	q := &fakeQuerier{tx: &fakeTx{}}

	require.NoError(t, Migrate(context.Background(), q))
	require.Len(t, q.tx.execs, 2)
	assert.Contains(t, q.tx.execs[0], "CREATE TABLE IF NOT EXISTS carts")
	assert.Contains(t, q.tx.execs[1], "ALTER COLUMN sale_price TYPE NUMERIC")
	assert.True(t, q.tx.committed)
}

func TestCartRepo_UpdateVacio(t *testing.T) {
	q := &fakeQuerier{db: newFakeDB()}
	repo := NewCartRepository(q, 0)

	out, err := repo.Update(context.Background(), "c1", func(*entity.Cart) (bool, error) { return true, nil })
	require.NoError(t, err)
	assert.Equal(t, "c1", out.ID)
	require.Len(t, q.tx.execs, 3, "alta, upsert de cabecera y borrado de líneas, sin batch")
	assert.Contains(t, q.tx.execs[0], "DO NOTHING")
	assert.Contains(t, q.tx.execs[1], "DO UPDATE")
	assert.Contains(t, q.tx.execs[2], "DELETE FROM cart_items")
	assert.Contains(t, q.tx.queries[0], "FOR UPDATE")
	assert.True(t, q.tx.committed)
}

func TestCartRepo_UpdateSinCambiosDescartaTx(t *testing.T) {
	q := &fakeQuerier{db: newFakeDB()}
	repo := NewCartRepository(q, time.Hour)

	out, err := repo.Update(context.Background(), "c1", func(*entity.Cart) (bool, error) { return false, nil })
	require.NoError(t, err)
	assert.Equal(t, "c1", out.ID)
	assert.Len(t, q.tx.execs, 1, "solo el alta previa al bloqueo")
	assert.False(t, q.tx.committed)
	assert.True(t, q.tx.rolledBack)

	boom := errors.New("boom")
	_, err = repo.Update(context.Background(), "c1", func(*entity.Cart) (bool, error) { return true, boom })
	assert.ErrorIs(t, err, boom)
	assert.True(t, q.tx.rolledBack)
}

func TestCartRepo_UpdateYGetConLineas(t *testing.T) {
	q := &fakeQuerier{db: newFakeDB()}
	repo := NewCartRepository(q, time.Hour)
	ctx := context.Background()

	sale := decimal.RequireFromString("12.345")
	_, err := repo.Update(ctx, "c1", func(c *entity.Cart) (bool, error) {
		c.Items = append(c.Items,
			entity.CartItem{Product: entity.CartProduct{ID: "1", Slug: "pastillas", Name: "Pastillas", Brand: "Brembo",
				Price: decimal.RequireFromString("15.50"), SalePrice: &sale, Currency: "LKR"}, Quantity: 2},
			entity.CartItem{Product: entity.CartProduct{ID: "2", Slug: "cadena", Name: "Cadena",
				Price: decimal.NewFromInt(7), Currency: "LKR", ImageURL: "https://cms/c.jpg"}, Quantity: 1},
		)
		return true, nil
	})
	require.NoError(t, err)
	assert.True(t, q.tx.committed)

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "1", got.Items[0].Product.ID)
	assert.Equal(t, "Brembo", got.Items[0].Product.Brand)
	assert.Equal(t, 2, got.Items[0].Quantity)
	require.NotNil(t, got.Items[0].Product.SalePrice)
	assert.Equal(t, "12.345", got.Items[0].Product.SalePrice.String())
	assert.True(t, decimal.RequireFromString("15.5").Equal(got.Items[0].Product.Price))
	assert.Equal(t, "2", got.Items[1].Product.ID)
	assert.Nil(t, got.Items[1].Product.SalePrice)
	assert.Equal(t, "https://cms/c.jpg", got.Items[1].Product.ImageURL)

	// La segunda mutación parte de lo persistido.
	_, err = repo.Update(ctx, "c1", func(c *entity.Cart) (bool, error) {
		require.Len(t, c.Items, 2)
		c.Items[1].Quantity++
		return true, nil
	})
	require.NoError(t, err)

	got, err = repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, 2, got.Items[1].Quantity)
	assert.Equal(t, "12.345", got.Items[0].Product.SalePrice.String())
}

func TestCartRepo_UpdateCarritoVencidoEmpiezaVacio(t *testing.T) {
	db := newFakeDB()
	db.carts["c1"] = time.Now().UTC().Add(-2 * time.Hour)
	db.items["c1"] = [][]any{{"1", "a", "A", "", "", decimal.NewFromInt(1), decimal.NullDecimal{}, "LKR", "", "", 3}}
	q := &fakeQuerier{db: db}
	repo := NewCartRepository(q, time.Hour)

	got, err := repo.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Nil(t, got)

	out, err := repo.Update(context.Background(), "c1", func(c *entity.Cart) (bool, error) {
		assert.Empty(t, c.Items)
		c.Items = append(c.Items, entity.CartItem{Product: entity.CartProduct{ID: "2", Price: decimal.NewFromInt(4)}, Quantity: 1})
		return true, nil
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	require.Len(t, db.items["c1"], 1)
	assert.Equal(t, "2", db.items["c1"][0][0])
}
