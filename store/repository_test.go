package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gofalre.io/kitchen/driver"
	"gofalre.io/kitchen/event"
	"gofalre.io/kitchen/models"
	"gofalre.io/kitchen/models/enum"
)

func newOrder(number string, price int64, items ...string) *models.Order {
	return &models.Order{
		OrderNumber: number,
		Items:       items,
		TotalPrice:  decimal.NewFromInt(price),
	}
}

// exerciseRepository 是每個後端都必須通過的行為
func exerciseRepository(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	first, err := repo.Append(ctx, newOrder("A001", 100, "牛肉麵", "滷蛋"))
	require.NoError(t, err)
	second, err := repo.Append(ctx, newOrder("A002", 50, "紅茶"))
	require.NoError(t, err)

	assert.Equal(t, FirstRowIndex, first.RowIndex)
	assert.Equal(t, FirstRowIndex+1, second.RowIndex)
	assert.False(t, first.Timestamp.IsZero())

	t.Run("list keeps sheet order", func(t *testing.T) {
		orders, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "A001", orders[0].OrderNumber)
		assert.Equal(t, []string{"牛肉麵", "滷蛋"}, orders[0].Items)
		assert.True(t, orders[0].TotalPrice.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, enum.OrderStatusActive, orders[0].Status)
	})

	t.Run("confirm", func(t *testing.T) {
		updated, err := repo.UpdateStatus(ctx, first.RowIndex, enum.ActionConfirm)
		require.NoError(t, err)
		assert.Equal(t, enum.OrderStatusServed, updated.Status)
	})

	t.Run("served is terminal", func(t *testing.T) {
		for _, a := range []enum.Action{enum.ActionConfirm, enum.ActionSoftDelete, enum.ActionRestore} {
			_, err := repo.UpdateStatus(ctx, first.RowIndex, a)
			assert.ErrorIs(t, err, ErrInvalidTransition, "action %s", a)
		}
	})

	t.Run("soft delete and restore", func(t *testing.T) {
		updated, err := repo.UpdateStatus(ctx, second.RowIndex, enum.ActionSoftDelete)
		require.NoError(t, err)
		assert.Equal(t, enum.OrderStatusDeleted, updated.Status)

		_, err = repo.UpdateStatus(ctx, second.RowIndex, enum.ActionSoftDelete)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		updated, err = repo.UpdateStatus(ctx, second.RowIndex, enum.ActionRestore)
		require.NoError(t, err)
		assert.Equal(t, enum.OrderStatusActive, updated.Status)
	})

	t.Run("unknown row", func(t *testing.T) {
		_, err := repo.UpdateStatus(ctx, 999, enum.ActionConfirm)
		assert.ErrorIs(t, err, ErrOrderNotFound)
		_, err = repo.UpdateStatus(ctx, 1, enum.ActionConfirm)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("list reflects updates", func(t *testing.T) {
		orders, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, enum.OrderStatusServed, orders[0].Status)
		assert.Equal(t, enum.OrderStatusActive, orders[1].Status)
	})
}

func TestMemoryRepository(t *testing.T) {
	exerciseRepository(t, NewMemoryRepository())
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_, err := repo.Append(ctx, newOrder("A001", 10, "豆漿"))
	require.NoError(t, err)

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	orders[0].Items[0] = "changed"
	orders[0].Status = enum.OrderStatusDeleted

	orders, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"豆漿"}, orders[0].Items)
	assert.Equal(t, enum.OrderStatusActive, orders[0].Status)
}

func TestMemoryRepositoryConcurrentConfirm(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	created, err := repo.Append(ctx, newOrder("A001", 10))
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.UpdateStatus(ctx, created.RowIndex, enum.ActionConfirm); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}

func TestSQLiteRepository(t *testing.T) {
	db, err := driver.OpenSQLite(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := NewSQLiteRepository(context.Background(), db, zap.NewNop())
	require.NoError(t, err)

	exerciseRepository(t, repo)
}

func TestSQLiteRepositoryKeepsDecimalPrice(t *testing.T) {
	db, err := driver.OpenSQLite(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	repo, err := NewSQLiteRepository(ctx, db, zap.NewNop())
	require.NoError(t, err)

	o := newOrder("A001", 0)
	o.TotalPrice = decimal.RequireFromString("0.30")
	_, err = repo.Append(ctx, o)
	require.NoError(t, err)

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].TotalPrice.Equal(decimal.RequireFromString("0.3")), "got %s", orders[0].TotalPrice)
}

func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("KITCHEN_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("KITCHEN_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	logger := zap.NewNop()
	pool, err := driver.ConnectPostgres(ctx, dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `DROP TABLE IF EXISTS kitchen_order_events; DROP TABLE IF EXISTS kitchen_orders; DROP SEQUENCE IF EXISTS kitchen_orders_row_seq;`)
	require.NoError(t, err)
	require.NoError(t, MigratePostgres(ctx, pool))

	events := event.NewRepository(pool, logger)
	repo := NewPostgresRepository(pool, driver.NewTransactionManager(pool, logger), events, "test", logger)
	exerciseRepository(t, repo)

	history, err := events.ListByRow(ctx, nil, FirstRowIndex+1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, enum.ActionSoftDelete, history[0].Action)
	assert.Equal(t, enum.ActionRestore, history[1].Action)
	assert.Equal(t, "test", history[0].Source)
}
