package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gofalre.io/kitchen/driver"
	"gofalre.io/kitchen/event"
	"gofalre.io/kitchen/models"
	"gofalre.io/kitchen/models/enum"
)

const postgresSchema = `
CREATE SEQUENCE IF NOT EXISTS kitchen_orders_row_seq START 2;

CREATE TABLE IF NOT EXISTS kitchen_orders (
    row_index    INTEGER       PRIMARY KEY DEFAULT nextval('kitchen_orders_row_seq'),
    order_number TEXT          NOT NULL DEFAULT '',
    items        TEXT          NOT NULL DEFAULT '',
    total_price  NUMERIC(12,2) NOT NULL DEFAULT 0,
    status       TEXT          NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ   NOT NULL DEFAULT NOW()
);
`

const selectOrderColumns = `row_index, order_number, items, total_price::text, status, created_at`

var _ Repository = (*postgresRepository)(nil)

type postgresRepository struct {
	conn   driver.PostgresPool
	tm     *driver.TransactionManager
	events event.Repository
	source string
	logger *zap.Logger
}

// NewPostgresRepository 以 Postgres 保存訂單表，每次狀態變更都在同一個交易中寫入 kitchen_order_events
func NewPostgresRepository(conn driver.PostgresPool, tm *driver.TransactionManager, events event.Repository, source string, logger *zap.Logger) Repository {
	return &postgresRepository{
		conn:   conn,
		tm:     tm,
		events: events,
		source: source,
		logger: logger,
	}
}

// MigratePostgres 建立訂單表與狀態紀錄表
func MigratePostgres(ctx context.Context, conn driver.PostgresPool) error {
	if _, err := conn.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("migrate kitchen_orders: %w", err)
	}
	if _, err := conn.Exec(ctx, event.Schema); err != nil {
		return fmt.Errorf("migrate kitchen_order_events: %w", err)
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context) ([]*models.Order, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+selectOrderColumns+` FROM kitchen_orders ORDER BY row_index ASC`)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepository) Append(ctx context.Context, order *models.Order) (*models.Order, error) {
	createdAt := order.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	row := r.conn.QueryRow(ctx, `
		INSERT INTO kitchen_orders (order_number, items, total_price, status, created_at)
		VALUES ($1, $2, $3::numeric, $4, $5)
		RETURNING `+selectOrderColumns,
		order.OrderNumber, order.ItemsText(), order.TotalPrice.String(), order.Status.WireValue(), createdAt)

	created, err := scanOrder(row)
	if err != nil {
		r.logger.Error("Failed to append order", zap.String("order_number", order.OrderNumber), zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, rowIndex int, action enum.Action) (*models.Order, error) {
	var updated *models.Order

	// 兩台出餐畫面同時操作同一列時，序列化衝突會重試
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead}
	err := r.tm.ExecuteTransactionWithRetry(ctx, opts, func(tx pgx.Tx) error {
		// 1. 鎖定訂單列
		o, err := scanOrder(tx.QueryRow(ctx,
			`SELECT `+selectOrderColumns+` FROM kitchen_orders WHERE row_index = $1 FOR UPDATE`, rowIndex))
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("row %d: %w", rowIndex, ErrOrderNotFound)
		}
		if err != nil {
			return err
		}

		// 2. 檢查狀態轉換是否有效
		if !o.AllowAction(action) {
			return fmt.Errorf("row %d %s -> %s: %w", rowIndex, o.Status, action, ErrInvalidTransition)
		}

		// 3. 更新訂單狀態
		o.Status = action.To()
		if _, err = tx.Exec(ctx,
			`UPDATE kitchen_orders SET status = $2, updated_at = NOW() WHERE row_index = $1`,
			rowIndex, o.Status.WireValue()); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		// 4. 寫入狀態變更紀錄
		if err = r.events.Create(ctx, tx, models.NewEvent(action, rowIndex, r.source)); err != nil {
			return err
		}

		updated = o
		return nil
	}, 3)
	if err != nil {
		if !errors.Is(err, ErrOrderNotFound) && !errors.Is(err, ErrInvalidTransition) {
			r.logger.Error("Failed to update order status",
				zap.Int("row_index", rowIndex),
				zap.String("mode", string(action)),
				zap.Error(err))
		}
		return nil, err
	}

	r.logger.Info("Order status updated",
		zap.Int("row_index", rowIndex),
		zap.String("status", updated.Status.String()))
	return updated, nil
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		o      models.Order
		items  string
		price  string
		status string
	)
	if err := row.Scan(&o.RowIndex, &o.OrderNumber, &items, &price, &status, &o.Timestamp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	total, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("row %d total_price: %w", o.RowIndex, err)
	}
	o.Items = models.SplitItems(items)
	o.TotalPrice = total
	o.Status = enum.ParseOrderStatus(status)
	return &o, nil
}
