package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gofalre.io/kitchen/models"
	"gofalre.io/kitchen/models/enum"
)

// SQLite 沒有時間型別，時間以 RFC3339 文字保存
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kitchen_orders (
    row_index    INTEGER PRIMARY KEY,
    order_number TEXT    NOT NULL DEFAULT '',
    items        TEXT    NOT NULL DEFAULT '',
    total_price  TEXT    NOT NULL DEFAULT '0',
    status       TEXT    NOT NULL DEFAULT '',
    created_at   TEXT    NOT NULL,
    updated_at   TEXT    NOT NULL
);
`

var _ Repository = (*sqliteRepository)(nil)

type sqliteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteRepository 以單一 SQLite 檔案保存訂單表，適合一台機器的小店
func NewSQLiteRepository(ctx context.Context, db *sql.DB, logger *zap.Logger) (Repository, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &sqliteRepository{db: db, logger: logger}, nil
}

func (r *sqliteRepository) List(ctx context.Context) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT row_index, order_number, items, total_price, status, created_at
		FROM kitchen_orders ORDER BY row_index ASC`)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, fmt.Errorf("sqlite: list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		o, err := scanSQLiteOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *sqliteRepository) Append(ctx context.Context, order *models.Order) (*models.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// 訂單只做軟刪除，最大列號之後的號碼不會與既有訂單重複
	var next int
	if err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(row_index) + 1, ?) FROM kitchen_orders`, FirstRowIndex).Scan(&next); err != nil {
		return nil, fmt.Errorf("sqlite: next row index: %w", err)
	}

	created := cloneOrder(order)
	created.RowIndex = next
	if created.Timestamp.IsZero() {
		created.Timestamp = time.Now()
	}
	now := formatSQLiteTime(time.Now())

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO kitchen_orders (row_index, order_number, items, total_price, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		created.RowIndex, created.OrderNumber, created.ItemsText(), created.TotalPrice.String(),
		created.Status.WireValue(), formatSQLiteTime(created.Timestamp), now); err != nil {
		r.logger.Error("Failed to append order", zap.String("order_number", order.OrderNumber), zap.Error(err))
		return nil, fmt.Errorf("sqlite: insert order: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit: %w", err)
	}
	return created, nil
}

func (r *sqliteRepository) UpdateStatus(ctx context.Context, rowIndex int, action enum.Action) (*models.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	o, err := scanSQLiteOrder(tx.QueryRowContext(ctx, `
		SELECT row_index, order_number, items, total_price, status, created_at
		FROM kitchen_orders WHERE row_index = ?`, rowIndex))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("row %d: %w", rowIndex, ErrOrderNotFound)
	}
	if err != nil {
		return nil, err
	}

	if !o.AllowAction(action) {
		return nil, fmt.Errorf("row %d %s -> %s: %w", rowIndex, o.Status, action, ErrInvalidTransition)
	}

	o.Status = action.To()
	if _, err = tx.ExecContext(ctx,
		`UPDATE kitchen_orders SET status = ?, updated_at = ? WHERE row_index = ?`,
		o.Status.WireValue(), formatSQLiteTime(time.Now()), rowIndex); err != nil {
		r.logger.Error("Failed to update order status", zap.Int("row_index", rowIndex), zap.Error(err))
		return nil, fmt.Errorf("sqlite: update order status: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit: %w", err)
	}
	return o, nil
}

type sqliteScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteOrder(row sqliteScanner) (*models.Order, error) {
	var (
		o         models.Order
		items     string
		price     string
		status    string
		createdAt string
	)
	if err := row.Scan(&o.RowIndex, &o.OrderNumber, &items, &price, &status, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("sqlite: scan order: %w", err)
	}

	total, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("sqlite: row %d total_price: %w", o.RowIndex, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("sqlite: row %d created_at: %w", o.RowIndex, err)
	}

	o.Items = models.SplitItems(items)
	o.TotalPrice = total
	o.Status = enum.ParseOrderStatus(status)
	o.Timestamp = ts
	return &o, nil
}

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
