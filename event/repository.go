package event

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"gofalre.io/kitchen/driver"
	"gofalre.io/kitchen/models"
	"gofalre.io/kitchen/models/enum"
)

// Schema 是狀態變更紀錄表，依附在 kitchen_orders 之後建立
const Schema = `
CREATE TABLE IF NOT EXISTS kitchen_order_events (
    id          UUID        PRIMARY KEY,
    row_index   INTEGER     NOT NULL REFERENCES kitchen_orders (row_index),
    action      TEXT        NOT NULL,
    source      TEXT        NOT NULL DEFAULT '',
    occurred_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_kitchen_order_events_row ON kitchen_order_events (row_index, occurred_at);
`

var _ Repository = (*repository)(nil)

type Repository interface {
	Create(ctx context.Context, tx pgx.Tx, event *models.Event) error
	ListByRow(ctx context.Context, tx pgx.Tx, rowIndex int) ([]*models.Event, error)
}

type repository struct {
	conn   driver.PostgresPool
	logger *zap.Logger
}

// querier 是 pool 與 tx 共同的查詢方法
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func NewRepository(conn driver.PostgresPool, logger *zap.Logger) Repository {
	return &repository{
		conn:   conn,
		logger: logger,
	}
}

func (r *repository) q(tx pgx.Tx) querier {
	if tx != nil {
		return tx
	}
	return r.conn
}

func (r *repository) Create(ctx context.Context, tx pgx.Tx, event *models.Event) error {
	_, err := r.q(tx).Exec(ctx, `
		INSERT INTO kitchen_order_events (id, row_index, action, source, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`,
		event.ID, event.RowIndex, string(event.Action), event.Source, event.OccurredAt)
	if err != nil {
		r.logger.Error("Failed to create order event", zap.Int("row_index", event.RowIndex), zap.Error(err))
		return fmt.Errorf("insert order event: %w", err)
	}
	return nil
}

func (r *repository) ListByRow(ctx context.Context, tx pgx.Tx, rowIndex int) ([]*models.Event, error) {
	rows, err := r.q(tx).Query(ctx, `
		SELECT id, row_index, action, source, occurred_at
		FROM kitchen_order_events
		WHERE row_index = $1
		ORDER BY occurred_at ASC`, rowIndex)
	if err != nil {
		r.logger.Error("Failed to list order events", zap.Int("row_index", rowIndex), zap.Error(err))
		return nil, fmt.Errorf("list order events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var e models.Event
		var action string
		if err = rows.Scan(&e.ID, &e.RowIndex, &action, &e.Source, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan order event: %w", err)
		}
		e.Action = enum.Action(action)
		events = append(events, &e)
	}
	return events, rows.Err()
}
