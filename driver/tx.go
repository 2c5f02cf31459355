package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// serializationFailure 是 Postgres 的 SQLSTATE 40001
const serializationFailure = "40001"

const retryBackoff = 50 * time.Millisecond

// TransactionManager 包住訂單表的交易：出錯就 rollback，成功才 commit
type TransactionManager struct {
	conn   PostgresPool
	logger *zap.Logger
}

func NewTransactionManager(conn PostgresPool, logger *zap.Logger) *TransactionManager {
	return &TransactionManager{
		conn:   conn,
		logger: logger,
	}
}

// ExecuteTransactionWithOptions 執行一次交易，fn 回傳錯誤或 commit 失敗都會反映在 err
func (m *TransactionManager) ExecuteTransactionWithOptions(ctx context.Context, opts pgx.TxOptions, fn func(tx pgx.Tx) error) (err error) {
	dbTx, err := m.conn.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			m.rollback(ctx, dbTx)
			m.logger.Error("Panic in order transaction", zap.Any("panic", p))
			panic(p)
		}
		if err != nil {
			m.rollback(ctx, dbTx)
			return
		}
		if err = dbTx.Commit(ctx); err != nil {
			m.logger.Error("Failed to commit order transaction", zap.Error(err))
			err = fmt.Errorf("commit transaction: %w", err)
		}
	}()

	return fn(dbTx)
}

// ExecuteTransactionWithRetry 遇到序列化衝突時重試，最多 attempts 次；其他錯誤直接回傳
func (m *TransactionManager) ExecuteTransactionWithRetry(ctx context.Context, opts pgx.TxOptions, fn func(tx pgx.Tx) error, attempts int) error {
	var err error
	for i := 1; i <= attempts; i++ {
		if err = m.ExecuteTransactionWithOptions(ctx, opts, fn); err == nil || !isRetryableError(err) {
			return err
		}
		m.logger.Warn("Order transaction conflict, retrying", zap.Int("attempt", i), zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i) * retryBackoff):
		}
	}
	return fmt.Errorf("transaction failed after %d attempts: %w", attempts, err)
}

func (m *TransactionManager) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		m.logger.Error("Failed to rollback order transaction", zap.Error(err))
	}
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == serializationFailure
}
