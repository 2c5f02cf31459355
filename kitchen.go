// Package kitchen 是內場出餐畫面的資料層：同步訂單表、送出訂單操作、排程重新整理
package kitchen

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"gofalre.io/kitchen/models"
	"gofalre.io/kitchen/order"
)

type Service interface {
	Sync(ctx context.Context) (models.Snapshot, error)
	State() State
	Updates() <-chan Update
	Refresh(ctx context.Context, reason string) bool

	Confirm(ctx context.Context, o *models.Order) error
	SoftDelete(ctx context.Context, o *models.Order) error
	Restore(ctx context.Context, o *models.Order) error

	// Start 開始輪詢並訂閱其他畫面的變更；訂閱失敗時輪詢仍會繼續
	Start(ctx context.Context) error
	Close()
}

type Options struct {
	Terminal     string
	PollInterval time.Duration
	SyncTimeout  time.Duration
	Workers      int
}

type service struct {
	*Syncer
	*Actions

	eventManager *EventManager
	workerPool   *WorkerPool
	poller       *Poller

	logger *zap.Logger
}

// NewService 組裝同步、操作與排程；natsConn 為 nil 時只靠輪詢
func NewService(repo order.Repository, natsConn *nats.Conn, opts Options, logger *zap.Logger) Service {
	if opts.Workers < 1 {
		opts.Workers = 2
	}

	s := &service{logger: logger}
	s.Syncer = NewSyncer(repo, logger)
	s.eventManager = NewEventManager(natsConn, opts.Terminal, logger)
	s.Actions = NewActions(repo, s.Syncer, s.eventManager, opts.Terminal, logger)
	s.workerPool = NewWorkerPool(opts.Workers, s.Syncer, opts.SyncTimeout, logger)
	s.poller = NewPoller(s.workerPool, opts.PollInterval, logger)

	return s
}

func (s *service) Refresh(ctx context.Context, reason string) bool {
	return s.workerPool.Submit(ctx, reason)
}

func (s *service) Start(ctx context.Context) error {
	s.poller.Start(ctx)
	return s.eventManager.SubscribeToEvents(s.workerPool)
}

func (s *service) Close() {
	s.poller.Stop()
	if err := s.eventManager.Close(); err != nil {
		s.logger.Warn("Failed to unsubscribe order events", zap.Error(err))
	}
	s.workerPool.Shutdown()
	s.Syncer.Close()
}
