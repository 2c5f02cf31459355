package kitchen

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultPollInterval = 30 * time.Second

// Poller 啟動時立即重新整理一次，之後每隔 interval 再排入一次
type Poller struct {
	pool     *WorkerPool
	interval time.Duration
	logger   *zap.Logger

	once sync.Once
	stop chan struct{}
	done chan struct{}
}

func NewPoller(pool *WorkerPool, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		pool:     pool,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Start 只能呼叫一次
func (p *Poller) Start(ctx context.Context) {
	p.done = make(chan struct{})
	p.pool.Submit(ctx, "startup")

	go func() {
		defer close(p.done)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-p.stop:
				return
			case <-ticker.C:
				p.pool.Submit(ctx, "interval")
			}
		}
	}()

	p.logger.Info("Polling orders", zap.Duration("interval", p.interval))
}

// Stop 停止計時器並等待迴圈結束，可重複呼叫
func (p *Poller) Stop() {
	p.once.Do(func() { close(p.stop) })
	if p.done != nil {
		<-p.done
	}
}
