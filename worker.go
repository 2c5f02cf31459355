package kitchen

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"gofalre.io/kitchen/models"
)

const (
	// taskQueueSize 限制排隊中的重新整理請求
	taskQueueSize = 8

	defaultSyncTimeout = 15 * time.Second
)

// Refresher 是 WorkerPool 呼叫的同步動作
type Refresher interface {
	Sync(ctx context.Context) (models.Snapshot, error)
}

// WorkerPool 以固定數量的 goroutine 執行重新整理請求
type WorkerPool struct {
	tasks     chan func()
	refresher Refresher
	timeout   time.Duration
	logger    *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewWorkerPool(size int, refresher Refresher, timeout time.Duration, logger *zap.Logger) *WorkerPool {
	if size < 1 {
		size = 1
	}
	if timeout <= 0 {
		timeout = defaultSyncTimeout
	}

	wp := &WorkerPool{
		tasks:     make(chan func(), taskQueueSize),
		refresher: refresher,
		timeout:   timeout,
		logger:    logger,
	}

	wp.wg.Add(size)
	for i := 0; i < size; i++ {
		go wp.worker()
	}

	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.tasks {
		task()
	}
}

// Submit 排入一次重新整理，佇列已滿或已關閉時丟棄並回傳 false
func (wp *WorkerPool) Submit(ctx context.Context, reason string) bool {
	task := func() {
		ctx, cancel := context.WithTimeout(ctx, wp.timeout)
		defer cancel()

		if _, err := wp.refresher.Sync(ctx); err != nil {
			wp.logger.Error("Failed to refresh orders",
				zap.String("reason", reason),
				zap.Error(err))
		}
	}

	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return false
	}

	select {
	case wp.tasks <- task:
		return true
	default:
		wp.logger.Warn("Refresh queue full, dropping request", zap.String("reason", reason))
		return false
	}
}

// Shutdown 停止接受新請求並等待排隊中的請求完成
func (wp *WorkerPool) Shutdown() {
	wp.mu.Lock()
	if !wp.closed {
		wp.closed = true
		close(wp.tasks)
	}
	wp.mu.Unlock()

	wp.wg.Wait()
}
