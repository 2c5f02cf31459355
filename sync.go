package kitchen

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gofalre.io/kitchen/models"
	"gofalre.io/kitchen/order"
)

// updateBuffer 是尚未被畫面取走的更新數量上限
const updateBuffer = 16

// State 是畫面所需的訂單狀態
type State struct {
	Active       []*models.Order
	History      []*models.Order
	TodayRevenue decimal.Decimal
	Loading      bool
	Seq          uint64
	FetchedAt    time.Time
}

// Update 在每次同步開始、結束或失敗時送出
type Update struct {
	State State
	Err   error
}

// SyncError 表示同步失敗；先前的狀態保持不變
type SyncError struct {
	Seq uint64
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync #%d: %v", e.Seq, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Syncer 讀取整張訂單表並切分成目前訂單與歷史紀錄
//
// 每次同步都會取得遞增的序號，較舊的回應晚到時直接丟棄，
// 不會覆蓋較新的結果。
type Syncer struct {
	repo   order.Repository
	logger *zap.Logger

	mu       sync.Mutex
	nextSeq  uint64
	inFlight int
	snap     models.Snapshot
	updates  chan Update
	closed   bool
}

func NewSyncer(repo order.Repository, logger *zap.Logger) *Syncer {
	return &Syncer{
		repo:    repo,
		logger:  logger,
		snap:    models.NewSnapshot(nil),
		updates: make(chan Update, updateBuffer),
	}
}

// Sync 讀取整張訂單表並套用結果，失敗時回傳 *SyncError
func (s *Syncer) Sync(ctx context.Context) (models.Snapshot, error) {
	s.mu.Lock()
	s.nextSeq++
	seq := s.nextSeq
	s.inFlight++
	s.publishLocked(nil)
	s.mu.Unlock()

	orders, err := s.repo.ListOrders(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--

	if err != nil {
		err = &SyncError{Seq: seq, Err: err}
		s.logger.Error("Failed to sync orders", zap.Uint64("seq", seq), zap.Error(err))
		s.publishLocked(err)
		return models.Snapshot{}, err
	}

	snap := models.NewSnapshot(orders)
	snap.Seq = seq
	snap.FetchedAt = time.Now()

	if seq <= s.snap.Seq {
		s.logger.Debug("Discarding stale sync result",
			zap.Uint64("seq", seq),
			zap.Uint64("applied_seq", s.snap.Seq))
	} else {
		s.snap = snap
		if snap.Skipped > 0 {
			s.logger.Warn("Orders with unknown status skipped", zap.Int("count", snap.Skipped))
		}
		s.logger.Debug("Orders synced",
			zap.Uint64("seq", seq),
			zap.Int("active", len(snap.Active)),
			zap.Int("history", len(snap.History)))
	}

	s.publishLocked(nil)
	return s.snap, nil
}

// State 回傳目前狀態的副本
func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Updates 回傳狀態更新的通道，畫面跟不上時最舊的更新會被丟棄
func (s *Syncer) Updates() <-chan Update {
	return s.updates
}

// Close 關閉更新通道，之後的同步不再送出更新
func (s *Syncer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.updates)
	}
}

func (s *Syncer) stateLocked() State {
	return State{
		Active:       append([]*models.Order(nil), s.snap.Active...),
		History:      append([]*models.Order(nil), s.snap.History...),
		TodayRevenue: s.snap.TodayRevenue,
		Loading:      s.inFlight > 0,
		Seq:          s.snap.Seq,
		FetchedAt:    s.snap.FetchedAt,
	}
}

func (s *Syncer) publishLocked(err error) {
	if s.closed {
		return
	}
	u := Update{State: s.stateLocked(), Err: err}
	for {
		select {
		case s.updates <- u:
			return
		default:
		}
		// 通道已滿，丟掉最舊的一筆
		select {
		case <-s.updates:
		default:
		}
	}
}
