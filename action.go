package kitchen

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"gofalre.io/kitchen/models"
	"gofalre.io/kitchen/models/enum"
	"gofalre.io/kitchen/order"
)

var ErrNoOrder = errors.New("no order selected")

// Actions 送出出餐、刪除與還原，成功後重新讀取整張表。
// 不做樂觀更新，畫面只顯示遠端確認過的狀態。
type Actions struct {
	repo   order.Repository
	syncer *Syncer
	events *EventManager
	source string
	logger *zap.Logger
}

// NewActions 建立訂單操作；events 為 nil 時不發送變更通知
func NewActions(repo order.Repository, syncer *Syncer, events *EventManager, source string, logger *zap.Logger) *Actions {
	return &Actions{
		repo:   repo,
		syncer: syncer,
		events: events,
		source: source,
		logger: logger,
	}
}

func (a *Actions) Confirm(ctx context.Context, o *models.Order) error {
	return a.apply(ctx, enum.ActionConfirm, o)
}

// SoftDelete 將訂單標記為已刪除；是否先詢問使用者由畫面決定
func (a *Actions) SoftDelete(ctx context.Context, o *models.Order) error {
	return a.apply(ctx, enum.ActionSoftDelete, o)
}

func (a *Actions) Restore(ctx context.Context, o *models.Order) error {
	return a.apply(ctx, enum.ActionRestore, o)
}

func (a *Actions) apply(ctx context.Context, action enum.Action, o *models.Order) error {
	if o == nil {
		return fmt.Errorf("%s order: %w", verb(action), ErrNoOrder)
	}

	if err := a.repo.UpdateOrderStatus(ctx, o.RowIndex, action); err != nil {
		a.logger.Error("Failed to apply order action",
			zap.String("mode", string(action)),
			zap.Int("row_index", o.RowIndex),
			zap.String("order_number", o.OrderNumber),
			zap.Error(err))
		return fmt.Errorf("%s order %d: %w", verb(action), o.RowIndex, err)
	}

	if err := a.events.Publish(models.NewEvent(action, o.RowIndex, a.source)); err != nil {
		a.logger.Warn("Failed to publish order event",
			zap.String("mode", string(action)),
			zap.Int("row_index", o.RowIndex),
			zap.Error(err))
	}

	// 操作已成功；同步失敗會以 *SyncError 回傳
	if _, err := a.syncer.Sync(ctx); err != nil {
		return err
	}
	return nil
}

func verb(action enum.Action) string {
	switch action {
	case enum.ActionSoftDelete:
		return "delete"
	default:
		return string(action)
	}
}
