package kitchen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"gofalre.io/kitchen/models"
)

const (
	subjectPrefix = "kitchen.order."
	subjectAll    = subjectPrefix + ">"
)

// EventManager 在多台出餐畫面之間廣播訂單變更，natsConn 為 nil 時不做任何事
type EventManager struct {
	natsConn *nats.Conn
	source   string
	logger   *zap.Logger
	sub      *nats.Subscription
}

func NewEventManager(natsConn *nats.Conn, source string, logger *zap.Logger) *EventManager {
	return &EventManager{
		natsConn: natsConn,
		source:   source,
		logger:   logger,
	}
}

func (em *EventManager) enabled() bool {
	return em != nil && em.natsConn != nil
}

// Publish 發送到 kitchen.order.<action>
func (em *EventManager) Publish(event *models.Event) error {
	if !em.enabled() {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	if err = em.natsConn.Publish(subjectPrefix+string(event.Action), data); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

// SubscribeToEvents 收到其他畫面的變更時排入一次重新整理
func (em *EventManager) SubscribeToEvents(wp *WorkerPool) error {
	if !em.enabled() {
		return nil
	}

	sub, err := em.natsConn.Subscribe(subjectAll, em.handler(wp))
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subjectAll, err)
	}
	em.sub = sub
	return nil
}

func (em *EventManager) handler(wp *WorkerPool) nats.MsgHandler {
	return func(msg *nats.Msg) {
		var event models.Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			em.logger.Error("Failed to unmarshal event", zap.String("subject", msg.Subject), zap.Error(err))
			return
		}

		// 自己送出的變更已經同步過
		if event.Source == em.source {
			return
		}

		em.logger.Debug("Order changed on another terminal",
			zap.String("source", event.Source),
			zap.String("mode", string(event.Action)),
			zap.Int("row_index", event.RowIndex))
		wp.Submit(context.Background(), "event:"+string(event.Action))
	}
}

func (em *EventManager) Close() error {
	if em == nil || em.sub == nil {
		return nil
	}
	return em.sub.Unsubscribe()
}
