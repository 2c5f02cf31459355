package models

import (
	"time"

	"github.com/google/uuid"

	"gofalre.io/kitchen/models/enum"
)

// Event 是訂單狀態變更後廣播給其他出餐終端的通知
type Event struct {
	ID         uuid.UUID   `json:"id"`
	Action     enum.Action `json:"action"`
	RowIndex   int         `json:"row_index"`
	Source     string      `json:"source"`
	OccurredAt time.Time   `json:"occurred_at"`
}

func NewEvent(action enum.Action, rowIndex int, source string) *Event {
	return &Event{
		ID:         uuid.New(),
		Action:     action,
		RowIndex:   rowIndex,
		Source:     source,
		OccurredAt: time.Now().UTC(),
	}
}
