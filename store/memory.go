package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gofalre.io/kitchen/models"
	"gofalre.io/kitchen/models/enum"
)

var _ Repository = (*memoryRepository)(nil)

type memoryRepository struct {
	mu     sync.Mutex
	orders []models.Order
}

// NewMemoryRepository 建立存在記憶體中的訂單表，重啟後資料消失
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) List(_ context.Context) ([]*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.Order, 0, len(r.orders))
	for i := range r.orders {
		out = append(out, cloneOrder(&r.orders[i]))
	}
	return out, nil
}

func (r *memoryRepository) Append(_ context.Context, order *models.Order) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o := cloneOrder(order)
	o.RowIndex = FirstRowIndex + len(r.orders)
	if o.Timestamp.IsZero() {
		o.Timestamp = time.Now()
	}
	r.orders = append(r.orders, *o)
	return cloneOrder(o), nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, rowIndex int, action enum.Action) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := rowIndex - FirstRowIndex
	if i < 0 || i >= len(r.orders) {
		return nil, fmt.Errorf("row %d: %w", rowIndex, ErrOrderNotFound)
	}

	o := &r.orders[i]
	if !o.AllowAction(action) {
		return nil, fmt.Errorf("row %d %s -> %s: %w", rowIndex, o.Status, action, ErrInvalidTransition)
	}
	o.Status = action.To()
	return cloneOrder(o), nil
}

func cloneOrder(o *models.Order) *models.Order {
	c := *o
	c.Items = append([]string(nil), o.Items...)
	return &c
}
