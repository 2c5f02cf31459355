package models

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofalre.io/kitchen/models/enum"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func order(row int, status enum.OrderStatus, price int64) *Order {
	return &Order{RowIndex: row, Status: status, TotalPrice: decimal.NewFromInt(price)}
}

func rows(orders []*Order) []int {
	out := make([]int, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.RowIndex)
	}
	return out
}

func TestNewSnapshotScenario(t *testing.T) {
	var orders []*Order
	data := `[
		{"rowIndex":1,"狀態":"","總價":100},
		{"rowIndex":2,"狀態":"已出餐","總價":50},
		{"rowIndex":3,"狀態":"已刪除","總價":30}
	]`
	require.NoError(t, json.Unmarshal([]byte(data), &orders))

	snap := NewSnapshot(orders)

	assert.Equal(t, []int{1}, rows(snap.Active))
	assert.Equal(t, []int{3, 2}, rows(snap.History))
	assert.True(t, snap.TodayRevenue.Equal(decimal.NewFromInt(50)), "revenue %s", snap.TodayRevenue)
	assert.Zero(t, snap.Skipped)
}

func TestNewSnapshotPartitionsExactly(t *testing.T) {
	orders := []*Order{
		order(2, enum.OrderStatusServed, 10),
		order(3, enum.OrderStatusActive, 20),
		order(4, enum.OrderStatusDeleted, 40),
		order(5, enum.OrderStatusActive, 80),
		order(6, enum.OrderStatusUnknown, 160),
		order(7, enum.OrderStatusServed, 320),
	}

	snap := NewSnapshot(orders)

	want := Snapshot{
		Active:       []*Order{orders[1], orders[3]},
		History:      []*Order{orders[5], orders[2], orders[0]},
		TodayRevenue: decimal.NewFromInt(330),
		Skipped:      1,
	}
	if diff := cmp.Diff(want, snap, decimalComparer); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	seen := make(map[int]int)
	for _, o := range snap.Active {
		assert.Equal(t, enum.OrderStatusActive, o.Status)
		seen[o.RowIndex]++
	}
	for _, o := range snap.History {
		assert.True(t, o.Status.IsHistorical())
		seen[o.RowIndex]++
	}
	for row, n := range seen {
		assert.Equal(t, 1, n, "row %d appears %d times", row, n)
	}
}

func TestNewSnapshotHistoryIsReversedInput(t *testing.T) {
	orders := []*Order{
		order(10, enum.OrderStatusDeleted, 0),
		order(11, enum.OrderStatusServed, 0),
		order(12, enum.OrderStatusServed, 0),
		order(13, enum.OrderStatusDeleted, 0),
	}
	snap := NewSnapshot(orders)
	assert.Equal(t, []int{13, 12, 11, 10}, rows(snap.History))
}

func TestNewSnapshotEmpty(t *testing.T) {
	snap := NewSnapshot(nil)
	assert.Empty(t, snap.Active)
	assert.Empty(t, snap.History)
	assert.True(t, snap.TodayRevenue.IsZero())
}

func TestNewSnapshotRevenueUsesExactDecimals(t *testing.T) {
	orders := []*Order{
		{RowIndex: 2, Status: enum.OrderStatusServed, TotalPrice: decimal.RequireFromString("0.1")},
		{RowIndex: 3, Status: enum.OrderStatusServed, TotalPrice: decimal.RequireFromString("0.2")},
	}
	snap := NewSnapshot(orders)
	assert.Equal(t, "0.3", snap.TodayRevenue.String())
}
