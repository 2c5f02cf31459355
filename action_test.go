package kitchen

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gofalre.io/kitchen/models"
	"gofalre.io/kitchen/models/enum"
	"gofalre.io/kitchen/order"
)

func newActions(t *testing.T, b *backend) (*Actions, *Syncer) {
	t.Helper()
	s := NewSyncer(b.repo, zap.NewNop())
	t.Cleanup(s.Close)
	_, err := s.Sync(context.Background())
	require.NoError(t, err)
	return NewActions(b.repo, s, nil, "line-1", zap.NewNop()), s
}

func TestConfirmThenFetchShowsServed(t *testing.T) {
	b := newBackend(t, activeOrder("A001", 120, "排骨飯"))
	a, s := newActions(t, b)

	require.NoError(t, a.Confirm(context.Background(), s.State().Active[0]))

	st := s.State()
	assert.Empty(t, st.Active)
	require.Len(t, st.History, 1)
	assert.Equal(t, enum.OrderStatusServed, st.History[0].Status)
	assert.True(t, st.TodayRevenue.Equal(decimal.NewFromInt(120)))
}

func TestSoftDeleteAndRestoreRoundTrip(t *testing.T) {
	b := newBackend(t, activeOrder("A001", 80, "水餃"))
	a, s := newActions(t, b)
	ctx := context.Background()
	original := s.State().Active[0]

	require.NoError(t, a.SoftDelete(ctx, original))
	st := s.State()
	assert.Empty(t, st.Active)
	require.Len(t, st.History, 1)
	assert.Equal(t, enum.OrderStatusDeleted, st.History[0].Status)
	assert.True(t, st.TodayRevenue.IsZero(), "deleted orders are not revenue")

	require.NoError(t, a.Restore(ctx, st.History[0]))
	st = s.State()
	require.Len(t, st.Active, 1)
	assert.Empty(t, st.History)
	assert.Equal(t, original.RowIndex, st.Active[0].RowIndex)
	assert.Equal(t, original.Items, st.Active[0].Items)
}

func TestActionOnlyUsesRowIndex(t *testing.T) {
	var gotRow int
	repo := &fakeRepo{update: func(_ context.Context, rowIndex int, _ enum.Action) error {
		gotRow = rowIndex
		return nil
	}}
	s := NewSyncer(repo, zap.NewNop())
	defer s.Close()
	a := NewActions(repo, s, nil, "line-1", zap.NewNop())

	// 其他欄位不會被送出，也不會被檢查
	stale := &models.Order{RowIndex: 9, Status: enum.OrderStatusServed}
	require.NoError(t, a.Confirm(context.Background(), stale))

	assert.Equal(t, 9, gotRow)
	assert.Equal(t, []enum.Action{enum.ActionConfirm}, repo.updates)
	assert.Equal(t, 1, repo.listCount(), "success triggers one full fetch")
}

func TestActionFailureLeavesStateUntouched(t *testing.T) {
	b := newBackend(t, activeOrder("A001", 80))
	a, s := newActions(t, b)
	before := s.State()

	err := a.Confirm(context.Background(), &models.Order{RowIndex: 99})
	require.Error(t, err)

	assert.Contains(t, err.Error(), "confirm order 99: ")
	assert.Equal(t, http.StatusNotFound, order.StatusCode(err))
	var syncErr *SyncError
	assert.False(t, errors.As(err, &syncErr))

	after := s.State()
	assert.Equal(t, before.Seq, after.Seq, "no fetch after a failed action")
	assert.Equal(t, rowsOf(before.Active), rowsOf(after.Active))
}

func TestActionErrorMessages(t *testing.T) {
	boom := errors.New("boom")
	repo := &fakeRepo{update: func(context.Context, int, enum.Action) error { return boom }}
	s := NewSyncer(repo, zap.NewNop())
	defer s.Close()
	a := NewActions(repo, s, nil, "line-1", zap.NewNop())
	ctx := context.Background()
	o := &models.Order{RowIndex: 4}

	assert.EqualError(t, a.Confirm(ctx, o), "confirm order 4: boom")
	assert.EqualError(t, a.SoftDelete(ctx, o), "delete order 4: boom")
	assert.EqualError(t, a.Restore(ctx, o), "restore order 4: boom")
	assert.ErrorIs(t, a.Confirm(ctx, nil), ErrNoOrder)
	assert.Zero(t, repo.listCount())
}

func TestActionResyncFailureIsSyncError(t *testing.T) {
	repo := &fakeRepo{list: func(context.Context) ([]*models.Order, error) {
		return nil, &order.NetworkError{Op: "list", StatusCode: http.StatusBadGateway}
	}}
	s := NewSyncer(repo, zap.NewNop())
	defer s.Close()
	a := NewActions(repo, s, nil, "line-1", zap.NewNop())

	err := a.Restore(context.Background(), &models.Order{RowIndex: 5})

	var syncErr *SyncError
	require.True(t, errors.As(err, &syncErr))
	assert.Equal(t, http.StatusBadGateway, order.StatusCode(err))
	assert.Equal(t, []enum.Action{enum.ActionRestore}, repo.updates)
}
