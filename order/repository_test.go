package order

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gofalre.io/kitchen/models"
	"gofalre.io/kitchen/models/enum"
	"gofalre.io/kitchen/store"
)

func newStoreServer(t *testing.T, orders ...*models.Order) (*httptest.Server, store.Repository) {
	t.Helper()
	repo := store.NewMemoryRepository()
	for _, o := range orders {
		_, err := repo.Append(context.Background(), o)
		require.NoError(t, err)
	}
	srv := httptest.NewServer(store.NewHandler(repo, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv, repo
}

func staticServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestListOrders(t *testing.T) {
	srv, _ := newStoreServer(t,
		&models.Order{OrderNumber: "A001", Items: []string{"蛋餅", "豆漿"}, TotalPrice: decimal.NewFromInt(65)},
		&models.Order{OrderNumber: "A002", Items: []string{"飯糰"}, TotalPrice: decimal.NewFromInt(40)},
	)
	repo := NewRepository(srv.URL, srv.Client(), zap.NewNop())

	orders, err := repo.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, 2, orders[0].RowIndex)
	assert.Equal(t, []string{"蛋餅", "豆漿"}, orders[0].Items)
	assert.True(t, orders[1].TotalPrice.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, enum.OrderStatusActive, orders[1].Status)
}

func TestListOrdersSpreadsheetShapes(t *testing.T) {
	srv := staticServer(t, http.StatusOK, `[
		{"rowIndex":"2","訂單編號":17,"Timestamp":"2024-05-01T03:04:05.000Z","品項":"雞腿飯, 排骨飯 ,","總價":"180","狀態":"已出餐"},
		{"rowIndex":3.0,"Timestamp":"","品項":"","總價":"","狀態":null}
	]`)
	repo := NewRepository(srv.URL, nil, zap.NewNop())

	orders, err := repo.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, 2, orders[0].RowIndex)
	assert.Equal(t, "17", orders[0].OrderNumber)
	assert.Equal(t, []string{"雞腿飯", "排骨飯"}, orders[0].Items)
	assert.Equal(t, enum.OrderStatusServed, orders[0].Status)

	assert.Equal(t, 3, orders[1].RowIndex)
	assert.Empty(t, orders[1].Items)
	assert.True(t, orders[1].TotalPrice.IsZero())
	assert.True(t, orders[1].Timestamp.IsZero())
	assert.Equal(t, enum.OrderStatusActive, orders[1].Status)
}

func TestListOrdersHTTPError(t *testing.T) {
	srv := staticServer(t, http.StatusInternalServerError, `{"error":"boom"}`)
	repo := NewRepository(srv.URL, nil, zap.NewNop())

	orders, err := repo.ListOrders(context.Background())
	require.Error(t, err)
	assert.Nil(t, orders)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusInternalServerError, netErr.StatusCode)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Contains(t, err.Error(), "HTTP error! status: 500")
}

func TestListOrdersTransportError(t *testing.T) {
	srv := staticServer(t, http.StatusOK, `[]`)
	endpoint := srv.URL
	srv.Close()

	_, err := NewRepository(endpoint, nil, zap.NewNop()).ListOrders(context.Background())

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Zero(t, netErr.StatusCode)
	assert.Zero(t, StatusCode(err))
}

func TestListOrdersParseError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>login</html>`},
		{"object instead of array", `{"result":"success"}`},
		{"missing rowIndex", `[{"訂單編號":"A001"}]`},
		{"fractional rowIndex", `[{"rowIndex":2.5}]`},
		{"null element", `[null]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := staticServer(t, http.StatusOK, tt.body)
			_, err := NewRepository(srv.URL, nil, zap.NewNop()).ListOrders(context.Background())

			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr), "got %v", err)
		})
	}
}

func TestListOrdersKeepsRowsWithBadCells(t *testing.T) {
	tests := []struct {
		name    string
		row3    string
		invalid string
	}{
		{"price with unit", `{"rowIndex":3,"訂單編號":"A3","總價":"100元","狀態":""}`, "總價"},
		{"unknown timestamp", `{"rowIndex":3,"訂單編號":"A3","Timestamp":"明天中午","總價":80}`, "Timestamp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := staticServer(t, http.StatusOK, `[
				{"rowIndex":2,"訂單編號":"A2","Timestamp":"2025/1/2 下午 3:04:05","品項":"滷肉飯","總價":45,"狀態":"已出餐"},
				`+tt.row3+`
			]`)

			orders, err := NewRepository(srv.URL, nil, zap.NewNop()).ListOrders(context.Background())
			require.NoError(t, err)
			require.Len(t, orders, 2)

			assert.True(t, orders[0].Valid())
			assert.Equal(t, 15, orders[0].Timestamp.Hour())
			assert.True(t, orders[0].TotalPrice.Equal(decimal.NewFromInt(45)))

			assert.Equal(t, 3, orders[1].RowIndex)
			assert.Equal(t, "A3", orders[1].OrderNumber)
			assert.Equal(t, []string{tt.invalid}, orders[1].Invalid)
			assert.Equal(t, enum.OrderStatusActive, orders[1].Status)

			snap := models.NewSnapshot(orders)
			assert.Len(t, snap.Active, 1)
			assert.Len(t, snap.History, 1)
			assert.Equal(t, 1, snap.Malformed)
		})
	}
}

func TestUpdateOrderStatusRoundTrip(t *testing.T) {
	srv, backend := newStoreServer(t,
		&models.Order{OrderNumber: "A001", TotalPrice: decimal.NewFromInt(100)},
		&models.Order{OrderNumber: "A002", TotalPrice: decimal.NewFromInt(50)},
	)
	repo := NewRepository(srv.URL, nil, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.UpdateOrderStatus(ctx, 2, enum.ActionConfirm))
	require.NoError(t, repo.UpdateOrderStatus(ctx, 3, enum.ActionSoftDelete))

	orders, err := backend.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusServed, orders[0].Status)
	assert.Equal(t, enum.OrderStatusDeleted, orders[1].Status)

	require.NoError(t, repo.UpdateOrderStatus(ctx, 3, enum.ActionRestore))

	fetched, err := repo.ListOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusActive, fetched[1].Status)
}

func TestUpdateOrderStatusSendsForm(t *testing.T) {
	var (
		contentType string
		mode        string
		row         string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		mode = r.PostForm.Get("mode")
		row = r.PostForm.Get("rowIndex")
		_, _ = w.Write([]byte("not even json"))
	}))
	t.Cleanup(srv.Close)

	err := NewRepository(srv.URL, nil, zap.NewNop()).UpdateOrderStatus(context.Background(), 7, enum.ActionSoftDelete)
	require.NoError(t, err)

	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
	assert.Equal(t, "softDelete", mode)
	assert.Equal(t, "7", row)
}

func TestUpdateOrderStatusHTTPError(t *testing.T) {
	srv, _ := newStoreServer(t)
	repo := NewRepository(srv.URL, nil, zap.NewNop())

	err := repo.UpdateOrderStatus(context.Background(), 99, enum.ActionConfirm)

	assert.Equal(t, http.StatusNotFound, StatusCode(err))
}
