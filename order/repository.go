package order

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"gofalre.io/kitchen/models"
	"gofalre.io/kitchen/models/enum"
)

// 錯誤回應只保留前段內容寫入日誌
const maxErrorBody = 512

var _ Repository = (*repository)(nil)

// Repository 是遠端訂單試算表的存取介面
type Repository interface {
	// ListOrders 讀取整張訂單表，沒有分頁
	ListOrders(ctx context.Context) ([]*models.Order, error)

	// UpdateOrderStatus 要求遠端以 rowIndex 變更訂單狀態，不帶冪等鍵
	UpdateOrderStatus(ctx context.Context, rowIndex int, action enum.Action) error
}

type repository struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

func NewRepository(endpoint string, client *http.Client, logger *zap.Logger) Repository {
	if client == nil {
		client = http.DefaultClient
	}
	return &repository{
		endpoint: endpoint,
		client:   client,
		logger:   logger,
	}
}

func (r *repository) ListOrders(ctx context.Context) ([]*models.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to fetch orders", zap.Error(err))
		return nil, &NetworkError{Op: "list", Err: err}
	}
	defer resp.Body.Close()

	if err = r.checkStatus(resp, "list"); err != nil {
		return nil, err
	}

	var orders []*models.Order
	if err = json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		r.logger.Error("Failed to decode orders", zap.Error(err))
		return nil, &ParseError{Err: err}
	}

	// JSON 陣列中的 null 元素沒有 rowIndex，無法操作
	for i, o := range orders {
		if o == nil {
			err = fmt.Errorf("element %d is null", i)
			r.logger.Error("Failed to decode orders", zap.Error(err))
			return nil, &ParseError{Err: err}
		}
		if !o.Valid() {
			r.logger.Warn("Order has unparseable cells",
				zap.Int("row_index", o.RowIndex),
				zap.Strings("columns", o.Invalid))
		}
	}

	r.logger.Debug("Fetched orders", zap.Int("count", len(orders)))
	return orders, nil
}

func (r *repository) UpdateOrderStatus(ctx context.Context, rowIndex int, action enum.Action) error {
	form := url.Values{}
	form.Set("mode", string(action))
	form.Set("rowIndex", strconv.Itoa(rowIndex))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to update order status",
			zap.String("mode", string(action)),
			zap.Int("row_index", rowIndex),
			zap.Error(err))
		return &NetworkError{Op: string(action), Err: err}
	}
	defer resp.Body.Close()

	if err = r.checkStatus(resp, string(action)); err != nil {
		return err
	}

	// 回應內容沒有固定格式，只看狀態碼
	_, _ = io.Copy(io.Discard, resp.Body)

	r.logger.Info("Order status updated",
		zap.String("mode", string(action)),
		zap.Int("row_index", rowIndex))
	return nil
}

func (r *repository) checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	r.logger.Error("Order store returned error status",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", body))
	return &NetworkError{Op: op, StatusCode: resp.StatusCode}
}
