package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gofalre.io/kitchen/models/enum"
)

// 試算表匯出的時間可能是 ISO 字串，也可能是試算表本身的顯示格式
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006/01/02 15:04:05",
	"2006-01-02 15:04:05",
	"2006/1/2 15:04:05",
	"2006/1/2 PM 3:04:05", // 試算表 zh-TW 顯示格式，上午/下午 先換成 AM/PM
}

var meridiemReplacer = strings.NewReplacer("上午", "AM", "下午", "PM")

// Order 代表試算表上的一列訂單
//
// JSON 編碼沿用試算表的中文欄位，見 MarshalJSON / UnmarshalJSON
type Order struct {
	RowIndex    int
	OrderNumber string
	Timestamp   time.Time
	Items       []string
	TotalPrice  decimal.Decimal
	Status      enum.OrderStatus

	// Invalid 列出無法解析、已改用零值的欄位
	Invalid []string
}

const (
	columnOrderNumber = "訂單編號"
	columnTimestamp   = "Timestamp"
	columnItems       = "品項"
	columnTotalPrice  = "總價"
)

// wireOrder 保留原始 JSON，試算表的欄位可能是數字也可能是字串
type wireOrder struct {
	RowIndex    json.RawMessage `json:"rowIndex"`
	OrderNumber json.RawMessage `json:"訂單編號"`
	Timestamp   json.RawMessage `json:"Timestamp"`
	Items       json.RawMessage `json:"品項"`
	TotalPrice  json.RawMessage `json:"總價"`
	Status      json.RawMessage `json:"狀態"`
}

type orderJSON struct {
	Timestamp   string      `json:"Timestamp"`
	OrderNumber string      `json:"訂單編號"`
	Items       string      `json:"品項"`
	TotalPrice  json.Number `json:"總價"`
	Status      string      `json:"狀態"`
	RowIndex    int         `json:"rowIndex"`
}

func NewOrder() *Order {
	return new(Order)
}

// UnmarshalJSON 解析遠端回傳的中文欄位。
//
// 只有 rowIndex 缺少或不是整數時回傳錯誤；其他儲存格無法解析時以零值代替，
// 欄位名稱記錄在 Invalid。
func (o *Order) UnmarshalJSON(data []byte) error {
	var w wireOrder
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	rowText, err := rawText(w.RowIndex)
	if err != nil {
		return fmt.Errorf("rowIndex: %w", err)
	}
	if rowText == "" {
		return errors.New("rowIndex: missing")
	}
	row, err := parseRowIndex(rowText)
	if err != nil {
		return fmt.Errorf("rowIndex: %w", err)
	}

	*o = Order{RowIndex: row, TotalPrice: decimal.Zero}

	if o.OrderNumber, err = rawText(w.OrderNumber); err != nil {
		o.Invalid = append(o.Invalid, columnOrderNumber)
	}

	if tsText, err := rawText(w.Timestamp); err != nil {
		o.Invalid = append(o.Invalid, columnTimestamp)
	} else if o.Timestamp, err = ParseTimestamp(tsText); err != nil {
		o.Invalid = append(o.Invalid, columnTimestamp)
	}

	if itemsText, err := rawText(w.Items); err != nil {
		o.Invalid = append(o.Invalid, columnItems)
	} else {
		o.Items = SplitItems(itemsText)
	}

	if priceText, err := rawText(w.TotalPrice); err != nil {
		o.Invalid = append(o.Invalid, columnTotalPrice)
	} else if priceText != "" {
		if o.TotalPrice, err = decimal.NewFromString(priceText); err != nil {
			o.TotalPrice = decimal.Zero
			o.Invalid = append(o.Invalid, columnTotalPrice)
		}
	}

	// 狀態必須與試算表文字完全相同，前後有空白也視為無法辨識
	o.Status = enum.OrderStatusUnknown
	if raw := bytes.TrimSpace(w.Status); len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		o.Status = enum.OrderStatusActive
	} else if raw[0] == '"' {
		var statusText string
		if err = json.Unmarshal(raw, &statusText); err == nil {
			o.Status = enum.ParseOrderStatus(statusText)
		}
	}
	return nil
}

// MarshalJSON 以試算表的欄位格式輸出
func (o Order) MarshalJSON() ([]byte, error) {
	var ts string
	if !o.Timestamp.IsZero() {
		ts = o.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	}
	return json.Marshal(orderJSON{
		Timestamp:   ts,
		OrderNumber: o.OrderNumber,
		Items:       o.ItemsText(),
		TotalPrice:  json.Number(o.TotalPrice.String()),
		Status:      o.Status.WireValue(),
		RowIndex:    o.RowIndex,
	})
}

// ItemsText 回傳以逗號分隔的品項，與試算表儲存格相同
func (o *Order) ItemsText() string {
	return strings.Join(o.Items, ",")
}

// Valid 回傳所有儲存格是否都能解析
func (o *Order) Valid() bool {
	return len(o.Invalid) == 0
}

// AllowAction 檢查訂單目前的狀態是否允許此操作
func (o *Order) AllowAction(a enum.Action) bool {
	return enum.AllowTransition(o.Status, a)
}

// SplitItems 將「品項」欄拆成清單，去除空白與空項目
func SplitItems(s string) []string {
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// ParseTimestamp 解析 Timestamp 欄，空字串回傳零值
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	s = meridiemReplacer.Replace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// rawText 將字串或數字欄位統一轉成文字，null 與缺少的欄位回傳空字串
func rawText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", raw)
	}
	return n.String(), nil
}

func parseRowIndex(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}
