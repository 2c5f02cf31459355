package models

import (
	"time"

	"github.com/shopspring/decimal"

	"gofalre.io/kitchen/models/enum"
)

// Snapshot 是一次完整讀取後的畫面資料
type Snapshot struct {
	Active       []*Order        // 狀態空白的當前訂單，保持試算表順序
	History      []*Order        // 已出餐與已刪除，順序與試算表相反
	TodayRevenue decimal.Decimal // 已出餐訂單的總價合計
	Skipped      int             // 狀態無法辨識而未顯示的筆數
	Malformed    int             // 有儲存格無法解析、以零值顯示的筆數
	Seq          uint64
	FetchedAt    time.Time
}

// NewSnapshot 將訂單分成當前與歷史兩組並計算營業額。
//
// 試算表是依建立時間附加，反轉歷史只是近似「最近變動在前」，並非依實際變動時間排序。
// 營業額目前不依日期過濾，所有已出餐訂單都會計入。
func NewSnapshot(orders []*Order) Snapshot {
	snap := Snapshot{
		Active:       make([]*Order, 0, len(orders)),
		History:      make([]*Order, 0, len(orders)),
		TodayRevenue: decimal.Zero,
	}

	for _, o := range orders {
		if !o.Valid() {
			snap.Malformed++
		}
		switch {
		case o.Status == enum.OrderStatusActive:
			snap.Active = append(snap.Active, o)
		case o.Status.IsHistorical():
			snap.History = append(snap.History, o)
		default:
			snap.Skipped++
		}
		if o.Status == enum.OrderStatusServed {
			snap.TodayRevenue = snap.TodayRevenue.Add(o.TotalPrice)
		}
	}

	for i, j := 0, len(snap.History)-1; i < j; i, j = i+1, j-1 {
		snap.History[i], snap.History[j] = snap.History[j], snap.History[i]
	}

	return snap
}
