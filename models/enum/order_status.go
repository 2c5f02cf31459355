package enum

// OrderStatus 表示訂單的狀態，試算表上以「狀態」欄的文字表示
type OrderStatus int

const (
	OrderStatusActive  OrderStatus = iota // 狀態欄空白，等待出餐
	OrderStatusServed                     // 已出餐
	OrderStatusDeleted                    // 已刪除（可還原）
	OrderStatusUnknown                    // 試算表上出現無法辨識的文字
)

// 試算表「狀態」欄的實際文字
const (
	wireServed  = "已出餐"
	wireDeleted = "已刪除"
)

// ParseOrderStatus 將試算表上的文字轉成 OrderStatus，空字串視為 Active。
// 文字必須完全相同，只有空白或前後帶空白都是 Unknown。
func ParseOrderStatus(raw string) OrderStatus {
	switch raw {
	case "":
		return OrderStatusActive
	case wireServed:
		return OrderStatusServed
	case wireDeleted:
		return OrderStatusDeleted
	default:
		return OrderStatusUnknown
	}
}

// WireValue 回傳寫回試算表時使用的文字
func (s OrderStatus) WireValue() string {
	switch s {
	case OrderStatusServed:
		return wireServed
	case OrderStatusDeleted:
		return wireDeleted
	default:
		return ""
	}
}

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusActive:
		return "active"
	case OrderStatusServed:
		return "served"
	case OrderStatusDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// IsHistorical 已出餐與已刪除的訂單都屬於歷史紀錄
func (s OrderStatus) IsHistorical() bool {
	return s == OrderStatusServed || s == OrderStatusDeleted
}
