package enum

import "fmt"

// Action 表示對訂單狀態的操作，對應遠端 POST 表單中的 mode
type Action string

const (
	ActionConfirm    Action = "confirm"    // 確認出餐
	ActionSoftDelete Action = "softDelete" // 刪除訂單（軟刪除）
	ActionRestore    Action = "restore"    // 還原已刪除的訂單
)

// ParseAction 解析表單上的 mode 欄位
func ParseAction(mode string) (Action, error) {
	switch a := Action(mode); a {
	case ActionConfirm, ActionSoftDelete, ActionRestore:
		return a, nil
	default:
		return "", fmt.Errorf("unknown action mode %q", mode)
	}
}

// From 回傳操作前訂單必須處於的狀態
func (a Action) From() OrderStatus {
	switch a {
	case ActionConfirm, ActionSoftDelete:
		return OrderStatusActive
	case ActionRestore:
		return OrderStatusDeleted
	default:
		return OrderStatusUnknown
	}
}

// To 回傳操作完成後的狀態
func (a Action) To() OrderStatus {
	switch a {
	case ActionConfirm:
		return OrderStatusServed
	case ActionSoftDelete:
		return OrderStatusDeleted
	case ActionRestore:
		return OrderStatusActive
	default:
		return OrderStatusUnknown
	}
}

// AllowTransition 檢查目前狀態是否允許執行該操作；已出餐沒有任何出路
func AllowTransition(current OrderStatus, a Action) bool {
	from := a.From()
	return from != OrderStatusUnknown && current == from
}
