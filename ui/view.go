package ui

// View 是目前顯示的頁面，只能透過 SwitchView 切換
type View int

const (
	ViewMain View = iota
	ViewRevenue
	ViewHistory
)

// panelViews 是側邊選單的順序
var panelViews = []View{ViewMain, ViewRevenue, ViewHistory}

func (v View) Title() string {
	switch v {
	case ViewRevenue:
		return "營業額報告"
	case ViewHistory:
		return "歷史紀錄"
	default:
		return "當前訂單"
	}
}

func (v View) String() string {
	switch v {
	case ViewRevenue:
		return "revenue"
	case ViewHistory:
		return "history"
	default:
		return "main"
	}
}
