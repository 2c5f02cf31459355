package ui

import tea "github.com/charmbracelet/bubbletea"

// Modal 是畫面上唯一的對話框；開啟時其他按鍵都不處理
type Modal struct {
	Title     string
	Message   string
	OnConfirm tea.Cmd // 可為 nil
	OnCancel  tea.Cmd // 可為 nil
}

const (
	titleConfirmDelete   = "確認刪除"
	messageConfirmDelete = "確定要將此訂單標記為已刪除嗎？此操作會將訂單從主列表移除。"

	titleLoadError    = "載入資料時發生錯誤"
	messageLoadError  = "請檢查網路連線或 Apps Script 設定。錯誤訊息: "
	messageError      = "錯誤訊息: "
	titleConfirmError = "確認訂單時發生錯誤"
	titleDeleteError  = "刪除訂單時發生錯誤"
	titleRestoreError = "還原訂單時發生錯誤"
)

func loadErrorModal(err error) *Modal {
	return &Modal{Title: titleLoadError, Message: messageLoadError + err.Error()}
}

// awaitsAnswer 表示對話框在等使用者確認某個操作
func (m *Modal) awaitsAnswer() bool {
	return m != nil && m.OnConfirm != nil
}

func errorModal(title string, err error) *Modal {
	return &Modal{Title: title, Message: messageError + err.Error()}
}
