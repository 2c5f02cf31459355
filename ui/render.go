package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"gofalre.io/kitchen/models"
	"gofalre.io/kitchen/models/enum"
)

const (
	appTitle     = "內場出餐管理"
	loadingText  = "載入中..."
	emptyMain    = "目前沒有新訂單"
	emptyHistory = "目前沒有歷史訂單"
	timeLayout   = "15:04:05"
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	var body string
	switch m.view {
	case ViewRevenue:
		body = m.renderRevenue()
	case ViewHistory:
		body = m.renderHistory()
	default:
		body = m.renderMain()
	}
	if m.panelOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderPanel(), body)
	}
	b.WriteString(body)

	if m.modal != nil {
		b.WriteString("\n")
		b.WriteString(m.renderModal())
	}

	b.WriteString(m.styles.Help.Render(m.help.View(m.helpKeys())))
	return b.String()
}

func (m Model) helpKeys() help.KeyMap {
	switch {
	case m.modal != nil:
		return modalKeys{m.keys}
	case m.panelOpen:
		return panelKeys{m.keys}
	case m.view == ViewHistory:
		return historyKeys{m.keys}
	case m.view == ViewRevenue:
		return revenueKeys{m.keys}
	default:
		return mainKeys{m.keys}
	}
}

func (m Model) renderHeader() string {
	parts := []string{
		m.styles.Title.Render(appTitle),
		m.styles.Revenue.Render("今日: $" + m.state.TodayRevenue.StringFixed(0)),
	}
	if m.state.Loading {
		parts = append(parts, m.styles.Loading.Render(m.spinner.View()+loadingText))
	}
	return m.styles.Header.Render(strings.Join(parts, "   "))
}

func (m Model) renderPanel() string {
	items := make([]string, 0, len(panelViews))
	for i, v := range panelViews {
		label := fmt.Sprintf("%d %s", i+1, v.Title())
		if i == m.panelCursor {
			items = append(items, m.styles.PanelFocus.Render(label))
		} else {
			items = append(items, m.styles.PanelItem.Render(label))
		}
	}
	return m.styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.styles.ViewTitle.Render(ViewMain.Title()))
	b.WriteString("\n")

	if len(m.state.Active) == 0 {
		if !m.state.Loading {
			b.WriteString(m.styles.Empty.Render(emptyMain))
			b.WriteString("\n")
		}
		return b.String()
	}

	for i, o := range m.state.Active {
		actions := m.styles.Action.Render("[c] 確認出餐  [d] 刪除訂單")
		b.WriteString(m.renderCard(o, i == m.mainCursor, actions))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(m.styles.ViewTitle.Render(ViewHistory.Title()))
	b.WriteString("\n")

	if len(m.state.History) == 0 {
		if !m.state.Loading {
			b.WriteString(m.styles.Empty.Render(emptyHistory))
			b.WriteString("\n")
		}
		return b.String()
	}

	for i, o := range m.state.History {
		var badge string
		if o.Status == enum.OrderStatusDeleted {
			badge = m.styles.Deleted.Render("已刪除") + "  " + m.styles.Action.Render("[u] 還原訂單")
		} else {
			badge = m.styles.Served.Render("已出餐")
		}
		b.WriteString(m.renderCard(o, i == m.historyCursor, badge))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderRevenue() string {
	var b strings.Builder
	b.WriteString(m.styles.ViewTitle.Render(ViewRevenue.Title()))
	b.WriteString("\n")
	b.WriteString(m.styles.Meta.Render("本月累積營業額 (僅統計已出餐訂單)"))
	b.WriteString("\n")
	b.WriteString(m.styles.Stat.Render("資料無法取得"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Title.Render("每日營業額折線圖"))
	b.WriteString("\n")
	b.WriteString(m.styles.Empty.Render("圖表資料無法取得"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderCard(o *models.Order, selected bool, actions string) string {
	struck := o.Status == enum.OrderStatusDeleted
	text := func(s string) string {
		if struck {
			return m.styles.Struck.Render(s)
		}
		return s
	}

	lines := []string{
		text("訂單編號: "+o.OrderNumber) + "  " + m.styles.Price.Render("$"+o.TotalPrice.String()),
		m.styles.Meta.Render("時間: " + formatTime(o)),
		text("品項:"),
	}
	for _, item := range o.Items {
		lines = append(lines, text("  • "+item))
	}
	lines = append(lines, actions)

	style := m.styles.Card
	if selected {
		style = m.styles.Selected
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderModal() string {
	body := m.styles.ModalTitle.Render(m.modal.Title) + "\n" + m.modal.Message
	return m.styles.Modal.Render(body) + "\n"
}

func formatTime(o *models.Order) string {
	if o.Timestamp.IsZero() {
		return "-"
	}
	return o.Timestamp.Local().Format(timeLayout)
}
