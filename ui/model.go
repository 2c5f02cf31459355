// Package ui 是內場出餐畫面的終端機介面
package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"gofalre.io/kitchen"
	"gofalre.io/kitchen/models"
	"gofalre.io/kitchen/models/enum"
)

// Backend 是畫面需要的資料層，kitchen.Service 即符合
type Backend interface {
	State() kitchen.State
	Updates() <-chan kitchen.Update
	Refresh(ctx context.Context, reason string) bool

	Confirm(ctx context.Context, o *models.Order) error
	SoftDelete(ctx context.Context, o *models.Order) error
	Restore(ctx context.Context, o *models.Order) error
}

type (
	updateMsg         kitchen.Update
	updatesClosedMsg  struct{}
	actionFinishedMsg struct {
		action   enum.Action
		rowIndex int
		err      error
	}
)

type Model struct {
	ctx     context.Context
	backend Backend
	logger  *zap.Logger

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	styles  Styles

	state         kitchen.State
	view          View
	panelOpen     bool
	panelCursor   int
	mainCursor    int
	historyCursor int
	modal         *Modal
	pendingModal  *Modal // 確認對話框開啟時延後顯示的錯誤

	width  int
	height int
}

func New(ctx context.Context, backend Backend, logger *zap.Logger) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		backend: backend,
		logger:  logger,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		styles:  DefaultStyles(),
		state:   backend.State(),
		view:    ViewMain,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.backend.Updates()), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case updateMsg:
		m.applyState(msg.State)
		if msg.Err != nil {
			m.showError(loadErrorModal(msg.Err))
		}
		return m, waitForUpdate(m.backend.Updates())

	case updatesClosedMsg:
		return m, nil

	case actionFinishedMsg:
		return m.handleActionFinished(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// CurrentView 回傳目前顯示的頁面
func (m Model) CurrentView() View {
	return m.view
}

func (m Model) PanelOpen() bool {
	return m.panelOpen
}

func (m Model) Modal() *Modal {
	return m.modal
}

// SwitchView 切換頁面並關閉側邊選單
func (m *Model) SwitchView(v View) {
	m.view = v
	m.panelOpen = false
	for i, pv := range panelViews {
		if pv == v {
			m.panelCursor = i
		}
	}
}

// OpenModal 開啟對話框，不會改變目前頁面
func (m *Model) OpenModal(modal *Modal) {
	m.modal = modal
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.modal != nil {
		return m.handleModalKey(msg)
	}

	if key.Matches(msg, m.keys.Panel) {
		m.panelOpen = !m.panelOpen
		return m, nil
	}

	if m.panelOpen {
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.panelCursor > 0 {
				m.panelCursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.panelCursor < len(panelViews)-1 {
				m.panelCursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.Select):
			m.SwitchView(panelViews[m.panelCursor])
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.Main):
		m.SwitchView(ViewMain)
		return m, nil
	case key.Matches(msg, m.keys.Revenue):
		m.SwitchView(ViewRevenue)
		return m, nil
	case key.Matches(msg, m.keys.History):
		m.SwitchView(ViewHistory)
		return m, nil
	}

	switch m.view {
	case ViewMain:
		return m.handleMainKey(msg)
	case ViewHistory:
		return m.handleHistoryKey(msg)
	}
	return m, nil
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ModalYes):
		cmd := m.modal.OnConfirm
		m.closeModal()
		return m, cmd
	case key.Matches(msg, m.keys.ModalNo):
		cmd := m.modal.OnCancel
		m.closeModal()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.mainCursor = moveCursor(m.mainCursor, -1, len(m.state.Active))
	case key.Matches(msg, m.keys.Down):
		m.mainCursor = moveCursor(m.mainCursor, 1, len(m.state.Active))
	case key.Matches(msg, m.keys.Confirm):
		if o := m.selectedActive(); o != nil {
			return m, m.actionCmd(enum.ActionConfirm, o)
		}
	case key.Matches(msg, m.keys.Delete):
		if o := m.selectedActive(); o != nil {
			m.OpenModal(&Modal{
				Title:     titleConfirmDelete,
				Message:   messageConfirmDelete,
				OnConfirm: m.actionCmd(enum.ActionSoftDelete, o),
			})
		}
	}
	return m, nil
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.historyCursor = moveCursor(m.historyCursor, -1, len(m.state.History))
	case key.Matches(msg, m.keys.Down):
		m.historyCursor = moveCursor(m.historyCursor, 1, len(m.state.History))
	case key.Matches(msg, m.keys.Restore):
		// 已出餐的訂單沒有任何操作
		if o := m.selectedHistory(); o != nil && o.Status == enum.OrderStatusDeleted {
			return m, m.actionCmd(enum.ActionRestore, o)
		}
	}
	return m, nil
}

func (m Model) handleActionFinished(msg actionFinishedMsg) Model {
	if msg.err == nil {
		return m
	}

	// 操作已成功但重新讀取失敗，錯誤會從更新通道送來
	var syncErr *kitchen.SyncError
	if errors.As(msg.err, &syncErr) {
		return m
	}

	var title string
	switch msg.action {
	case enum.ActionSoftDelete:
		title = titleDeleteError
	case enum.ActionRestore:
		title = titleRestoreError
	default:
		title = titleConfirmError
	}
	m.showError(errorModal(title, msg.err))
	return m
}

// showError 取代目前的錯誤對話框；確認對話框開啟時先保留，關閉後再顯示
func (m *Model) showError(modal *Modal) {
	if m.modal.awaitsAnswer() {
		m.pendingModal = modal
		return
	}
	m.modal = modal
}

func (m *Model) closeModal() {
	m.modal, m.pendingModal = m.pendingModal, nil
}

func (m *Model) applyState(st kitchen.State) {
	m.state = st
	m.mainCursor = clampCursor(m.mainCursor, len(st.Active))
	m.historyCursor = clampCursor(m.historyCursor, len(st.History))
}

func (m Model) selectedActive() *models.Order {
	if m.mainCursor < 0 || m.mainCursor >= len(m.state.Active) {
		return nil
	}
	return m.state.Active[m.mainCursor]
}

func (m Model) selectedHistory() *models.Order {
	if m.historyCursor < 0 || m.historyCursor >= len(m.state.History) {
		return nil
	}
	return m.state.History[m.historyCursor]
}

func (m Model) actionCmd(action enum.Action, o *models.Order) tea.Cmd {
	ctx, backend, logger := m.ctx, m.backend, m.logger
	return func() tea.Msg {
		var err error
		switch action {
		case enum.ActionConfirm:
			err = backend.Confirm(ctx, o)
		case enum.ActionSoftDelete:
			err = backend.SoftDelete(ctx, o)
		case enum.ActionRestore:
			err = backend.Restore(ctx, o)
		}
		if err != nil {
			logger.Debug("Order action finished with error",
				zap.String("mode", string(action)),
				zap.Int("row_index", o.RowIndex),
				zap.Error(err))
		}
		return actionFinishedMsg{action: action, rowIndex: o.RowIndex, err: err}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		backend.Refresh(ctx, "manual")
		return nil
	}
}

func waitForUpdate(ch <-chan kitchen.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return updatesClosedMsg{}
		}
		return updateMsg(u)
	}
}

func moveCursor(cur, delta, n int) int {
	return clampCursor(cur+delta, n)
}

func clampCursor(cur, n int) int {
	if n == 0 || cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
