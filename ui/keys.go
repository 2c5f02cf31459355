package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Confirm key.Binding
	Delete  key.Binding
	Restore key.Binding
	Panel   key.Binding
	Main    key.Binding
	Revenue key.Binding
	History key.Binding
	Refresh key.Binding
	Quit    key.Binding

	ModalYes key.Binding
	ModalNo  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "上一筆"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "下一筆"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "選擇"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("c", "enter"),
			key.WithHelp("c", "確認出餐"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "刪除訂單"),
		),
		Restore: key.NewBinding(
			key.WithKeys("u", "enter"),
			key.WithHelp("u", "還原訂單"),
		),
		Panel: key.NewBinding(
			key.WithKeys("m", "tab"),
			key.WithHelp("m", "選單"),
		),
		Main: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", ViewMain.Title()),
		),
		Revenue: key.NewBinding(
			key.WithKeys("2", "$"),
			key.WithHelp("2/$", ViewRevenue.Title()),
		),
		History: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", ViewHistory.Title()),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "重新整理"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "離開"),
		),
		ModalYes: key.NewBinding(
			key.WithKeys("enter", "y"),
			key.WithHelp("enter/y", "確定"),
		),
		ModalNo: key.NewBinding(
			key.WithKeys("esc", "n"),
			key.WithHelp("esc/n", "取消"),
		),
	}
}

// mainKeys 是主畫面底部的說明
type mainKeys struct{ keyMap }

func (k mainKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Confirm, k.Delete, k.Panel, k.Refresh, k.Quit}
}

func (k mainKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Main, k.Revenue, k.History}}
}

type historyKeys struct{ keyMap }

func (k historyKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Restore, k.Panel, k.Refresh, k.Quit}
}

func (k historyKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Main, k.Revenue, k.History}}
}

type revenueKeys struct{ keyMap }

func (k revenueKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Main, k.History, k.Panel, k.Refresh, k.Quit}
}

func (k revenueKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type panelKeys struct{ keyMap }

func (k panelKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Panel, k.Quit}
}

func (k panelKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type modalKeys struct{ keyMap }

func (k modalKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.ModalYes, k.ModalNo}
}

func (k modalKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
