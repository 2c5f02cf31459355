package main

import (
	"context"
	"fmt"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gofalre.io/kitchen"
	"gofalre.io/kitchen/driver"
	"gofalre.io/kitchen/order"
	"gofalre.io/kitchen/ui"
)

func (a *app) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "啟動出餐畫面（預設）",
		Args:  cobra.NoArgs,
		RunE:  a.runDashboard,
	}
}

func (a *app) runDashboard(cmd *cobra.Command, _ []string) error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	nc := a.connectNATS()
	if nc != nil {
		defer nc.Close()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	svc := a.newService(nc)
	// 先取消 context，讓進行中的請求結束後再關閉 worker
	defer func() {
		cancel()
		svc.Close()
	}()

	if err := svc.Start(ctx); err != nil {
		a.logger.Warn("Change notifications disabled", zap.Error(err))
	}

	a.logger.Info("Dashboard started",
		zap.String("endpoint", a.cfg.Store.Endpoint),
		zap.String("terminal", a.cfg.Terminal.Name))

	p := tea.NewProgram(ui.New(ctx, svc, a.logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

func (a *app) newRepository() order.Repository {
	client := &http.Client{Timeout: a.cfg.GetStoreTimeout()}
	return order.NewRepository(a.cfg.Store.Endpoint, client, a.logger)
}

func (a *app) newService(nc *nats.Conn) kitchen.Service {
	return kitchen.NewService(a.newRepository(), nc, kitchen.Options{
		Terminal:     a.cfg.Terminal.Name,
		PollInterval: a.cfg.GetPollInterval(),
		SyncTimeout:  a.cfg.GetStoreTimeout(),
		Workers:      a.cfg.Sync.Workers,
	}, a.logger)
}

// connectNATS 沒有設定或連線失敗時回傳 nil，畫面只靠輪詢
func (a *app) connectNATS() *nats.Conn {
	if a.cfg.NATS.URL == "" {
		return nil
	}
	nc, err := driver.ConnectNATS(a.cfg.NATS.URL, a.cfg.Terminal.Name, a.logger)
	if err != nil {
		a.logger.Warn("NATS unavailable, falling back to polling only", zap.Error(err))
		return nil
	}
	return nc
}
