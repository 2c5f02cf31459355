package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gofalre.io/kitchen/config"
	"gofalre.io/kitchen/logging"
)

// app 保存所有子命令共用的設定與 logger，由 PersistentPreRunE 建立
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "kitchen",
		Short: "內場出餐管理",
		Long: `kitchen 是廚房內場的出餐畫面。

它定期讀取試算表上的訂單，讓內場人員確認出餐、刪除或還原訂單。
serve 子命令提供與試算表 Web App 相同介面的訂單表伺服器，可用於開發與測試。

不帶子命令時啟動出餐畫面。`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.runDashboard,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "kitchen.yaml", "設定檔路徑")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "輸出 debug 日誌")

	root.AddCommand(
		a.dashboardCmd(),
		a.serveCmd(),
		a.ordersCmd(),
		a.seedCmd(),
		a.configCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}

	// 出餐畫面佔用終端機，日誌只寫檔；其他子命令寫到 stderr
	logCfg := cfg.Logging
	if !isDashboard(cmd) {
		logCfg.File = ""
	}

	logger, err := logging.New(logCfg)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func isDashboard(cmd *cobra.Command) bool {
	return cmd.Name() == "dashboard" || !cmd.HasParent()
}
