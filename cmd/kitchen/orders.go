package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"gofalre.io/kitchen"
	"gofalre.io/kitchen/models"
)

func (a *app) ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "不開畫面直接查詢或操作訂單",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "列出當前訂單與歷史紀錄",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			syncer := kitchen.NewSyncer(a.newRepository(), a.logger)
			defer syncer.Close()

			snap, err := syncer.Sync(cmd.Context())
			if err != nil {
				return err
			}
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	})

	cmd.AddCommand(
		a.orderActionCmd("confirm", "確認出餐", (*kitchen.Actions).Confirm),
		a.orderActionCmd("delete", "刪除訂單（可從歷史紀錄還原）", (*kitchen.Actions).SoftDelete),
		a.orderActionCmd("restore", "還原已刪除的訂單", (*kitchen.Actions).Restore),
	)
	return cmd
}

type orderAction func(*kitchen.Actions, context.Context, *models.Order) error

func (a *app) orderActionCmd(use, short string, do orderAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <rowIndex>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("rowIndex must be an integer: %q", args[0])
			}

			nc := a.connectNATS()
			if nc != nil {
				defer nc.Close()
			}

			repo := a.newRepository()
			syncer := kitchen.NewSyncer(repo, a.logger)
			defer syncer.Close()
			actions := kitchen.NewActions(repo, syncer, kitchen.NewEventManager(nc, a.cfg.Terminal.Name, a.logger), a.cfg.Terminal.Name, a.logger)

			err = do(actions, cmd.Context(), &models.Order{RowIndex: row})
			var syncErr *kitchen.SyncError
			switch {
			case errors.As(err, &syncErr):
				fmt.Fprintf(cmd.OutOrStdout(), "row %d: %s ok (refresh failed: %v)\n", row, use, syncErr.Err)
				return nil
			case err != nil:
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "row %d: %s ok\n", row, use)
			return nil
		},
	}
}

func printSnapshot(w io.Writer, snap models.Snapshot) {
	fmt.Fprintf(w, "今日: $%s\n\n", snap.TodayRevenue.StringFixed(0))
	fmt.Fprintln(w, "當前訂單")
	fmt.Fprintln(w, ordersTable(snap.Active))
	fmt.Fprintln(w, "歷史紀錄")
	fmt.Fprintln(w, ordersTable(snap.History))
	if snap.Skipped > 0 {
		fmt.Fprintf(w, "%d 筆訂單狀態無法辨識，未列出\n", snap.Skipped)
	}
	if snap.Malformed > 0 {
		fmt.Fprintf(w, "%d 筆訂單有無法解析的欄位，以 0 顯示\n", snap.Malformed)
	}
}

func ordersTable(orders []*models.Order) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("row", "訂單編號", "時間", "品項", "總價", "狀態")

	for _, o := range orders {
		ts := "-"
		if !o.Timestamp.IsZero() {
			ts = o.Timestamp.Local().Format("15:04:05")
		}
		t.Row(
			strconv.Itoa(o.RowIndex),
			o.OrderNumber,
			ts,
			o.ItemsText(),
			o.TotalPrice.String(),
			o.Status.WireValue(),
		)
	}
	return t.Render()
}
