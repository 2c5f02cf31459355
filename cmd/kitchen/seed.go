package main

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gofalre.io/kitchen/models"
	"gofalre.io/kitchen/store"
)

type menuItem struct {
	name  string
	price int64
}

var menu = []menuItem{
	{"牛肉麵", 180},
	{"滷肉飯", 45},
	{"雞腿便當", 120},
	{"水餃", 70},
	{"燙青菜", 40},
	{"貢丸湯", 35},
	{"紅茶", 25},
	{"珍珠奶茶", 60},
}

func (a *app) seedCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "在 serve 使用的訂單表中新增示範訂單",
		Long: `seed 直接寫入 server.backend 指定的訂單表（sqlite 或 postgres），
讓出餐畫面有資料可以操作。memory 後端不跨行程保存，無法 seed。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, closeStore, err := openStore(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer closeStore()

			created, err := seedOrders(cmd.Context(), repo, count, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
			if err != nil {
				return err
			}
			a.logger.Info("Seeded orders", zap.Int("count", len(created)), zap.String("backend", a.cfg.Server.Backend))
			for _, o := range created {
				fmt.Fprintf(cmd.OutOrStdout(), "row %d  %s  %s  $%s\n", o.RowIndex, o.OrderNumber, o.ItemsText(), o.TotalPrice)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 5, "新增幾筆訂單")
	return cmd
}

// seedOrders 新增 n 筆隨機訂單，總價等於品項價格加總
func seedOrders(ctx context.Context, repo store.Repository, n int, rng *rand.Rand) ([]*models.Order, error) {
	if n < 1 {
		return nil, fmt.Errorf("count must be positive, got %d", n)
	}

	created := make([]*models.Order, 0, n)
	for i := 0; i < n; i++ {
		o := models.NewOrder()
		o.OrderNumber = fmt.Sprintf("%03d", rng.IntN(1000))
		o.TotalPrice = decimal.Zero
		for j, k := 0, 1+rng.IntN(3); j < k; j++ {
			item := menu[rng.IntN(len(menu))]
			o.Items = append(o.Items, item.name)
			o.TotalPrice = o.TotalPrice.Add(decimal.NewFromInt(item.price))
		}

		c, err := repo.Append(ctx, o)
		if err != nil {
			return created, fmt.Errorf("seed order %d: %w", i+1, err)
		}
		created = append(created, c)
	}
	return created, nil
}
