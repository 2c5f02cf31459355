package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gofalre.io/kitchen/config"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "設定檔工具",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "以預設值寫出設定檔（--config 指定路徑）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", a.configPath)
			}
			if err := config.DefaultConfig().Save(a.configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", a.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "覆寫已存在的設定檔")

	cmd.AddCommand(initCmd)
	return cmd
}
