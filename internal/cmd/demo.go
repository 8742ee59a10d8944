package cmd

import (
	"fmt"

	"github.com/eventpro/eventpro/internal/utils"
	"github.com/eventpro/eventpro/pkg/planner"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Print the demo event budget as CSV",
	RunE:  runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := planner.NewStore(utils.UuidGenerator{}, planner.StoreConfig{
		HistoryLimit:    cfg.Planner.HistoryLimit,
		DefaultCategory: cfg.Planner.DefaultCategory,
	})
	event, err := planner.SeedDemo(store)
	if err != nil {
		return err
	}
	csv, err := planner.NewCsvRenderer().RenderBudget(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), csv)
	return err
}
