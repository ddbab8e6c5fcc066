package cmd

import (
	"github.com/spf13/cobra"

	"github.com/materna-cli/materna/internal/tui"
)

// dashboardCmd represents the dashboard command.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "ui"},
	Short:   "Open the interactive dashboard",
	Long: `Open a live terminal dashboard showing the pregnancy week, hydration
progress, upcoming reminders, and countdowns.

Keys: w log water, r refresh, q quit.`,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

// runDashboard handles the dashboard command.
func runDashboard(cmd *cobra.Command, args []string) error {
	return tui.Run(tui.DashboardConfig{
		ReminderRepo: ctx.ReminderRepo,
		WaterRepo:    ctx.WaterRepo,
		EventRepo:    ctx.EventRepo,
		ProfileRepo:  ctx.ProfileRepo,
		SettingsRepo: ctx.SettingsRepo,
	})
}
