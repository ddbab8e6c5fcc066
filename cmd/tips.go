package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/pregnancy"
	"github.com/materna-cli/materna/internal/tips"
)

// tipsCmd represents the tips command.
var tipsCmd = &cobra.Command{
	Use:     "tips [command]",
	Aliases: []string{"tip"},
	Short:   "Daily pregnancy tips",
	Long: `Show the daily pregnancy tip. Tips come from the configured content
provider when one is set, with built-in templates as fallback.

Examples:
  materna tips
  materna tips refresh`,
	RunE: runTipsToday,
}

// tipsTodayCmd shows today's tip.
var tipsTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's tip",
	RunE:  runTipsToday,
}

// tipsRefreshCmd clears the cache and fetches a fresh tip.
var tipsRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Clear the tip cache and fetch fresh content",
	RunE:  runTipsRefresh,
}

func init() {
	tipsCmd.AddCommand(tipsTodayCmd)
	tipsCmd.AddCommand(tipsRefreshCmd)

	rootCmd.AddCommand(tipsCmd)
}

// currentWeek returns the pregnancy week, or 0 when tracking is off.
func currentWeek() int {
	profile, err := ctx.ProfileRepo.Get()
	if err != nil || !profile.Enabled || !profile.HasLMP() {
		return 0
	}
	week, _ := pregnancy.WeekAt(profile.LastPeriodDate, time.Now())
	return week
}

// runTipsToday handles showing today's tip.
func runTipsToday(cmd *cobra.Command, args []string) error {
	service := tips.NewService(ctx.DB)
	week := currentWeek()

	tip, err := service.ReminderContent(context.Background(), model.KindPregnancyTip, week)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"week":      week,
			"tip":       tip,
			"generated": service.HasProviders(),
		})
	}

	cli := ctx.CLIFormatter()
	cli.Title("Today's Tip")
	ctx.Formatter.Println(tip)

	if !service.HasProviders() {
		ctx.Formatter.Println("")
		cli.Muted("built-in tip; set MATERNA_TIPS_API_KEY for generated content")
	}

	return nil
}

// runTipsRefresh handles refreshing the tip cache.
func runTipsRefresh(cmd *cobra.Command, args []string) error {
	service := tips.NewService(ctx.DB)

	if err := service.PurgeCache(); err != nil {
		return err
	}

	if !ctx.IsJSON() {
		ctx.CLIFormatter().Success("Cache cleared")
		ctx.Formatter.Println("")
	}

	return runTipsToday(cmd, args)
}
