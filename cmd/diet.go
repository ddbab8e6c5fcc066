package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/output"
	"github.com/materna-cli/materna/internal/parser"
	"github.com/materna-cli/materna/internal/pregnancy"
	"github.com/materna-cli/materna/internal/tips"
)

// Diet command flags.
var (
	dietShowDay    string
	dietAnalyzeDay string
)

// dietCmd represents the diet command.
var dietCmd = &cobra.Command{
	Use:   "diet [command]",
	Short: "Log meals and get diet suggestions",
	Long: `Log meals per day and generate diet analysis through the configured
content provider.

Examples:
  materna diet log breakfast oatmeal banana yogurt
  materna diet log snack almonds
  materna diet show
  materna diet analyze`,
	RunE: runDietShow,
}

// dietLogCmd logs a meal.
var dietLogCmd = &cobra.Command{
	Use:   "log MEAL FOODS...",
	Short: "Log a meal",
	Long: `Log a meal for today. MEAL is breakfast, lunch, dinner, or snack.

Examples:
  materna diet log breakfast oatmeal "orange juice"
  materna diet log lunch "lentil soup" rice salad`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDietLog,
}

// dietShowCmd shows a day's meals.
var dietShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show logged meals",
	RunE:  runDietShow,
}

// dietAnalyzeCmd analyzes a day's diet.
var dietAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the day's diet",
	Long: `Generate a diet analysis for the day's logged meals using the
configured content provider. The result is cached per day.`,
	RunE: runDietAnalyze,
}

func init() {
	dietShowCmd.Flags().StringVar(&dietShowDay, "day", "",
		"Day to show (defaults to today)")
	dietAnalyzeCmd.Flags().StringVar(&dietAnalyzeDay, "day", "",
		"Day to analyze (defaults to today)")

	dietCmd.AddCommand(dietLogCmd)
	dietCmd.AddCommand(dietShowCmd)
	dietCmd.AddCommand(dietAnalyzeCmd)

	rootCmd.AddCommand(dietCmd)
}

// runDietLog handles logging a meal.
func runDietLog(cmd *cobra.Command, args []string) error {
	mealType := model.MealType(strings.ToLower(args[0]))
	if !model.IsValidMealType(mealType) {
		return fmt.Errorf("invalid meal %q: expected breakfast, lunch, dinner, or snack", args[0])
	}

	foods := args[1:]
	meal := model.Meal{
		Type:  mealType,
		Time:  time.Now(),
		Foods: foods,
	}

	rec, err := ctx.DietRepo.AddMeal(time.Now(), meal)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(rec)
	}

	ctx.CLIFormatter().Success(fmt.Sprintf("Logged %s: %s", mealType, strings.Join(foods, ", ")))
	return nil
}

// runDietShow handles showing a day's meals.
func runDietShow(cmd *cobra.Command, args []string) error {
	day := time.Now()
	if dietShowDay != "" {
		parsed, err := parser.ParseDate(dietShowDay)
		if err != nil {
			return err
		}
		day = parsed
	}

	rec, err := ctx.DietRepo.GetDay(day)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(rec)
	}

	cli := ctx.CLIFormatter()
	cli.Title("Meals " + output.FormatDate(day))

	if len(rec.Meals) == 0 {
		ctx.Formatter.Println("No meals logged.")
		ctx.Formatter.Println("")
		ctx.Formatter.Println("Log one with: materna diet log breakfast oatmeal")
		return nil
	}

	for _, meal := range rec.Meals {
		ctx.Formatter.Printf("  %s  %-10s %s\n",
			output.FormatTimeOnly(meal.Time), meal.Type, strings.Join(meal.Foods, ", "))
	}

	if rec.Analysis != "" {
		ctx.Formatter.Println("")
		cli.Title("Analysis")
		ctx.Formatter.Println(rec.Analysis)
		cli.Muted(fmt.Sprintf("analyzed %s", output.FormatTime(rec.AnalyzedAt)))
	}

	return nil
}

// runDietAnalyze handles analyzing a day's diet.
func runDietAnalyze(cmd *cobra.Command, args []string) error {
	day := time.Now()
	if dietAnalyzeDay != "" {
		parsed, err := parser.ParseDate(dietAnalyzeDay)
		if err != nil {
			return err
		}
		day = parsed
	}

	service := tips.NewService(ctx.DB)
	if !service.HasProviders() {
		return fmt.Errorf("no content provider configured; set MATERNA_TIPS_API_KEY or add [[tips.providers]] to the config file")
	}

	week := 0
	if profile, err := ctx.ProfileRepo.Get(); err == nil && profile.Enabled && profile.HasLMP() {
		week, _ = pregnancy.WeekAt(profile.LastPeriodDate, day)
	}

	if !ctx.IsJSON() {
		ctx.Formatter.Println("Analyzing...")
	}

	analysis, err := service.AnalyzeDiet(context.Background(), day, week)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"date":     day.Format("2006-01-02"),
			"analysis": analysis,
		})
	}

	ctx.Formatter.Println("")
	ctx.Formatter.Println(analysis)
	return nil
}
