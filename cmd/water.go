package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/output"
	"github.com/materna-cli/materna/internal/parser"
)

// Water command flags.
var (
	waterLogFlagNote string
	waterStatusDay   string
)

// defaultGlassML is logged when no amount is given.
const defaultGlassML = 250

// waterCmd represents the water command.
var waterCmd = &cobra.Command{
	Use:     "water [command]",
	Aliases: []string{"w"},
	Short:   "Track water intake",
	Long: `Log water intake and check progress against the daily target.

Examples:
  materna water log          # Log a default glass (250ml)
  materna water log 330
  materna water status
  materna water undo`,
	RunE: runWaterStatus,
}

// waterLogCmd logs a drink.
var waterLogCmd = &cobra.Command{
	Use:   "log [AMOUNT_ML]",
	Short: "Log a drink",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWaterLog,
}

// waterStatusCmd shows today's progress.
var waterStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's hydration progress",
	RunE:  runWaterStatus,
}

// waterUndoCmd removes the last logged drink.
var waterUndoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Remove the last logged drink",
	RunE:  runWaterUndo,
}

func init() {
	waterLogCmd.Flags().StringVar(&waterLogFlagNote, "note", "",
		"Optional note for the record")
	waterStatusCmd.Flags().StringVar(&waterStatusDay, "day", "",
		"Day to show (e.g. 2026-08-20), defaults to today")

	waterCmd.AddCommand(waterLogCmd)
	waterCmd.AddCommand(waterStatusCmd)
	waterCmd.AddCommand(waterUndoCmd)

	rootCmd.AddCommand(waterCmd)
}

// runWaterLog handles logging a drink.
func runWaterLog(cmd *cobra.Command, args []string) error {
	amount := defaultGlassML
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid amount %q: expected milliliters", args[0])
		}
		if n > 5000 {
			return fmt.Errorf("amount %dml is implausibly large", n)
		}
		amount = n
	}

	rec := model.NewWaterRecord(amount, waterLogFlagNote)
	if err := ctx.WaterRepo.Create(rec); err != nil {
		return err
	}

	settings, err := ctx.SettingsRepo.Get()
	if err != nil {
		return err
	}

	total, err := ctx.WaterRepo.DayTotal(time.Now())
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"logged_ml":       amount,
			"water_total_ml":  total,
			"water_target_ml": settings.WaterTargetML,
		})
	}

	ctx.CLIFormatter().Success(fmt.Sprintf("Logged %dml", amount))
	ctx.CLIFormatter().PrintWaterProgress(total, settings.WaterTargetML)
	return nil
}

// runWaterStatus handles showing hydration progress.
func runWaterStatus(cmd *cobra.Command, args []string) error {
	day := time.Now()
	if waterStatusDay != "" {
		parsed, err := parser.ParseDate(waterStatusDay)
		if err != nil {
			return err
		}
		day = parsed
	}

	settings, err := ctx.SettingsRepo.Get()
	if err != nil {
		return err
	}

	records, err := ctx.WaterRepo.ListDay(day)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewWaterStatusResponse(day, records, settings.WaterTargetML))
	}

	cli := ctx.CLIFormatter()
	cli.Title("Hydration " + output.FormatDate(day))

	total := 0
	for _, rec := range records {
		total += rec.AmountML
	}
	cli.PrintWaterProgress(total, settings.WaterTargetML)

	if len(records) > 0 {
		ctx.Formatter.Println("")
		for _, rec := range records {
			note := ""
			if rec.Note != "" {
				note = "  " + rec.Note
			}
			ctx.Formatter.Printf("  %s  %4dml%s\n", output.FormatTimeOnly(rec.Time), rec.AmountML, note)
		}
	}

	return nil
}

// runWaterUndo handles removing the last drink.
func runWaterUndo(cmd *cobra.Command, args []string) error {
	rec, err := ctx.WaterRepo.DeleteLast(time.Now())
	if err != nil {
		return fmt.Errorf("nothing logged today")
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status":     "removed",
			"removed_ml": rec.AmountML,
		})
	}

	ctx.Formatter.Printf("Removed %dml logged at %s\n", rec.AmountML, output.FormatTimeOnly(rec.Time))
	return nil
}
