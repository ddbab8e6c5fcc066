package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/materna-cli/materna/internal/output"
	"github.com/materna-cli/materna/internal/parser"
	"github.com/materna-cli/materna/internal/pregnancy"
)

// weekCmd represents the week command.
var weekCmd = &cobra.Command{
	Use:   "week [command]",
	Short: "Pregnancy week tracking",
	Long: `Show the current pregnancy week, trimester, and due date.

The week is calculated from the last period date (LMP): week = days
since LMP / 7, due date = LMP + 280 days.

Examples:
  materna week
  materna week set 2026-01-10
  materna week off`,
	RunE: runWeekStatus,
}

// weekSetCmd sets the last period date.
var weekSetCmd = &cobra.Command{
	Use:   "set DATE",
	Short: "Set the last period date",
	Long: `Set the last period date (LMP) and enable pregnancy tracking.

Examples:
  materna week set 2026-01-10
  materna week set "10 weeks ago"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWeekSet,
}

// weekOffCmd disables pregnancy tracking.
var weekOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Disable pregnancy tracking",
	RunE:  runWeekOff,
}

func init() {
	weekCmd.AddCommand(weekSetCmd)
	weekCmd.AddCommand(weekOffCmd)

	rootCmd.AddCommand(weekCmd)
}

// runWeekStatus handles showing the pregnancy status.
func runWeekStatus(cmd *cobra.Command, args []string) error {
	profile, err := ctx.ProfileRepo.Get()
	if err != nil {
		return err
	}

	if !profile.Enabled || !profile.HasLMP() {
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(map[string]interface{}{
				"enabled": false,
			})
		}
		ctx.Formatter.Println("Pregnancy tracking is off.")
		ctx.Formatter.Println("")
		ctx.Formatter.Println("Enable it with: materna week set <last period date>")
		return nil
	}

	status := pregnancy.StatusAt(profile.LastPeriodDate, time.Now())

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewPregnancyResponse(status))
	}

	cli := ctx.CLIFormatter()
	cli.Title("Week " + status.Display())
	ctx.Formatter.Printf("  Trimester:  %s\n", status.TrimesterName())
	ctx.Formatter.Printf("  Due date:   %s\n", output.FormatDate(status.DueDate))
	if status.Overdue {
		cli.Warning(fmt.Sprintf("%d days past the due date", -status.DaysUntilDue))
	} else {
		ctx.Formatter.Printf("  Days left:  %d\n", status.DaysUntilDue)
	}

	if stage := pregnancy.DevelopmentStage(status.Week); stage != "" {
		ctx.Formatter.Println("")
		ctx.Formatter.Println("  " + stage)
	}

	return nil
}

// runWeekSet handles setting the last period date.
func runWeekSet(cmd *cobra.Command, args []string) error {
	input := args[0]
	if len(args) > 1 {
		for _, a := range args[1:] {
			input += " " + a
		}
	}

	lmp, err := parser.ParseDate(input)
	if err != nil {
		return err
	}

	now := time.Now()
	if lmp.After(now) {
		return fmt.Errorf("last period date cannot be in the future")
	}
	if now.Sub(lmp) > 46*7*24*time.Hour {
		return fmt.Errorf("date %s is more than 46 weeks ago", output.FormatDate(lmp))
	}

	profile, err := ctx.ProfileRepo.Get()
	if err != nil {
		return err
	}

	profile.Enabled = true
	profile.LastPeriodDate = lmp
	profile.UpdatedAt = now

	if err := ctx.ProfileRepo.Update(profile); err != nil {
		return err
	}

	status := pregnancy.StatusAt(lmp, now)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewPregnancyResponse(status))
	}

	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Tracking enabled: week %s, due %s",
		status.Display(), output.FormatDate(status.DueDate)))
	return nil
}

// runWeekOff handles disabling tracking.
func runWeekOff(cmd *cobra.Command, args []string) error {
	profile, err := ctx.ProfileRepo.Get()
	if err != nil {
		return err
	}

	profile.Enabled = false
	profile.UpdatedAt = time.Now()

	if err := ctx.ProfileRepo.Update(profile); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"enabled": false,
		})
	}

	ctx.Formatter.Println("Pregnancy tracking disabled.")
	return nil
}
