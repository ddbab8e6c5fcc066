package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/output"
	"github.com/materna-cli/materna/internal/parser"
)

// Med command flags.
var (
	medAddFlagDosage string
	medAddFlagTimes  string
	medAddFlagStart  string
	medAddFlagDays   int
	medAddFlagNotes  string
	medRemoveForce   bool
)

// medCmd represents the med command.
var medCmd = &cobra.Command{
	Use:     "med [command]",
	Aliases: []string{"m", "medication"},
	Short:   "Manage medication reminders",
	Long: `Manage medication dose schedules. Each dose time becomes an urgent
daily reminder while the course is active.

Examples:
  materna med add "Folic acid" --times 08:00
  materna med add "Iron" --dosage 60mg --times 08:00,20:00 --days 30
  materna med list
  materna med remove a1b2c3`,
	RunE: runMedList,
}

// medAddCmd adds a medication.
var medAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a medication schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runMedAdd,
}

// medListCmd lists medications.
var medListCmd = &cobra.Command{
	Use:   "list",
	Short: "List medications",
	RunE:  runMedList,
}

// medRemoveCmd removes a medication.
var medRemoveCmd = &cobra.Command{
	Use:     "remove ID",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a medication",
	Args:    cobra.ExactArgs(1),
	RunE:    runMedRemove,
}

func init() {
	medAddCmd.Flags().StringVar(&medAddFlagDosage, "dosage", "",
		"Dose description (e.g. 60mg, 1 tablet)")
	medAddCmd.Flags().StringVar(&medAddFlagTimes, "times", "08:00",
		"Comma-separated dose times (HH:MM)")
	medAddCmd.Flags().StringVar(&medAddFlagStart, "start", "",
		"Start date (defaults to today)")
	medAddCmd.Flags().IntVar(&medAddFlagDays, "days", 0,
		"Course length in days (0 = open-ended)")
	medAddCmd.Flags().StringVar(&medAddFlagNotes, "notes", "",
		"Notes shown with the reminder (e.g. 'take with food')")
	medRemoveCmd.Flags().BoolVarP(&medRemoveForce, "force", "f", false,
		"Skip confirmation")

	medCmd.AddCommand(medAddCmd)
	medCmd.AddCommand(medListCmd)
	medCmd.AddCommand(medRemoveCmd)

	rootCmd.AddCommand(medCmd)
}

// runMedAdd handles adding a medication.
func runMedAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	if name == "" {
		return fmt.Errorf("medication name is required")
	}
	if len(name) > 100 {
		return fmt.Errorf("name too long (max 100 characters)")
	}

	var times []string
	for _, t := range strings.Split(medAddFlagTimes, ",") {
		t = strings.TrimSpace(t)
		if !parser.IsValidClockTime(t) {
			return fmt.Errorf("invalid dose time %q: expected HH:MM", t)
		}
		times = append(times, t)
	}
	if len(times) == 0 {
		return fmt.Errorf("at least one dose time is required")
	}

	med := model.NewMedication(name, medAddFlagDosage, times)
	med.Notes = medAddFlagNotes
	med.DurationDays = medAddFlagDays

	if medAddFlagStart != "" {
		start, err := parser.ParseDate(medAddFlagStart)
		if err != nil {
			return err
		}
		med.StartDate = start
	} else {
		now := time.Now()
		med.StartDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}

	if err := ctx.MedicationRepo.Create(med); err != nil {
		return err
	}

	// Materialize the dose rule right away
	if err := newEngine().Sync(time.Now()); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewMedicationOutput(med, time.Now()))
	}

	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Added %s at %s", med.Name, strings.Join(med.Times, ", ")))
	if med.DurationDays > 0 {
		end := med.StartDate.AddDate(0, 0, med.DurationDays)
		ctx.Formatter.Printf("Course runs until %s\n", output.FormatDate(end))
	}
	return nil
}

// runMedList handles listing medications.
func runMedList(cmd *cobra.Command, args []string) error {
	meds, err := ctx.MedicationRepo.List()
	if err != nil {
		return err
	}

	now := time.Now()

	if ctx.IsJSON() {
		outputs := make([]*output.MedicationOutput, 0, len(meds))
		for _, m := range meds {
			outputs = append(outputs, output.NewMedicationOutput(m, now))
		}
		return ctx.Formatter.JSON(map[string]interface{}{
			"medications": outputs,
			"count":       len(outputs),
		})
	}

	if len(meds) == 0 {
		ctx.Formatter.Println("No medications.")
		ctx.Formatter.Println("")
		ctx.Formatter.Println("Add one with: materna med add \"Folic acid\" --times 08:00")
		return nil
	}

	cli := ctx.CLIFormatter()
	cli.Title("Medications")

	var rows []output.TableRow
	for _, m := range meds {
		status := "active"
		if !m.Enabled {
			status = "disabled"
		} else if !m.IsActive(now) {
			status = "inactive"
		}

		course := "open-ended"
		if m.DurationDays > 0 {
			end := m.StartDate.AddDate(0, 0, m.DurationDays)
			course = fmt.Sprintf("until %s", output.FormatDate(end))
		}

		rows = append(rows, output.TableRow{Columns: []string{
			m.ShortID(),
			m.Name,
			m.Dosage,
			strings.Join(m.Times, ", "),
			course,
			status,
		}})
	}

	cli.PrintTable([]string{"ID", "NAME", "DOSAGE", "TIMES", "COURSE", "STATUS"}, rows)
	return nil
}

// runMedRemove handles removing a medication.
func runMedRemove(cmd *cobra.Command, args []string) error {
	med, err := ctx.MedicationRepo.GetByShortID(args[0])
	if err != nil {
		return fmt.Errorf("medication %q not found", args[0])
	}

	if !medRemoveForce && !ctx.IsJSON() {
		ctx.Formatter.Printf("Remove medication %q? [y/N] ", med.Name)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			ctx.Formatter.Println("Cancelled.")
			return nil
		}
	}

	if err := ctx.MedicationRepo.Delete(med.Key); err != nil {
		return err
	}

	// Drop the materialized dose rule
	if err := ctx.ReminderRepo.DeleteBySource(med.Key); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status": "removed",
			"key":    med.Key,
			"name":   med.Name,
		})
	}

	ctx.Formatter.Printf("Removed: %s\n", med.Name)
	return nil
}
