package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/output"
	"github.com/materna-cli/materna/internal/parser"
	"github.com/materna-cli/materna/internal/runtime"
)

// Event command flags.
var (
	eventAddFlagRepeat string
	eventAddFlagDesc   string
	eventDeleteForce   bool
)

// eventCmd represents the event command.
var eventCmd = &cobra.Command{
	Use:     "event [command]",
	Aliases: []string{"e", "ev"},
	Short:   "Manage events and countdowns",
	Long: `Create and manage event reminders and day countdowns.

Event times accept natural language:
  - Relative: +5m, +1h, +2d, +1w
  - Natural language: "friday 5pm", "tomorrow 2pm"
  - Date/time: "2026-09-15 14:00"

Examples:
  materna event add "Prenatal checkup" tomorrow 10am
  materna event add "Iron supplement refill" +2w --repeat monthly
  materna event countdown "Baby arrives" 2026-10-17
  materna event list`,
	RunE: runEventList,
}

// eventAddCmd adds an event.
var eventAddCmd = &cobra.Command{
	Use:   "add TITLE TIME...",
	Short: "Add an event reminder",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEventAdd,
}

// eventCountdownCmd adds a countdown.
var eventCountdownCmd = &cobra.Command{
	Use:   "countdown TITLE DATE",
	Short: "Add a day countdown",
	Long: `Add a countdown toward a target date. Countdowns are display-only
and never fire reminders.`,
	Args: cobra.ExactArgs(2),
	RunE: runEventCountdown,
}

// eventListCmd lists events.
var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events and countdowns",
	RunE:  runEventList,
}

// eventDeleteCmd deletes an event.
var eventDeleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm", "remove"},
	Short:   "Delete an event",
	Args:    cobra.ExactArgs(1),
	RunE:    runEventDelete,
}

func init() {
	eventAddCmd.Flags().StringVarP(&eventAddFlagRepeat, "repeat", "r", "",
		"Recurrence: daily, weekly, monthly, workdays")
	eventAddCmd.Flags().StringVarP(&eventAddFlagDesc, "desc", "d", "",
		"Event description")
	eventDeleteCmd.Flags().BoolVarP(&eventDeleteForce, "force", "f", false,
		"Skip confirmation")

	eventDeleteCmd.ValidArgsFunction = completeEventArgs

	eventCmd.AddCommand(eventAddCmd)
	eventCmd.AddCommand(eventCountdownCmd)
	eventCmd.AddCommand(eventListCmd)
	eventCmd.AddCommand(eventDeleteCmd)

	rootCmd.AddCommand(eventCmd)
}

// completeEventArgs provides completion for event IDs.
func completeEventArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	if ctx == nil {
		opts := runtime.DefaultOptions()
		var err error
		ctx, err = runtime.New(opts)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer ctx.Close()
	}

	events, err := ctx.EventRepo.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var suggestions []string
	for _, e := range events {
		suggestions = append(suggestions, fmt.Sprintf("%s\t%s", e.ShortID(), e.Title))
	}

	return suggestions, cobra.ShellCompDirectiveNoFileComp
}

// runEventAdd handles adding an event.
func runEventAdd(cmd *cobra.Command, args []string) error {
	title := args[0]
	if title == "" {
		return fmt.Errorf("event title is required")
	}
	if len(title) > 200 {
		return fmt.Errorf("title too long (max 200 characters)")
	}

	result := parser.ParseEventTimeArgs(args[1:])
	if result.Error != nil {
		return fmt.Errorf("could not parse event time: %w", result.Error)
	}

	repeat := model.RepeatRule(eventAddFlagRepeat)
	if eventAddFlagRepeat != "" && !model.IsValidRepeatRule(repeat) {
		return fmt.Errorf("invalid repeat rule: must be daily, weekly, monthly, or workdays")
	}

	event := model.NewEvent(title, result.Time, repeat)
	event.Description = eventAddFlagDesc

	if err := ctx.EventRepo.Create(event); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewEventOutput(event, result.Time))
	}

	ctx.Formatter.Printf("Created event: %s\n", event.Title)
	ctx.Formatter.Printf("Reminds: %s (%s)\n",
		output.FormatTime(event.RemindAt), parser.FormatTimeUntil(event.RemindAt))
	if event.Repeat != model.RepeatOnce {
		ctx.Formatter.Printf("Repeats: %s\n", event.Repeat)
	}

	return nil
}

// runEventCountdown handles adding a countdown.
func runEventCountdown(cmd *cobra.Command, args []string) error {
	title := args[0]
	target, err := parser.ParseDate(args[1])
	if err != nil {
		return err
	}

	event := model.NewCountdown(title, target)
	if err := ctx.EventRepo.Create(event); err != nil {
		return err
	}

	days := event.DaysUntilTarget(time.Now())

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewEventOutput(event, time.Now()))
	}

	ctx.Formatter.Printf("Created countdown: %s\n", event.Title)
	ctx.Formatter.Printf("%d days until %s\n", days, output.FormatDate(target))
	return nil
}

// runEventList handles listing events.
func runEventList(cmd *cobra.Command, args []string) error {
	events, err := ctx.EventRepo.List()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		outputs := make([]*output.EventOutput, 0, len(events))
		for _, e := range events {
			outputs = append(outputs, output.NewEventOutput(e, time.Now()))
		}
		return ctx.Formatter.JSON(map[string]interface{}{
			"events": outputs,
			"count":  len(outputs),
		})
	}

	if len(events) == 0 {
		ctx.Formatter.Println("No events.")
		ctx.Formatter.Println("")
		ctx.Formatter.Println("Create one with: materna event add \"Title\" tomorrow 10am")
		return nil
	}

	cli := ctx.CLIFormatter()
	cli.Title("Events")

	var rows []output.TableRow
	for _, e := range events {
		when := ""
		kind := "reminder"
		if e.IsCountdown {
			kind = "countdown"
			days := e.DaysUntilTarget(time.Now())
			switch {
			case days < 0:
				when = fmt.Sprintf("%s (%d days ago)", output.FormatDate(e.TargetDate), -days)
			case days == 0:
				when = fmt.Sprintf("%s (today!)", output.FormatDate(e.TargetDate))
			default:
				when = fmt.Sprintf("%s (%d days)", output.FormatDate(e.TargetDate), days)
			}
		} else {
			when = fmt.Sprintf("%s (%s)", output.FormatTimeShort(e.RemindAt), parser.FormatTimeUntil(e.RemindAt))
			if e.Repeat != model.RepeatOnce {
				when += fmt.Sprintf(" [%s]", e.Repeat)
			}
		}

		status := ""
		if !e.Enabled {
			status = "disabled"
		}

		rows = append(rows, output.TableRow{Columns: []string{e.ShortID(), kind, e.Title, when, status}})
	}

	cli.PrintTable([]string{"ID", "TYPE", "TITLE", "WHEN", ""}, rows)
	return nil
}

// runEventDelete handles deleting an event.
func runEventDelete(cmd *cobra.Command, args []string) error {
	event, err := ctx.EventRepo.GetByShortID(args[0])
	if err != nil {
		return fmt.Errorf("event %q not found", args[0])
	}

	if !eventDeleteForce && !ctx.IsJSON() {
		ctx.Formatter.Printf("Delete event %q? [y/N] ", event.Title)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			ctx.Formatter.Println("Cancelled.")
			return nil
		}
	}

	if err := ctx.EventRepo.Delete(event.Key); err != nil {
		return err
	}

	// Drop the materialized rule linked to this event
	if err := ctx.ReminderRepo.DeleteBySource(event.Key); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status": "deleted",
			"key":    event.Key,
			"title":  event.Title,
		})
	}

	ctx.Formatter.Printf("Deleted: %s\n", event.Title)
	return nil
}
