package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/notify"
	"github.com/materna-cli/materna/internal/output"
	"github.com/materna-cli/materna/internal/parser"
	"github.com/materna-cli/materna/internal/scheduler"
)

// Remind command flags.
var (
	remindListAll bool
)

// remindCmd represents the remind command.
var remindCmd = &cobra.Command{
	Use:     "remind [command]",
	Aliases: []string{"r", "rem"},
	Short:   "Manage wellness reminders",
	Long: `Inspect and control the scheduled wellness reminders.

Examples:
  materna remind list
  materna remind disable nap
  materna remind snooze water 15m
  materna remind done a1b2c3
  materna remind test water`,
	RunE: runRemindList,
}

// remindListCmd lists reminder rules.
var remindListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminder rules",
	RunE:  runRemindList,
}

// remindEnableCmd enables a reminder kind.
var remindEnableCmd = &cobra.Command{
	Use:   "enable KIND",
	Short: "Enable a reminder kind",
	Long: `Enable one of the built-in reminder kinds.

Kinds: water, stand_up, eye_rest, posture, nutrition, relaxation, nap,
fetal_movement`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRemindToggle(args[0], true)
	},
}

// remindDisableCmd disables a reminder kind.
var remindDisableCmd = &cobra.Command{
	Use:   "disable KIND",
	Short: "Disable a reminder kind",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRemindToggle(args[0], false)
	},
}

// remindSnoozeCmd snoozes a pending reminder.
var remindSnoozeCmd = &cobra.Command{
	Use:   "snooze ID_OR_KIND [DURATION]",
	Short: "Snooze a reminder",
	Long: `Push a reminder's next occurrence forward without advancing its
schedule. The duration defaults to the configured snooze default.

Examples:
  materna remind snooze water
  materna remind snooze water 15m
  materna remind snooze a1b2c3 1h`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRemindSnooze,
}

// remindDoneCmd acknowledges a reminder.
var remindDoneCmd = &cobra.Command{
	Use:     "done ID_OR_KIND",
	Aliases: []string{"ack"},
	Short:   "Acknowledge a reminder",
	Long: `Acknowledge the pending occurrence of a reminder. Recurring rules
advance to their next occurrence; one-shot rules complete.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemindDone,
}

// remindTestCmd fires a reminder immediately.
var remindTestCmd = &cobra.Command{
	Use:   "test ID_OR_KIND",
	Short: "Fire a reminder now",
	Long:  `Fire a reminder immediately through the configured sinks.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRemindTest,
}

func init() {
	remindListCmd.Flags().BoolVarP(&remindListAll, "all", "a", false,
		"Include completed rules")

	remindCmd.AddCommand(remindListCmd)
	remindCmd.AddCommand(remindEnableCmd)
	remindCmd.AddCommand(remindDisableCmd)
	remindCmd.AddCommand(remindSnoozeCmd)
	remindCmd.AddCommand(remindDoneCmd)
	remindCmd.AddCommand(remindTestCmd)

	rootCmd.AddCommand(remindCmd)
}

// newEngine builds a reminder engine over the CLI context.
func newEngine() *scheduler.Engine {
	dispatcher := notify.NewDispatcher(ctx.SinkRepo)
	dispatcher.SetDebug(ctx.Debug)
	engine := scheduler.NewEngine(ctx.DB, dispatcher)
	engine.SetDebug(ctx.Debug)
	return engine
}

// resolveRule finds a rule by kind name or short ID.
func resolveRule(idOrKind string) (*model.ReminderRule, error) {
	if rule, err := ctx.ReminderRepo.GetByKind(model.ReminderKind(idOrKind)); err == nil {
		return rule, nil
	}

	rule, err := ctx.ReminderRepo.GetByShortID(idOrKind)
	if err != nil {
		return nil, fmt.Errorf("reminder %q not found", idOrKind)
	}
	return rule, nil
}

// runRemindList handles listing reminder rules.
func runRemindList(cmd *cobra.Command, args []string) error {
	var rules []*model.ReminderRule
	var err error

	if remindListAll {
		rules, err = ctx.ReminderRepo.List()
	} else {
		rules, err = ctx.ReminderRepo.ListPending()
	}
	if err != nil {
		return err
	}

	settings, err := ctx.SettingsRepo.Get()
	if err != nil {
		return err
	}

	sort.Slice(rules, func(i, j int) bool {
		a, b := rules[i].NextFire, rules[j].NextFire
		if a.IsZero() {
			return false
		}
		if b.IsZero() {
			return true
		}
		return a.Before(b)
	})

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintRules(rules)
	}

	if len(rules) == 0 {
		ctx.Formatter.Println("No reminders scheduled.")
		ctx.Formatter.Println("")
		ctx.Formatter.Println("The daemon materializes rules from settings. Start it with: materna daemon start")
		return nil
	}

	cli := ctx.CLIFormatter()
	cli.Title("Reminders")

	var rows []output.TableRow
	for _, r := range rules {
		next := "-"
		if r.IsSnoozed(time.Now()) {
			next = "snoozed until " + output.FormatTimeOnly(r.SnoozedUntil)
		} else if !r.NextFire.IsZero() {
			next = fmt.Sprintf("%s (%s)", output.FormatTimeShort(r.NextFire), parser.FormatTimeUntil(r.NextFire))
		}

		status := ""
		if r.Completed {
			status = "completed"
		} else if r.UnackedFires > 0 {
			status = fmt.Sprintf("%d unanswered", r.UnackedFires)
		}

		rows = append(rows, output.TableRow{Columns: []string{
			r.ShortID(),
			string(r.Kind),
			r.Title,
			cli.PriorityBadge(r.EffectivePriority(settings.EscalateEvery)),
			next,
			status,
		}})
	}

	cli.PrintTable([]string{"ID", "KIND", "TITLE", "PRIORITY", "NEXT", ""}, rows)
	return nil
}

// runRemindToggle enables or disables a settings-driven reminder kind.
func runRemindToggle(kindArg string, enable bool) error {
	settings, err := ctx.SettingsRepo.Get()
	if err != nil {
		return err
	}

	kind := model.ReminderKind(kindArg)
	switch kind {
	case model.KindWater:
		settings.Water.Enabled = enable
	case model.KindStandUp:
		settings.StandUp.Enabled = enable
	case model.KindEyeRest:
		settings.EyeRest.Enabled = enable
	case model.KindPosture:
		settings.Posture.Enabled = enable
	case model.KindNutrition:
		settings.Nutrition.Enabled = enable
	case model.KindRelaxation:
		settings.Relaxation.Enabled = enable
	case model.KindNap:
		settings.Nap.Enabled = enable
	case model.KindFetalMovement:
		settings.FetalMovement.Enabled = enable
	default:
		return fmt.Errorf("unknown reminder kind %q (events and medications have their own commands)", kindArg)
	}

	if err := ctx.SettingsRepo.Update(settings); err != nil {
		return err
	}

	// Re-materialize rules so the change is visible immediately
	if err := newEngine().Sync(time.Now()); err != nil {
		return err
	}

	verb := "Enabled"
	if !enable {
		verb = "Disabled"
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"kind":    kindArg,
			"enabled": enable,
		})
	}

	ctx.CLIFormatter().Success(fmt.Sprintf("%s %s reminders", verb, kindArg))
	return nil
}

// runRemindSnooze handles snoozing a reminder.
func runRemindSnooze(cmd *cobra.Command, args []string) error {
	rule, err := resolveRule(args[0])
	if err != nil {
		return err
	}

	settings, err := ctx.SettingsRepo.Get()
	if err != nil {
		return err
	}

	duration := time.Duration(settings.SnoozeDefault)
	if len(args) == 2 {
		result := parser.ParseDuration(args[1])
		if !result.Valid {
			return fmt.Errorf("could not parse duration %q", args[1])
		}
		duration = result.Duration
	}

	until, err := newEngine().Snooze(rule.Key, duration, time.Now())
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status":        "snoozed",
			"kind":          rule.Kind,
			"snoozed_until": until,
		})
	}

	ctx.Formatter.Printf("Snoozed %s until %s\n", rule.Kind, output.FormatTimeOnly(until))
	return nil
}

// runRemindDone handles acknowledging a reminder.
func runRemindDone(cmd *cobra.Command, args []string) error {
	rule, err := resolveRule(args[0])
	if err != nil {
		return err
	}

	if err := newEngine().Acknowledge(rule.Key, time.Now()); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status": "acknowledged",
			"key":    rule.Key,
			"kind":   rule.Kind,
		})
	}

	ctx.Formatter.Printf("Acknowledged: %s\n", rule.Title)
	return nil
}

// runRemindTest handles firing a reminder immediately.
func runRemindTest(cmd *cobra.Command, args []string) error {
	rule, err := resolveRule(args[0])
	if err != nil {
		return err
	}

	dispatcher := notify.NewDispatcher(ctx.SinkRepo)
	if !dispatcher.HasEnabledSinks() {
		return fmt.Errorf("no enabled sinks configured; add one with 'materna sink add'")
	}

	if err := newEngine().TriggerNow(rule.Key, time.Now()); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status": "fired",
			"kind":   rule.Kind,
		})
	}

	ctx.CLIFormatter().Success(fmt.Sprintf("Fired %s reminder", rule.Kind))
	return nil
}
