package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/parser"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg", "settings"},
	Short:   "Manage application settings",
	Long: `View and modify reminder settings.

Examples:
  materna config get
  materna config set water.interval 60
  materna config set water.target 2000
  materna config set quiet 22:00-07:00
  materna config set ai smart
  materna config set snooze 15m`,
}

// configGetCmd gets settings values.
var configGetCmd = &cobra.Command{
	Use:   "get [KEY]",
	Short: "Get a settings value",
	Long: `Get a settings value, or show all settings.

Keys:
  water.interval, water.target, water.window
  stand_up.interval, eye_rest.interval, posture.interval
  nutrition.times, relaxation.times, nap.times, fetal_movement.times
  quiet, ai, snooze, escalate`,
	RunE: runConfigGet,
}

// configSetCmd sets settings values.
var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a settings value",
	Long: `Set a settings value.

Keys and values:
  <kind>.interval MINUTES     Interval for water, stand_up, eye_rest, posture
  water.target ML             Daily water target
  water.window HH:MM-HH:MM    Active window for water reminders
  <kind>.times HH:MM,...      Clock times for nutrition, relaxation, nap,
                              fetal_movement
  quiet HH:MM-HH:MM           Quiet hours window ("" to disable)
  ai MODE                     Content mode: smart, full, minimal, off
  snooze DURATION             Default snooze (e.g. 10m)
  escalate N                  Unacked fires per priority escalation step

Examples:
  materna config set water.interval 60
  materna config set nutrition.times 10:00,15:30
  materna config set quiet 22:00-07:00
  materna config set ai full`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigGet handles the config get command.
func runConfigGet(cmd *cobra.Command, args []string) error {
	settings, err := ctx.SettingsRepo.Get()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(settings)
		}

		cli := ctx.CLIFormatter()
		cli.Title("Settings")
		printIntervalSetting("water", settings.Water)
		ctx.Formatter.Printf("  water.target         %dml\n", settings.WaterTargetML)
		printIntervalSetting("stand_up", settings.StandUp)
		printIntervalSetting("eye_rest", settings.EyeRest)
		printIntervalSetting("posture", settings.Posture)
		printClockSetting("nutrition", settings.Nutrition)
		printClockSetting("relaxation", settings.Relaxation)
		printClockSetting("nap", settings.Nap)
		printClockSetting("fetal_movement", settings.FetalMovement)
		ctx.Formatter.Println("")
		quiet := "off"
		if settings.QuietStart != "" {
			quiet = settings.QuietStart + "-" + settings.QuietEnd
		}
		ctx.Formatter.Printf("  quiet                %s\n", quiet)
		ctx.Formatter.Printf("  ai                   %s\n", settings.AIMode)
		ctx.Formatter.Printf("  snooze               %s\n", time.Duration(settings.SnoozeDefault))
		ctx.Formatter.Printf("  escalate             every %d unanswered\n", settings.EscalateEvery)
		return nil
	}

	value, err := settingsValue(settings, args[0])
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{args[0]: value})
	}

	ctx.Formatter.Printf("%s = %v\n", args[0], value)
	return nil
}

// printIntervalSetting prints one interval kind's settings line.
func printIntervalSetting(name string, s model.IntervalSetting) {
	state := fmt.Sprintf("every %dm", s.IntervalMinutes)
	if s.WindowStart != "" {
		state += fmt.Sprintf(" (%s-%s)", s.WindowStart, s.WindowEnd)
	}
	if !s.Enabled {
		state = "disabled"
	}
	ctx.Formatter.Printf("  %-20s %s\n", name, state)
}

// printClockSetting prints one clock kind's settings line.
func printClockSetting(name string, s model.ClockSetting) {
	state := strings.Join(s.Times, ", ")
	if s.WorkdaysOnly {
		state += " (workdays)"
	}
	if !s.Enabled {
		state = "disabled"
	}
	ctx.Formatter.Printf("  %-20s %s\n", name, state)
}

// settingsValue resolves a single settings key for display.
func settingsValue(s *model.Settings, key string) (interface{}, error) {
	switch key {
	case "water.interval":
		return s.Water.IntervalMinutes, nil
	case "water.target":
		return s.WaterTargetML, nil
	case "water.window":
		return s.Water.WindowStart + "-" + s.Water.WindowEnd, nil
	case "stand_up.interval":
		return s.StandUp.IntervalMinutes, nil
	case "eye_rest.interval":
		return s.EyeRest.IntervalMinutes, nil
	case "posture.interval":
		return s.Posture.IntervalMinutes, nil
	case "nutrition.times":
		return strings.Join(s.Nutrition.Times, ","), nil
	case "relaxation.times":
		return strings.Join(s.Relaxation.Times, ","), nil
	case "nap.times":
		return strings.Join(s.Nap.Times, ","), nil
	case "fetal_movement.times":
		return strings.Join(s.FetalMovement.Times, ","), nil
	case "quiet":
		if s.QuietStart == "" {
			return "off", nil
		}
		return s.QuietStart + "-" + s.QuietEnd, nil
	case "ai":
		return s.AIMode, nil
	case "snooze":
		return time.Duration(s.SnoozeDefault).String(), nil
	case "escalate":
		return s.EscalateEvery, nil
	default:
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
}

// runConfigSet handles the config set command.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	settings, err := ctx.SettingsRepo.Get()
	if err != nil {
		return err
	}

	if err := applySetting(settings, key, value); err != nil {
		return err
	}

	settings.UpdatedAt = time.Now()
	if err := ctx.SettingsRepo.Update(settings); err != nil {
		return err
	}

	// Re-materialize rules so schedule changes take effect immediately
	if err := newEngine().Sync(time.Now()); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}

	ctx.CLIFormatter().Success(fmt.Sprintf("Set %s = %s", key, value))
	return nil
}

// applySetting mutates one settings field from a key/value pair.
func applySetting(s *model.Settings, key, value string) error {
	switch key {
	case "water.interval":
		return setInterval(&s.Water, value)
	case "stand_up.interval":
		return setInterval(&s.StandUp, value)
	case "eye_rest.interval":
		return setInterval(&s.EyeRest, value)
	case "posture.interval":
		return setInterval(&s.Posture, value)

	case "water.target":
		n, err := strconv.Atoi(value)
		if err != nil || n < 100 || n > 10000 {
			return fmt.Errorf("invalid target %q: expected milliliters between 100 and 10000", value)
		}
		s.WaterTargetML = n
		return nil

	case "water.window":
		start, end, err := parseWindow(value)
		if err != nil {
			return err
		}
		s.Water.WindowStart, s.Water.WindowEnd = start, end
		return nil

	case "nutrition.times":
		return setClockTimes(&s.Nutrition, value)
	case "relaxation.times":
		return setClockTimes(&s.Relaxation, value)
	case "nap.times":
		return setClockTimes(&s.Nap, value)
	case "fetal_movement.times":
		return setClockTimes(&s.FetalMovement, value)

	case "quiet":
		if value == "" || value == "off" {
			s.QuietStart, s.QuietEnd = "", ""
			return nil
		}
		start, end, err := parseWindow(value)
		if err != nil {
			return err
		}
		s.QuietStart, s.QuietEnd = start, end
		return nil

	case "ai":
		if !model.IsValidAIMode(value) {
			return fmt.Errorf("invalid mode %q: expected %s", value, strings.Join(model.ValidAIModes(), ", "))
		}
		s.AIMode = value
		return nil

	case "snooze":
		result := parser.ParseDuration(value)
		if !result.Valid {
			return fmt.Errorf("could not parse duration %q", value)
		}
		s.SnoozeDefault = model.Duration(result.Duration)
		return nil

	case "escalate":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 20 {
			return fmt.Errorf("invalid value %q: expected a count between 1 and 20", value)
		}
		s.EscalateEvery = n
		return nil

	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}

// setInterval parses and applies an interval in minutes.
func setInterval(s *model.IntervalSetting, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > 24*60 {
		return fmt.Errorf("invalid interval %q: expected minutes between 1 and 1440", value)
	}
	s.IntervalMinutes = n
	return nil
}

// setClockTimes parses and applies a comma-separated HH:MM list.
func setClockTimes(s *model.ClockSetting, value string) error {
	var times []string
	for _, t := range strings.Split(value, ",") {
		t = strings.TrimSpace(t)
		if !parser.IsValidClockTime(t) {
			return fmt.Errorf("invalid time %q: expected HH:MM", t)
		}
		times = append(times, t)
	}
	if len(times) == 0 {
		return fmt.Errorf("at least one time is required")
	}
	s.Times = times
	return nil
}

// parseWindow parses "HH:MM-HH:MM".
func parseWindow(value string) (string, string, error) {
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 || !parser.IsValidClockTime(parts[0]) || !parser.IsValidClockTime(parts[1]) {
		return "", "", fmt.Errorf("invalid window %q: expected HH:MM-HH:MM", value)
	}
	return parts[0], parts[1], nil
}
