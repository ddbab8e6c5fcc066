// Package cmd provides the CLI commands for Materna.
package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/materna-cli/materna/internal/errors"
	"github.com/materna-cli/materna/internal/output"
	"github.com/materna-cli/materna/internal/pregnancy"
	"github.com/materna-cli/materna/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagDebug  bool
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "materna",
	Short: "A pregnancy wellness reminder companion",
	Long: `Materna keeps gentle, persistent wellness reminders running in the
background during pregnancy: hydration, posture, rest, nutrition,
medication doses, and appointments.

Examples:
  materna daemon start
  materna water log 250
  materna week set 2026-01-10
  materna event add "Prenatal checkup" tomorrow 10am
  materna dashboard`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "help" {
			return nil
		}

		// Parse format flag
		var format output.Format
		switch flagFormat {
		case "json":
			format = output.FormatJSON
		case "plain":
			format = output.FormatPlain
		default:
			format = output.FormatCLI
		}

		// Parse color flag
		var colorMode output.ColorMode
		switch flagColor {
		case "always":
			colorMode = output.ColorAlways
		case "never":
			colorMode = output.ColorNever
		default:
			colorMode = output.ColorAuto
		}

		// Create runtime context
		opts := runtime.DefaultOptions()
		opts.Format = format
		opts.ColorMode = colorMode
		opts.Debug = flagDebug

		var err error
		ctx, err = runtime.New(opts)
		if err != nil {
			return err
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if ctx != nil {
			return ctx.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: show the day's overview
		return runOverview(cmd, args)
	},
}

// runOverview shows a compact status of the day.
func runOverview(cmd *cobra.Command, args []string) error {
	now := time.Now()

	settings, err := ctx.SettingsRepo.Get()
	if err != nil {
		return err
	}

	total, err := ctx.WaterRepo.DayTotal(now)
	if err != nil {
		return err
	}

	profile, err := ctx.ProfileRepo.Get()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		resp := map[string]interface{}{
			"water_total_ml":  total,
			"water_target_ml": settings.WaterTargetML,
		}
		if profile.Enabled && profile.HasLMP() {
			resp["pregnancy"] = output.NewPregnancyResponse(pregnancy.StatusAt(profile.LastPeriodDate, now))
		}
		return ctx.Formatter.JSON(resp)
	}

	cli := ctx.CLIFormatter()
	if profile.Enabled && profile.HasLMP() {
		status := pregnancy.StatusAt(profile.LastPeriodDate, now)
		cli.Title("Week " + status.Display())
		ctx.Formatter.Printf("%s, due %s (%d days)\n\n",
			status.TrimesterName(), output.FormatDate(status.DueDate), status.DaysUntilDue)
	}

	cli.PrintWaterProgress(total, settings.WaterTargetML)
	ctx.Formatter.Println("")
	ctx.Formatter.Println("Run 'materna remind list' to see scheduled reminders.")
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("materna %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}

// Die prints an error and exits.
func Die(err error) {
	if ctx != nil && ctx.IsJSON() {
		ctx.JSONFormatter().PrintError("error", err.Error(), errors.Suggestion(err))
	} else {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		if suggestion := errors.Suggestion(err); suggestion != "" {
			os.Stderr.WriteString("Hint: " + suggestion + "\n")
		}
	}
	os.Exit(1)
}
