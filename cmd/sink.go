package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/notify"
	"github.com/materna-cli/materna/internal/output"
)

// Sink command flags.
var (
	sinkAddFlagType     string
	sinkAddFlagTemplate string
	sinkRemoveForce     bool
)

// sinkCmd represents the sink command.
var sinkCmd = &cobra.Command{
	Use:     "sink [command]",
	Aliases: []string{"sinks", "webhook"},
	Short:   "Manage notification sinks",
	Long: `Manage the webhook endpoints reminders are delivered to.

Sink types: slack, discord, generic. The type is detected from the URL
when not given.

Examples:
  materna sink add phone https://hooks.slack.com/services/XXX
  materna sink add homeassistant https://ha.local/api/webhook/materna --type generic
  materna sink list
  materna sink test phone`,
	RunE: runSinkList,
}

// sinkAddCmd adds a sink.
var sinkAddCmd = &cobra.Command{
	Use:   "add NAME URL",
	Short: "Add a notification sink",
	Args:  cobra.ExactArgs(2),
	RunE:  runSinkAdd,
}

// sinkListCmd lists sinks.
var sinkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notification sinks",
	RunE:  runSinkList,
}

// sinkRemoveCmd removes a sink.
var sinkRemoveCmd = &cobra.Command{
	Use:     "remove NAME",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a sink",
	Args:    cobra.ExactArgs(1),
	RunE:    runSinkRemove,
}

// sinkEnableCmd enables a sink.
var sinkEnableCmd = &cobra.Command{
	Use:   "enable NAME",
	Short: "Enable a sink",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSinkToggle(args[0], true)
	},
}

// sinkDisableCmd disables a sink.
var sinkDisableCmd = &cobra.Command{
	Use:   "disable NAME",
	Short: "Disable a sink",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSinkToggle(args[0], false)
	},
}

// sinkTestCmd sends a test notification.
var sinkTestCmd = &cobra.Command{
	Use:   "test NAME",
	Short: "Send a test notification",
	Args:  cobra.ExactArgs(1),
	RunE:  runSinkTest,
}

func init() {
	sinkAddCmd.Flags().StringVarP(&sinkAddFlagType, "type", "t", "",
		"Sink type: slack, discord, generic (auto-detected when empty)")
	sinkAddCmd.Flags().StringVar(&sinkAddFlagTemplate, "template", "",
		"JSON payload template for generic sinks ({{title}}, {{message}}, {{kind}}, {{priority}})")
	sinkRemoveCmd.Flags().BoolVarP(&sinkRemoveForce, "force", "f", false,
		"Skip confirmation")

	sinkCmd.AddCommand(sinkAddCmd)
	sinkCmd.AddCommand(sinkListCmd)
	sinkCmd.AddCommand(sinkRemoveCmd)
	sinkCmd.AddCommand(sinkEnableCmd)
	sinkCmd.AddCommand(sinkDisableCmd)
	sinkCmd.AddCommand(sinkTestCmd)

	rootCmd.AddCommand(sinkCmd)
}

// runSinkAdd handles adding a sink.
func runSinkAdd(cmd *cobra.Command, args []string) error {
	name, url := args[0], args[1]

	if !model.IsValidSinkName(name) {
		return fmt.Errorf("invalid sink name %q: use letters, digits, dash, underscore", name)
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("invalid URL %q: must start with http:// or https://", url)
	}

	exists, err := ctx.SinkRepo.Exists(name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("sink %q already exists", name)
	}

	sinkType := sinkAddFlagType
	if sinkType == "" {
		sinkType = model.DetectSinkType(url)
	}
	if !model.IsValidSinkType(sinkType) {
		return fmt.Errorf("invalid sink type %q: expected %s",
			sinkType, strings.Join(model.ValidSinkTypes(), ", "))
	}

	sink := model.NewSink(name, sinkType, url)
	sink.Template = sinkAddFlagTemplate

	if err := ctx.SinkRepo.Create(sink); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status": "created",
			"name":   sink.Name,
			"type":   sink.Type,
		})
	}

	ctx.CLIFormatter().Success(fmt.Sprintf("Added %s sink %q", sink.Type, sink.Name))
	ctx.Formatter.Println("Test it with: materna sink test " + sink.Name)
	return nil
}

// runSinkList handles listing sinks.
func runSinkList(cmd *cobra.Command, args []string) error {
	sinks, err := ctx.SinkRepo.List()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"sinks": sinks,
			"count": len(sinks),
		})
	}

	if len(sinks) == 0 {
		ctx.Formatter.Println("No sinks configured.")
		ctx.Formatter.Println("")
		ctx.Formatter.Println("Add one with: materna sink add NAME URL")
		return nil
	}

	cli := ctx.CLIFormatter()
	cli.Title("Notification Sinks")

	var rows []output.TableRow
	for _, s := range sinks {
		status := "enabled"
		if !s.Enabled {
			status = "disabled"
		}

		lastUsed := "-"
		if !s.LastUsed.IsZero() {
			lastUsed = output.FormatTimeShort(s.LastUsed)
		}
		if s.LastError != "" {
			lastUsed += " (error)"
		}

		rows = append(rows, output.TableRow{Columns: []string{s.Name, s.Type, s.MaskedURL(), status, lastUsed}})
	}

	cli.PrintTable([]string{"NAME", "TYPE", "URL", "STATUS", "LAST USED"}, rows)
	return nil
}

// runSinkRemove handles removing a sink.
func runSinkRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	sink, err := ctx.SinkRepo.Get(name)
	if err != nil {
		return fmt.Errorf("sink %q not found", name)
	}

	if !sinkRemoveForce && !ctx.IsJSON() {
		ctx.Formatter.Printf("Remove sink %q? [y/N] ", sink.Name)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			ctx.Formatter.Println("Cancelled.")
			return nil
		}
	}

	if err := ctx.SinkRepo.Delete(name); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status": "removed",
			"name":   name,
		})
	}

	ctx.Formatter.Printf("Removed: %s\n", name)
	return nil
}

// runSinkToggle handles enabling or disabling a sink.
func runSinkToggle(name string, enable bool) error {
	var err error
	if enable {
		err = ctx.SinkRepo.Enable(name)
	} else {
		err = ctx.SinkRepo.Disable(name)
	}
	if err != nil {
		return fmt.Errorf("sink %q not found", name)
	}

	verb := "Enabled"
	if !enable {
		verb = "Disabled"
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"name":    name,
			"enabled": enable,
		})
	}

	ctx.CLIFormatter().Success(fmt.Sprintf("%s sink %q", verb, name))
	return nil
}

// runSinkTest handles sending a test notification.
func runSinkTest(cmd *cobra.Command, args []string) error {
	name := args[0]

	dispatcher := notify.NewDispatcher(ctx.SinkRepo)
	dispatcher.SetDebug(ctx.Debug)

	if !ctx.IsJSON() {
		ctx.Formatter.Printf("Sending test notification to %q...\n", name)
	}

	result := dispatcher.TestSink(context.Background(), name)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"sink":        result.SinkName,
			"success":     result.Success,
			"status_code": result.StatusCode,
			"duration_ms": result.Duration.Milliseconds(),
		})
	}

	cli := ctx.CLIFormatter()
	if result.Success {
		cli.Success(fmt.Sprintf("Delivered in %s (HTTP %d)", result.Duration.Round(time.Millisecond), result.StatusCode))
	} else {
		cli.Error(fmt.Sprintf("Delivery failed: %v", result.Error))
	}

	return nil
}
