package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/materna-cli/materna/internal/daemon"
	"github.com/materna-cli/materna/internal/notify"
)

// Daemon command flags.
var (
	daemonStartFlagForeground bool
	daemonLogsFlagTail        int
)

// daemonCmd represents the daemon command.
var daemonCmd = &cobra.Command{
	Use:     "daemon [command]",
	Aliases: []string{"d", "bg"},
	Short:   "Manage the background daemon",
	Long: `Manage the Materna background daemon that runs the reminder engine
and sends notifications to configured sinks.

Examples:
  materna daemon start
  materna daemon status
  materna daemon stop
  materna daemon logs --tail 20`,
	RunE: runDaemonStatus,
}

// daemonStartCmd starts the daemon.
var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the background daemon",
	Long: `Start the Materna background daemon.

The daemon evaluates reminder rules every minute and dispatches fired
reminders to configured notification sinks.

Examples:
  materna daemon start           # Start in background
  materna daemon start --foreground`,
	RunE: runDaemonStart,
}

// daemonStopCmd stops the daemon.
var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background daemon",
	RunE:  runDaemonStop,
}

// daemonStatusCmd shows daemon status.
var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	RunE:  runDaemonStatus,
}

// daemonLogsCmd shows daemon logs.
var daemonLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View daemon logs",
	RunE:  runDaemonLogs,
}

func init() {
	daemonStartCmd.Flags().BoolVar(&daemonStartFlagForeground, "foreground", false,
		"Run in foreground (don't daemonize)")

	daemonLogsCmd.Flags().IntVarP(&daemonLogsFlagTail, "tail", "n", 20,
		"Number of lines to show")

	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonLogsCmd)

	rootCmd.AddCommand(daemonCmd)
}

// runDaemonStart handles the daemon start command.
func runDaemonStart(cmd *cobra.Command, args []string) error {
	if !daemonStartFlagForeground {
		// Background mode spawns a child process; it must not hold the
		// database lock itself
		d := daemon.NewDaemon(nil)
		d.SetDebug(flagDebug)

		if d.IsRunning() {
			status := d.GetStatus()
			return fmt.Errorf("daemon is already running (PID: %d)", status.PID)
		}

		pid, err := d.StartBackground()
		if err != nil {
			return err
		}

		fmt.Println("Starting materna daemon...")
		fmt.Printf("Daemon started (PID: %d)\n", pid)
		return nil
	}

	// Foreground mode
	d := daemon.NewDaemon(ctx.DB)
	d.SetDebug(ctx.Debug)
	d.SetVersion(Version)

	if d.IsRunning() {
		status := d.GetStatus()
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(map[string]interface{}{
				"status": "already_running",
				"pid":    status.PID,
			})
		}
		return fmt.Errorf("daemon is already running (PID: %d)", status.PID)
	}

	// Warn when no sinks are configured
	dispatcher := notify.NewDispatcher(ctx.SinkRepo)
	if dispatcher.CountEnabledSinks() == 0 && !ctx.IsJSON() {
		ctx.Formatter.Println("Warning: no notification sinks configured. Add with: materna sink add")
		ctx.Formatter.Println("")
	}

	if !ctx.IsJSON() {
		ctx.Formatter.Printf("Starting materna daemon (foreground mode)...\n")
	}
	return d.Start(context.Background())
}

// runDaemonStop handles the daemon stop command.
func runDaemonStop(cmd *cobra.Command, args []string) error {
	d := daemon.NewDaemon(nil)

	if !d.IsRunning() {
		fmt.Println("Daemon is not running")
		return nil
	}

	status := d.GetStatus()
	pid := status.PID

	fmt.Println("Stopping materna daemon...")

	if err := d.Stop(); err != nil {
		return err
	}

	fmt.Printf("Daemon stopped (was PID: %d)\n", pid)
	return nil
}

// runDaemonStatus handles the daemon status command.
func runDaemonStatus(cmd *cobra.Command, args []string) error {
	d := daemon.NewDaemon(nil)
	status := d.GetStatus()

	if ctx != nil && ctx.IsJSON() {
		return ctx.Formatter.JSON(status)
	}

	fmt.Println("Materna Daemon Status")
	fmt.Println("")

	if status.Running {
		fmt.Printf("  Status:    running\n")
		fmt.Printf("  PID:       %d\n", status.PID)
		fmt.Printf("  Uptime:    %s\n", status.Uptime)
	} else {
		fmt.Printf("  Status:    stopped\n")
		fmt.Println("")
		fmt.Println("Start with: materna daemon start")
	}

	return nil
}

// runDaemonLogs handles the daemon logs command.
func runDaemonLogs(cmd *cobra.Command, args []string) error {
	logPath := daemon.GetLogPath()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Println("No log file found.")
		fmt.Printf("Log path: %s\n", logPath)
		return nil
	}

	lines, err := tailFile(logPath, daemonLogsFlagTail)
	if err != nil {
		return err
	}

	for _, line := range lines {
		fmt.Println(line)
	}

	return nil
}

// tailFile reads the last n lines from a file.
func tailFile(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > n {
			lines = lines[1:]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}
