package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/juststeveking/netwatch/internal/config"
	"github.com/juststeveking/netwatch/internal/elapsed"
	"github.com/juststeveking/netwatch/internal/eventlog"
	"github.com/juststeveking/netwatch/internal/metrics"
	"github.com/juststeveking/netwatch/internal/monitor"
	"github.com/juststeveking/netwatch/internal/watcher"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "netwatch [logfile]",
	Short: "Log internet connection up and down times",
	Long: `Netwatch pings google.de, amazon.de and netflix.com every second and appends
a line to a log file whenever the internet connection goes down or comes back,
together with how long the previous state lasted.

The log file defaults to ./internet-connection.log.

Extension: the built-in hosts, interval and locales are the defaults. An optional
~/.config/netwatch/config.yml may override them; without it netwatch behaves
exactly as built.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Handle OS signals; Ctrl+C on a Windows console arrives as os.Interrupt
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return run(ctx, os.Stdout, resolveLogPath(args), cfg)
	},
}

// run polls until ctx is cancelled and returns nil once the exit line is written
func run(ctx context.Context, stdout io.Writer, logPath string, cfg *config.Config) error {
	interval, err := cfg.Interval()
	if err != nil {
		return err
	}

	diag := slog.New(slog.NewTextHandler(stdout, nil))

	durations, err := elapsed.New(cfg.DurationLocale)
	if err != nil {
		return err
	}

	lines, err := eventlog.New(logPath, stdout, cfg.TimestampLocale, eventlog.WithDiagnostics(diag))
	if err != nil {
		return err
	}

	var collector *metrics.Collector
	if cfg.MetricsAddr != "" {
		collector = metrics.NewCollector()
	}

	// Create monitor
	mon, err := monitor.NewMonitor(cfg,
		monitor.WithLogger(diag),
		monitor.WithResultHook(collector.ObserveProbe),
	)
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}
	defer mon.Close()

	w, err := watcher.New(mon, lines, durations, interval,
		watcher.WithLogger(diag),
		watcher.WithEventHook(collector.ObserveEvent),
	)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if collector != nil {
		go func() {
			if err := collector.Serve(ctx, cfg.MetricsAddr); err != nil {
				diag.Error("metrics server stopped", "addr", cfg.MetricsAddr, "error", err)
			}
		}()
	}

	fmt.Fprintf(stdout, "logging to %s ...\n", lines.Path())
	diag.Debug("probing hosts", "hosts", cfg.HostNames(), "interval", interval)

	w.Run(ctx)

	return nil
}

func resolveLogPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return config.DefaultLogPath
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
