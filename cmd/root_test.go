package cmd

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/juststeveking/netwatch/internal/config"
)

func TestResolveLogPath(t *testing.T) {
	if got := resolveLogPath(nil); got != config.DefaultLogPath {
		t.Errorf("Expected default path, got %s", got)
	}
	if got := resolveLogPath([]string{"/var/log/net.log"}); got != "/var/log/net.log" {
		t.Errorf("Expected explicit path, got %s", got)
	}
}

func TestRootArgs(t *testing.T) {
	if err := rootCmd.Args(rootCmd, []string{}); err != nil {
		t.Errorf("Expected no args to be accepted: %v", err)
	}
	if err := rootCmd.Args(rootCmd, []string{"one.log"}); err != nil {
		t.Errorf("Expected one arg to be accepted: %v", err)
	}
	if err := rootCmd.Args(rootCmd, []string{"one.log", "two.log"}); err == nil {
		t.Error("Expected two args to be rejected")
	}
}

func localConfig(t *testing.T, up bool) *config.Config {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	if up {
		t.Cleanup(func() { l.Close() })
	} else {
		l.Close()
	}

	cfg := config.Default()
	cfg.CheckInterval = "20ms"
	cfg.Timeout = "500ms"
	cfg.Hosts = []config.Host{{Name: "127.0.0.1", Type: config.ProbeTCP, Port: port}}
	return cfg
}

func TestRunWritesStartAndExitLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "internet-connection.log")
	cfg := localConfig(t, true)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	var stdout bytes.Buffer
	if err := run(ctx, &stdout, logPath, cfg); err != nil {
		t.Fatalf("Expected clean exit, got %v", err)
	}

	if !strings.Contains(stdout.String(), "logging to "+logPath+" ...") {
		t.Errorf("Expected log path announcement, got %q", stdout.String())
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected start and exit lines, got %q", string(data))
	}
	if !strings.HasSuffix(lines[0], " - Starting internet connection checker (check interval: 0.02s), internet is UP") {
		t.Errorf("Unexpected start line: %q", lines[0])
	}
	if !strings.Contains(lines[1], " - Exiting internet connection checker, internet is UP (for ") {
		t.Errorf("Unexpected exit line: %q", lines[1])
	}
}

func TestRunExitsCleanlyWhileDown(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "net.log")
	cfg := localConfig(t, false)
	cfg.MetricsAddr = "127.0.0.1:0"

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := run(ctx, io.Discard, logPath, cfg); err != nil {
		t.Fatalf("Expected clean exit, got %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Exiting internet connection checker, internet is DOWN (for ") {
		t.Errorf("Expected DOWN exit line, got %q", string(data))
	}
}

func TestRunRejectsUnknownLocale(t *testing.T) {
	cfg := localConfig(t, true)
	cfg.TimestampLocale = "xx_XX"

	if err := run(context.Background(), io.Discard, filepath.Join(t.TempDir(), "x.log"), cfg); err == nil {
		t.Error("Expected error for unsupported timestamp locale")
	}
}
