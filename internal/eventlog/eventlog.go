// Package eventlog writes timestamped, human-readable lines to standard
// output and appends them durably to a plain text log file.
package eventlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/goodsign/monday"
)

// Separator sits between the timestamp and the message of every line
const Separator = " - "

// long localized date-time layouts, minute resolution
var layouts = map[string]string{
	"de_DE": "2. January 2006 15:04",
	"en_GB": "2 January 2006 15:04",
	"en_US": "January 2, 2006 3:04 PM",
}

// Logger appends lines to one log file. It is used by a single goroutine.
type Logger struct {
	path   string
	stdout io.Writer
	locale monday.Locale
	layout string
	now    func() time.Time
	log    *slog.Logger

	plain lipgloss.Style
	up    lipgloss.Style
	down  lipgloss.Style
}

// Option customises a Logger
type Option func(*Logger)

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		l.now = now
	}
}

// WithDiagnostics sets where write failures are reported
func WithDiagnostics(log *slog.Logger) Option {
	return func(l *Logger) {
		l.log = log
	}
}

// New creates a Logger appending to path and mirroring to stdout
func New(path string, stdout io.Writer, locale string, opts ...Option) (*Logger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("log file path is required")
	}
	layout, ok := layouts[locale]
	if !ok {
		return nil, fmt.Errorf("unsupported timestamp locale: %s (supported: %s)", locale, strings.Join(Locales(), ", "))
	}
	if stdout == nil {
		stdout = os.Stdout
	}

	renderer := lipgloss.NewRenderer(stdout)
	l := &Logger{
		path:   path,
		stdout: stdout,
		locale: monday.Locale(locale),
		layout: layout,
		now:    time.Now,
		log:    slog.Default(),
		plain:  renderer.NewStyle(),
		up:     renderer.NewStyle().Foreground(lipgloss.Color("10")),
		down:   renderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Path returns the log file path
func (l *Logger) Path() string {
	return l.path
}

// AppendLine timestamps message, prints it and appends it to the log file.
// A failed file write is reported on the diagnostics logger and returned;
// the stdout line is printed regardless.
func (l *Logger) AppendLine(message string) error {
	return l.appendLine(message, l.plain)
}

// AppendState is AppendLine with the stdout copy coloured by connectivity
func (l *Logger) AppendState(message string, up bool) error {
	style := l.down
	if up {
		style = l.up
	}
	return l.appendLine(message, style)
}

func (l *Logger) appendLine(message string, style lipgloss.Style) error {
	line := l.Timestamp(l.now()) + Separator + message
	fmt.Fprintln(l.stdout, style.Render(line))

	if err := l.write(line + "\n"); err != nil {
		l.log.Error("failed to append to log file", "path", l.path, "error", err)
		return err
	}
	return nil
}

func (l *Logger) write(data string) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	if _, err := f.WriteString(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write log file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}

	return nil
}

// Timestamp renders t in the logger's long localized format
func (l *Logger) Timestamp(t time.Time) string {
	return monday.Format(t, l.layout, l.locale)
}

// ParseLine splits a log line into its timestamp and message
func (l *Logger) ParseLine(line string) (time.Time, string, error) {
	ts, message, ok := strings.Cut(strings.TrimRight(line, "\r\n"), Separator)
	if !ok {
		return time.Time{}, "", fmt.Errorf("missing separator in line %q", line)
	}

	t, err := monday.ParseInLocation(l.layout, ts, time.Local, l.locale)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("failed to parse timestamp %q: %w", ts, err)
	}

	return t, message, nil
}

// Locales lists the supported timestamp locales
func Locales() []string {
	out := make([]string, 0, len(layouts))
	for l := range layouts {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
