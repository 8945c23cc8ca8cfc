// Package elapsed renders durations as coarse natural language,
// e.g. "a few seconds" or "3 minutes".
package elapsed

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
)

type phrases struct {
	fewSeconds, seconds string
	minute, minutes     string
	hour, hours         string
	day, days           string
	month, months       string
	year, years         string
}

var locales = map[string]phrases{
	"en": {
		fewSeconds: "a few seconds", seconds: "%d seconds",
		minute: "a minute", minutes: "%d minutes",
		hour: "an hour", hours: "%d hours",
		day: "a day", days: "%d days",
		month: "a month", months: "%d months",
		year: "a year", years: "%d years",
	},
	"de": {
		fewSeconds: "ein paar Sekunden", seconds: "%d Sekunden",
		minute: "eine Minute", minutes: "%d Minuten",
		hour: "eine Stunde", hours: "%d Stunden",
		day: "ein Tag", days: "%d Tage",
		month: "ein Monat", months: "%d Monate",
		year: "ein Jahr", years: "%d Jahre",
	},
}

// Calendar month and year as averaged over the Gregorian 400-year cycle
const (
	month = 2629746 * time.Second
	year  = 12 * month
)

// Humanizer formats durations for one locale
type Humanizer struct {
	magnitudes []humanize.RelTimeMagnitude
}

// New returns a Humanizer for locale ("en" or "de")
func New(locale string) (*Humanizer, error) {
	p, ok := locales[locale]
	if !ok {
		return nil, fmt.Errorf("unsupported duration locale: %s (supported: %v)", locale, Locales())
	}

	// Upper bounds sit half a unit below each threshold so that
	// rounding to the nearest unit picks the tier.
	magnitudes := []humanize.RelTimeMagnitude{
		{D: 500 * time.Millisecond, Format: p.fewSeconds, DivBy: time.Second},
		{D: 44*time.Second + 500*time.Millisecond, Format: p.seconds, DivBy: time.Second},
		{D: 90 * time.Second, Format: p.minute, DivBy: time.Minute},
		{D: 44*time.Minute + 30*time.Second, Format: p.minutes, DivBy: time.Minute},
		{D: 90 * time.Minute, Format: p.hour, DivBy: time.Hour},
		{D: 21*time.Hour + 30*time.Minute, Format: p.hours, DivBy: time.Hour},
		{D: 36 * time.Hour, Format: p.day, DivBy: humanize.Day},
		{D: 25*humanize.Day + 12*time.Hour, Format: p.days, DivBy: humanize.Day},
		{D: month * 3 / 2, Format: p.month, DivBy: month},
		{D: month * 21 / 2, Format: p.months, DivBy: month},
		{D: year * 3 / 2, Format: p.year, DivBy: year},
		{D: math.MaxInt64, Format: p.years, DivBy: year},
	}

	return &Humanizer{magnitudes: magnitudes}, nil
}

// Format renders d rounded to the nearest unit; negative durations render like zero
func (h *Humanizer) Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	n := sort.Search(len(h.magnitudes), func(i int) bool {
		return h.magnitudes[i].D > d
	})
	if n >= len(h.magnitudes) {
		n = len(h.magnitudes) - 1
	}
	mag := h.magnitudes[n]

	if half := mag.DivBy / 2; d <= math.MaxInt64-half {
		d += half
	}

	var base time.Time
	return humanize.CustomRelTime(base, base.Add(d), "", "", []humanize.RelTimeMagnitude{mag})
}

// Locales lists the supported locales
func Locales() []string {
	out := make([]string, 0, len(locales))
	for l := range locales {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
