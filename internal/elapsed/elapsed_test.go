package elapsed

import (
	"testing"
	"time"
)

func TestFormatEnglish(t *testing.T) {
	h, err := New("en")
	if err != nil {
		t.Fatal(err)
	}

	day := 24 * time.Hour
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "a few seconds"},
		{300 * time.Millisecond, "a few seconds"},
		{3 * time.Second, "3 seconds"},
		{5 * time.Second, "5 seconds"},
		{12 * time.Second, "12 seconds"},
		{44 * time.Second, "44 seconds"},
		{45 * time.Second, "a minute"},
		{89 * time.Second, "a minute"},
		{90 * time.Second, "2 minutes"},
		{2 * time.Minute, "2 minutes"},
		{44 * time.Minute, "44 minutes"},
		{44*time.Minute + 40*time.Second, "an hour"},
		{89 * time.Minute, "an hour"},
		{100 * time.Minute, "2 hours"},
		{3 * time.Hour, "3 hours"},
		{21 * time.Hour, "21 hours"},
		{22 * time.Hour, "a day"},
		{36 * time.Hour, "2 days"},
		{5 * day, "5 days"},
		{26 * day, "a month"},
		{40 * day, "a month"},
		{100 * day, "3 months"},
		{400 * day, "a year"},
		{800 * day, "2 years"},
		{-time.Minute, "a few seconds"},
	}

	for _, c := range cases {
		if got := h.Format(c.d); got != c.want {
			t.Errorf("Format(%s) = %q, want %q", c.d, got, c.want)
		}
	}
}

func TestFormatGerman(t *testing.T) {
	h, err := New("de")
	if err != nil {
		t.Fatal(err)
	}

	if got := h.Format(5 * time.Minute); got != "5 Minuten" {
		t.Errorf("Expected '5 Minuten', got %q", got)
	}
	if got := h.Format(0); got != "ein paar Sekunden" {
		t.Errorf("Expected 'ein paar Sekunden', got %q", got)
	}
	if got := h.Format(100 * time.Minute); got != "2 Stunden" {
		t.Errorf("Expected '2 Stunden', got %q", got)
	}
}

func TestNewRejectsUnknownLocale(t *testing.T) {
	if _, err := New("xx"); err == nil {
		t.Error("Expected error for unknown locale")
	}
}
