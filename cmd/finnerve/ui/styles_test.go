package ui

import (
	"testing"

	"github.com/genomike/finnerve/internal/extract"
)

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("FINNERVE_DARK_MODE", "1")
	if !DetectTheme().IsDark {
		t.Fatal("expected dark theme when FINNERVE_DARK_MODE=1")
	}

	t.Setenv("FINNERVE_DARK_MODE", "")
	if DetectTheme().IsDark {
		t.Fatal("expected light theme when FINNERVE_DARK_MODE is unset")
	}

	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Fatal("expected dark theme for dark COLORFGBG background")
	}
}

func TestSeverityBadge(t *testing.T) {
	s := NewStyles(LightTheme())

	if s.SeverityBadge(extract.SeverityUnknown) != "" {
		t.Fatal("unknown severity must render no badge")
	}
	for _, sev := range []extract.Severity{extract.SeverityLow, extract.SeverityMedium, extract.SeverityHigh} {
		if s.SeverityBadge(sev) == "" {
			t.Fatalf("expected badge for severity %s", sev)
		}
	}
}
