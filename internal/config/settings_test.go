package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSettingsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write settings file: %v", err)
	}
	return path
}

func TestLoadSettingsDefaults(t *testing.T) {
	settings, err := LoadSettings("")
	if err != nil {
		t.Fatalf("LoadSettings(\"\"): %v", err)
	}
	if settings != DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", settings)
	}
}

func TestLoadSettingsFile(t *testing.T) {
	path := writeSettingsFile(t, `
page_title: Subway Stats
theme: dark
top_n: 15
share_top_n: 3
sample_rows: 250
`)

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if settings.PageTitle != "Subway Stats" {
		t.Errorf("PageTitle = %q", settings.PageTitle)
	}
	if settings.TopN != 15 {
		t.Errorf("TopN = %d, want 15", settings.TopN)
	}
	if settings.SampleRows != 250 {
		t.Errorf("SampleRows = %d, want 250", settings.SampleRows)
	}
}

func TestLoadSettingsPartialFileKeepsDefaults(t *testing.T) {
	path := writeSettingsFile(t, "top_n: 5\n")

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if settings.TopN != 5 {
		t.Errorf("TopN = %d, want 5", settings.TopN)
	}
	if settings.PageTitle != DefaultSettings().PageTitle {
		t.Errorf("PageTitle = %q, want default", settings.PageTitle)
	}
}

func TestLoadSettingsValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"top_n too large", "top_n: 100\n"},
		{"sample_rows too large", "sample_rows: 5000\n"},
		{"empty page title", "page_title: \"\"\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSettingsFile(t, tc.content)
			if _, err := LoadSettings(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Error("expected error for missing settings file")
	}
}

func TestLoadSettingsMalformedYAML(t *testing.T) {
	path := writeSettingsFile(t, "top_n: [unterminated\n")
	if _, err := LoadSettings(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
