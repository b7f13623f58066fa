package report

import (
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GITHUB_USERNAME", "maki")
	t.Setenv("SLACK_USER_ID", "U123")
	t.Setenv("GOOGLE_CALENDAR_IDS", "primary,work@group.calendar.google.com")
	t.Setenv("NOTION_DATABASE_ID", "db-report")
	t.Setenv("NOTION_BOKI_DATABASE_ID", "")
	t.Setenv("EMAIL_FROM", "")
	t.Setenv("EMAIL_PASSWORD", "")
	t.Setenv("EMAIL_TO", "")
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("NOTION_BOKI_DATABASE_ID", "db-boki")

	cfg := LoadConfig()

	if cfg.GitHubUsername != "maki" {
		t.Errorf("GitHubUsername = %q, want maki", cfg.GitHubUsername)
	}
	if cfg.SlackUserID != "U123" {
		t.Errorf("SlackUserID = %q, want U123", cfg.SlackUserID)
	}
	if cfg.CalendarIDs != "primary,work@group.calendar.google.com" {
		t.Errorf("CalendarIDs = %q", cfg.CalendarIDs)
	}
	if cfg.NotionDatabaseID != "db-report" {
		t.Errorf("NotionDatabaseID = %q, want db-report", cfg.NotionDatabaseID)
	}
	if cfg.BokiDatabaseID != "db-boki" {
		t.Errorf("BokiDatabaseID = %q, want db-boki", cfg.BokiDatabaseID)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfigValidate_MissingRequired(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"github username", func(c *Config) { c.GitHubUsername = "" }, "GITHUB_USERNAME"},
		{"slack user id", func(c *Config) { c.SlackUserID = "" }, "SLACK_USER_ID"},
		{"calendar ids", func(c *Config) { c.CalendarIDs = "" }, "GOOGLE_CALENDAR_IDS"},
		{"notion database", func(c *Config) { c.NotionDatabaseID = "" }, "NOTION_DATABASE_ID"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{
				GitHubUsername:   "maki",
				SlackUserID:      "U123",
				CalendarIDs:      "primary",
				NotionDatabaseID: "db-report",
			}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("want validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want mention of %s", err, tc.want)
			}
		})
	}
}

func TestConfigValidate_BokiDatabaseIsOptional(t *testing.T) {
	cfg := Config{
		GitHubUsername:   "maki",
		SlackUserID:      "U123",
		CalendarIDs:      "primary",
		NotionDatabaseID: "db-report",
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfigNotifyEnabled(t *testing.T) {
	cfg := Config{EmailFrom: "a@example.com", EmailPassword: "app-pass", EmailTo: "b@example.com"}
	if !cfg.notifyEnabled() {
		t.Error("notifyEnabled = false, want true with all three set")
	}

	// 3つのうちどれか1つでも欠けたら無効
	for _, mutate := range []func(*Config){
		func(c *Config) { c.EmailFrom = "" },
		func(c *Config) { c.EmailPassword = "" },
		func(c *Config) { c.EmailTo = "" },
	} {
		c := cfg
		mutate(&c)
		if c.notifyEnabled() {
			t.Errorf("notifyEnabled = true for %+v, want false", c)
		}
	}
}
