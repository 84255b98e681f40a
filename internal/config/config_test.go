package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rohmanhakim/site-crawler/internal/config"
)

func TestWithDefault(t *testing.T) {
	cfg := config.WithDefault("https://example.org")

	if cfg == nil {
		t.Fatal("WithDefault() returned nil")
	}

	builtCfg, err := cfg.Build()

	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}

	if builtCfg.SeedURL() != "https://example.org" {
		t.Errorf("expected seed URL 'https://example.org', got '%s'", builtCfg.SeedURL())
	}

	// Verify scope defaults
	if builtCfg.SameDomainOnly() != false {
		t.Errorf("expected SameDomainOnly false, got %v", builtCfg.SameDomainOnly())
	}
	if builtCfg.FollowSubdomains() != false {
		t.Errorf("expected FollowSubdomains false, got %v", builtCfg.FollowSubdomains())
	}
	if builtCfg.FilterPattern() != "" {
		t.Errorf("expected empty FilterPattern, got '%s'", builtCfg.FilterPattern())
	}

	// Verify numeric limits
	if builtCfg.MaxDepth() != 2 {
		t.Errorf("expected MaxDepth 2, got %d", builtCfg.MaxDepth())
	}

	// Verify durations
	if builtCfg.RateLimit() != time.Second {
		t.Errorf("expected RateLimit 1s, got %v", builtCfg.RateLimit())
	}
	if builtCfg.SettleDelay() != 500*time.Millisecond {
		t.Errorf("expected SettleDelay 500ms, got %v", builtCfg.SettleDelay())
	}

	// Verify rendering defaults
	if builtCfg.Headless() != true {
		t.Errorf("expected Headless true, got %v", builtCfg.Headless())
	}
	if builtCfg.WindowWidth() != 1280 || builtCfg.WindowHeight() != 800 {
		t.Errorf("expected window 1280x800, got %dx%d", builtCfg.WindowWidth(), builtCfg.WindowHeight())
	}

	// Verify output defaults
	if len(builtCfg.OutputFormats()) != 1 || builtCfg.OutputFormats()[0] != "markdown" {
		t.Errorf("expected OutputFormats ['markdown'], got %v", builtCfg.OutputFormats())
	}
	if builtCfg.OutputDir() != "output" {
		t.Errorf("expected OutputDir 'output', got '%s'", builtCfg.OutputDir())
	}
	if builtCfg.DryRun() != false {
		t.Errorf("expected DryRun false, got %v", builtCfg.DryRun())
	}

	// Verify other fields
	if builtCfg.UserAgent() != "site-crawler/1.0" {
		t.Errorf("expected UserAgent 'site-crawler/1.0', got '%s'", builtCfg.UserAgent())
	}
}

func TestWithDefault_EmptySeedURL(t *testing.T) {
	cfg := config.WithDefault("")

	if cfg == nil {
		t.Fatal("WithDefault() returned nil")
	}

	_, err := cfg.Build()
	if err == nil {
		t.Errorf("should error")
	}

	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig err, got %v", err)
	}
}

func TestBuild_RejectsNegativeLimits(t *testing.T) {
	_, err := config.WithDefault("https://example.org").WithMaxDepth(-1).Build()
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for negative maxDepth, got %v", err)
	}

	_, err = config.WithDefault("https://example.org").WithRateLimit(-time.Second).Build()
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for negative rateLimit, got %v", err)
	}

	_, err = config.WithDefault("https://example.org").WithOutputFormats(nil).Build()
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for empty outputFormats, got %v", err)
	}
}

func TestBuilderOverrides(t *testing.T) {
	cfg, err := config.WithDefault("https://example.org").
		WithSameDomainOnly(true).
		WithFollowSubdomains(true).
		WithMaxDepth(5).
		WithRateLimit(2 * time.Second).
		WithFilterPattern(`/docs/`).
		WithOutputFormats([]string{"markdown", "screenshot"}).
		WithHeadless(false).
		WithWindowSize(1920, 1080).
		Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	if !cfg.SameDomainOnly() || !cfg.FollowSubdomains() {
		t.Error("expected domain scope flags to be set")
	}
	if cfg.MaxDepth() != 5 {
		t.Errorf("expected MaxDepth 5, got %d", cfg.MaxDepth())
	}
	if cfg.RateLimit() != 2*time.Second {
		t.Errorf("expected RateLimit 2s, got %v", cfg.RateLimit())
	}
	if cfg.FilterPattern() != `/docs/` {
		t.Errorf("expected FilterPattern '/docs/', got '%s'", cfg.FilterPattern())
	}
	if len(cfg.OutputFormats()) != 2 {
		t.Errorf("expected 2 output formats, got %v", cfg.OutputFormats())
	}
	if cfg.Headless() {
		t.Error("expected Headless false")
	}
	if cfg.WindowWidth() != 1920 || cfg.WindowHeight() != 1080 {
		t.Errorf("expected window 1920x1080, got %dx%d", cfg.WindowWidth(), cfg.WindowHeight())
	}
}

func TestWithConfigFile(t *testing.T) {
	content := `{
		"seedUrl": "https://docs.example.org",
		"sameDomainOnly": true,
		"maxDepth": 4,
		"rateLimit": 2000000000,
		"headless": false,
		"outputFormats": ["markdown", "json"],
		"outputDir": "artifacts",
		"actionsPerUrl": {
			"https://docs.example.org/search": [
				{"type": "write", "selector": "#q", "text": "install"},
				{"type": "press", "key": "ENTER"}
			]
		}
	}`

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := config.WithConfigFile(path)
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	if cfg.SeedURL() != "https://docs.example.org" {
		t.Errorf("expected seed URL from file, got '%s'", cfg.SeedURL())
	}
	if !cfg.SameDomainOnly() {
		t.Error("expected SameDomainOnly true")
	}
	if cfg.MaxDepth() != 4 {
		t.Errorf("expected MaxDepth 4, got %d", cfg.MaxDepth())
	}
	if cfg.RateLimit() != 2*time.Second {
		t.Errorf("expected RateLimit 2s, got %v", cfg.RateLimit())
	}
	if cfg.Headless() {
		t.Error("expected explicit headless false to override the default")
	}
	if cfg.OutputDir() != "artifacts" {
		t.Errorf("expected OutputDir 'artifacts', got '%s'", cfg.OutputDir())
	}

	actions := cfg.ActionsPerURL()["https://docs.example.org/search"]
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions for search page, got %d", len(actions))
	}
	if actions[0].Selector != "#q" || actions[0].Text != "install" {
		t.Errorf("unexpected first action: %+v", actions[0])
	}
	if actions[1].Key != "ENTER" {
		t.Errorf("unexpected second action: %+v", actions[1])
	}
}

func TestWithConfigFile_DoesNotExist(t *testing.T) {
	_, err := config.WithConfigFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, config.ErrFileDoesNotExist) {
		t.Errorf("expected ErrFileDoesNotExist, got %v", err)
	}
}

func TestWithConfigFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := config.WithConfigFile(path)
	if !errors.Is(err, config.ErrConfigParsingFail) {
		t.Errorf("expected ErrConfigParsingFail, got %v", err)
	}
}
