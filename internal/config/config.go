package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rohmanhakim/site-crawler/internal/browser"
)

type Config struct {
	//===============
	//  Crawl scope
	//===============
	// Initial page the crawler begins discovering and traversing from.
	seedURL string
	// Restrict traversal to the seed URL's host
	sameDomainOnly bool
	// Also admit subdomains of the seed host. Only meaningful together
	// with sameDomainOnly.
	followSubdomains bool
	// Optional regular expression tested against canonical URLs; pages
	// failing the pattern are excluded from traversal
	filterPattern string

	//===============
	// Limits
	//===============
	// Maximum number of hyperlink hops from the seed URL
	maxDepth int

	//===============
	// Politeness
	//===============
	// Minimum fixed waiting time enforced between two page visits
	rateLimit time.Duration
	// User agent presented by the browser session. In raw string
	userAgent string

	//===============
	// Rendering
	//===============
	// Whether the browser runs without a visible window
	headless bool
	// Browser window dimensions, also the viewport size for screenshots
	windowWidth  int
	windowHeight int
	// Pause after each scroll so lazy-loaded content finishes rendering
	settleDelay time.Duration
	// Scripted page interactions keyed by canonical URL, executed after
	// navigation and before extraction
	actionsPerURL map[string][]browser.Action

	//===============
	// Output
	//===============
	// Output formats produced for every visited page
	outputFormats []string
	// Root directory in which to store the resulting artifacts
	outputDir string
	// Whether the program simulates what it would do without
	// actually performing any irreversible or side-effecting actions
	dryRun bool
}

type configDTO struct {
	SeedURL          string                      `json:"seedUrl"`
	SameDomainOnly   bool                        `json:"sameDomainOnly,omitempty"`
	FollowSubdomains bool                        `json:"followSubdomains,omitempty"`
	FilterPattern    string                      `json:"filterPattern,omitempty"`
	MaxDepth         int                         `json:"maxDepth,omitempty"`
	RateLimit        time.Duration               `json:"rateLimit,omitempty"`
	UserAgent        string                      `json:"userAgent,omitempty"`
	Headless         *bool                       `json:"headless,omitempty"`
	WindowWidth      int                         `json:"windowWidth,omitempty"`
	WindowHeight     int                         `json:"windowHeight,omitempty"`
	SettleDelay      time.Duration               `json:"settleDelay,omitempty"`
	ActionsPerURL    map[string][]browser.Action `json:"actionsPerUrl,omitempty"`
	OutputFormats    []string                    `json:"outputFormats,omitempty"`
	OutputDir        string                      `json:"outputDir,omitempty"`
	DryRun           bool                        `json:"dryRun,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {

	// Start with default config
	cfg, err := WithDefault(dto.SeedURL).Build()
	if err != nil {
		return Config{}, err
	}

	// Booleans without a meaningful zero default are taken as-is
	cfg.sameDomainOnly = dto.SameDomainOnly
	cfg.followSubdomains = dto.FollowSubdomains
	cfg.dryRun = dto.DryRun

	// Headless defaults to true, so absence must be distinguishable from
	// an explicit false
	if dto.Headless != nil {
		cfg.headless = *dto.Headless
	}

	if dto.FilterPattern != "" {
		cfg.filterPattern = dto.FilterPattern
	}
	if dto.MaxDepth != 0 {
		cfg.maxDepth = dto.MaxDepth
	}
	if dto.RateLimit != 0 {
		cfg.rateLimit = dto.RateLimit
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	if dto.WindowWidth != 0 {
		cfg.windowWidth = dto.WindowWidth
	}
	if dto.WindowHeight != 0 {
		cfg.windowHeight = dto.WindowHeight
	}
	if dto.SettleDelay != 0 {
		cfg.settleDelay = dto.SettleDelay
	}
	if len(dto.ActionsPerURL) > 0 {
		cfg.actionsPerURL = dto.ActionsPerURL
	}
	if len(dto.OutputFormats) > 0 {
		cfg.outputFormats = dto.OutputFormats
	}
	if dto.OutputDir != "" {
		cfg.outputDir = dto.OutputDir
	}

	return cfg, nil
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	cfg, err := newConfigFromDTO(cfgDTO)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithDefault creates a new Config with the provided seed URL and default
// values for all other fields. seedURL is mandatory and must not be empty -
// Build will return an error if it is.
func WithDefault(seedURL string) *Config {
	defaultConfig := Config{
		seedURL:          seedURL,
		sameDomainOnly:   false,
		followSubdomains: false,
		filterPattern:    "",
		maxDepth:         2,
		rateLimit:        time.Second,
		userAgent:        "site-crawler/1.0",
		headless:         true,
		windowWidth:      1280,
		windowHeight:     800,
		settleDelay:      500 * time.Millisecond,
		actionsPerURL:    map[string][]browser.Action{},
		outputFormats:    []string{"markdown"},
		outputDir:        "output",
		dryRun:           false,
	}
	return &defaultConfig
}

func (c *Config) WithSeedURL(seedURL string) *Config {
	c.seedURL = seedURL
	return c
}

func (c *Config) WithSameDomainOnly(sameDomainOnly bool) *Config {
	c.sameDomainOnly = sameDomainOnly
	return c
}

func (c *Config) WithFollowSubdomains(followSubdomains bool) *Config {
	c.followSubdomains = followSubdomains
	return c
}

func (c *Config) WithFilterPattern(pattern string) *Config {
	c.filterPattern = pattern
	return c
}

func (c *Config) WithMaxDepth(depth int) *Config {
	c.maxDepth = depth
	return c
}

func (c *Config) WithRateLimit(limit time.Duration) *Config {
	c.rateLimit = limit
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithHeadless(headless bool) *Config {
	c.headless = headless
	return c
}

func (c *Config) WithWindowSize(width, height int) *Config {
	c.windowWidth = width
	c.windowHeight = height
	return c
}

func (c *Config) WithSettleDelay(delay time.Duration) *Config {
	c.settleDelay = delay
	return c
}

func (c *Config) WithActionsPerURL(actions map[string][]browser.Action) *Config {
	c.actionsPerURL = actions
	return c
}

func (c *Config) WithOutputFormats(formats []string) *Config {
	c.outputFormats = formats
	return c
}

func (c *Config) WithOutputDir(outputDir string) *Config {
	c.outputDir = outputDir
	return c
}

func (c *Config) WithDryRun(dryRun bool) *Config {
	c.dryRun = dryRun
	return c
}

func (c *Config) Build() (Config, error) {
	if c.seedURL == "" {
		return Config{}, fmt.Errorf("%w: seedUrl cannot be empty", ErrInvalidConfig)
	}
	if c.maxDepth < 0 {
		return Config{}, fmt.Errorf("%w: maxDepth cannot be negative", ErrInvalidConfig)
	}
	if c.rateLimit < 0 {
		return Config{}, fmt.Errorf("%w: rateLimit cannot be negative", ErrInvalidConfig)
	}
	if len(c.outputFormats) == 0 {
		return Config{}, fmt.Errorf("%w: outputFormats cannot be empty", ErrInvalidConfig)
	}

	return *c, nil
}

func (c Config) SeedURL() string {
	return c.seedURL
}

func (c Config) SameDomainOnly() bool {
	return c.sameDomainOnly
}

func (c Config) FollowSubdomains() bool {
	return c.followSubdomains
}

func (c Config) FilterPattern() string {
	return c.filterPattern
}

func (c Config) MaxDepth() int {
	return c.maxDepth
}

func (c Config) RateLimit() time.Duration {
	return c.rateLimit
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) Headless() bool {
	return c.headless
}

func (c Config) WindowWidth() int {
	return c.windowWidth
}

func (c Config) WindowHeight() int {
	return c.windowHeight
}

func (c Config) SettleDelay() time.Duration {
	return c.settleDelay
}

func (c Config) ActionsPerURL() map[string][]browser.Action {
	actions := make(map[string][]browser.Action, len(c.actionsPerURL))
	for k, v := range c.actionsPerURL {
		actions[k] = v
	}
	return actions
}

func (c Config) OutputFormats() []string {
	formats := make([]string, len(c.outputFormats))
	copy(formats, c.outputFormats)
	return formats
}

func (c Config) OutputDir() string {
	return c.outputDir
}

func (c Config) DryRun() bool {
	return c.dryRun
}
