package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/site-crawler/internal/build"
	"github.com/rohmanhakim/site-crawler/internal/config"
	"github.com/rohmanhakim/site-crawler/internal/scheduler"
)

var (
	cfgFile          string
	seedURL          string
	outputFormats    []string
	maxDepth         int
	sameDomainOnly   bool
	followSubdomains bool
	rateLimit        time.Duration
	filterPattern    string
	outputDir        string
	dryRun           bool
	headless         bool
	userAgent        string
	settleDelay      time.Duration
	showVersion      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "site-crawler",
	Short: "A breadth-first website crawler with structured extraction.",
	Long: `site-crawler crawls a website starting from a seed URL, extracts
structured content from each visited page through a headless browser, and
renders that content into the requested output formats (markdown, JSON,
link lists, page screenshots).

Traversal is breadth-first with depth, domain-scope, and rate limits, and
every URL is visited at most once per crawl.`,
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Println(build.FullVersion())
			return
		}

		if seedURL == "" && cfgFile == "" {
			fmt.Fprintf(os.Stderr, "Error: --seed-url is required. Please provide a seed URL to start crawling.\n")
			cmd.Usage()
			os.Exit(1)
		}

		cfg := InitConfig(seedURL)

		s := scheduler.NewScheduler(cfg)
		result, err := s.Crawl(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: crawl aborted: %s\n", err)
			os.Exit(1)
		}

		failed := 0
		for _, page := range result.Pages {
			if page.Err != "" {
				failed++
			}
		}
		fmt.Printf("Crawl finished: %d pages visited, %d failed\n", len(result.Pages), failed)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringVar(&seedURL, "seed-url", "", "starting URL for the crawl")
	rootCmd.PersistentFlags().StringArrayVar(&outputFormats, "format", []string{}, "output format (can be repeated): markdown, json, html, rawHtml, links, preview, gfm, screenshot, screenshot@fullPage")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 0, "maximum link depth from the seed URL")
	rootCmd.PersistentFlags().BoolVar(&sameDomainOnly, "same-domain-only", false, "restrict traversal to the seed URL's host")
	rootCmd.PersistentFlags().BoolVar(&followSubdomains, "follow-subdomains", false, "also admit subdomains of the seed host")
	rootCmd.PersistentFlags().DurationVar(&rateLimit, "rate-limit", 0, "minimum interval between page visits")
	rootCmd.PersistentFlags().StringVar(&filterPattern, "filter-pattern", "", "regular expression URLs must match to be crawled")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "root output directory for crawl artifacts")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "crawl without writing output")
	rootCmd.PersistentFlags().BoolVar(&headless, "headless", true, "run the browser without a visible window")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent presented by the browser session")
	rootCmd.PersistentFlags().DurationVar(&settleDelay, "settle-delay", 0, "pause after each scroll for lazy-loaded content")
	rootCmd.PersistentFlags().BoolVar(&showVersion, "version", false, "print version and exit")
}

// InitConfig builds the crawl configuration from the config file or flags.
func InitConfig(seedURL string) config.Config {
	cfg, err := InitConfigWithError(seedURL)
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

// InitConfigWithError builds the crawl configuration, returning any errors.
// This makes it easier to test error cases.
func InitConfigWithError(seedURL string) (config.Config, error) {
	if cfgFile != "" {
		fmt.Printf("Initializing config from file: %s\n", cfgFile)
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	if seedURL == "" {
		return config.Config{}, fmt.Errorf("%w: seed URL cannot be empty", config.ErrInvalidConfig)
	}

	// Start with default config and apply flag overrides using method chaining
	configBuilder := config.WithDefault(seedURL)

	if len(outputFormats) > 0 {
		configBuilder = configBuilder.WithOutputFormats(outputFormats)
	}

	if maxDepth > 0 {
		configBuilder = configBuilder.WithMaxDepth(maxDepth)
	}

	if sameDomainOnly {
		configBuilder = configBuilder.WithSameDomainOnly(sameDomainOnly)
	}

	if followSubdomains {
		configBuilder = configBuilder.WithFollowSubdomains(followSubdomains)
	}

	if rateLimit > 0 {
		configBuilder = configBuilder.WithRateLimit(rateLimit)
	}

	if filterPattern != "" {
		configBuilder = configBuilder.WithFilterPattern(filterPattern)
	}

	if outputDir != "" {
		configBuilder = configBuilder.WithOutputDir(outputDir)
	}

	if dryRun {
		configBuilder = configBuilder.WithDryRun(dryRun)
	}

	if !headless {
		configBuilder = configBuilder.WithHeadless(headless)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if settleDelay > 0 {
		configBuilder = configBuilder.WithSettleDelay(settleDelay)
	}

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func ResetFlags() {
	cfgFile = ""
	seedURL = ""
	outputFormats = []string{}
	maxDepth = 0
	sameDomainOnly = false
	followSubdomains = false
	rateLimit = 0
	filterPattern = ""
	outputDir = ""
	dryRun = false
	headless = true
	userAgent = ""
	settleDelay = 0
	showVersion = false
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetOutputFormatsForTest(formats []string) {
	outputFormats = formats
}

func SetMaxDepthForTest(depth int) {
	maxDepth = depth
}

func SetRateLimitForTest(limit time.Duration) {
	rateLimit = limit
}

func SetSameDomainOnlyForTest(v bool) {
	sameDomainOnly = v
}

func SetOutputDirForTest(dir string) {
	outputDir = dir
}

func SetDryRunForTest(dry bool) {
	dryRun = dry
}

func SetHeadlessForTest(v bool) {
	headless = v
}
