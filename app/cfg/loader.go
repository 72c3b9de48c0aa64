package cfg

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Feed definitions
	FeedsDir string `long:"feeds-dir" env:"FEEDS_DIR" default:"./feeds" description:"Directory containing feed definition files (*.yml)"`
	Output   string `long:"output" env:"OUTPUT" description:"Override the output path of every feed definition"`

	// HTTP client
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Bonikbarta-RSS/1.0" description:"User agent string for API requests (empty disables request headers)"`
	Timeout   int    `long:"timeout" env:"HTTP_TIMEOUT" default:"0" description:"Per-request timeout in seconds (0 uses the feed definition value)"`

	// Run policy
	FailOnEmpty bool `long:"fail-on-empty" env:"FAIL_ON_EMPTY" description:"Fail the run instead of writing an empty feed when no posts were fetched"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps without offset (e.g., UTC, Asia/Dhaka)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses the process arguments and environment. It returns nil, nil
// when help was requested.
func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be non-negative, got %d", raw.Timeout)
	}

	cfg := &Cfg{
		FeedsDir:    raw.FeedsDir,
		Output:      raw.Output,
		UserAgent:   raw.UserAgent,
		Timeout:     time.Duration(raw.Timeout) * time.Second,
		FailOnEmpty: raw.FailOnEmpty,
		Timezone:    raw.Timezone,
		Debug:       raw.Debug,
		Version:     GetVersion(),
	}

	return cfg, nil
}

// ApplyTimezone sets time.Local to the configured timezone. time.Local is
// left unchanged when the timezone cannot be loaded.
func (c *Cfg) ApplyTimezone() error {
	if c.Timezone == "" {
		return nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	time.Local = loc
	return nil
}
