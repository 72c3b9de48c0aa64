package feed

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	defaultMaxItems     = 50
	defaultTimeout      = 30 // seconds
	defaultLegacyPrefix = "/home"
	defaultLanguage     = "bn"
	defaultOutput       = "feed.xml"
)

// DefaultConfig returns the built-in Bonikbarta feed definition used when no
// definition files are present.
func DefaultConfig() *Config {
	config := &Config{
		Name: "bonikbarta",
		Endpoints: []string{
			"https://bonikbarta.com/api/post-filters/17?root_path=00000000010000000001",
			"https://bonikbarta.com/api/post-lists/18?root_path=00000000010000000001",
			"https://bonikbarta.com/api/post-lists/19?root_path=00000000010000000001",
			"https://bonikbarta.com/api/post-lists/20?root_path=00000000010000000001",
			"https://bonikbarta.com/api/post-lists/21?root_path=00000000010000000001",
			"https://bonikbarta.com/api/post-filters/22?root_path=00000000010000000001",
			"https://bonikbarta.com/api/post-lists/23?root_path=00000000010000000001",
		},
		BaseURL:     "https://bonikbarta.com",
		SiteURL:     "https://bonikbarta.com",
		FeedURL:     "https://bonikbarta.com/feed.xml",
		Title:       "Bonikbarta Combined Feed",
		Description: "Latest articles from Bonikbarta",
		Language:    defaultLanguage,
		Generator:   "GitHub Actions RSS Generator",
		Output:      defaultOutput,
	}
	applyDefaults(config)
	return config
}

type ConfigLoader struct {
	feedsDir string
}

func NewConfigLoader(feedsDir string) *ConfigLoader {
	return &ConfigLoader{feedsDir: feedsDir}
}

// Run loads every *.yml definition in the feeds directory, ordered by name.
// A missing or empty directory yields the built-in definition.
func (cl *ConfigLoader) Run() ([]*Config, error) {
	if _, err := os.Stat(cl.feedsDir); os.IsNotExist(err) {
		slog.Debug("Feeds directory not found, using built-in definition", "dir", cl.feedsDir)
		return []*Config{DefaultConfig()}, nil
	}

	files, err := filepath.Glob(filepath.Join(cl.feedsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}

	if len(files) == 0 {
		slog.Debug("No feed definitions found, using built-in definition", "dir", cl.feedsDir)
		return []*Config{DefaultConfig()}, nil
	}

	sort.Strings(files)

	configs := make([]*Config, 0, len(files))
	for _, file := range files {
		feedName := strings.TrimSuffix(filepath.Base(file), ".yml")

		config, err := cl.LoadConfig(feedName)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Configuration loaded", "feed", feedName, "enabled", config.Settings.IsEnabled(), "endpoints", len(config.Endpoints))
		configs = append(configs, config)
	}

	return configs, nil
}

func (cl *ConfigLoader) LoadConfig(feedName string) (*Config, error) {
	configFile := filepath.Join(cl.feedsDir, feedName+".yml")
	feedConfig, err := cl.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	feedConfig.Name = feedName
	applyDefaults(feedConfig)

	if err := validateConfig(feedConfig); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	return feedConfig, nil
}

func (cl *ConfigLoader) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var feedConfig Config
	if err := yaml.Unmarshal(data, &feedConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &feedConfig, nil
}

func applyDefaults(feedConfig *Config) {
	feedConfig.BaseURL = strings.TrimRight(feedConfig.BaseURL, "/")
	if feedConfig.SiteURL == "" {
		feedConfig.SiteURL = feedConfig.BaseURL
	}
	if feedConfig.FeedURL == "" && feedConfig.SiteURL != "" {
		feedConfig.FeedURL = strings.TrimRight(feedConfig.SiteURL, "/") + "/feed.xml"
	}
	if feedConfig.Title == "" {
		feedConfig.Title = feedConfig.Name
	}
	if feedConfig.Description == "" {
		feedConfig.Description = fmt.Sprintf("Latest articles from %s", feedConfig.SiteURL)
	}
	if feedConfig.Language == "" {
		feedConfig.Language = defaultLanguage
	}
	if feedConfig.Output == "" {
		feedConfig.Output = defaultOutput
	}
	if feedConfig.Settings.MaxItems == 0 {
		feedConfig.Settings.MaxItems = defaultMaxItems
	}
	if feedConfig.Settings.Timeout == 0 {
		feedConfig.Settings.Timeout = defaultTimeout
	}
}

func validateConfig(feedConfig *Config) error {
	if feedConfig == nil {
		return fmt.Errorf("feedConfig is nil")
	}

	if len(feedConfig.Endpoints) == 0 {
		return fmt.Errorf("at least one endpoint is required")
	}

	for i, endpoint := range feedConfig.Endpoints {
		if err := validateURL(endpoint); err != nil {
			return fmt.Errorf("invalid endpoint at index %d: %w", i, err)
		}
	}

	requiredURLs := map[string]string{
		"base URL": feedConfig.BaseURL,
		"site URL": feedConfig.SiteURL,
		"feed URL": feedConfig.FeedURL,
	}

	for fieldName, fieldValue := range requiredURLs {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		if err := validateURL(fieldValue); err != nil {
			return fmt.Errorf("invalid %s: %w", fieldName, err)
		}
	}

	if _, err := language.Parse(feedConfig.Language); err != nil {
		return fmt.Errorf("invalid language %q: %w", feedConfig.Language, err)
	}

	nonNegativeFields := map[string]int{
		"max items": feedConfig.Settings.MaxItems,
		"timeout":   feedConfig.Settings.Timeout,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	if prefix := feedConfig.Settings.GetLegacyPrefix(); prefix != "" && !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("legacy prefix must start with '/': %s", prefix)
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme in %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
