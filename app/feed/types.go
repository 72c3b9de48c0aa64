package feed

import (
	"time"
)

// Post is one article record as received from an API endpoint. Missing and
// empty fields are both represented by the empty string.
type Post struct {
	Title            string
	Excerpt          string
	Summary          string
	FirstPublishedAt string
	URLPath          string
}

// Shape identifies which response layout a post list was extracted from.
type Shape int

const (
	ShapeEmpty Shape = iota
	ShapePosts
	ShapeContentItems
)

func (s Shape) String() string {
	switch s {
	case ShapePosts:
		return "posts"
	case ShapeContentItems:
		return "content.items"
	default:
		return "empty"
	}
}

type FetchFailure struct {
	Endpoint string
	Err      error
}

type FetchResult struct {
	Posts    []Post
	Failures []FetchFailure
}

type AggregateResult struct {
	Posts  []Post
	Unique int
}

// Configuration types

type Config struct {
	Name        string         // Derived from filename (without .yml extension)
	Endpoints   []string       `yaml:"endpoints"`
	BaseURL     string         `yaml:"base_url"`
	SiteURL     string         `yaml:"site_url"`
	FeedURL     string         `yaml:"feed_url"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Language    string         `yaml:"language"`
	Generator   string         `yaml:"generator"`
	Output      string         `yaml:"output"`
	Settings    ConfigSettings `yaml:"settings"`
}

type ConfigSettings struct {
	Enabled       *bool   `yaml:"enabled"`
	Deduplication *bool   `yaml:"deduplication"`
	MaxItems      int     `yaml:"max_items"`
	Timeout       int     `yaml:"timeout"`       // seconds
	LegacyPrefix  *string `yaml:"legacy_prefix"` // empty string disables stripping
}

func (s *ConfigSettings) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

func (s *ConfigSettings) IsDeduplicationEnabled() bool {
	return s.Deduplication == nil || *s.Deduplication
}

func (s *ConfigSettings) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return defaultTimeout * time.Second
	}
	return time.Duration(s.Timeout) * time.Second
}

func (s *ConfigSettings) GetLegacyPrefix() string {
	if s.LegacyPrefix == nil {
		return defaultLegacyPrefix
	}
	return *s.LegacyPrefix
}
