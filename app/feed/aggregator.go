package feed

import (
	"slices"
	"time"

	"github.com/araddon/dateparse"
)

var epoch = time.Unix(0, 0).UTC()

// ParsePublishedAt parses a first_published_at value. Values without an
// explicit offset are read in time.Local.
func ParsePublishedAt(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	t, err := dateparse.ParseIn(value, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type Aggregator struct {
	config *Config
}

func NewAggregator(config *Config) *Aggregator {
	return &Aggregator{config: config}
}

// Run sorts, deduplicates (when enabled) and truncates posts.
func (a *Aggregator) Run(posts []Post) AggregateResult {
	sorted := a.Sort(posts)
	if a.config.Settings.IsDeduplicationEnabled() {
		sorted = a.Deduplicate(sorted)
	}

	return AggregateResult{
		Posts:  a.Truncate(sorted),
		Unique: len(sorted),
	}
}

// Sort returns a copy of posts ordered by publish time, newest first.
// Posts without a parseable timestamp are ordered as the Unix epoch. Ties
// keep their input order.
func (a *Aggregator) Sort(posts []Post) []Post {
	type keyed struct {
		post        Post
		publishedAt time.Time
	}

	entries := make([]keyed, len(posts))
	for i, post := range posts {
		publishedAt, ok := ParsePublishedAt(post.FirstPublishedAt)
		if !ok {
			publishedAt = epoch
		}
		entries[i] = keyed{post: post, publishedAt: publishedAt}
	}

	slices.SortStableFunc(entries, func(x, y keyed) int {
		return y.publishedAt.Compare(x.publishedAt)
	})

	sorted := make([]Post, len(entries))
	for i, entry := range entries {
		sorted[i] = entry.post
	}
	return sorted
}

// Deduplicate keeps the first post of every normalized link.
func (a *Aggregator) Deduplicate(posts []Post) []Post {
	seen := make(map[string]struct{}, len(posts))
	unique := make([]Post, 0, len(posts))

	for _, post := range posts {
		link := a.config.NormalizedLink(post)
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		unique = append(unique, post)
	}

	return unique
}

func (a *Aggregator) Truncate(posts []Post) []Post {
	maxItems := a.config.Settings.MaxItems
	if maxItems > 0 && len(posts) > maxItems {
		return posts[:maxItems]
	}
	return posts
}
