package feed

import (
	"fmt"
	"slices"
	"testing"
	"time"
)

func testConfig() *Config {
	config := &Config{
		Name:      "test",
		Endpoints: []string{"https://example.com/api/posts"},
		BaseURL:   "https://example.com",
		Title:     "Test Feed",
	}
	applyDefaults(config)
	return config
}

func titles(posts []Post) []string {
	result := make([]string, len(posts))
	for i, post := range posts {
		result[i] = post.Title
	}
	return result
}

func TestParsePublishedAt(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
		ok       bool
	}{
		{"2024-01-01T00:00:00Z", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"2024-05-01T10:00:00+06:00", time.Date(2024, 5, 1, 4, 0, 0, 0, time.UTC), true},
		{"2024-05-01 10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local), true},
		{"", time.Time{}, false},
		{"???", time.Time{}, false},
	}

	for _, test := range tests {
		result, ok := ParsePublishedAt(test.input)
		if ok != test.ok {
			t.Errorf("For input '%s', expected ok=%v, got %v", test.input, test.ok, ok)
			continue
		}
		if ok && !result.Equal(test.expected) {
			t.Errorf("For input '%s', expected %v, got %v", test.input, test.expected, result)
		}
	}
}

func TestSortDescending(t *testing.T) {
	aggregator := NewAggregator(testConfig())

	posts := []Post{
		{Title: "old", FirstPublishedAt: "2023-01-01T00:00:00Z"},
		{Title: "missing"},
		{Title: "new", FirstPublishedAt: "2024-06-01T00:00:00Z"},
		{Title: "garbage", FirstPublishedAt: "???"},
		{Title: "mid", FirstPublishedAt: "2024-01-01T00:00:00Z"},
	}

	sorted := aggregator.Sort(posts)

	expected := []string{"new", "mid", "old", "missing", "garbage"}
	if !slices.Equal(titles(sorted), expected) {
		t.Errorf("Expected order %v, got %v", expected, titles(sorted))
	}

	if posts[0].Title != "old" {
		t.Error("Sort should not modify its input")
	}

	for i := 1; i < len(sorted); i++ {
		prev, okPrev := ParsePublishedAt(sorted[i-1].FirstPublishedAt)
		cur, okCur := ParsePublishedAt(sorted[i].FirstPublishedAt)
		if !okPrev {
			prev = epoch
		}
		if !okCur {
			cur = epoch
		}
		if cur.After(prev) {
			t.Errorf("Post %d (%s) is newer than post %d (%s)", i, sorted[i].Title, i-1, sorted[i-1].Title)
		}
	}
}

func TestSortPreEpochAfterMissing(t *testing.T) {
	aggregator := NewAggregator(testConfig())

	sorted := aggregator.Sort([]Post{
		{Title: "1960", FirstPublishedAt: "1960-01-01T00:00:00Z"},
		{Title: "missing"},
	})

	expected := []string{"missing", "1960"}
	if !slices.Equal(titles(sorted), expected) {
		t.Errorf("Expected missing timestamps to rank as the epoch, got %v", titles(sorted))
	}
}

func TestDeduplicate(t *testing.T) {
	aggregator := NewAggregator(testConfig())

	posts := []Post{
		{Title: "first", URLPath: "/home/a"},
		{Title: "second", URLPath: "/a"},
		{Title: "third", URLPath: "/b"},
		{Title: "no-path-1"},
		{Title: "no-path-2"},
		{Title: "fourth", URLPath: "/home/b"},
	}

	unique := aggregator.Deduplicate(posts)

	expected := []string{"first", "third", "no-path-1"}
	if !slices.Equal(titles(unique), expected) {
		t.Errorf("Expected %v, got %v", expected, titles(unique))
	}

	again := aggregator.Deduplicate(unique)
	if !slices.Equal(again, unique) {
		t.Errorf("Deduplicate should be idempotent, got %v after %v", titles(again), titles(unique))
	}
}

func TestTruncate(t *testing.T) {
	aggregator := NewAggregator(testConfig())

	for _, count := range []int{0, 1, 49, 50, 51, 120} {
		posts := make([]Post, count)
		for i := range posts {
			posts[i] = Post{Title: fmt.Sprintf("post-%d", i)}
		}

		truncated := aggregator.Truncate(posts)

		expected := min(count, 50)
		if len(truncated) != expected {
			t.Errorf("For %d posts expected %d, got %d", count, expected, len(truncated))
		}
		if expected > 0 && truncated[0].Title != "post-0" {
			t.Errorf("Truncate should keep the front of the list, got %s first", truncated[0].Title)
		}
	}
}

func TestAggregatorRun(t *testing.T) {
	config := testConfig()
	config.Settings.MaxItems = 2
	aggregator := NewAggregator(config)

	posts := []Post{
		{Title: "a-old", URLPath: "/a", FirstPublishedAt: "2024-01-01T00:00:00Z"},
		{Title: "b", URLPath: "/b", FirstPublishedAt: "2024-01-02T00:00:00Z"},
		{Title: "a-new", URLPath: "/home/a", FirstPublishedAt: "2024-01-03T00:00:00Z"},
		{Title: "c", URLPath: "/c", FirstPublishedAt: "2023-12-31T00:00:00Z"},
	}

	result := aggregator.Run(posts)

	// The newest copy of /a wins because sorting happens first.
	expected := []string{"a-new", "b"}
	if !slices.Equal(titles(result.Posts), expected) {
		t.Errorf("Expected %v, got %v", expected, titles(result.Posts))
	}
	if result.Unique != 3 {
		t.Errorf("Expected 3 unique posts, got %d", result.Unique)
	}
}

func TestAggregatorRunWithoutDeduplication(t *testing.T) {
	config := testConfig()
	disabled := false
	config.Settings.Deduplication = &disabled
	aggregator := NewAggregator(config)

	result := aggregator.Run([]Post{
		{Title: "1", URLPath: "/a"},
		{Title: "2", URLPath: "/a"},
	})

	if len(result.Posts) != 2 || result.Unique != 2 {
		t.Errorf("Expected all posts to be kept, got %d (unique %d)", len(result.Posts), result.Unique)
	}
}

func TestAggregatorRunEmpty(t *testing.T) {
	result := NewAggregator(testConfig()).Run(nil)

	if len(result.Posts) != 0 || result.Unique != 0 {
		t.Errorf("Expected empty result, got %+v", result)
	}
}
