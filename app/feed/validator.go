package feed

import (
	"fmt"

	"github.com/mmcdole/gofeed"
)

// Validate parses a rendered document back and checks that it is an RSS
// feed carrying the expected number of items.
func Validate(document string, expectedItems int) error {
	parsed, err := gofeed.NewParser().ParseString(document)
	if err != nil {
		return fmt.Errorf("failed to parse rendered feed: %w", err)
	}

	if parsed.FeedType != "rss" {
		return fmt.Errorf("rendered feed has type %q, expected rss", parsed.FeedType)
	}

	if len(parsed.Items) != expectedItems {
		return fmt.Errorf("rendered feed has %d items, expected %d", len(parsed.Items), expectedItems)
	}

	return nil
}
