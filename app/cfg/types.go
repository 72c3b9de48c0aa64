package cfg

import "time"

type Cfg struct {
	// Feed definitions
	FeedsDir string
	Output   string

	// HTTP client
	UserAgent string
	Timeout   time.Duration

	// Run policy
	FailOnEmpty bool

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
