package feed

import "strings"

// StripLegacyPrefix removes prefix from the start of path once, but only when
// it forms a whole leading segment ("/home/a" but not "/homepage").
func StripLegacyPrefix(path, prefix string) string {
	if prefix == "" || !strings.HasPrefix(path, prefix) {
		return path
	}

	rest := path[len(prefix):]
	if rest == "" || strings.ContainsRune("/?#", rune(rest[0])) {
		return rest
	}
	return path
}

// NormalizedLink is the deduplication key of a post. A post without a path
// maps to the base URL itself.
func (c *Config) NormalizedLink(post Post) string {
	return c.BaseURL + StripLegacyPrefix(post.URLPath, c.Settings.GetLegacyPrefix())
}

// ArticleLink is the rendered item link of a post.
func (c *Config) ArticleLink(post Post) string {
	path := post.URLPath
	if path == "" {
		path = "/"
	}
	return c.BaseURL + StripLegacyPrefix(path, c.Settings.GetLegacyPrefix())
}
