package feed

import (
	"bytes"
	"cmp"
	"crypto/md5"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"
)

const (
	dateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

	noTitle       = "No title"
	noDescription = "No description available"
)

var titleEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

type Generator struct {
	name string
}

// NewGenerator creates a generator whose name is used for the <generator>
// element unless the feed definition sets its own.
func NewGenerator(name string) *Generator {
	return &Generator{name: name}
}

func (g *Generator) Run(config *Config, posts []Post, buildTime time.Time) (string, error) {
	if config == nil {
		return "", fmt.Errorf("feed config is nil")
	}

	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", config.Title, 4)
	g.writeElement(&buf, "link", config.SiteURL, 4)
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\"/>\n",
		html.EscapeString(config.FeedURL)))
	g.writeElement(&buf, "description", config.Description, 4)
	g.writeElement(&buf, "language", config.Language, 4)

	lastBuildDate := buildTime.UTC().Format(dateLayout)
	g.writeElement(&buf, "lastBuildDate", lastBuildDate, 4)
	g.writeElement(&buf, "generator", cmp.Or(config.Generator, g.name), 4)

	for _, post := range posts {
		g.writeItem(&buf, config, post, lastBuildDate)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, config *Config, post Post, lastBuildDate string) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <title>")
	buf.WriteString(EscapeTitle(cmp.Or(post.Title, noTitle)))
	buf.WriteString("</title>\n")

	g.writeElement(buf, "link", config.ArticleLink(post), 6)

	buf.WriteString("      <description><![CDATA[")
	buf.WriteString(escapeCDATA(cmp.Or(post.Excerpt, post.Summary, noDescription)))
	buf.WriteString("]]></description>\n")

	pubDate := lastBuildDate
	if publishedAt, ok := ParsePublishedAt(post.FirstPublishedAt); ok {
		pubDate = publishedAt.UTC().Format(dateLayout)
	}
	g.writeElement(buf, "pubDate", pubDate, 6)

	buf.WriteString("      <guid isPermaLink=\"false\">")
	buf.WriteString(GUID(post))
	buf.WriteString("</guid>\n")

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

// EscapeTitle replaces &, < and > with their entities in a single pass.
// Runes that XML cannot carry become U+FFFD.
func EscapeTitle(title string) string {
	return titleEscaper.Replace(xmlSafe(title))
}

// GUID is the MD5 hex digest of title, excerpt and first_published_at.
func GUID(post Post) string {
	sum := md5.Sum([]byte(post.Title + post.Excerpt + post.FirstPublishedAt))
	return hex.EncodeToString(sum[:])
}

// escapeCDATA splits any "]]>" so the text cannot terminate its section.
func escapeCDATA(text string) string {
	return strings.ReplaceAll(xmlSafe(text), "]]>", "]]]]><![CDATA[>")
}

// xmlSafe replaces runes outside the XML 1.0 Char production with U+FFFD,
// the same substitution xml.EscapeText applies to channel fields.
func xmlSafe(text string) string {
	return strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return '\uFFFD'
	}, text)
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
