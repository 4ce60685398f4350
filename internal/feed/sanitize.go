package feed

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

var imgSrcRe = regexp.MustCompile(`(?i)<img[^>]+src\s*=\s*["']?([^"'\s>]+)`)

var imageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// stripMarkup removes HTML tags and entities and collapses whitespace.
func stripMarkup(s string) string {
	s = html.UnescapeString(s)
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// sanitizeURL returns the canonical form of raw if it is an http(s) URL,
// otherwise the empty string.
func sanitizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host == "" {
		return ""
	}
	return u.String()
}

// validImageURL accepts only https URLs whose path ends in a known image
// extension.
func validImageURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme != "https" {
		return ""
	}
	path := strings.ToLower(u.Path)
	for _, ext := range imageExts {
		if strings.HasSuffix(path, ext) {
			return u.String()
		}
	}
	return ""
}

// firstImgSrc pulls the first <img src=...> out of raw description markup.
func firstImgSrc(markup string) string {
	m := imgSrcRe.FindStringSubmatch(markup)
	if m == nil {
		return ""
	}
	return m[1]
}

// synthesizeSummary derives a summary from the title when the feed item has
// no usable description: the first 100 characters plus an ellipsis.
func synthesizeSummary(title string) string {
	runes := []rune(title)
	if len(runes) <= 100 {
		return title
	}
	return string(runes[:100]) + "..."
}
