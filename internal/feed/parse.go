package feed

import (
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	// maxScanItems bounds how many raw items are considered per feed.
	maxScanItems = 10
	// MaxPerSource caps how many extracted articles a single source
	// contributes. Scanning more items than we keep means items rejected
	// during extraction don't starve the final slice.
	MaxPerSource = 5
)

// Parser turns one raw feed document into normalized articles.
type Parser struct {
	fp *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{fp: gofeed.NewParser()}
}

// Parse extracts up to MaxPerSource articles from raw, in document order.
// A structurally invalid document yields an empty list, never an error:
// per-source problems are contained at this boundary.
func (p *Parser) Parse(raw string, src ActiveSource) []Article {
	parsed, err := p.fp.ParseString(raw)
	if err != nil || parsed == nil {
		return nil
	}

	items := parsed.Items
	if len(items) > maxScanItems {
		items = items[:maxScanItems]
	}

	now := time.Now()
	articles := make([]Article, 0, MaxPerSource)
	for _, item := range items {
		if len(articles) == MaxPerSource {
			break
		}
		if a, ok := extract(item, src, now); ok {
			articles = append(articles, a)
		}
	}
	return articles
}

// extract builds one Article from a feed item. Items without a usable title
// or link are dropped, not errors.
func extract(item *gofeed.Item, src ActiveSource, now time.Time) (Article, bool) {
	title := stripMarkup(item.Title)
	if title == "" {
		return Article{}, false
	}

	link := strings.TrimSpace(item.Link)
	if link == "" {
		link = strings.TrimSpace(item.GUID)
	}
	link = sanitizeURL(link)
	if link == "" {
		return Article{}, false
	}

	summary := stripMarkup(item.Description)
	if summary == "" {
		summary = synthesizeSummary(title)
	}

	published := now
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	}

	return Article{
		ID:          articleID(title, link),
		Title:       title,
		Summary:     summary,
		URL:         link,
		ImageURL:    imageCandidate(item),
		PublishedAt: published,
		Source: SourceRef{
			ID:       src.Source.ID,
			Name:     src.Source.Name,
			Verified: src.Source.Verified,
			IsCustom: src.Source.IsCustom,
		},
		Category: src.Category,
		LoadedAt: now,
	}, true
}

// imageCandidate picks the first acceptable image reference: a media
// extension url, then an image/* enclosure, then the first <img src> inside
// the raw description.
func imageCandidate(item *gofeed.Item) string {
	var candidates []string

	for _, key := range []string{"thumbnail", "content"} {
		for _, ext := range item.Extensions["media"][key] {
			if u := ext.Attrs["url"]; u != "" {
				candidates = append(candidates, u)
			}
		}
	}
	for _, enc := range item.Enclosures {
		if strings.HasPrefix(enc.Type, "image/") {
			candidates = append(candidates, enc.URL)
		}
	}
	if s := firstImgSrc(item.Description); s != "" {
		candidates = append(candidates, s)
	}

	for _, c := range candidates {
		if u := validImageURL(c); u != "" {
			return u
		}
	}
	return ""
}
