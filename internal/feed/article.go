package feed

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"newsdeck/internal/catalog"
)

// SourceRef identifies the source an article came from.
type SourceRef struct {
	ID       string
	Name     string
	Verified bool
	IsCustom bool
}

// Article is a normalized feed item. Immutable once constructed.
type Article struct {
	ID          string
	Title       string
	Summary     string
	URL         string
	ImageURL    string
	PublishedAt time.Time
	Source      SourceRef
	Category    string
	LoadedAt    time.Time
}

// ActiveSource is a catalog or custom source bound to the category it was
// selected under for the current refresh.
type ActiveSource struct {
	Source   catalog.Source
	Category string
}

// articleID hashes lowercase(title+url) into a compact base-36 id.
// The fold is (h<<5)-h+code with 32-bit signed wraparound over UTF-16 code
// units, so the same logical item always maps to the same id.
func articleID(title, url string) string {
	s := strings.ToLower(title + url)
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	// abs in 64-bit: -h overflows int32 when h == MinInt32
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36)
}
