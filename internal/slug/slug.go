// Package slug provides URL-friendly slug generation from article titles.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Non-ASCII characters (including Thai titles) are stripped, so the
// result can be empty; callers that need a non-empty identifier should
// use Unique instead.
// Example: "Printer ไม่พิมพ์งาน!" → "printer"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// Unique returns Generate(title) with a base36 nanosecond timestamp
// appended, guaranteeing distinct non-empty slugs even for duplicate or
// fully non-ASCII titles.
func Unique(title string) string {
	suffix := strconv.FormatInt(time.Now().UnixNano(), 36)
	base := Generate(title)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
