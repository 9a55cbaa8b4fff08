// Package normalizers provides field normalization functions for listing matching
package normalizers

import (
	"regexp"
	"strings"
	"unicode"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	// Register built-in normalizers
	Register("lowercase", Lowercase)
	Register("trim", Trim)
	Register("collapse_whitespace", CollapseWhitespace)
	Register("remove_whitespace", RemoveWhitespace)
	Register("nbuilding", NormalizeBuildingName)
	Register("nstation", NormalizeStation)
	Register("ward", ExtractWard)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// ApplyChain applies multiple normalizers in sequence
func ApplyChain(value string, normalizers ...string) string {
	result := value
	for _, name := range normalizers {
		result = Apply(result, name)
	}
	return result
}

// Built-in normalizers

// Lowercase converts string to lowercase
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Trim removes leading and trailing whitespace, including the
// ideographic space U+3000 common in scraped Japanese text
func Trim(s string) string {
	return strings.TrimFunc(s, unicode.IsSpace)
}

// CollapseWhitespace replaces every run of whitespace with one space
func CollapseWhitespace(s string) string {
	var result strings.Builder
	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !prevSpace {
				result.WriteRune(' ')
				prevSpace = true
			}
			continue
		}
		result.WriteRune(r)
		prevSpace = false
	}
	return strings.TrimSpace(result.String())
}

// RemoveWhitespace removes all whitespace characters
func RemoveWhitespace(s string) string {
	var result strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

var decorationRe = regexp.MustCompile(`【[^】]*】|《[^》]*》|（[^）]*）|\([^)]*\)`)

// NormalizeBuildingName normalizes a building name for matching.
// Agent-added decorations (bracketed slogans, room numbers in
// parentheses) and whitespace differences must not keep two records
// for the same building from matching.
func NormalizeBuildingName(s string) string {
	s = decorationRe.ReplaceAllString(s, "")
	s = RemoveWhitespace(s)
	return strings.ToLower(s)
}

// wardRe matches a ward name following a prefecture suffix, e.g.
// "東京都渋谷区神南1丁目" -> "渋谷区". bareWardRe is the fallback for
// addresses written without the prefecture.
var (
	wardRe     = regexp.MustCompile(`[都道府県]([^\s区]{1,8}区)`)
	bareWardRe = regexp.MustCompile(`([^\s区]{1,8}区)`)
)

// ExtractWard returns the first ward (区) found in an address, or ""
// when the address has none.
func ExtractWard(address string) string {
	if m := wardRe.FindStringSubmatch(address); m != nil {
		return m[1]
	}
	if m := bareWardRe.FindStringSubmatch(address); m != nil {
		return m[1]
	}
	return ""
}

var stationNoiseRe = regexp.MustCompile(`「|」|\s+`)

// NormalizeStation normalizes free-text nearest-station descriptions
// ("ＪＲ山手線「渋谷」徒歩5分" style) enough for equality comparison.
func NormalizeStation(s string) string {
	return stationNoiseRe.ReplaceAllString(Trim(s), "")
}
