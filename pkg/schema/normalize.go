package schema

import (
	"crypto/md5" //nolint:gosec // not used for security, only to shorten long names
	"encoding/hex"
	"strings"
	"unicode"
)

// maxNameLength is the longest generated identifier we emit. PostgreSQL
// truncates identifiers at 63 bytes; longer names get a hash suffix so
// they stay unique after truncation.
const maxNameLength = 63

// NormalizeName cleans up a generated display name: collapses whitespace,
// removes immediately repeated words ("First order order date" ->
// "First order date", case-insensitively), capitalizes the first letter
// and limits the result to 63 bytes.
func NormalizeName(name string) string {
	words := strings.Fields(name)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if len(out) > 0 && strings.EqualFold(out[len(out)-1], w) {
			continue
		}
		out = append(out, w)
	}
	name = strings.Join(out, " ")
	if name == "" {
		return name
	}

	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	name = string(runes)

	if len(name) > maxNameLength {
		sum := md5.Sum([]byte(name)) //nolint:gosec // see import comment
		name = name[:maxNameLength-8] + hex.EncodeToString(sum[:])[:8]
	}
	return name
}

// FirstLower lower-cases the first letter of a name unless it starts with
// two capitals (e.g. "ID" stays "ID" while "Order date" becomes
// "order date"). Used when joining link prefixes with attribute names.
func FirstLower(s string) string {
	runes := []rune(s)
	if len(runes) >= 2 && unicode.IsUpper(runes[0]) && unicode.IsUpper(runes[1]) {
		return s
	}
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// SnakeCase converts a display name into a lower-case identifier:
// "First order date" -> "first_order_date", "# Orders" -> "orders".
func SnakeCase(name string) string {
	var b strings.Builder
	lastUnderscore := true // suppress leading underscores
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	return strings.TrimRight(b.String(), "_")
}
