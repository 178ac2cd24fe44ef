package sqlgen

import "strings"

// QuoteIdent double-quotes a SQL identifier, doubling any embedded
// quotes. Every emitted identifier is quoted so that reserved words
// (an entity table named "order", say) and names with spaces are safe.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
