package employee

import (
	"strings"
	"unicode"
)

// DeriveLoginID builds "<first>.<last>@<garage>". Whitespace is removed from
// every part and the result is lower-cased; nothing else is touched, so
// punctuation, digits and non-ASCII letters pass through. An empty garage
// name yields a login id ending in "@".
func DeriveLoginID(firstName, lastName, garageName string) string {
	return compact(firstName) + "." + compact(lastName) + "@" + compact(garageName)
}

func compact(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// SanitizeName drops control and format runes (zero-width joiners, BOM, ...)
// and markup or statement delimiters. Apostrophes and hyphens are kept so
// names like O'Neil or Smith-Jones survive.
func SanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r):
			return -1
		case strings.ContainsRune("<>\"`;", r):
			return -1
		}
		return r
	}, s)
}
