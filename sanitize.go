package database

import (
	"strconv"
	"strings"
)

// SanitizeInt parses the leading base-10 integer of value for inlining into
// a query. Input without one yields 0. Unless signed, negative values clamp
// to 0.
// @group Sanitizing
//
// Example: page number from a request
//
//	page := database.SanitizeInt("-3", false)
//	fmt.Println(page) // 0
func SanitizeInt(value string, signed bool) int64 {
	s := strings.TrimSpace(value)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	// ParseInt saturates out-of-range values.
	n, _ := strconv.ParseInt(s[:end], 10, 64)
	if !signed && n < 0 {
		return 0
	}
	return n
}

var stringEscaper = strings.NewReplacer(
	"\x00", `\0`,
	"\b", `\b`,
	"\t", `\t`,
	"\n", `\n`,
	"\r", `\r`,
	"\x1a", `\Z`,
	`"`, `\"`,
	`'`, `\'`,
	`\`, `\\`,
)

// SanitizeString escapes value MySQL-style and wraps it in single quotes.
// @group Sanitizing
//
// Example: quote a title
//
//	fmt.Println(database.SanitizeString("it's")) // 'it\'s'
func SanitizeString(value string) string {
	return "'" + stringEscaper.Replace(value) + "'"
}
