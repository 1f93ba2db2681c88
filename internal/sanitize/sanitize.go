// Package sanitize normalises human-entered names before they become part of
// attachment or document filenames.
package sanitize

import "strings"

func clean(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			out.WriteRune(r)
		}
	}
	return out.String()
}

// Filename builds "<base>.<ext>" with every character outside
// [A-Za-z0-9-_] stripped from both parts.
func Filename(base, ext string) string {
	return clean(base) + "." + clean(ext)
}

// Base strips disallowed characters from a single name component.
func Base(s string) string {
	return clean(s)
}
