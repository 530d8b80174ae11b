package util

import (
	"bytes"
	"net/url"
	"strings"
	"unicode"
)

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

func IsURL(value string) bool {
	u, err := url.ParseRequestURI(value)
	if err != nil {
		return false
	}

	return u.Scheme != "" && u.Host != ""
}

// Slugify lowercases s and keeps ASCII letters, digits, '_' and '-'.
// Runs of whitespace become a single '-'.
func Slugify(s string) string {
	var buf bytes.Buffer
	lastDash := false

	for _, r := range strings.TrimSpace(s) {
		switch {
		case r > unicode.MaxASCII:
			continue
		case unicode.IsLetter(r):
			buf.WriteRune(unicode.ToLower(r))
			lastDash = false
		case unicode.IsDigit(r), r == '_':
			buf.WriteRune(r)
			lastDash = false
		case r == '-' || unicode.IsSpace(r):
			if !lastDash {
				buf.WriteRune('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(buf.String(), "-")
}

func IntPtr(i int) *int {
	return &i
}
