// Package i18n holds the supported locales and the one locale-fallback rule
// used by every localized read in the site.
package i18n

import "strings"

const (
	TR = "tr"
	EN = "en"
	RU = "ru"
	AR = "ar"

	// Default is the canonical fallback language for flat-column content.
	Default = TR
)

var Locales = []string{TR, EN, RU, AR}

func Supported(l string) bool {
	switch l {
	case TR, EN, RU, AR:
		return true
	}
	return false
}

// Normalize lowercases l and maps anything unsupported to Default.
func Normalize(l string) string {
	l = strings.ToLower(strings.TrimSpace(l))
	if i := strings.IndexAny(l, "-_"); i > 0 {
		l = l[:i]
	}
	if Supported(l) {
		return l
	}
	return Default
}

// FromAcceptLanguage picks the first supported primary tag, ignoring q-values order.
func FromAcceptLanguage(h string) string {
	for _, part := range strings.Split(h, ",") {
		tag := strings.TrimSpace(part)
		if i := strings.IndexByte(tag, ';'); i >= 0 {
			tag = tag[:i]
		}
		tag = strings.ToLower(tag)
		if i := strings.IndexByte(tag, '-'); i > 0 {
			tag = tag[:i]
		}
		if Supported(tag) {
			return tag
		}
	}
	return Default
}

func IsRTL(l string) bool { return l == AR }
