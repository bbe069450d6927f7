package strip

import (
	"strings"
	"time"
)

// dateLayouts maps a locale to its short numeric date layout.
var dateLayouts = map[string]string{
	"vi-vn": "2/1/2006",
	"vi":    "2/1/2006",
	"en-us": "1/2/2006",
	"en":    "1/2/2006",
	"fr-fr": "02/01/2006",
	"en-gb": "02/01/2006",
	"de-de": "2.1.2006",
}

// FormatDate renders t as a short date in locale. Unknown locales use
// ISO 8601 (2006-01-02).
func FormatDate(t time.Time, locale string) string {
	key := strings.ToLower(strings.ReplaceAll(locale, "_", "-"))
	if layout, ok := dateLayouts[key]; ok {
		return t.Format(layout)
	}
	return t.Format("2006-01-02")
}
