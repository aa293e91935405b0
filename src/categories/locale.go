package categories

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale selects the category labels and display conventions.
type Locale string

const (
	Spanish Locale = "es"
	English Locale = "en"

	DefaultLocale = Spanish
)

// Locales lists every supported locale.
var Locales = []Locale{Spanish, English}

var matcher = language.NewMatcher([]language.Tag{language.EuropeanSpanish, language.AmericanEnglish})

// ParseLocale accepts BCP 47 tags ("es", "en-US", "es-ES") and Accept-Language
// style lists. Anything unsupported resolves to DefaultLocale.
func ParseLocale(s string) Locale {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(s)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	for _, tag := range tags {
		base, conf := tag.Base()
		if conf == language.No {
			continue
		}
		switch base.String() {
		case "es":
			return Spanish
		case "en":
			return English
		}
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLocale
	}
	return Locales[idx]
}

func (l Locale) Valid() bool {
	return l == Spanish || l == English
}

// Tag returns the regional language tag used for formatting.
func (l Locale) Tag() language.Tag {
	if l == English {
		return language.AmericanEnglish
	}
	return language.EuropeanSpanish
}

func (l Locale) String() string {
	return string(l)
}
