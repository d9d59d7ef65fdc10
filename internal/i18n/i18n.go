// Package i18n holds the English, Chinese and Vietnamese UI strings.
package i18n

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// Lang is a supported UI language.
type Lang string

const (
	English    Lang = "en"
	Chinese    Lang = "zh"
	Vietnamese Lang = "vi"
)

// Langs lists the supported languages in ctrl+l cycle order.
var Langs = []Lang{English, Chinese, Vietnamese}

// supported is indexed like Langs.
var supported = []language.Tag{language.English, language.Chinese, language.Vietnamese}

var matcher = language.NewMatcher(supported)

// Match picks the closest supported language for a BCP 47 or POSIX locale string.
// Unknown or empty input falls back to English.
func Match(tag string) Lang {
	tag = normalizeLocale(tag)
	if tag == "" {
		return English
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return English
	}
	_, idx, conf := matcher.Match(parsed)
	if conf == language.No {
		return English
	}
	return Langs[idx]
}

// FromEnv matches the language from LC_ALL, LC_MESSAGES or LANG.
func FromEnv() Lang {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return Match(v)
		}
	}
	return English
}

// normalizeLocale turns "zh_CN.UTF-8" into "zh-CN".
func normalizeLocale(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, ".@"); i >= 0 {
		tag = tag[:i]
	}
	if tag == "C" || tag == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(tag, "_", "-")
}

// Next returns the following language in cycle order. Unknown languages restart at English.
func (l Lang) Next() Lang {
	for i, lang := range Langs {
		if lang == l {
			return Langs[(i+1)%len(Langs)]
		}
	}
	return English
}

// Name is the language's own name.
func (l Lang) Name() string {
	switch l {
	case Chinese:
		return "中文"
	case Vietnamese:
		return "Tiếng Việt"
	default:
		return "English"
	}
}

// T looks up key in the catalog for l. Missing keys fall back to English, then to the key itself.
func (l Lang) T(key string) string {
	if s, ok := catalogs[l][key]; ok {
		return s
	}
	if s, ok := catalogs[English][key]; ok {
		return s
	}
	return key
}
