// Package i18n translates lngkit's own messages (menu, prompts, report
// headers) using gettext catalogs embedded in the binary.
//
// Catalogs live in locales/{lang}/LC_MESSAGES/lngkit.po. Call Init once at
// startup; until then T returns its input unchanged.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var locales embed.FS

const domain = "lngkit"

var po *gotext.Locale

// Init loads the catalog for lang. An empty lang is detected from LANGUAGE,
// LC_ALL, LC_MESSAGES and LANG, in GNU gettext order.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// T translates msgid and, when args are given, formats it like fmt.Sprintf.
func T(msgid string, args ...any) string {
	if po == nil {
		if len(args) == 0 {
			return msgid
		}
		return fmt.Sprintf(msgid, args...)
	}
	return po.Get(msgid, args...)
}

func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE is a colon-separated preference list.
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		// ru_RU.UTF-8 -> ru_RU
		val, _, _ = strings.Cut(val, ".")
		if val == "" || val == "C" || val == "POSIX" {
			continue
		}
		return val
	}
	return "en"
}
