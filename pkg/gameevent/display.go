package gameevent

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLanguage is used for display strings when no preference matches.
var DefaultLanguage = language.French

// Supported lists the languages with display templates, default first.
var Supported = []language.Tag{language.French, language.English}

var matcher = language.NewMatcher(Supported)

// Display templates are keyed by their English text.
const (
	healthFormat  = "Health %s"
	manaFormat    = "Mana %s"
	xpFormat      = "XP %s"
	itemFormat    = "Item found: %s"
	genericFormat = "%s: %s"
)

var templates = catalog.NewBuilder()

func init() {
	fr := map[string]string{
		healthFormat:  "Santé %s",
		manaFormat:    "Mana %s",
		xpFormat:      "XP %s",
		itemFormat:    "Objet trouvé: %s",
		genericFormat: "%s: %s",
	}
	for key, msg := range fr {
		if err := templates.SetString(language.French, key, msg); err != nil {
			panic(err)
		}
		if err := templates.SetString(language.English, key, key); err != nil {
			panic(err)
		}
	}
}

// MatchLanguage maps an Accept-Language style preference ("en-GB,en;q=0.8")
// onto one of the Supported languages.
func MatchLanguage(pref string) language.Tag {
	if strings.TrimSpace(pref) == "" {
		return DefaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(pref)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}
	return Supported[idx]
}

// IsSupported reports whether pref names a language with display templates.
func IsSupported(pref string) bool {
	tags, _, err := language.ParseAcceptLanguage(pref)
	if err != nil || len(tags) == 0 {
		return false
	}
	_, _, conf := matcher.Match(tags...)
	return conf != language.No
}

func printer(lang language.Tag) *message.Printer {
	return message.NewPrinter(lang, message.Catalog(templates))
}

// signed renders n with an explicit plus sign when positive.
func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// Display renders the event log line for an event of the given type.
func Display(lang language.Tag, typ, value string, amount int) string {
	p := printer(lang)
	switch typ {
	case TypeHealth:
		return p.Sprintf(healthFormat, signed(amount))
	case TypeMana:
		return p.Sprintf(manaFormat, signed(amount))
	case TypeXP:
		return p.Sprintf(xpFormat, signed(amount))
	case TypeItemFound:
		return p.Sprintf(itemFormat, value)
	default:
		return p.Sprintf(genericFormat, typ, value)
	}
}
