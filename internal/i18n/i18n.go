// Package i18n holds the en/uk message catalogs and picks the visitor's
// language.
package i18n

import (
	"context"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Default is used when the visitor has not chosen a language.
const Default = "uk"

// CookieName persists the visitor's choice.
const CookieName = "lang"

// Locale is one entry of the language switcher.
type Locale struct {
	Code string
	Name string
}

var (
	locales = []Locale{
		{Code: "en", Name: "English"},
		{Code: "uk", Name: "Українська"},
	}
	supported = []language.Tag{language.English, language.Ukrainian}
	matcher   = language.NewMatcher(supported)
)

// Locales lists the supported languages in switcher order.
func Locales() []Locale {
	out := make([]Locale, len(locales))
	copy(out, locales)
	return out
}

// Match maps a language code such as "en" or "en-GB" onto a supported code.
func Match(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	_, idx, conf := matcher.Match(tag)
	if conf < language.High {
		return "", false
	}
	base, _ := supported[idx].Base()
	return base.String(), true
}

// Bundle is the compiled set of catalogs.
type Bundle struct {
	cat catalog.Catalog
	def string
}

// NewBundle compiles the catalogs. defaultLang must be supported.
func NewBundle(defaultLang string) (*Bundle, error) {
	def, ok := Match(defaultLang)
	if !ok {
		return nil, fmt.Errorf("unsupported default locale %q", defaultLang)
	}
	b := catalog.NewBuilder(catalog.Fallback(language.MustParse(def)))
	for lang, msgs := range messages {
		tag := language.MustParse(lang)
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("catalog %s/%s: %w", lang, key, err)
			}
		}
	}
	return &Bundle{cat: b, def: def}, nil
}

// Resolve returns the language to use for a stored choice, falling back to
// the bundle default.
func (b *Bundle) Resolve(choice string) string {
	if code, ok := Match(choice); ok {
		return code
	}
	return b.def
}

// Printer formats messages in one language.
type Printer struct {
	lang string
	p    *message.Printer
}

func (b *Bundle) Printer(lang string) *Printer {
	lang = b.Resolve(lang)
	return &Printer{lang: lang, p: message.NewPrinter(language.MustParse(lang), message.Catalog(b.cat))}
}

func (p *Printer) Lang() string { return p.lang }

// T formats the message for key. Unknown keys come back unchanged.
func (p *Printer) T(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}

type printerKey struct{}

var fallbackBundle, _ = NewBundle(Default)

func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, printerKey{}, p)
}

// FromContext returns the request's printer, or one for Default.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(printerKey{}).(*Printer); ok {
		return p
	}
	return fallbackBundle.Printer(Default)
}
