// Package i18n provides report labels and locale aware date and number
// formatting. Label catalogs are INI files with one section per locale.
package i18n

import (
	_ "embed"
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"gopkg.in/ini.v1"
)

const (
	DefaultLocale = "en"

	keyDateFormat     = "format.date"
	keyDateTimeFormat = "format.datetime"
)

//go:embed labels.ini
var defaultLabels []byte

// Translator is the formatting surface consumed by report schemas.
type Translator interface {
	Locale() string
	T(key string) string
	FormatDate(t time.Time) string
	FormatDateTime(t time.Time) string
	// FormatNumber renders v with grouping and at most maxFraction decimals.
	FormatNumber(v float64, maxFraction int) string
}

type Catalog interface {
	Locales() []string
	Translator(locale string) (Translator, error)
}

type iniCatalog struct {
	cfg *ini.File
	loc *time.Location
}

// NewCatalog loads the built-in labels, overlaid by the file at path when
// path is set. Dates are rendered in loc.
func NewCatalog(path string, loc *time.Location) (Catalog, error) {
	sources := []any{defaultLabels}
	if path != "" {
		sources = append(sources, path)
	}
	cfg, err := ini.Load(sources[0], sources[1:]...)
	if err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &iniCatalog{cfg: cfg, loc: loc}, nil
}

func (c *iniCatalog) Locales() []string {
	var locales []string
	for _, section := range c.cfg.Sections() {
		if len(section.Keys()) > 0 {
			locales = append(locales, section.Name())
		}
	}
	sort.Strings(locales)
	return locales
}

func (c *iniCatalog) Translator(locale string) (Translator, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	section, err := c.cfg.GetSection(locale)
	if err != nil {
		return nil, fmt.Errorf("locale %s not found", locale)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %s: %w", locale, err)
	}

	t := &translator{
		locale:   locale,
		section:  section,
		fallback: c.cfg.Section(DefaultLocale),
		printer:  message.NewPrinter(tag),
		loc:      c.loc,
	}
	return t, nil
}

type translator struct {
	locale   string
	section  *ini.Section
	fallback *ini.Section
	printer  *message.Printer
	loc      *time.Location
}

func (t *translator) Locale() string {
	return t.locale
}

// T falls back to the default locale and then to the key itself.
func (t *translator) T(key string) string {
	if t.section.HasKey(key) {
		return t.section.Key(key).String()
	}
	if t.fallback != nil && t.fallback.HasKey(key) {
		return t.fallback.Key(key).String()
	}
	return key
}

func (t *translator) FormatDate(v time.Time) string {
	return v.In(t.loc).Format(t.T(keyDateFormat))
}

func (t *translator) FormatDateTime(v time.Time) string {
	return v.In(t.loc).Format(t.T(keyDateTimeFormat))
}

func (t *translator) FormatNumber(v float64, maxFraction int) string {
	return t.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(maxFraction)))
}
