// Package locale resolves UI strings for the configured editor language.
package locale

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLanguage is used when no language is configured or the configured
// language has no translations.
const DefaultLanguage = "en"

// Locale translates UI strings. Messages without a translation are
// returned unchanged.
type Locale struct {
	mu        sync.RWMutex
	requested language.Tag
	tag       language.Tag
	builder   *catalog.Builder
	printer   *message.Printer
}

// New creates a locale for lang ("" means DefaultLanguage) with the
// built-in translations.
func New(lang string) (*Locale, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", lang, err)
	}

	l := &Locale{
		requested: tag,
		builder:   catalog.NewBuilder(catalog.Fallback(language.English)),
	}
	for lang, msgs := range builtin {
		for key, msg := range msgs {
			if err := l.builder.SetString(language.MustParse(lang), key, msg); err != nil {
				return nil, fmt.Errorf("locale %q: %w", lang, err)
			}
		}
	}
	l.rebuild()
	return l, nil
}

// Language returns the resolved language.
func (l *Locale) Language() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tag.String()
}

// T translates msg. Arguments are formatted into the translation the same
// way fmt.Sprintf formats them.
func (l *Locale) T(msg string, args ...any) string {
	l.mu.RLock()
	p := l.printer
	l.mu.RUnlock()
	return p.Sprintf(msg, args...)
}

// AddTranslations adds translations for lang. The resolved language is
// re-evaluated so that a newly added language can be picked up.
func (l *Locale) AddTranslations(lang string, msgs map[string]string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("translations %q: %w", lang, err)
	}

	keys := make([]string, 0, len(msgs))
	for k := range msgs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, key := range keys {
		if err := l.builder.SetString(tag, key, msgs[key]); err != nil {
			return fmt.Errorf("translations %q: %w", lang, err)
		}
	}
	l.rebuildLocked()
	return nil
}

func (l *Locale) rebuild() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rebuildLocked()
}

func (l *Locale) rebuildLocked() {
	supported := l.builder.Languages()
	tag := language.English
	if len(supported) > 0 {
		_, index, conf := language.NewMatcher(supported).Match(l.requested)
		if conf != language.No {
			tag = supported[index]
		}
	}
	l.tag = tag
	l.printer = message.NewPrinter(tag, message.Catalog(l.builder))
}
