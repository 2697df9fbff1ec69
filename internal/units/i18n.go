package units

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

type translator struct {
	matcher language.Matcher
	tokens  []map[string]string
}

// newTranslator indexes tokens per language; English is the untranslated fallback.
func newTranslator(tr map[string]map[string]string) *translator {
	tags := []language.Tag{language.English}
	tokens := []map[string]string{nil}
	langs := make([]string, 0, len(tr))
	for l := range tr {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	for _, l := range langs {
		tag, err := language.Parse(l)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		tokens = append(tokens, tr[l])
	}
	return &translator{matcher: language.NewMatcher(tags), tokens: tokens}
}

// lookup accepts a tag ("fr") or an Accept-Language value ("fr-CH, fr;q=0.9").
func (t *translator) lookup(lang string) func(string) string {
	var m map[string]string
	if lang != "" && t != nil {
		_, idx := language.MatchStrings(t.matcher, lang)
		m = t.tokens[idx]
	}
	return func(token string) string {
		if v, ok := m[token]; ok {
			return v
		}
		return strings.ReplaceAll(token, "_", " ")
	}
}
