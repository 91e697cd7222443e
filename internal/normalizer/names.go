package normalizer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Names canonicalizes region display names so they match boundary keys.
type Names struct {
	caser     cases.Caser
	lowercase map[string]struct{}
	aliases   map[string]string
}

// NewNames builds a name normalizer. lowercase lists words that stay lowercase
// inside a name ("de"); aliases maps a title-cased name to its boundary key.
func NewNames(lowercase []string, aliases map[string]string) *Names {
	lw := make(map[string]struct{}, len(lowercase))
	for _, w := range lowercase {
		lw[strings.ToLower(w)] = struct{}{}
	}

	al := make(map[string]string, len(aliases))
	for k, v := range aliases {
		al[k] = v
	}

	return &Names{
		caser:     cases.Title(language.Spanish),
		lowercase: lw,
		aliases:   al,
	}
}

// Normalize returns the canonical form of raw. It never fails.
func (n *Names) Normalize(raw string) string {
	words := strings.Fields(n.caser.String(raw))

	for i := 1; i < len(words); i++ {
		if _, ok := n.lowercase[strings.ToLower(words[i])]; ok {
			words[i] = strings.ToLower(words[i])
		}
	}

	name := strings.Join(words, " ")
	if alias, ok := n.aliases[name]; ok {
		return alias
	}

	return name
}
