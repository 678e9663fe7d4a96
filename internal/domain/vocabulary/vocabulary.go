// Package vocabulary maps free-text skill mentions to canonical skill keys.
package vocabulary

import (
	"maps"
	"slices"
	"strings"

	"github.com/remaimber-it/interviewer/internal/domain/questionbank"
)

// Synonyms are the curated extra variants per canonical key. Variants of
// skills missing from the bank are ignored.
var Synonyms = map[string][]string{
	"python":     {"python3", "python 3"},
	"javascript": {"js"},
	"nodejs":     {"node.js"},
}

// DefaultOverrides resolves variants that could plausibly name more than
// one skill. "node" is usually the runtime rather than the language.
var DefaultOverrides = map[string]string{
	"node": "nodejs",
}

// Match is a variant found in the text and the key it maps to.
type Match struct {
	Variant string
	Key     string
}

type variant struct {
	text string
	key  string
}

// Vocabulary is an ordered variant table. It is immutable once built.
type Vocabulary struct {
	variants []variant
	pos      map[string]int
}

// Option customizes how the table is built.
type Option func(*options)

type options struct {
	synonyms  map[string][]string
	overrides map[string]string
}

// WithSynonyms replaces the curated synonym table.
func WithSynonyms(s map[string][]string) Option {
	return func(o *options) { o.synonyms = s }
}

// WithOverrides replaces the explicit ambiguous-variant table.
func WithOverrides(m map[string]string) Option {
	return func(o *options) { o.overrides = m }
}

// New builds the variant table from the bank: each key and display name,
// then the synonyms of each key, then the overrides. A variant seen twice
// keeps its first position but takes the later mapping.
func New(bank *questionbank.QuestionBank, opts ...Option) *Vocabulary {
	o := options{synonyms: Synonyms, overrides: DefaultOverrides}
	for _, opt := range opts {
		opt(&o)
	}

	v := &Vocabulary{pos: make(map[string]int)}
	for _, e := range bank.Entries() {
		v.put(e.Skill, e.Skill)
		v.put(e.DisplayName, e.Skill)
		for _, syn := range o.synonyms[e.Skill] {
			v.put(syn, e.Skill)
		}
	}

	for _, text := range slices.Sorted(maps.Keys(o.overrides)) {
		if key := o.overrides[text]; bank.Has(key) {
			v.put(text, key)
		}
	}

	return v
}

func (v *Vocabulary) put(text, key string) {
	text = Normalize(text)
	if text == "" {
		return
	}
	if i, ok := v.pos[text]; ok {
		v.variants[i].key = key
		return
	}
	v.pos[text] = len(v.variants)
	v.variants = append(v.variants, variant{text: text, key: key})
}

// Resolve returns the key a single variant maps to.
func (v *Vocabulary) Resolve(text string) (string, bool) {
	i, ok := v.pos[Normalize(text)]
	if !ok {
		return "", false
	}
	return v.variants[i].key, true
}

// Len returns the number of variants in the table.
func (v *Vocabulary) Len() int { return len(v.variants) }

// Canonicalize finds every variant contained in text (literal substring
// match on the normalized text) and returns one match per canonical key,
// keeping the first variant encountered in table order.
func (v *Vocabulary) Canonicalize(text string) []Match {
	norm := Normalize(text)
	if norm == "" {
		return nil
	}

	seen := make(map[string]bool)
	var out []Match
	for _, vr := range v.variants {
		if seen[vr.key] || !strings.Contains(norm, vr.text) {
			continue
		}
		seen[vr.key] = true
		out = append(out, Match{Variant: vr.text, Key: vr.key})
	}
	return out
}

// Normalize lower-cases text and collapses whitespace runs to one space.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
