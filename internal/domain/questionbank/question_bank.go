package questionbank

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

// Entry is one skill of the bank with its questions per level.
type Entry struct {
	Skill       string             `json:"skill"`
	DisplayName string             `json:"displayName"`
	Levels      map[Level][]string `json:"levels"`
}

// QuestionBank is a read-only index over the skill question document.
// It is built once and never mutated afterwards, so it is safe for
// concurrent use.
type QuestionBank struct {
	entries []Entry
	index   map[string]int
	folded  map[string]string // lower-cased key -> canonical key
}

// ValidationError lists every schema violation found in a bank document.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single violation at a document path.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("question bank validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// LoadFile reads and validates the bank document at path.
func LoadFile(path string) (*QuestionBank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question bank: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads and validates a bank document of the form
// [{skill, displayName, levels:{beginner:[...], intermediate:[...], advanced:[...]}}].
func Load(r io.Reader) (*QuestionBank, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}

	if err := validate(data); err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}

	return New(entries)
}

// New builds a bank from already decoded entries.
func New(entries []Entry) (*QuestionBank, error) {
	qb := &QuestionBank{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
		folded:  make(map[string]string, len(entries)),
	}

	for i, e := range entries {
		key := strings.TrimSpace(e.Skill)
		if key == "" {
			return nil, &ValidationError{Errors: []FieldError{{
				Field:   fmt.Sprintf("%d.skill", i),
				Message: "skill key must not be empty",
			}}}
		}
		if _, dup := qb.index[key]; dup {
			return nil, &ValidationError{Errors: []FieldError{{
				Field:   fmt.Sprintf("%d.skill", i),
				Message: fmt.Sprintf("duplicate skill key %q", key),
			}}}
		}

		levels := make(map[Level][]string, len(Levels))
		for _, lvl := range Levels {
			qs := e.Levels[lvl]
			levels[lvl] = append([]string(nil), qs...)
		}

		name := strings.TrimSpace(e.DisplayName)
		if name == "" {
			name = key
		}

		qb.index[key] = len(qb.entries)
		qb.folded[strings.ToLower(key)] = key
		qb.entries = append(qb.entries, Entry{Skill: key, DisplayName: name, Levels: levels})
	}

	return qb, nil
}

func validate(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validate question bank: %w", err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}

// Keys returns the canonical skill keys in document order.
func (qb *QuestionBank) Keys() []string {
	keys := make([]string, len(qb.entries))
	for i, e := range qb.entries {
		keys[i] = e.Skill
	}
	return keys
}

// Entries returns a copy of the entries in document order.
func (qb *QuestionBank) Entries() []Entry {
	return append([]Entry(nil), qb.entries...)
}

// Entry returns the entry for a canonical key.
func (qb *QuestionBank) Entry(skill string) (Entry, bool) {
	i, ok := qb.index[skill]
	if !ok {
		return Entry{}, false
	}
	return qb.entries[i], true
}

// Has reports whether skill is a canonical key of the bank.
func (qb *QuestionBank) Has(skill string) bool {
	_, ok := qb.index[skill]
	return ok
}

// Lookup resolves a case-insensitive skill name to its canonical key.
func (qb *QuestionBank) Lookup(skill string) (string, bool) {
	key, ok := qb.folded[strings.ToLower(strings.TrimSpace(skill))]
	return key, ok
}

// DisplayName returns the display name for skill, or the key itself.
func (qb *QuestionBank) DisplayName(skill string) string {
	if e, ok := qb.Entry(skill); ok {
		return e.DisplayName
	}
	return skill
}

// Questions returns the ordered questions for (skill, level). The slice
// must not be modified.
func (qb *QuestionBank) Questions(skill string, level Level) []string {
	e, ok := qb.Entry(skill)
	if !ok {
		return nil
	}
	return e.Levels[level]
}

// Len returns the number of skills in the bank.
func (qb *QuestionBank) Len() int {
	return len(qb.entries)
}
