// Package llmjson recovers structured records from unreliable model output.
//
// Generated text often wraps JSON in markdown fences, leaves trailing commas,
// uses single quotes, truncates arrays or surrounds the payload with prose.
// A Parser applies four strategies in order, each more permissive than the
// last, and returns the records of the first one that succeeds.
package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Record is one loosely typed object recovered from model output.
type Record = map[string]any

// DefaultWindow bounds how far past a leading field the field strategy
// looks for the remaining fields of the same record.
const DefaultWindow = 400

// ErrNoRecords is returned when a strategy recovers nothing.
var ErrNoRecords = errors.New("no records recovered")

// ParseError reports that every strategy failed on the given input.
type ParseError struct {
	Input   string
	Reasons []error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable model output (%d strategies failed): %q", len(e.Reasons), preview(e.Input, 80))
}

func (e *ParseError) Unwrap() error { return ErrNoRecords }

var (
	// Fences only count on a line of their own, so backticks quoted inside
	// a string value survive.
	fencePattern         = regexp.MustCompile("(?m)^[ \t]*```[a-zA-Z]*[ \t]*$")
	trailingCommaPattern = regexp.MustCompile(`,(\s*[}\]])`)
	flatObjectPattern    = regexp.MustCompile(`\{[^{}]*\}`)
)

// Parser extracts records carrying the Required fields.
type Parser struct {
	// Required lists the fields a record must carry. The first one anchors
	// the field strategy.
	Required []string
	// Window is the field strategy's look-ahead in bytes.
	Window int
}

// New returns a Parser requiring the given fields.
func New(required ...string) *Parser {
	return &Parser{Required: required, Window: DefaultWindow}
}

// Parse runs the strategies in order and returns the first non-empty result.
// It returns a *ParseError only when all of them fail; callers treat that as
// "no usable output", not as a fatal condition.
func (p *Parser) Parse(raw string) ([]Record, error) {
	strategies := []func(string) ([]Record, error){
		ParseFenced,
		ParseBracketed,
		p.ParseObjects,
		p.ParseFields,
	}

	var reasons []error
	for _, strategy := range strategies {
		records, err := strategy(raw)
		if err == nil && len(records) > 0 {
			return records, nil
		}
		if err == nil {
			err = ErrNoRecords
		}
		reasons = append(reasons, err)
	}

	return nil, &ParseError{Input: raw, Reasons: reasons}
}

// ParseFenced strips code-fence lines and parses the whole text as an
// array of objects.
func ParseFenced(raw string) ([]Record, error) {
	cleaned := strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))
	return decodeArray(cleaned)
}

// ParseBracketed parses the span from the first '[' to the last ']' after
// removing trailing commas.
func ParseBracketed(raw string) ([]Record, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, errors.New("no bracketed array")
	}
	return decodeArray(stripTrailingCommas(raw[start : end+1]))
}

// ParseObjects collects every flat {...} substring that mentions all
// required fields, repairing quotes and trailing commas per object. It
// works when the enclosing array is truncated or missing.
func (p *Parser) ParseObjects(raw string) ([]Record, error) {
	var records []Record
	for _, candidate := range flatObjectPattern.FindAllString(raw, -1) {
		if !p.mentionsRequired(candidate) {
			continue
		}
		if rec, ok := decodeObject(candidate); ok {
			records = append(records, rec)
		}
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// ParseFields is the last resort: for every `"<first required>": "..."`
// it searches a bounded trailing window for the other required fields and
// keeps the record only when every field is non-empty.
func (p *Parser) ParseFields(raw string) ([]Record, error) {
	if len(p.Required) == 0 {
		return nil, errors.New("no required fields configured")
	}

	window := p.Window
	if window <= 0 {
		window = DefaultWindow
	}

	anchor := fieldPattern(p.Required[0])
	matches := anchor.FindAllStringSubmatchIndex(raw, -1)

	var records []Record
	for i, m := range matches {
		first, ok := unquote(raw[m[2]:m[3]])
		if !ok || strings.TrimSpace(first) == "" {
			continue
		}

		end := min(m[1]+window, len(raw))
		if i+1 < len(matches) && matches[i+1][0] < end {
			end = matches[i+1][0]
		}
		tail := raw[m[1]:end]

		rec := Record{p.Required[0]: first}
		complete := true
		for _, field := range p.Required[1:] {
			sub := fieldPattern(field).FindStringSubmatch(tail)
			if sub == nil {
				complete = false
				break
			}
			val, ok := unquote(sub[1])
			if !ok || strings.TrimSpace(val) == "" {
				complete = false
				break
			}
			rec[field] = val
		}
		if complete {
			records = append(records, rec)
		}
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

func (p *Parser) mentionsRequired(obj string) bool {
	for _, field := range p.Required {
		if !keyPattern(field).MatchString(obj) {
			return false
		}
	}
	return true
}

func decodeArray(s string) ([]Record, error) {
	var items []any
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, fmt.Errorf("decode array: %w", err)
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(map[string]any); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// decodeObject parses one flat object as is, then without trailing commas,
// then after a lenient repair (single quotes, unquoted keys, stray commas).
func decodeObject(s string) (Record, bool) {
	candidates := []string{s, stripTrailingCommas(s)}
	if repaired, err := jsonrepair.JSONRepair(s); err == nil {
		candidates = append(candidates, repaired)
	}

	for _, candidate := range candidates {
		var rec Record
		if err := json.Unmarshal([]byte(candidate), &rec); err == nil {
			return rec, true
		}
	}
	return nil, false
}

func stripTrailingCommas(s string) string {
	return trailingCommaPattern.ReplaceAllString(s, "$1")
}

func keyPattern(field string) *regexp.Regexp {
	return regexp.MustCompile(`["']` + regexp.QuoteMeta(field) + `["']\s*:`)
}

func fieldPattern(field string) *regexp.Regexp {
	return regexp.MustCompile(`"` + regexp.QuoteMeta(field) + `"\s*:\s*"((?:[^"\\]|\\.)*)"`)
}

func unquote(s string) (string, bool) {
	var v string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &v); err != nil {
		return "", false
	}
	return v, true
}

func preview(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
