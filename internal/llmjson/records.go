package llmjson

import (
	"strings"

	"github.com/mitchellh/mapstructure"
)

// SkillRecord is a detected skill as returned by the model.
type SkillRecord struct {
	Skill   string `json:"skill"`
	Level   string `json:"level"`
	Context string `json:"context"`
}

func (r SkillRecord) Valid() bool {
	return strings.TrimSpace(r.Skill) != ""
}

// QuestionRecord is a generated interview question as returned by the model.
type QuestionRecord struct {
	Skill    string `json:"skill"`
	Level    string `json:"level"`
	Question string `json:"question"`
}

func (r QuestionRecord) Valid() bool {
	return strings.TrimSpace(r.Skill) != "" && strings.TrimSpace(r.Question) != ""
}

// Validator is implemented by strict record types.
type Validator interface {
	Valid() bool
}

// Decode converts loose records into T. Records that fail to decode or to
// validate are dropped; dropped reports how many.
func Decode[T Validator](records []Record) (out []T, dropped int) {
	out = make([]T, 0, len(records))
	for _, rec := range records {
		var v T
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &v,
			TagName:          "json",
			WeaklyTypedInput: true,
		})
		if err != nil {
			dropped++
			continue
		}
		if err := dec.Decode(rec); err != nil || !v.Valid() {
			dropped++
			continue
		}
		out = append(out, v)
	}
	return out, dropped
}
