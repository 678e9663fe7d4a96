package questionbank_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remaimber-it/interviewer/internal/domain/questionbank"
)

const sampleBank = `[
  {"skill": "python", "displayName": "Python", "levels": {
    "beginner": ["Q1"],
    "intermediate": ["Q2", "Q3"]
  }},
  {"skill": "sql", "displayName": "SQL", "levels": {"intermediate": ["Q4"]}}
]`

func TestLoad_IndexesEntries(t *testing.T) {
	bank, err := questionbank.Load(strings.NewReader(sampleBank))
	require.NoError(t, err)

	assert.Equal(t, []string{"python", "sql"}, bank.Keys())
	assert.Equal(t, 2, bank.Len())
	assert.True(t, bank.Has("python"))
	assert.False(t, bank.Has("Python"))
	assert.Equal(t, "SQL", bank.DisplayName("sql"))
	assert.Equal(t, "rust", bank.DisplayName("rust"))
	assert.Equal(t, []string{"Q2", "Q3"}, bank.Questions("python", questionbank.LevelIntermediate))
	assert.Empty(t, bank.Questions("python", questionbank.LevelAdvanced))
	assert.Empty(t, bank.Questions("rust", questionbank.LevelBeginner))
}

func TestLookup_CaseInsensitive(t *testing.T) {
	bank, err := questionbank.Load(strings.NewReader(sampleBank))
	require.NoError(t, err)

	key, ok := bank.Lookup("  PyThOn ")
	require.True(t, ok)
	assert.Equal(t, "python", key)

	_, ok = bank.Lookup("go")
	assert.False(t, ok)
}

func TestLoad_RejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{{{`},
		{"object instead of array", `{"skill": "python"}`},
		{"missing levels", `[{"skill": "python", "displayName": "Python"}]`},
		{"empty skill", `[{"skill": "", "displayName": "X", "levels": {}}]`},
		{"blank skill", `[{"skill": "   ", "displayName": "X", "levels": {}}]`},
		{"unknown level", `[{"skill": "go", "displayName": "Go", "levels": {"expert": ["Q"]}}]`},
		{"non-string question", `[{"skill": "go", "displayName": "Go", "levels": {"beginner": [1]}}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := questionbank.Load(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_SchemaErrorsAreStructured(t *testing.T) {
	_, err := questionbank.Load(strings.NewReader(`[{"skill": "go"}]`))
	require.Error(t, err)

	var verr *questionbank.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.NotEmpty(t, verr.Errors)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestNew_RejectsDuplicateKeys(t *testing.T) {
	_, err := questionbank.New([]questionbank.Entry{
		{Skill: "go", DisplayName: "Go"},
		{Skill: "go", DisplayName: "Golang"},
	})

	var verr *questionbank.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Errors[0].Message, "duplicate")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]questionbank.Level{
		"beginner":     questionbank.LevelBeginner,
		" Advanced ":   questionbank.LevelAdvanced,
		"INTERMEDIATE": questionbank.LevelIntermediate,
		"expert":       questionbank.LevelIntermediate,
		"":             questionbank.LevelIntermediate,
		"senior-level": questionbank.LevelIntermediate,
	}

	for in, want := range tests {
		assert.Equal(t, want, questionbank.ParseLevel(in), "input %q", in)
	}
}

func TestStats(t *testing.T) {
	bank, err := questionbank.Load(strings.NewReader(sampleBank))
	require.NoError(t, err)

	stats := bank.Stats()
	assert.Equal(t, 2, stats.Skills)
	assert.Equal(t, 4, stats.TotalQuestions)
	require.Len(t, stats.PerSkill, 2)

	py := stats.PerSkill[0]
	assert.Equal(t, "python", py.Skill)
	assert.Equal(t, 3, py.Total)
	assert.Equal(t, []questionbank.Level{questionbank.LevelAdvanced}, py.MissingLevel)
}
