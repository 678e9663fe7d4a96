package llmjson_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remaimber-it/interviewer/internal/llmjson"
)

const validArray = `[
  {"skill": "python", "level": "advanced", "question": "How would you profile a slow Python service?"},
  {"skill": "sql", "level": "beginner", "question": "What is a JOIN in SQL?"}
]`

func newParser() *llmjson.Parser {
	return llmjson.New("skill", "level", "question")
}

func TestParseFenced(t *testing.T) {
	t.Parallel()

	records, err := llmjson.ParseFenced(validArray)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = llmjson.ParseFenced("```json\n" + validArray + "\n```")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "python", records[0]["skill"])

	_, err = llmjson.ParseFenced("Here you go: " + validArray)
	assert.Error(t, err)
}

func TestParseFenced_KeepsBackticksInsideValues(t *testing.T) {
	t.Parallel()

	raw := "```json\n" +
		`[{"skill": "python", "level": "beginner", "question": "What does ` + "```code```" + ` mean in a docstring?"}]` +
		"\n```"

	records, err := llmjson.ParseFenced(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "What does ```code``` mean in a docstring?", records[0]["question"])

	records, err = newParser().Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "What does ```code``` mean in a docstring?", records[0]["question"])
}

func TestParse_InlineFenceFallsThroughToBracketed(t *testing.T) {
	t.Parallel()

	raw := "```json [{\"skill\": \"sql\", \"level\": \"beginner\", \"question\": \"What is SQL?\"}] ```"

	_, err := llmjson.ParseFenced(raw)
	require.Error(t, err)

	records, err := newParser().Parse(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "What is SQL?", records[0]["question"])
}

func TestParseBracketed_TrailingCommaAndProse(t *testing.T) {
	t.Parallel()

	raw := `Sure! Here are the questions:
[
  {"skill": "python", "level": "beginner", "question": "What is a list?",},
  {"skill": "sql", "level": "intermediate", "question": "Explain indexes in SQL."},
]
Let me know if you need more.`

	_, err := llmjson.ParseFenced(raw)
	require.Error(t, err)

	records, err := llmjson.ParseBracketed(raw)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Explain indexes in SQL.", records[1]["question"])

	_, err = llmjson.ParseBracketed("no array here")
	assert.Error(t, err)
}

func TestParseObjects_SingleQuotedAndBrokenArray(t *testing.T) {
	t.Parallel()

	p := newParser()

	records, err := p.ParseObjects(`{'skill': 'python', 'level': 'beginner', 'question': 'What's a tuple in python?'}`)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "What's a tuple in python?", records[0]["question"])

	records, err = p.ParseObjects(`{'skill': 'sql', 'level': 'beginner', 'question': 'What is a JOIN?',}`)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "What is a JOIN?", records[0]["question"])

	truncated := `[{"skill": "go", "level": "advanced", "question": "Design a worker pool in Go",},
{"skill": "sql", "level": "beginner", "question": "What is a primary key in SQL?"}, {"skill": "rust", "lev`
	records, err = p.ParseObjects(truncated)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "go", records[0]["skill"])
	assert.Equal(t, "sql", records[1]["skill"])
}

func TestParseObjects_IgnoresObjectsMissingFields(t *testing.T) {
	t.Parallel()

	_, err := newParser().ParseObjects(`{"skill": "python", "level": "beginner"} {"note": "x"}`)
	assert.ErrorIs(t, err, llmjson.ErrNoRecords)
}

func TestParseObjects_ObjectInProse(t *testing.T) {
	t.Parallel()

	raw := `I think the best question is {"skill": "react", "level": "intermediate", "question": "How do React hooks manage state?"} for this candidate.`

	records, err := newParser().ParseObjects(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "react", records[0]["skill"])
}

func TestParseFields_LastResort(t *testing.T) {
	t.Parallel()

	raw := `[{"skill": "python", "level": "advanced", "question": "Explain the GIL in python" "extra": {broken}
{"skill": "sql", "level": "", "question": "What is SQL?"}
{"skill": "java", "question": "What is the JVM in java?", "level": "beginner"`

	p := newParser()
	_, err := p.ParseObjects(raw)
	require.Error(t, err)

	records, err := p.ParseFields(raw)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, llmjson.Record{"skill": "python", "level": "advanced", "question": "Explain the GIL in python"}, records[0])
	assert.Equal(t, "java", records[1]["skill"])
	assert.Equal(t, "beginner", records[1]["level"])
}

func TestParseFields_WindowDoesNotCrossRecords(t *testing.T) {
	t.Parallel()

	raw := `"skill": "python" ... "skill": "sql", "level": "beginner", "question": "What is SQL?"`

	records, err := newParser().ParseFields(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "sql", records[0]["skill"])
}

func TestParseFields_BoundedWindow(t *testing.T) {
	t.Parallel()

	p := &llmjson.Parser{Required: []string{"skill", "level", "question"}, Window: 20}
	raw := `"skill": "python", "padding": "................................", "level": "beginner", "question": "Q"`

	_, err := p.ParseFields(raw)
	assert.ErrorIs(t, err, llmjson.ErrNoRecords)
}

func TestParse_Cascade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		raw   string
		count int
	}{
		{"valid array", validArray, 2},
		{"fenced array", "```\n" + validArray + "\n```", 2},
		{"trailing comma", `[{"skill": "go", "level": "beginner", "question": "What is a goroutine in Go?"},]`, 1},
		{"single quoted object", `{'skill': 'go', 'level': 'beginner', 'question': 'What is a slice?'}`, 1},
		{"object in prose", `Answer: {"skill": "go", "level": "beginner", "question": "What is a map?"} done`, 1},
	}

	p := newParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := p.Parse(tt.raw)
			require.NoError(t, err)
			assert.Len(t, records, tt.count)
		})
	}
}

func TestParse_AllStrategiesFail(t *testing.T) {
	t.Parallel()

	_, err := newParser().Parse("I cannot help with that.")
	require.Error(t, err)

	var perr *llmjson.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Len(t, perr.Reasons, 4)
	assert.ErrorIs(t, err, llmjson.ErrNoRecords)
}

func TestParse_EmptyArrayIsNoUsableOutput(t *testing.T) {
	t.Parallel()

	_, err := newParser().Parse("[]")
	assert.ErrorIs(t, err, llmjson.ErrNoRecords)
}

func TestDecode_DropsInvalidRecords(t *testing.T) {
	t.Parallel()

	records := []llmjson.Record{
		{"skill": "python", "level": "advanced", "question": "Q1"},
		{"skill": "", "level": "beginner", "question": "Q2"},
		{"skill": "sql", "level": 3, "question": "Q3"},
		{"skill": "go", "level": "beginner", "question": map[string]any{"nested": true}},
		{"skill": "rust", "level": "beginner"},
	}

	out, dropped := llmjson.Decode[llmjson.QuestionRecord](records)
	assert.Equal(t, 3, dropped)
	require.Len(t, out, 2)
	assert.Equal(t, "python", out[0].Skill)
	assert.Equal(t, "3", out[1].Level)
}

func TestDecode_SkillRecords(t *testing.T) {
	t.Parallel()

	out, dropped := llmjson.Decode[llmjson.SkillRecord]([]llmjson.Record{
		{"skill": "python", "level": "advanced", "context": "5 years"},
		{"level": "advanced"},
	})
	assert.Equal(t, 1, dropped)
	require.Len(t, out, 1)
	assert.Equal(t, "5 years", out[0].Context)
}
