package detector

import (
	"regexp"
	"strings"

	"github.com/remaimber-it/interviewer/internal/domain/questionbank"
)

// contextRadius is how many bytes on each side of a mention are inspected
// by keyword level inference.
const contextRadius = 100

var (
	advancedKeywords = []string{
		"advanced", "expert", "lead", "senior", "5+ years", "5 years",
		"extensive", "deep", "mastery", "proficient in", "experienced with",
	}
	beginnerKeywords = []string{
		"beginner", "familiar", "some experience", "basic", "learning",
		"introduction", "introductory", "novice",
	}
	intermediateKeywords = []string{
		"intermediate", "proficient", "2+ years", "2 years", "3+ years",
		"3 years", "comfortable", "working knowledge",
	}
)

// tiers are checked in priority order for each mention.
var tiers = []struct {
	level    questionbank.Level
	keywords []string
}{
	{questionbank.LevelAdvanced, advancedKeywords},
	{questionbank.LevelBeginner, beginnerKeywords},
	{questionbank.LevelIntermediate, intermediateKeywords},
}

// InferLevel classifies the proficiency for variant from the words around
// each of its occurrences in normalized (lower-case, collapsed) text. The
// first occurrence whose context hits any tier decides; with no signal the
// level is intermediate.
func InferLevel(normalized, variant string) questionbank.Level {
	if variant == "" {
		return questionbank.LevelIntermediate
	}

	for _, start := range occurrences(normalized, variant) {
		ctx := window(normalized, start, start+len(variant), contextRadius)
		for _, tier := range tiers {
			if containsAny(ctx, tier.keywords) {
				return tier.level
			}
		}
	}
	return questionbank.LevelIntermediate
}

// occurrences returns the start offset of every whole-word occurrence of sub.
// Variants that begin or end in punctuation ("c++", "node.js") cannot sit on
// a word boundary, so those fall back to plain substring offsets.
func occurrences(text, sub string) []int {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(sub) + `\b`)
	if locs := re.FindAllStringIndex(text, -1); len(locs) > 0 {
		out := make([]int, len(locs))
		for i, loc := range locs {
			out[i] = loc[0]
		}
		return out
	}

	var out []int
	for offset := 0; offset <= len(text)-len(sub); {
		i := strings.Index(text[offset:], sub)
		if i < 0 {
			break
		}
		out = append(out, offset+i)
		offset += i + len(sub)
	}
	return out
}

func window(text string, start, end, radius int) string {
	return text[max(0, start-radius):min(len(text), end+radius)]
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
