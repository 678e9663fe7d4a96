package questionbank

import "strings"

// Level is a proficiency level attached to detected skills and bank questions.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Levels lists the canonical levels from easiest to hardest.
var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}

// ParseLevel normalizes free text to a canonical level.
// Anything unrecognized becomes LevelIntermediate.
func ParseLevel(s string) Level {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return l
	default:
		return LevelIntermediate
	}
}

// IsValid reports whether l is one of the canonical levels.
func (l Level) IsValid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

func (l Level) String() string { return string(l) }
