package questionbank

// SkillStats summarizes how many questions a skill holds per level.
type SkillStats struct {
	Skill        string
	DisplayName  string
	PerLevel     map[Level]int
	Total        int
	MissingLevel []Level // levels with no question at all
}

// BankStats aggregates statistics for the whole bank.
type BankStats struct {
	Skills         int
	TotalQuestions int
	PerSkill       []SkillStats
}

// Stats computes per-skill question counts in document order.
func (qb *QuestionBank) Stats() BankStats {
	stats := BankStats{
		Skills:   len(qb.entries),
		PerSkill: make([]SkillStats, 0, len(qb.entries)),
	}

	for _, e := range qb.entries {
		ss := SkillStats{
			Skill:       e.Skill,
			DisplayName: e.DisplayName,
			PerLevel:    make(map[Level]int, len(Levels)),
		}
		for _, lvl := range Levels {
			n := len(e.Levels[lvl])
			ss.PerLevel[lvl] = n
			ss.Total += n
			if n == 0 {
				ss.MissingLevel = append(ss.MissingLevel, lvl)
			}
		}
		stats.TotalQuestions += ss.Total
		stats.PerSkill = append(stats.PerSkill, ss)
	}

	return stats
}
