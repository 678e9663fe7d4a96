package detector

import "strings"

// RolePriority lists the skills to surface first for a job role.
type RolePriority struct {
	Role   string
	Skills []string
}

// DefaultPriorities is checked in order; the first role contained in the
// job role hint wins.
var DefaultPriorities = []RolePriority{
	{Role: "data science", Skills: []string{"python", "sql", "javascript"}},
	{Role: "software engineer", Skills: []string{"python", "javascript", "react", "nodejs"}},
	{Role: "web developer", Skills: []string{"html", "css", "javascript", "react"}},
	{Role: "backend developer", Skills: []string{"python", "nodejs", "sql"}},
	{Role: "frontend developer", Skills: []string{"html", "css", "javascript", "react"}},
}

// Prioritize moves the skills preferred for jobRole to the front, in
// priority order, and keeps every other skill in its original order. It
// never drops a skill. An empty or unknown role leaves the order untouched.
func Prioritize(skills []DetectedSkill, jobRole string, table []RolePriority) []DetectedSkill {
	role := strings.ToLower(strings.TrimSpace(jobRole))
	if role == "" || len(skills) == 0 {
		return skills
	}

	for _, rp := range table {
		if !strings.Contains(role, strings.ToLower(rp.Role)) {
			continue
		}

		out := make([]DetectedSkill, 0, len(skills))
		taken := make([]bool, len(skills))
		for _, key := range rp.Skills {
			for i, s := range skills {
				if !taken[i] && s.Key == key {
					out = append(out, s)
					taken[i] = true
				}
			}
		}
		for i, s := range skills {
			if !taken[i] {
				out = append(out, s)
			}
		}
		return out
	}

	return skills
}
