package insight

import "math"

// Relation links two insights for graph display. It is a heuristic over
// shared keyword and category, not a semantic similarity.
type Relation struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Strength float64 `json:"strength"` // in (0, 1]
}

// Relate scores every pair of insights that shares a keyword or a type.
// A shared non-empty keyword adds 0.5, a shared type adds 0.3, and
// confidence closeness adds up to 0.2. Output follows input order.
func Relate(insights []Insight) []Relation {
	var out []Relation
	for i := 0; i < len(insights); i++ {
		for j := i + 1; j < len(insights); j++ {
			a, b := insights[i], insights[j]

			sameKeyword := a.Keyword != "" && a.Keyword == b.Keyword
			sameType := a.Type == b.Type
			if !sameKeyword && !sameType {
				continue
			}

			strength := 0.2 * (1 - math.Abs(a.Confidence-b.Confidence))
			if sameKeyword {
				strength += 0.5
			}
			if sameType {
				strength += 0.3
			}
			out = append(out, Relation{Source: a.ID, Target: b.ID, Strength: strength})
		}
	}
	return out
}
