package domain

import "fmt"

// axis pairs the two traits of one personality dimension with their labels.
type axis struct {
	pos, neg           Trait
	posLabel, negLabel string
	comparisonKey      string
}

// axes are compared in fixed order; the concatenated winners form the type code.
var axes = [4]axis{
	{TraitE, TraitI, "Extraversion", "Introversion", "E_vs_I"},
	{TraitS, TraitN, "Sensing", "Intuition", "S_vs_N"},
	{TraitT, TraitF, "Thinking", "Feeling", "T_vs_F"},
	{TraitJ, TraitP, "Judging", "Perceiving", "J_vs_P"},
}

// Classify maps accumulated trait scores to a 4-letter type code. Each axis
// yields its first letter only when strictly ahead; ties resolve to the second
// letter (I, N, F, P).
func Classify(scores TraitScores) string {
	code := make([]byte, 0, 4)
	for _, ax := range axes {
		if scores.Get(ax.pos) > scores.Get(ax.neg) {
			code = append(code, ax.pos[0])
		} else {
			code = append(code, ax.neg[0])
		}
	}
	return string(code)
}

// TraitComparisons renders the per-axis score breakdown shown with the final
// result, e.g. "Extraversion (3) vs Introversion (1): E".
func TraitComparisons(scores TraitScores, code string) map[string]string {
	comparisons := make(map[string]string, len(axes))
	for i, ax := range axes {
		letter := ""
		if i < len(code) {
			letter = string(code[i])
		}
		comparisons[ax.comparisonKey] = fmt.Sprintf("%s (%d) vs %s (%d): %s",
			ax.posLabel, scores.Get(ax.pos), ax.negLabel, scores.Get(ax.neg), letter)
	}
	return comparisons
}
