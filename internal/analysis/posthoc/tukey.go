package posthoc

import (
	"math"

	"goanova/domain/anova"
	"goanova/domain/core"
	"goanova/internal/analysis/dist"
)

// TukeyHSD performs Tukey's Honestly Significant Difference test over
// every unordered pair of groups. Unequal group sizes use the
// Tukey-Kramer standard error sqrt(MSE/2 * (1/ni + 1/nj)). The critical
// value comes from the studentized range distribution at (k, N-k).
func TukeyHSD(groups [][]float64, names []string, alpha float64) (*anova.PostHocResult, error) {
	names, err := validateGroups(groups, names)
	if err != nil {
		return nil, err
	}
	alpha = normalizeAlpha(alpha)

	msWithin, dfWithin, err := pooledWithin(groups)
	if err != nil {
		return nil, err
	}
	if msWithin == 0 {
		return nil, core.ErrZeroVariance
	}

	k := len(groups)
	critical, err := dist.StudentizedRangeQuantile(1-alpha, k, dfWithin)
	if err != nil {
		return nil, err
	}

	means := groupMeans(groups)
	comparisons := make([]anova.Comparison, 0, k*(k-1)/2)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			ni, nj := float64(len(groups[i])), float64(len(groups[j]))
			se := math.Sqrt(msWithin / 2 * (1/ni + 1/nj))
			diff := means[i] - means[j]
			q := math.Abs(diff) / se

			p, err := dist.StudentizedRangeSurvival(q, k, dfWithin)
			if err != nil {
				return nil, err
			}

			comparisons = append(comparisons, anova.Comparison{
				GroupA:        names[i],
				GroupB:        names[j],
				MeanDiff:      diff,
				SE:            se,
				Statistic:     q,
				PValue:        p,
				PAdjusted:     p,
				CriticalValue: critical,
				CILow:         diff - critical*se,
				CIHigh:        diff + critical*se,
				HasCI:         true,
				Significant:   q > critical,
			})
		}
	}

	result := &anova.PostHocResult{
		Method:      anova.MethodTukeyHSD,
		Alpha:       alpha,
		MSWithin:    msWithin,
		DFWithin:    dfWithin,
		Comparisons: comparisons,
	}
	result.Summary = anova.FormatPostHocSummary(*result)
	return result, nil
}
