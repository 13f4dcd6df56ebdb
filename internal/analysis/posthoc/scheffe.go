package posthoc

import (
	"math"

	"goanova/domain/anova"
	"goanova/domain/core"
	"goanova/internal/analysis/dist"
)

// Scheffe performs Scheffé's test for pairwise comparisons. The test
// statistic for a pair is
//
//	F_scheffe = diff^2 / ((k-1) * MSE * (1/ni + 1/nj))
//
// compared against F_critical(k-1, df_error, alpha); the (k-1) scaling
// is applied on the statistic so both sides are on the plain F scale.
// A precomputed pooled error from an earlier ANOVA may be supplied to
// avoid recomputation.
func Scheffe(groups [][]float64, names []string, alpha float64, pooled *PooledError) (*anova.PostHocResult, error) {
	names, err := validateGroups(groups, names)
	if err != nil {
		return nil, err
	}
	alpha = normalizeAlpha(alpha)

	var msWithin float64
	var dfWithin int
	if pooled != nil {
		msWithin, dfWithin = pooled.MSWithin, pooled.DFWithin
		if dfWithin < 1 {
			return nil, core.ErrInvalidDF
		}
	} else {
		msWithin, dfWithin, err = pooledWithin(groups)
		if err != nil {
			return nil, err
		}
	}
	if msWithin == 0 {
		return nil, core.ErrZeroVariance
	}

	k := len(groups)
	critical, err := dist.FQuantile(1-alpha, k-1, dfWithin)
	if err != nil {
		return nil, err
	}

	means := groupMeans(groups)
	comparisons := make([]anova.Comparison, 0, k*(k-1)/2)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			ni, nj := float64(len(groups[i])), float64(len(groups[j]))
			weight := 1/ni + 1/nj
			se := math.Sqrt(msWithin * weight)
			diff := means[i] - means[j]
			fScheffe := diff * diff / (float64(k-1) * msWithin * weight)

			p, err := dist.FSurvival(fScheffe, k-1, dfWithin)
			if err != nil {
				return nil, err
			}

			comparisons = append(comparisons, anova.Comparison{
				GroupA:        names[i],
				GroupB:        names[j],
				MeanDiff:      diff,
				SE:            se,
				Statistic:     fScheffe,
				PValue:        p,
				PAdjusted:     p,
				CriticalValue: critical,
				Significant:   p < alpha,
			})
		}
	}

	result := &anova.PostHocResult{
		Method:      anova.MethodScheffe,
		Alpha:       alpha,
		MSWithin:    msWithin,
		DFWithin:    dfWithin,
		Comparisons: comparisons,
	}
	result.Summary = anova.FormatPostHocSummary(*result)
	return result, nil
}
