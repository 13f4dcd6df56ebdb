package posthoc

import (
	"fmt"
	"math"

	"goanova/domain/anova"
	"goanova/domain/core"
	"goanova/internal/analysis/dist"
)

// Bonferroni performs independent two-sample pooled-variance t-tests for
// every unordered pair, with Bonferroni correction: the adjusted p-value
// is raw_p * m capped at 1.0, compared against the family-wise alpha.
func Bonferroni(groups [][]float64, names []string, alpha float64) (*anova.PostHocResult, error) {
	names, err := validateGroups(groups, names)
	if err != nil {
		return nil, err
	}
	alpha = normalizeAlpha(alpha)

	msWithin, dfWithin, err := pooledWithin(groups)
	if err != nil {
		return nil, err
	}

	k := len(groups)
	m := k * (k - 1) / 2
	means := groupMeans(groups)

	comparisons := make([]anova.Comparison, 0, m)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			ni, nj := len(groups[i]), len(groups[j])
			df := ni + nj - 2
			if df < 1 {
				return nil, core.NewValidationError(
					fmt.Sprintf("pair %s vs %s", names[i], names[j]),
					"pairwise t-test requires at least 3 observations across the pair")
			}

			vi := sampleVariance(groups[i])
			vj := sampleVariance(groups[j])
			pooled := (float64(ni-1)*vi + float64(nj-1)*vj) / float64(df)
			if pooled == 0 {
				return nil, core.ErrZeroVariance
			}

			se := math.Sqrt(pooled * (1/float64(ni) + 1/float64(nj)))
			diff := means[i] - means[j]
			t := diff / se

			pRaw, err := dist.TTestPValue(t, df)
			if err != nil {
				return nil, err
			}
			pAdj := math.Min(pRaw*float64(m), 1.0)

			comparisons = append(comparisons, anova.Comparison{
				GroupA:      names[i],
				GroupB:      names[j],
				MeanDiff:    diff,
				SE:          se,
				Statistic:   t,
				PValue:      pRaw,
				PAdjusted:   pAdj,
				Significant: pAdj < alpha,
			})
		}
	}

	result := &anova.PostHocResult{
		Method:      anova.MethodBonferroni,
		Alpha:       alpha,
		MSWithin:    msWithin,
		DFWithin:    dfWithin,
		Comparisons: comparisons,
	}
	result.Summary = anova.FormatPostHocSummary(*result)
	return result, nil
}
