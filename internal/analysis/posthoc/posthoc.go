// Package posthoc provides pairwise comparison tests performed after a
// significant omnibus ANOVA result: Tukey HSD, Bonferroni-corrected
// t-tests, and Scheffé comparisons. All three are stateless functions
// producing the same result shape so callers can render them uniformly.
package posthoc

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"goanova/domain/core"
)

// DefaultAlpha is the family-wise significance level used when callers
// pass a non-positive alpha.
const DefaultAlpha = 0.05

// PooledError carries a precomputed mean-square error and its degrees of
// freedom, so callers that already ran an ANOVA can avoid recomputation.
type PooledError struct {
	MSWithin float64
	DFWithin int
}

// GroupsFromMap adapts a name -> observations mapping into parallel
// slices, ordered by name for deterministic pair output.
func GroupsFromMap(data map[string][]float64) ([][]float64, []string) {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([][]float64, len(names))
	for i, name := range names {
		groups[i] = data[name]
	}
	return groups, names
}

// validateGroups checks the shared preconditions and returns resolved
// group names.
func validateGroups(groups [][]float64, names []string) ([]string, error) {
	if len(groups) < 2 {
		return nil, core.ErrTooFewGroups
	}
	for i, g := range groups {
		if len(g) == 0 {
			return nil, core.NewValidationError(fmt.Sprintf("group %d", i+1), "group is empty")
		}
	}
	if names == nil {
		names = make([]string, len(groups))
		for i := range names {
			names[i] = fmt.Sprintf("Group %d", i+1)
		}
		return names, nil
	}
	if len(names) != len(groups) {
		return nil, fmt.Errorf("%w: %d names for %d groups",
			core.ErrNameCountMismatch, len(names), len(groups))
	}
	return names, nil
}

// pooledWithin computes the pooled within-group mean square (MSE) and
// its degrees of freedom across all groups.
func pooledWithin(groups [][]float64) (float64, int, error) {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	df := n - len(groups)
	if df < 1 {
		return 0, 0, core.NewValidationError("groups",
			"pooled error variance requires more observations than groups")
	}

	ssWithin := 0.0
	for _, g := range groups {
		m, _ := stats.Mean(g)
		for _, x := range g {
			d := x - m
			ssWithin += d * d
		}
	}
	return ssWithin / float64(df), df, nil
}

func groupMeans(groups [][]float64) []float64 {
	means := make([]float64, len(groups))
	for i, g := range groups {
		means[i], _ = stats.Mean(g)
	}
	return means
}

// sampleVariance returns the unbiased variance, 0 for singleton groups.
func sampleVariance(g []float64) float64 {
	if len(g) < 2 {
		return 0
	}
	m, _ := stats.Mean(g)
	sum := 0.0
	for _, x := range g {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(g)-1)
}

func normalizeAlpha(alpha float64) float64 {
	if alpha <= 0 || alpha >= 1 {
		return DefaultAlpha
	}
	return alpha
}
