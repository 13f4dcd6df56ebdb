// Package oneway computes one-way ANOVA decompositions from k groups of
// observations. Unbalanced designs (unequal group sizes) are supported.
package oneway

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"goanova/domain/anova"
	"goanova/domain/core"
	"goanova/internal/analysis/dist"
)

// Engine holds an immutable copy of the caller's grouped data.
type Engine struct {
	groups [][]float64
	names  []string
	total  int
}

// New creates a one-way ANOVA engine. Group names default to
// "Group 1", "Group 2", ... when names is nil.
func New(groups [][]float64, names []string) (*Engine, error) {
	if len(groups) < 2 {
		return nil, core.ErrTooFewGroups
	}

	copied := make([][]float64, len(groups))
	total := 0
	for i, g := range groups {
		if len(g) == 0 {
			return nil, core.NewValidationError(fmt.Sprintf("group %d", i+1), "group is empty")
		}
		copied[i] = append([]float64(nil), g...)
		total += len(g)
	}
	if total < 2 {
		return nil, core.NewValidationError("observations", "at least 2 total observations required")
	}

	if names == nil {
		names = make([]string, len(groups))
		for i := range names {
			names[i] = fmt.Sprintf("Group %d", i+1)
		}
	} else {
		if len(names) != len(groups) {
			return nil, fmt.Errorf("%w: %d names for %d groups",
				core.ErrNameCountMismatch, len(names), len(groups))
		}
		names = append([]string(nil), names...)
	}

	return &Engine{groups: copied, names: names, total: total}, nil
}

// NewFromMap creates an engine from a name -> observations mapping.
// Groups are ordered by name for deterministic output.
func NewFromMap(data map[string][]float64) (*Engine, error) {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([][]float64, len(names))
	for i, name := range names {
		groups[i] = data[name]
	}
	return New(groups, names)
}

// GroupNames returns the group labels in engine order.
func (e *Engine) GroupNames() []string {
	return append([]string(nil), e.names...)
}

// Calculate performs the one-way ANOVA decomposition.
func (e *Engine) Calculate() (*anova.OneWayResult, error) {
	k := len(e.groups)
	n := e.total

	groupMeans := make([]float64, k)
	grandSum := 0.0
	for i, g := range e.groups {
		m, _ := stats.Mean(g)
		s, _ := stats.Sum(g)
		groupMeans[i] = m
		grandSum += s
	}
	grandMean := grandSum / float64(n)

	var ssBetween, ssWithin, ssTotal float64
	for i, g := range e.groups {
		d := groupMeans[i] - grandMean
		ssBetween += float64(len(g)) * d * d
		for _, x := range g {
			w := x - groupMeans[i]
			ssWithin += w * w
			t := x - grandMean
			ssTotal += t * t
		}
	}

	dfBetween := k - 1
	dfWithin := n - k
	dfTotal := n - 1

	msBetween := ssBetween / float64(dfBetween)
	msWithin := 0.0
	if dfWithin > 0 {
		msWithin = ssWithin / float64(dfWithin)
	}

	// Zero within-group variance leaves the F-ratio undefined. The result
	// carries an explicit degenerate state instead of an infinity.
	degenerate := dfWithin == 0 || msWithin == 0

	betweenRow := anova.Row{
		Source: anova.SourceBetween,
		SS:     ssBetween,
		DF:     dfBetween,
		MS:     msBetween,
		HasMS:  true,
	}
	if degenerate {
		betweenRow.FUndefined = true
	} else {
		f := msBetween / msWithin
		p, err := dist.FSurvival(f, dfBetween, dfWithin)
		if err != nil {
			return nil, err
		}
		betweenRow.F = f
		betweenRow.P = p
		betweenRow.HasF = true
	}

	table := anova.Table{
		Rows: []anova.Row{
			betweenRow,
			{Source: anova.SourceWithin, SS: ssWithin, DF: dfWithin, MS: msWithin, HasMS: dfWithin > 0},
			{Source: anova.SourceTotal, SS: ssTotal, DF: dfTotal},
		},
		Degenerate: degenerate,
	}

	residuals := make([]float64, 0, n)
	groupSE := make([]float64, k)
	for i, g := range e.groups {
		for _, x := range g {
			residuals = append(residuals, x-groupMeans[i])
		}
		if len(g) > 1 {
			sd, _ := stats.StandardDeviationSample(g)
			groupSE[i] = sd / math.Sqrt(float64(len(g)))
		}
	}

	return &anova.OneWayResult{
		Table:      table,
		GrandMean:  grandMean,
		GroupNames: append([]string(nil), e.names...),
		GroupMeans: groupMeans,
		GroupSE:    groupSE,
		Residuals:  residuals,
		Summary:    anova.FormatSummary(table),
	}, nil
}

// Groups returns a copy of the engine's grouped data, for post-hoc
// follow-ups that need the raw observations.
func (e *Engine) Groups() [][]float64 {
	out := make([][]float64, len(e.groups))
	for i, g := range e.groups {
		out[i] = append([]float64(nil), g...)
	}
	return out
}
