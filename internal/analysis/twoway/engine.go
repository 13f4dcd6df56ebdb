// Package twoway computes two-way ANOVA decompositions (Factor A, Factor
// B, Interaction, Error) from a balanced replicated design.
package twoway

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"goanova/domain/anova"
	"goanova/domain/core"
	"goanova/internal/analysis/dist"
)

// Config holds display names for factors and their levels. Zero values
// fall back to "Factor A" / "Factor B" with numbered levels.
type Config struct {
	FactorAName string
	FactorBName string
	ALevelNames []string
	BLevelNames []string
}

// Engine holds an immutable copy of a balanced (a x b x r) design.
// data[i][j] is the replicate slice for level i of Factor A and level j
// of Factor B.
type Engine struct {
	data    [][][]float64
	a, b, r int
	cfg     Config
}

// New validates the design and creates a two-way ANOVA engine. Every
// cell must carry the same number of replicates, and that number must be
// at least 2 so the within-cell error variance can be estimated.
func New(data [][][]float64, cfg Config) (*Engine, error) {
	a := len(data)
	if a < 2 {
		return nil, core.NewValidationError("factor A", "must have at least 2 levels")
	}
	b := len(data[0])
	if b < 2 {
		return nil, core.NewValidationError("factor B", "must have at least 2 levels")
	}
	r := len(data[0][0])
	if r < 2 {
		return nil, core.NewValidationError("replicates",
			"two-way ANOVA with replication requires at least 2 replicates per cell")
	}

	copied := make([][][]float64, a)
	for i := 0; i < a; i++ {
		if len(data[i]) != b {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d",
				core.ErrUnbalancedDesign, i, len(data[i]), b)
		}
		copied[i] = make([][]float64, b)
		for j := 0; j < b; j++ {
			if len(data[i][j]) != r {
				return nil, fmt.Errorf("%w: cell (%d,%d) has %d replicates, expected %d",
					core.ErrUnbalancedDesign, i, j, len(data[i][j]), r)
			}
			copied[i][j] = append([]float64(nil), data[i][j]...)
		}
	}

	if cfg.FactorAName == "" {
		cfg.FactorAName = "Factor A"
	}
	if cfg.FactorBName == "" {
		cfg.FactorBName = "Factor B"
	}
	if cfg.ALevelNames == nil {
		cfg.ALevelNames = defaultLevelNames(cfg.FactorAName, a)
	} else if len(cfg.ALevelNames) != a {
		return nil, fmt.Errorf("%w: %d level names for %d levels of factor A",
			core.ErrNameCountMismatch, len(cfg.ALevelNames), a)
	}
	if cfg.BLevelNames == nil {
		cfg.BLevelNames = defaultLevelNames(cfg.FactorBName, b)
	} else if len(cfg.BLevelNames) != b {
		return nil, fmt.Errorf("%w: %d level names for %d levels of factor B",
			core.ErrNameCountMismatch, len(cfg.BLevelNames), b)
	}

	return &Engine{data: copied, a: a, b: b, r: r, cfg: cfg}, nil
}

func defaultLevelNames(factor string, n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%s %d", factor, i+1)
	}
	return names
}

// Calculate decomposes total variance into Factor A, Factor B,
// Interaction and Error components.
func (e *Engine) Calculate() (*anova.TwoWayResult, error) {
	a, b, r := e.a, e.b, e.r
	n := a * b * r

	grandSum := 0.0
	cellMeans := make([][]float64, a)
	rowMeans := make([]float64, a)
	colMeans := make([]float64, b)
	for i := 0; i < a; i++ {
		cellMeans[i] = make([]float64, b)
		for j := 0; j < b; j++ {
			cellSum := 0.0
			for _, x := range e.data[i][j] {
				cellSum += x
			}
			cellMeans[i][j] = cellSum / float64(r)
			rowMeans[i] += cellSum
			colMeans[j] += cellSum
			grandSum += cellSum
		}
	}
	grandMean := grandSum / float64(n)
	for i := range rowMeans {
		rowMeans[i] /= float64(b * r)
	}
	for j := range colMeans {
		colMeans[j] /= float64(a * r)
	}

	var ssA, ssB, ssAB, ssError, ssTotal float64
	for i := 0; i < a; i++ {
		d := rowMeans[i] - grandMean
		ssA += d * d
	}
	ssA *= float64(b * r)
	for j := 0; j < b; j++ {
		d := colMeans[j] - grandMean
		ssB += d * d
	}
	ssB *= float64(a * r)
	for i := 0; i < a; i++ {
		for j := 0; j < b; j++ {
			d := cellMeans[i][j] - rowMeans[i] - colMeans[j] + grandMean
			ssAB += d * d
			for _, x := range e.data[i][j] {
				w := x - cellMeans[i][j]
				ssError += w * w
				t := x - grandMean
				ssTotal += t * t
			}
		}
	}
	ssAB *= float64(r)

	dfA := a - 1
	dfB := b - 1
	dfAB := (a - 1) * (b - 1)
	dfError := a * b * (r - 1)
	dfTotal := n - 1

	msA := ssA / float64(dfA)
	msB := ssB / float64(dfB)
	msAB := ssAB / float64(dfAB)
	msError := ssError / float64(dfError)

	degenerate := msError == 0

	rows := make([]anova.Row, 0, 5)
	for _, src := range []struct {
		name string
		ss   float64
		df   int
		ms   float64
	}{
		{e.cfg.FactorAName, ssA, dfA, msA},
		{e.cfg.FactorBName, ssB, dfB, msB},
		{anova.SourceInteraction, ssAB, dfAB, msAB},
	} {
		row := anova.Row{Source: src.name, SS: src.ss, DF: src.df, MS: src.ms, HasMS: true}
		if degenerate {
			row.FUndefined = true
		} else {
			f := src.ms / msError
			p, err := dist.FSurvival(f, src.df, dfError)
			if err != nil {
				return nil, err
			}
			row.F = f
			row.P = p
			row.HasF = true
		}
		rows = append(rows, row)
	}
	rows = append(rows,
		anova.Row{Source: anova.SourceError, SS: ssError, DF: dfError, MS: msError, HasMS: true},
		anova.Row{Source: anova.SourceTotal, SS: ssTotal, DF: dfTotal},
	)

	table := anova.Table{Rows: rows, Degenerate: degenerate}

	residuals := make([]float64, 0, n)
	for i := 0; i < a; i++ {
		for j := 0; j < b; j++ {
			for _, x := range e.data[i][j] {
				residuals = append(residuals, x-cellMeans[i][j])
			}
		}
	}

	groupsByA, seByA := e.collapseByA()
	groupsByB, seByB := e.collapseByB()

	return &anova.TwoWayResult{
		Table:       table,
		GrandMean:   grandMean,
		FactorAName: e.cfg.FactorAName,
		FactorBName: e.cfg.FactorBName,
		ALevelNames: append([]string(nil), e.cfg.ALevelNames...),
		BLevelNames: append([]string(nil), e.cfg.BLevelNames...),
		RowMeans:    rowMeans,
		ColMeans:    colMeans,
		CellMeans:   cellMeans,
		Residuals:   residuals,
		GroupsByA:   groupsByA,
		GroupsByB:   groupsByB,
		SEByA:       seByA,
		SEByB:       seByB,
		Summary:     anova.FormatSummary(table),
	}, nil
}

// collapseByA flattens observations per Factor A level, for post-hoc
// follow-ups and marginal plots.
func (e *Engine) collapseByA() ([][]float64, []float64) {
	groups := make([][]float64, e.a)
	se := make([]float64, e.a)
	for i := 0; i < e.a; i++ {
		g := make([]float64, 0, e.b*e.r)
		for j := 0; j < e.b; j++ {
			g = append(g, e.data[i][j]...)
		}
		groups[i] = g
		se[i] = standardError(g)
	}
	return groups, se
}

func (e *Engine) collapseByB() ([][]float64, []float64) {
	groups := make([][]float64, e.b)
	se := make([]float64, e.b)
	for j := 0; j < e.b; j++ {
		g := make([]float64, 0, e.a*e.r)
		for i := 0; i < e.a; i++ {
			g = append(g, e.data[i][j]...)
		}
		groups[j] = g
		se[j] = standardError(g)
	}
	return groups, se
}

func standardError(g []float64) float64 {
	if len(g) < 2 {
		return 0
	}
	sd, _ := stats.StandardDeviationSample(g)
	return sd / math.Sqrt(float64(len(g)))
}
