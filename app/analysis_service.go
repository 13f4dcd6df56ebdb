// Package app wires the ANOVA engines, post-hoc tests and run
// persistence into one orchestration service consumed by the HTTP API
// and the CLI.
package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"goanova/domain/anova"
	"goanova/domain/core"
	"goanova/domain/run"
	"goanova/internal/analysis/oneway"
	"goanova/internal/analysis/posthoc"
	"goanova/internal/analysis/twoway"
	"goanova/ports"
)

// OneWayRequest describes a one-way analysis: grouped observations,
// optional custom names, and the post-hoc methods to run afterwards.
type OneWayRequest struct {
	Groups  [][]float64
	Names   []string
	PostHoc []anova.Method
	Alpha   float64
}

// OneWayAnalysis bundles the ANOVA result with its post-hoc follow-ups.
type OneWayAnalysis struct {
	RunID   core.RunID             `json:"run_id,omitempty"`
	Result  *anova.OneWayResult    `json:"result"`
	PostHoc []*anova.PostHocResult `json:"post_hoc,omitempty"`
}

// TwoWayRequest describes a two-way analysis over a balanced replicated
// design. Post-hoc methods run on the factor-collapsed groups of both
// factors.
type TwoWayRequest struct {
	Data    [][][]float64
	Config  twoway.Config
	PostHoc []anova.Method
	Alpha   float64
}

// TwoWayAnalysis bundles the two-way result with per-factor post-hoc
// follow-ups.
type TwoWayAnalysis struct {
	RunID      core.RunID             `json:"run_id,omitempty"`
	Result     *anova.TwoWayResult    `json:"result"`
	PostHocByA []*anova.PostHocResult `json:"post_hoc_by_a,omitempty"`
	PostHocByB []*anova.PostHocResult `json:"post_hoc_by_b,omitempty"`
}

// AnalysisService orchestrates analyses and persists completed runs.
type AnalysisService struct {
	runs ports.RunRepository // nil disables persistence
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(runs ports.RunRepository) *AnalysisService {
	return &AnalysisService{runs: runs}
}

// RunOneWay performs a one-way ANOVA plus any requested post-hoc tests.
// Either a complete, internally consistent bundle is returned, or an
// error; no partial results.
func (s *AnalysisService) RunOneWay(ctx context.Context, req OneWayRequest) (*OneWayAnalysis, error) {
	engine, err := oneway.New(req.Groups, req.Names)
	if err != nil {
		return nil, err
	}
	result, err := engine.Calculate()
	if err != nil {
		return nil, err
	}

	pooled := pooledFromTable(result.Table, anova.SourceWithin)
	followUps, err := s.runPostHoc(req.PostHoc, engine.Groups(), engine.GroupNames(), req.Alpha, pooled)
	if err != nil {
		return nil, err
	}

	analysis := &OneWayAnalysis{Result: result, PostHoc: followUps}
	if s.runs != nil {
		rec, err := run.NewRecord(anova.DesignOneWay, run.Payload{
			OneWay:  result,
			PostHoc: followUps,
		}, result.Summary)
		if err != nil {
			return nil, err
		}
		if err := s.runs.Save(ctx, rec); err != nil {
			return nil, err
		}
		analysis.RunID = rec.ID
	}
	return analysis, nil
}

// RunTwoWay performs a two-way ANOVA; requested post-hoc tests run on
// the observations collapsed per level of each factor.
func (s *AnalysisService) RunTwoWay(ctx context.Context, req TwoWayRequest) (*TwoWayAnalysis, error) {
	engine, err := twoway.New(req.Data, req.Config)
	if err != nil {
		return nil, err
	}
	result, err := engine.Calculate()
	if err != nil {
		return nil, err
	}

	pooled := pooledFromTable(result.Table, anova.SourceError)
	byA, err := s.runPostHoc(req.PostHoc, result.GroupsByA, result.ALevelNames, req.Alpha, pooled)
	if err != nil {
		return nil, err
	}
	byB, err := s.runPostHoc(req.PostHoc, result.GroupsByB, result.BLevelNames, req.Alpha, pooled)
	if err != nil {
		return nil, err
	}

	analysis := &TwoWayAnalysis{Result: result, PostHocByA: byA, PostHocByB: byB}
	if s.runs != nil {
		rec, err := run.NewRecord(anova.DesignTwoWay, run.Payload{
			TwoWay:     result,
			PostHocByA: byA,
			PostHocByB: byB,
		}, result.Summary)
		if err != nil {
			return nil, err
		}
		if err := s.runs.Save(ctx, rec); err != nil {
			return nil, err
		}
		analysis.RunID = rec.ID
	}
	return analysis, nil
}

// RunPostHoc runs a single post-hoc method over a name -> observations
// mapping, without an omnibus ANOVA.
func (s *AnalysisService) RunPostHoc(method anova.Method, data map[string][]float64, alpha float64) (*anova.PostHocResult, error) {
	groups, names := posthoc.GroupsFromMap(data)
	return dispatchPostHoc(method, groups, names, alpha, nil)
}

// runPostHoc runs the requested methods concurrently. Output order
// matches request order.
func (s *AnalysisService) runPostHoc(methods []anova.Method, groups [][]float64, names []string, alpha float64, pooled *posthoc.PooledError) ([]*anova.PostHocResult, error) {
	if len(methods) == 0 {
		return nil, nil
	}

	results := make([]*anova.PostHocResult, len(methods))
	var g errgroup.Group
	for idx, method := range methods {
		idx, method := idx, method
		g.Go(func() error {
			res, err := dispatchPostHoc(method, groups, names, alpha, pooled)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func dispatchPostHoc(method anova.Method, groups [][]float64, names []string, alpha float64, pooled *posthoc.PooledError) (*anova.PostHocResult, error) {
	switch method {
	case anova.MethodTukeyHSD:
		return posthoc.TukeyHSD(groups, names, alpha)
	case anova.MethodBonferroni:
		return posthoc.Bonferroni(groups, names, alpha)
	case anova.MethodScheffe:
		return posthoc.Scheffe(groups, names, alpha, pooled)
	}
	return nil, core.NewValidationError("method", "unknown post-hoc method "+string(method))
}

// pooledFromTable extracts the error mean square from a computed ANOVA
// table so Scheffé can reuse it instead of recomputing.
func pooledFromTable(t anova.Table, source string) *posthoc.PooledError {
	row, ok := t.Row(source)
	if !ok || !row.HasMS || row.MS == 0 {
		return nil
	}
	return &posthoc.PooledError{MSWithin: row.MS, DFWithin: row.DF}
}
