package oneway

import (
	"errors"
	"math"
	"strings"
	"testing"

	"goanova/domain/anova"
	"goanova/domain/core"
)

func sampleGroups() [][]float64 {
	return [][]float64{
		{12.5, 13.1, 11.8, 12.9, 12.2},
		{15.2, 16.0, 14.8, 15.5, 16.2},
		{18.1, 17.9, 19.2, 18.5, 17.6},
	}
}

func TestCalculate_ThreeGroups(t *testing.T) {
	engine, err := New(sampleGroups(), []string{"Low", "Medium", "High"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	result, err := engine.Calculate()
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	if result.Table.Degenerate {
		t.Fatal("well-separated groups should not be degenerate")
	}

	between, ok := result.Table.Row(anova.SourceBetween)
	if !ok {
		t.Fatal("missing between-groups row")
	}
	if !between.HasF {
		t.Fatal("between row should carry an F statistic")
	}
	if between.F < 120 || between.F > 130 {
		t.Errorf("F = %f, expected around 126", between.F)
	}
	if between.P >= 0.001 {
		t.Errorf("p = %g, expected p < 0.001", between.P)
	}
	if between.DF != 2 {
		t.Errorf("between df = %d, want 2", between.DF)
	}

	within, _ := result.Table.Row(anova.SourceWithin)
	if within.DF != 12 {
		t.Errorf("within df = %d, want 12", within.DF)
	}
	if math.Abs(within.SS-3.944) > 1e-9 {
		t.Errorf("within SS = %f, want 3.944", within.SS)
	}

	if math.Abs(result.GrandMean-15.4333333333) > 1e-9 {
		t.Errorf("grand mean = %f", result.GrandMean)
	}
	if math.Abs(result.GroupMeans[0]-12.5) > 1e-12 {
		t.Errorf("mean(Low) = %f, want 12.5", result.GroupMeans[0])
	}
	if len(result.Residuals) != 15 {
		t.Errorf("residuals length = %d, want 15", len(result.Residuals))
	}
}

func TestCalculate_Additivity(t *testing.T) {
	engine, err := New(sampleGroups(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	result, err := engine.Calculate()
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	between, _ := result.Table.Row(anova.SourceBetween)
	within, _ := result.Table.Row(anova.SourceWithin)
	total, _ := result.Table.Row(anova.SourceTotal)

	if math.Abs(between.SS+within.SS-total.SS) > 1e-9 {
		t.Errorf("SS not additive: %f + %f != %f", between.SS, within.SS, total.SS)
	}
	if between.DF+within.DF != total.DF {
		t.Errorf("df not additive: %d + %d != %d", between.DF, within.DF, total.DF)
	}
	if total.DF != 14 {
		t.Errorf("total df = %d, want N-1 = 14", total.DF)
	}
}

func TestCalculate_UnbalancedGroups(t *testing.T) {
	groups := [][]float64{
		{1.0, 2.0, 3.0},
		{2.0, 3.0, 4.0, 5.0, 6.0},
		{7.0, 8.0},
	}
	engine, err := New(groups, nil)
	if err != nil {
		t.Fatalf("unbalanced groups should be accepted: %v", err)
	}
	result, err := engine.Calculate()
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	between, _ := result.Table.Row(anova.SourceBetween)
	if !between.HasF {
		t.Fatal("expected F statistic")
	}
	if between.P < 0 || between.P > 1 {
		t.Errorf("p out of range: %f", between.P)
	}
	total, _ := result.Table.Row(anova.SourceTotal)
	if total.DF != 9 {
		t.Errorf("total df = %d, want 9", total.DF)
	}
}

func TestCalculate_ZeroWithinVariance(t *testing.T) {
	engine, err := New([][]float64{{10, 10, 10}, {10, 10, 10}}, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	result, err := engine.Calculate()
	if err != nil {
		t.Fatalf("degenerate input should still produce a table: %v", err)
	}

	if !result.Table.Degenerate {
		t.Fatal("zero within-group variance should mark the table degenerate")
	}
	between, _ := result.Table.Row(anova.SourceBetween)
	if between.HasF {
		t.Error("degenerate table should not carry an F value")
	}
	if !between.FUndefined {
		t.Error("between row should flag F as undefined")
	}
	if strings.Contains(result.Summary, "Inf") || strings.Contains(result.Summary, "NaN") {
		t.Errorf("summary must not print Inf/NaN:\n%s", result.Summary)
	}
	if !strings.Contains(result.Summary, "undef") {
		t.Errorf("summary should mark undefined statistics:\n%s", result.Summary)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New([][]float64{{1, 2, 3}}, nil); !errors.Is(err, core.ErrTooFewGroups) {
		t.Errorf("single group: want ErrTooFewGroups, got %v", err)
	}
	if _, err := New([][]float64{{1, 2}, {}}, nil); !core.IsValidationError(err) {
		t.Errorf("empty group: want validation error, got %v", err)
	}
	if _, err := New([][]float64{{1, 2}, {3, 4}}, []string{"only one"}); !errors.Is(err, core.ErrNameCountMismatch) {
		t.Errorf("name mismatch: want ErrNameCountMismatch, got %v", err)
	}
	if _, err := New(nil, nil); !core.IsValidationError(err) {
		t.Errorf("nil groups: want validation error, got %v", err)
	}
}

func TestNewFromMap_SortsNames(t *testing.T) {
	engine, err := NewFromMap(map[string][]float64{
		"zeta":  {5, 6, 7},
		"alpha": {1, 2, 3},
		"mid":   {3, 4, 5},
	})
	if err != nil {
		t.Fatalf("NewFromMap failed: %v", err)
	}
	names := engine.GroupNames()
	want := []string{"alpha", "mid", "zeta"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestCalculate_InputNotMutated(t *testing.T) {
	groups := sampleGroups()
	engine, err := New(groups, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	groups[0][0] = 999

	result, err := engine.Calculate()
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if math.Abs(result.GrandMean-15.4333333333) > 1e-9 {
		t.Errorf("engine should copy input data, grand mean = %f", result.GrandMean)
	}
}

func TestCalculate_ResidualsSumToZero(t *testing.T) {
	engine, err := New(sampleGroups(), []string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	result, err := engine.Calculate()
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	sum := 0.0
	for _, r := range result.Residuals {
		sum += r
	}
	if math.Abs(sum) > 1e-9 {
		t.Errorf("residuals sum to %g, want 0", sum)
	}
}
