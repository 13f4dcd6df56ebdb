package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goanova/adapters/memory"
	"goanova/domain/anova"
	"goanova/domain/core"
	"goanova/internal/analysis/twoway"
)

func oneWayFixture() OneWayRequest {
	return OneWayRequest{
		Groups: [][]float64{
			{12.5, 13.1, 11.8, 12.9, 12.2},
			{15.2, 16.0, 14.8, 15.5, 16.2},
			{18.1, 17.9, 19.2, 18.5, 17.6},
		},
		Names: []string{"Low", "Medium", "High"},
	}
}

func TestRunOneWay_PersistsRecord(t *testing.T) {
	repo := memory.NewRunRepository()
	service := NewAnalysisService(repo)
	ctx := context.Background()

	req := oneWayFixture()
	req.PostHoc = []anova.Method{anova.MethodTukeyHSD, anova.MethodBonferroni, anova.MethodScheffe}

	analysis, err := service.RunOneWay(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, analysis.Result)
	assert.NotEmpty(t, analysis.RunID.String(), "persisted analysis should carry a run ID")
	require.Len(t, analysis.PostHoc, 3)

	// Concurrent execution must preserve request order
	assert.Equal(t, anova.MethodTukeyHSD, analysis.PostHoc[0].Method)
	assert.Equal(t, anova.MethodBonferroni, analysis.PostHoc[1].Method)
	assert.Equal(t, anova.MethodScheffe, analysis.PostHoc[2].Method)

	rec, err := repo.Get(ctx, analysis.RunID)
	require.NoError(t, err)
	assert.Equal(t, anova.DesignOneWay, rec.Design)
	assert.Equal(t, analysis.Result.Summary, rec.Summary)

	payload, err := rec.DecodePayload()
	require.NoError(t, err)
	require.NotNil(t, payload.OneWay)
	assert.Nil(t, payload.TwoWay)
	assert.Len(t, payload.PostHoc, 3)
	assert.InDelta(t, analysis.Result.GrandMean, payload.OneWay.GrandMean, 1e-9)
}

func TestRunOneWay_NoRepository(t *testing.T) {
	service := NewAnalysisService(nil)

	analysis, err := service.RunOneWay(context.Background(), oneWayFixture())
	require.NoError(t, err)
	assert.Empty(t, analysis.RunID.String(), "without a repository no run ID is assigned")
	assert.NotNil(t, analysis.Result)
}

func TestRunOneWay_DegenerateWithPostHocFails(t *testing.T) {
	service := NewAnalysisService(nil)

	_, err := service.RunOneWay(context.Background(), OneWayRequest{
		Groups:  [][]float64{{10, 10, 10}, {10, 10, 10}},
		PostHoc: []anova.Method{anova.MethodTukeyHSD},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrZeroVariance), "got %v", err)
}

func TestRunOneWay_DegenerateWithoutPostHocSucceeds(t *testing.T) {
	repo := memory.NewRunRepository()
	service := NewAnalysisService(repo)

	analysis, err := service.RunOneWay(context.Background(), OneWayRequest{
		Groups: [][]float64{{10, 10, 10}, {10, 10, 10}},
	})
	require.NoError(t, err)
	assert.True(t, analysis.Result.Table.Degenerate)
}

func TestRunOneWay_ValidationErrorPropagates(t *testing.T) {
	service := NewAnalysisService(nil)

	_, err := service.RunOneWay(context.Background(), OneWayRequest{
		Groups: [][]float64{{1, 2, 3}},
	})
	assert.True(t, core.IsValidationError(err), "got %v", err)
}

func TestRunTwoWay_PostHocPerFactor(t *testing.T) {
	repo := memory.NewRunRepository()
	service := NewAnalysisService(repo)
	ctx := context.Background()

	analysis, err := service.RunTwoWay(ctx, TwoWayRequest{
		Data: [][][]float64{
			{{12, 14, 13}, {15, 16, 14}},
			{{10, 11, 12}, {13, 14, 12}},
		},
		Config: twoway.Config{
			FactorAName: "Material",
			FactorBName: "Temperature",
			ALevelNames: []string{"Steel", "Alloy"},
			BLevelNames: []string{"Cold", "Hot"},
		},
		PostHoc: []anova.Method{anova.MethodBonferroni},
	})
	require.NoError(t, err)
	require.Len(t, analysis.PostHocByA, 1)
	require.Len(t, analysis.PostHocByB, 1)
	assert.Len(t, analysis.PostHocByA[0].Comparisons, 1)

	a := analysis.PostHocByA[0].Comparisons[0]
	assert.Equal(t, "Steel", a.GroupA)
	assert.Equal(t, "Alloy", a.GroupB)

	rec, err := repo.Get(ctx, analysis.RunID)
	require.NoError(t, err)
	assert.Equal(t, anova.DesignTwoWay, rec.Design)

	payload, err := rec.DecodePayload()
	require.NoError(t, err)
	require.NotNil(t, payload.TwoWay)
	assert.Len(t, payload.PostHocByA, 1)
	assert.Len(t, payload.PostHocByB, 1)
}

func TestRunPostHoc_Standalone(t *testing.T) {
	service := NewAnalysisService(nil)

	result, err := service.RunPostHoc(anova.MethodScheffe, map[string][]float64{
		"control":   {1.0, 2.0, 1.5, 2.5},
		"treatment": {6.0, 7.0, 6.5, 7.5},
	}, 0.05)
	require.NoError(t, err)
	require.Len(t, result.Comparisons, 1)
	assert.Equal(t, "control", result.Comparisons[0].GroupA)
	assert.True(t, result.Comparisons[0].Significant)
}

func TestRunPostHoc_UnknownMethod(t *testing.T) {
	service := NewAnalysisService(nil)

	_, err := service.RunPostHoc(anova.Method("dunnett"), map[string][]float64{
		"a": {1, 2}, "b": {3, 4},
	}, 0.05)
	assert.True(t, core.IsValidationError(err), "got %v", err)
}

func TestListRuns_NewestFirst(t *testing.T) {
	repo := memory.NewRunRepository()
	service := NewAnalysisService(repo)
	ctx := context.Background()

	first, err := service.RunOneWay(ctx, oneWayFixture())
	require.NoError(t, err)
	second, err := service.RunOneWay(ctx, oneWayFixture())
	require.NoError(t, err)

	records, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second.RunID, records[0].ID)
	assert.Equal(t, first.RunID, records[1].ID)
}
