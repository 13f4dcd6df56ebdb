package anova

// Design identifies which decomposition produced a result
type Design string

const (
	DesignOneWay Design = "one_way"
	DesignTwoWay Design = "two_way"
)

// Canonical source labels shared by both designs
const (
	SourceBetween     = "Between Groups"
	SourceWithin      = "Within Groups"
	SourceInteraction = "Interaction"
	SourceError       = "Error"
	SourceTotal       = "Total"
)

// Row is a single line of an ANOVA decomposition table.
// MS, F and p are not defined for every source (the Total row carries only
// SS and df; F is undefined when the error variance is zero), so each
// optional column has an explicit presence flag instead of a NaN sentinel.
type Row struct {
	Source string  `json:"source"`
	SS     float64 `json:"ss"`
	DF     int     `json:"df"`
	MS     float64 `json:"ms"`
	HasMS  bool    `json:"has_ms"`
	F      float64 `json:"f"`
	P      float64 `json:"p_value"`
	HasF   bool    `json:"has_f"` // covers both F and p
	// FUndefined marks a row whose F-ratio exists in the design but could
	// not be computed because the error variance is zero.
	FUndefined bool `json:"f_undefined,omitempty"`
}

// Table is the ANOVA decomposition shared by one-way and two-way results.
// INVARIANTS:
// - component SS values sum to the Total row SS (floating-point tolerance)
// - component df values sum to N-1
// - Degenerate is set when the error variance is zero; affected rows then
//   report HasF=false rather than an infinite F
type Table struct {
	Rows       []Row `json:"rows"`
	Degenerate bool  `json:"degenerate"`
}

// Row returns the row with the given source label.
func (t Table) Row(source string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Source == source {
			return r, true
		}
	}
	return Row{}, false
}

// OneWayResult holds a complete one-way ANOVA decomposition.
// Immutable once returned by the engine; downstream consumers read only.
type OneWayResult struct {
	Table      Table     `json:"table"`
	GrandMean  float64   `json:"grand_mean"`
	GroupNames []string  `json:"group_names"`
	GroupMeans []float64 `json:"group_means"`
	GroupSE    []float64 `json:"group_se"`
	Residuals  []float64 `json:"residuals"`
	Summary    string    `json:"summary"`
}

// TwoWayResult holds a complete two-way ANOVA decomposition plus the
// derived quantities the interaction plot and post-hoc follow-ups consume.
type TwoWayResult struct {
	Table       Table       `json:"table"`
	GrandMean   float64     `json:"grand_mean"`
	FactorAName string      `json:"factor_a_name"`
	FactorBName string      `json:"factor_b_name"`
	ALevelNames []string    `json:"a_level_names"`
	BLevelNames []string    `json:"b_level_names"`
	RowMeans    []float64   `json:"row_means"`  // marginal means per Factor A level
	ColMeans    []float64   `json:"col_means"`  // marginal means per Factor B level
	CellMeans   [][]float64 `json:"cell_means"` // [a][b]
	Residuals   []float64   `json:"residuals"`
	GroupsByA   [][]float64 `json:"groups_by_a"` // observations collapsed per A level
	GroupsByB   [][]float64 `json:"groups_by_b"` // observations collapsed per B level
	SEByA       []float64   `json:"se_by_a"`
	SEByB       []float64   `json:"se_by_b"`
	Summary     string      `json:"summary"`
}

// Method identifies a multiple-comparison correction scheme
type Method string

const (
	MethodTukeyHSD   Method = "tukey_hsd"
	MethodBonferroni Method = "bonferroni"
	MethodScheffe    Method = "scheffe"
)

// ParseMethod validates a post-hoc method name.
func ParseMethod(s string) (Method, bool) {
	switch Method(s) {
	case MethodTukeyHSD, MethodBonferroni, MethodScheffe:
		return Method(s), true
	}
	return "", false
}

// Comparison is one pairwise group comparison. All three correction
// schemes fill the same shape so callers can render them uniformly.
type Comparison struct {
	GroupA        string  `json:"group_a"`
	GroupB        string  `json:"group_b"`
	MeanDiff      float64 `json:"mean_diff"`
	SE            float64 `json:"se"`
	Statistic     float64 `json:"statistic"` // q (Tukey), t (Bonferroni), F (Scheffé)
	PValue        float64 `json:"p_value"`
	PAdjusted     float64 `json:"p_adjusted"` // Bonferroni only; equals PValue otherwise
	CriticalValue float64 `json:"critical_value"`
	CILow         float64 `json:"ci_low"`
	CIHigh        float64 `json:"ci_high"`
	HasCI         bool    `json:"has_ci"` // Tukey only
	Significant   bool    `json:"significant"`
}

// PostHocResult holds all k*(k-1)/2 pairwise comparisons for one method.
type PostHocResult struct {
	Method      Method       `json:"method"`
	Alpha       float64      `json:"alpha"`
	MSWithin    float64      `json:"ms_within"`
	DFWithin    int          `json:"df_within"`
	Comparisons []Comparison `json:"comparisons"`
	Summary     string       `json:"summary"`
}
