package dist

import (
	"math"
	"testing"
)

func TestFSurvival_Bounds(t *testing.T) {
	p, err := FSurvival(0, 2, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != 1.0 {
		t.Errorf("FSurvival(0) should be 1.0, got %f", p)
	}

	// Survival must decrease as the statistic grows
	prev := 1.0
	for _, f := range []float64{0.5, 1, 2, 5, 10, 50} {
		p, err := FSurvival(f, 3, 20)
		if err != nil {
			t.Fatalf("unexpected error at f=%f: %v", f, err)
		}
		if p < 0 || p > 1 {
			t.Errorf("FSurvival(%f) out of [0,1]: %f", f, p)
		}
		if p > prev {
			t.Errorf("FSurvival not monotone at f=%f: %f > %f", f, p, prev)
		}
		prev = p
	}
}

func TestFSurvival_InvalidDF(t *testing.T) {
	if _, err := FSurvival(1.0, 0, 12); err == nil {
		t.Error("expected error for df1=0")
	}
	if _, err := FSurvival(1.0, 2, -1); err == nil {
		t.Error("expected error for negative df2")
	}
}

func TestFQuantile_RoundTrip(t *testing.T) {
	for _, p := range []float64{0.5, 0.9, 0.95, 0.99} {
		q, err := FQuantile(p, 2, 12)
		if err != nil {
			t.Fatalf("unexpected error at p=%f: %v", p, err)
		}
		back, err := FSurvival(q, 2, 12)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs((1-back)-p) > 1e-6 {
			t.Errorf("round trip failed at p=%f: CDF(Q(p))=%f", p, 1-back)
		}
	}
}

func TestTTestPValue_Symmetric(t *testing.T) {
	pPos, err := TTestPValue(2.5, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pNeg, err := TTestPValue(-2.5, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(pPos-pNeg) > 1e-12 {
		t.Errorf("two-tailed p should be symmetric: %f vs %f", pPos, pNeg)
	}
	if pPos < 0 || pPos > 1 {
		t.Errorf("p out of [0,1]: %f", pPos)
	}
}

// The studentized range of k=2 groups is sqrt(2) * |t|, so its quantile
// must match the scaled Student's t quantile.
func TestStudentizedRange_TwoGroupIdentity(t *testing.T) {
	for _, df := range []int{5, 10, 30} {
		q, err := StudentizedRangeQuantile(0.95, 2, df)
		if err != nil {
			t.Fatalf("unexpected error at df=%d: %v", df, err)
		}
		tQuant, err := TQuantile(0.975, df)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := math.Sqrt2 * tQuant
		if math.Abs(q-want) > 0.01 {
			t.Errorf("df=%d: q(0.95,2)=%f, want sqrt(2)*t(0.975)=%f", df, q, want)
		}
	}
}

// Reference value from standard studentized range tables.
func TestStudentizedRangeQuantile_TableValue(t *testing.T) {
	q, err := StudentizedRangeQuantile(0.95, 3, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(q-3.77) > 0.03 {
		t.Errorf("q(0.95, k=3, df=12) = %f, want about 3.77", q)
	}
}

func TestStudentizedRangeCDF_Monotone(t *testing.T) {
	prev := -1.0
	for _, q := range []float64{0.5, 1, 2, 3, 4, 6, 10} {
		p, err := StudentizedRangeCDF(q, 4, 16)
		if err != nil {
			t.Fatalf("unexpected error at q=%f: %v", q, err)
		}
		if p < 0 || p > 1 {
			t.Errorf("CDF(%f) out of [0,1]: %f", q, p)
		}
		if p < prev {
			t.Errorf("CDF not monotone at q=%f: %f < %f", q, p, prev)
		}
		prev = p
	}

	p, err := StudentizedRangeCDF(0, 4, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != 0 {
		t.Errorf("CDF(0) should be 0, got %f", p)
	}
}

func TestStudentizedRange_InvalidParams(t *testing.T) {
	if _, err := StudentizedRangeCDF(1.0, 1, 10); err == nil {
		t.Error("expected error for k=1")
	}
	if _, err := StudentizedRangeQuantile(0.95, 3, 0); err == nil {
		t.Error("expected error for df=0")
	}
	if _, err := StudentizedRangeQuantile(1.5, 3, 10); err == nil {
		t.Error("expected error for p outside (0,1)")
	}
}
