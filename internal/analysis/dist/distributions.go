// Package dist centralizes the distribution functions the ANOVA engines
// and post-hoc tests rely on. F and Student's t come from gonum; the
// studentized range distribution is not available in gonum (or any other
// library we depend on) and is computed here by numerical integration.
package dist

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"goanova/domain/core"
)

// FSurvival returns the upper-tail probability of the F-distribution
// with (df1, df2) degrees of freedom evaluated at f.
func FSurvival(f float64, df1, df2 int) (float64, error) {
	if df1 <= 0 || df2 <= 0 {
		return 0, core.ErrInvalidDF
	}
	if f <= 0 {
		return 1.0, nil
	}
	fDist := distuv.F{D1: float64(df1), D2: float64(df2)}
	return 1 - fDist.CDF(f), nil
}

// FQuantile returns the value x such that P(F <= x) = p. The F
// distribution in gonum does not expose an inverse CDF, so we invert the
// CDF by bisection; the CDF is strictly increasing on (0, inf).
func FQuantile(p float64, df1, df2 int) (float64, error) {
	if df1 <= 0 || df2 <= 0 {
		return 0, core.ErrInvalidDF
	}
	if p <= 0 {
		return 0, nil
	}
	if p >= 1 {
		return 0, core.NewComputationError("f quantile", errInvalidProbability)
	}
	fDist := distuv.F{D1: float64(df1), D2: float64(df2)}

	lo, hi := 0.0, 1.0
	for fDist.CDF(hi) < p && hi < 1e9 {
		hi *= 2
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		if fDist.CDF(mid) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

// TTestPValue returns the two-tailed p-value for a t-statistic.
func TTestPValue(t float64, df int) (float64, error) {
	if df <= 0 {
		return 0, core.ErrInvalidDF
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	return 2 * (1 - tDist.CDF(math.Abs(t))), nil
}

// TQuantile returns the value x such that P(T <= x) = p.
func TQuantile(p float64, df int) (float64, error) {
	if df <= 0 {
		return 0, core.ErrInvalidDF
	}
	if p <= 0 || p >= 1 {
		return 0, core.NewComputationError("t quantile", errInvalidProbability)
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	return tDist.Quantile(p), nil
}

var errInvalidProbability = core.NewValidationError("p", "must be in (0, 1)")

// StudentizedRangeCDF returns P(Q <= q) for the studentized range of k
// groups with df error degrees of freedom.
//
// For finite df the CDF is
//
//	P(Q <= q) = integral over s of f(s) * R(q*s; k) ds
//
// where s is a chi/sqrt(df) scale variable and R(w; k) is the CDF of the
// range of k independent standard normals. Both integrals are smooth and
// are evaluated with composite Simpson rules.
func StudentizedRangeCDF(q float64, k, df int) (float64, error) {
	if k < 2 || df < 1 {
		return 0, core.ErrInvalidDF
	}
	if q <= 0 {
		return 0, nil
	}
	// The chi scale concentrates at 1 for large df; skip the outer
	// integral once its spread is negligible.
	if df > 10000 {
		return normalRangeCDF(q, k), nil
	}

	v := float64(df)
	// log normalizing constant of the density of s = chi_df / sqrt(df):
	// f(s) = 2^(1-v/2) v^(v/2) s^(v-1) exp(-v s^2 / 2) / Gamma(v/2)
	lg, _ := math.Lgamma(v / 2)
	logC := (1-v/2)*math.Ln2 + (v/2)*math.Log(v) - lg

	upper := 1.0 + 10.0/math.Sqrt(v)
	const n = 192 // Simpson intervals (even)
	h := upper / n

	integrand := func(s float64) float64 {
		if s <= 0 {
			return 0
		}
		logf := logC + (v-1)*math.Log(s) - v*s*s/2
		if logf < -700 {
			return 0
		}
		return math.Exp(logf) * normalRangeCDF(q*s, k)
	}

	sum := integrand(0) + integrand(upper)
	for i := 1; i < n; i++ {
		w := 4.0
		if i%2 == 0 {
			w = 2.0
		}
		sum += w * integrand(float64(i)*h)
	}
	p := sum * h / 3

	return clampProbability(p), nil
}

// StudentizedRangeSurvival returns P(Q > q).
func StudentizedRangeSurvival(q float64, k, df int) (float64, error) {
	cdf, err := StudentizedRangeCDF(q, k, df)
	if err != nil {
		return 0, err
	}
	return 1 - cdf, nil
}

// StudentizedRangeQuantile returns the value q such that P(Q <= q) = p,
// e.g. the Tukey HSD critical value at p = 1 - alpha. Inverted by
// bisection; the CDF is strictly increasing.
func StudentizedRangeQuantile(p float64, k, df int) (float64, error) {
	if k < 2 || df < 1 {
		return 0, core.ErrInvalidDF
	}
	if p <= 0 || p >= 1 {
		return 0, core.NewComputationError("studentized range quantile", errInvalidProbability)
	}

	lo, hi := 0.0, 1.0
	for {
		cdf, err := StudentizedRangeCDF(hi, k, df)
		if err != nil {
			return 0, err
		}
		if cdf >= p || hi > 1e4 {
			break
		}
		hi *= 2
	}
	for i := 0; i < 80; i++ {
		mid := (lo + hi) / 2
		cdf, err := StudentizedRangeCDF(mid, k, df)
		if err != nil {
			return 0, err
		}
		if cdf < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

// normalRangeCDF returns P(range of k iid standard normals <= w):
//
//	R(w; k) = k * integral phi(z) * (Phi(z) - Phi(z-w))^(k-1) dz
//
// with z taken as the maximum of the sample.
func normalRangeCDF(w float64, k int) float64 {
	if w <= 0 {
		return 0
	}
	const zLo, zHi = -8.0, 8.0
	const n = 256 // Simpson intervals (even)
	h := (zHi - zLo) / n

	f := func(z float64) float64 {
		inner := stdNormalCDF(z) - stdNormalCDF(z-w)
		if inner <= 0 {
			return 0
		}
		return stdNormalPDF(z) * math.Pow(inner, float64(k-1))
	}

	sum := f(zLo) + f(zHi)
	for i := 1; i < n; i++ {
		wt := 4.0
		if i%2 == 0 {
			wt = 2.0
		}
		sum += wt * f(zLo + float64(i)*h)
	}
	return clampProbability(float64(k) * sum * h / 3)
}

func stdNormalPDF(z float64) float64 {
	return math.Exp(-z*z/2) / math.Sqrt(2*math.Pi)
}

func stdNormalCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
