package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/uzairmukadam/Trend-Sage/internal/model"
)

// arimaFit is one fitted ARIMA candidate on a price series.
type arimaFit struct {
	order model.Order
	ar    []float64 // φ, length p
	ma    []float64 // θ, length q
	mean  float64   // mean of the differenced series
	x     []float64 // demeaned differenced series
	resid []float64 // stage-2 residuals aligned with x (0 before warm-up)
	aic   float64
}

// fitARIMA estimates an ARIMA(p,d,q) by conditional least squares using the
// Hannan-Rissanen two-stage procedure: a long autoregression supplies
// residual estimates, then the ARMA coefficients come from a single linear
// regression. Fully deterministic for a given input.
func fitARIMA(prices []float64, order model.Order) (*arimaFit, error) {
	w := difference(prices, order.D)
	if len(w) < order.P+order.Q+5 {
		return nil, fmt.Errorf("series too short after differencing")
	}

	mean := meanOf(w)
	x := make([]float64, len(w))
	for i, v := range w {
		x[i] = v - mean
	}
	if isConstant(x) {
		return nil, &model.ModelFitError{Reason: "constant series after differencing"}
	}

	n := len(x)
	fit := &arimaFit{order: order, mean: mean, x: x}

	// ARIMA(0,d,0) degenerates to the mean model.
	if order.P == 0 && order.Q == 0 {
		fit.resid = append([]float64{}, x...)
		rss := 0.0
		for _, v := range x {
			rss += v * v
		}
		fit.aic = aic(rss, n, 1)
		return fit, nil
	}

	// Stage 1: long AR to estimate the innovation sequence.
	m := 10
	if limit := (n - 1) / 3; m > limit {
		m = limit
	}
	if m < order.P {
		m = order.P
	}
	resid := make([]float64, n)
	if order.Q > 0 {
		arCoef, err := olsAR(x, m)
		if err != nil {
			return nil, err
		}
		for t := m; t < n; t++ {
			pred := 0.0
			for i, c := range arCoef {
				pred += c * x[t-1-i]
			}
			resid[t] = x[t] - pred
		}
	}

	// Stage 2: regress x_t on its own lags and the lagged residuals.
	t0 := order.P
	if order.Q > 0 && m+order.Q > t0 {
		t0 = m + order.Q
	}
	rows := n - t0
	cols := order.P + order.Q
	if rows <= cols {
		return nil, fmt.Errorf("not enough rows for ARMA(%d,%d) regression", order.P, order.Q)
	}

	a := mat.NewDense(rows, cols, nil)
	b := mat.NewVecDense(rows, nil)
	for t := t0; t < n; t++ {
		r := t - t0
		for i := 0; i < order.P; i++ {
			a.Set(r, i, x[t-1-i])
		}
		for j := 0; j < order.Q; j++ {
			a.Set(r, order.P+j, resid[t-1-j])
		}
		b.SetVec(r, x[t])
	}

	coef, err := solveLeastSquares(a, b)
	if err != nil {
		return nil, err
	}
	fit.ar = coef[:order.P]
	fit.ma = coef[order.P:]
	for _, c := range coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, &model.ModelFitError{Reason: "non-finite coefficients"}
		}
	}

	// Final residuals from the fitted ARMA, reused by the forecast
	// recurrence and the information criterion.
	fit.resid = make([]float64, n)
	rss := 0.0
	for t := t0; t < n; t++ {
		pred := 0.0
		for i, c := range fit.ar {
			pred += c * x[t-1-i]
		}
		for j, c := range fit.ma {
			pred += c * resid[t-1-j]
		}
		fit.resid[t] = x[t] - pred
		rss += fit.resid[t] * fit.resid[t]
	}
	if rss == 0 {
		return nil, &model.ModelFitError{Reason: "degenerate fit with zero residual variance"}
	}
	fit.aic = aic(rss, rows, order.P+order.Q+1)
	return fit, nil
}

// predict iterates the ARMA recurrence with future shocks at zero, restores
// the mean, and integrates the differencing away.
func (f *arimaFit) predict(prices []float64, steps int) ([]float64, error) {
	histX := append([]float64{}, f.x...)
	histE := append([]float64{}, f.resid...)

	diffs := make([]float64, 0, steps)
	for h := 0; h < steps; h++ {
		t := len(histX)
		pred := 0.0
		for i, c := range f.ar {
			if idx := t - 1 - i; idx >= 0 {
				pred += c * histX[idx]
			}
		}
		for j, c := range f.ma {
			if idx := t - 1 - j; idx >= 0 && idx < len(histE) {
				pred += c * histE[idx]
			}
		}
		histX = append(histX, pred)
		histE = append(histE, 0)
		diffs = append(diffs, pred+f.mean)
	}

	out, err := integrate(prices, diffs, f.order.D)
	if err != nil {
		return nil, err
	}
	for _, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &model.ModelFitError{Reason: "forecast diverged"}
		}
	}
	return out, nil
}

// olsAR fits an AR(m) by ordinary least squares and returns its
// coefficients.
func olsAR(x []float64, m int) ([]float64, error) {
	n := len(x)
	rows := n - m
	if rows <= m {
		return nil, fmt.Errorf("not enough rows for AR(%d)", m)
	}
	a := mat.NewDense(rows, m, nil)
	b := mat.NewVecDense(rows, nil)
	for t := m; t < n; t++ {
		for i := 0; i < m; i++ {
			a.Set(t-m, i, x[t-1-i])
		}
		b.SetVec(t-m, x[t])
	}
	return solveLeastSquares(a, b)
}

func solveLeastSquares(a *mat.Dense, b *mat.VecDense) ([]float64, error) {
	_, cols := a.Dims()
	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return nil, &model.ModelFitError{Reason: fmt.Sprintf("least squares: %v", err)}
	}
	coef := make([]float64, cols)
	for i := range coef {
		coef[i] = sol.AtVec(i)
	}
	return coef, nil
}

// difference applies d-th order differencing.
func difference(y []float64, d int) []float64 {
	w := append([]float64{}, y...)
	for k := 0; k < d; k++ {
		next := make([]float64, len(w)-1)
		for i := 1; i < len(w); i++ {
			next[i-1] = w[i] - w[i-1]
		}
		w = next
	}
	return w
}

// integrate inverts d-th order differencing of forecasted deltas, anchored
// on the tail of the observed series.
func integrate(prices, diffs []float64, d int) ([]float64, error) {
	switch d {
	case 0:
		return append([]float64{}, diffs...), nil
	case 1:
		out := make([]float64, len(diffs))
		level := prices[len(prices)-1]
		for i, dv := range diffs {
			level += dv
			out[i] = level
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported differencing order %d", d)
	}
}

func aic(rss float64, n, params int) float64 {
	return float64(n)*math.Log(rss/float64(n)) + 2*float64(params)
}

func meanOf(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

func isConstant(v []float64) bool {
	for _, x := range v {
		if x != v[0] {
			return false
		}
	}
	return true
}
