package feature

import "math"

// smaColumn is the simple moving average over a trailing window. Cells
// before the window fills are NaN, never zero.
func smaColumn(prices []float64, window int) []float64 {
	values := nanColumn(len(prices))
	if window <= 0 || len(prices) < window {
		return values
	}
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= window {
			sum -= prices[i-window]
		}
		if i >= window-1 {
			values[i] = sum / float64(window)
		}
	}
	return values
}

// emaColumn is the exponential moving average with smoothing 2/(span+1),
// seeded with the simple mean of the first span prices.
func emaColumn(prices []float64, span int) []float64 {
	values := nanColumn(len(prices))
	if span <= 0 || len(prices) < span {
		return values
	}
	seed := 0.0
	for _, p := range prices[:span] {
		seed += p
	}
	seed /= float64(span)
	values[span-1] = seed

	alpha := 2.0 / (float64(span) + 1.0)
	ema := seed
	for i := span; i < len(prices); i++ {
		ema = alpha*prices[i] + (1-alpha)*ema
		values[i] = ema
	}
	return values
}

// rsiColumn is the relative-strength index with average gain and loss taken
// as the simple rolling mean of the last period deltas (not Wilder
// smoothing). When the window holds no losses the RSI is 100.
func rsiColumn(prices []float64, period int) []float64 {
	values := nanColumn(len(prices))
	if period <= 0 || len(prices) < period+1 {
		return values
	}
	gains := make([]float64, len(prices))
	losses := make([]float64, len(prices))
	for i := 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < len(prices); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i < period {
			continue
		}
		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)
		if avgLoss == 0 {
			values[i] = 100.0
			continue
		}
		rs := avgGain / avgLoss
		values[i] = 100.0 - 100.0/(1.0+rs)
	}
	return values
}

func nanColumn(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = math.NaN()
	}
	return values
}
