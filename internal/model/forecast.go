package model

import "fmt"

// Order is the fitted ARIMA order, kept with the forecast for traceability.
type Order struct {
	P int
	D int
	Q int
}

func (o Order) String() string {
	return fmt.Sprintf("ARIMA(%d,%d,%d)", o.P, o.D, o.Q)
}

// ForecastStep is one predicted period. Step starts at 1.
type ForecastStep struct {
	Step  int
	Price float64
}

// Forecast is a fixed-length horizon of predicted prices for one key.
type Forecast struct {
	Order Order
	Steps []ForecastStep
}

// Final returns the last predicted price.
func (f *Forecast) Final() float64 {
	return f.Steps[len(f.Steps)-1].Price
}
