package forecast

import (
	"fmt"
	"math"

	"github.com/sartorproj/goarima/sarima"

	"tube-twin/timeseries"
)

// Order is a full seasonal order (p,d,q)x(P,D,Q,s).
type Order sarima.Order

func (o Order) String() string {
	return fmt.Sprintf("(%d,%d,%d)x(%d,%d,%d,%d)", o.P, o.D, o.Q, o.SP, o.SD, o.SQ, o.M)
}

// fitFunc fits series at order and returns the fitted model.
type fitFunc func(order Order, series *timeseries.Series) (*sarima.Model, error)

// fitSARIMA is the default fitFunc. A fit whose AIC is not finite counts as
// a failure.
func fitSARIMA(order Order, series *timeseries.Series) (*sarima.Model, error) {
	model := sarima.New(order.P, order.D, order.Q, order.SP, order.SD, order.SQ, order.M)
	if err := model.Fit(series); err != nil {
		return nil, err
	}
	if math.IsNaN(model.AIC) || math.IsInf(model.AIC, 0) {
		return nil, ErrNonFinite
	}
	return model, nil
}

// predictRange returns the forecasts for horizons start..end inclusive.
func predictRange(model *sarima.Model, start, end int) ([]float64, error) {
	if start < 1 || end < start {
		return nil, fmt.Errorf("%w: horizons [%d, %d]", ErrInvalidRange, start, end)
	}
	values, err := model.Predict(end)
	if err != nil {
		return nil, err
	}
	for _, v := range values[start-1:] {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrNonFinite
		}
	}
	return values[start-1:], nil
}
