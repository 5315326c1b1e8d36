package forecast

import (
	"math"
	"testing"

	"github.com/sartorproj/goarima/sarima"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_String(t *testing.T) {
	o := Order{P: 1, D: 1, Q: 2, SD: 1, SQ: 3, M: 4}
	assert.Equal(t, "(1,1,2)x(0,1,3,4)", o.String())
}

func TestFitSARIMA(t *testing.T) {
	model, err := fitSARIMA(Order{P: 1, D: 1, SD: 1, SQ: 1, M: 4}, syntheticSeries(36, 7, month(2021, 1)))

	require.NoError(t, err)
	assert.False(t, math.IsNaN(model.AIC))
	assert.False(t, math.IsInf(model.AIC, 0))
	assert.Len(t, model.ARCoeffs, 1)
	assert.Len(t, model.SMACoeffs, 1)
}

func TestFitSARIMA_TooShort(t *testing.T) {
	_, err := fitSARIMA(Order{D: 1, SD: 1, M: 4}, syntheticSeries(8, 7, month(2021, 1)))
	assert.Error(t, err)
}

func TestPredictRange(t *testing.T) {
	model, err := fitSARIMA(Order{D: 1, SD: 1, SQ: 1, M: 4}, syntheticSeries(36, 7, month(2021, 1)))
	require.NoError(t, err)

	all, err := model.Predict(6)
	require.NoError(t, err)

	tail, err := predictRange(model, 3, 6)
	require.NoError(t, err)
	assert.Equal(t, all[2:], tail)

	single, err := predictRange(model, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{all[3]}, single)

	_, err = predictRange(model, 0, 2)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = predictRange(model, 5, 4)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestPredictRange_NotFitted(t *testing.T) {
	_, err := predictRange(sarima.New(0, 1, 0, 0, 1, 0, 4), 1, 1)
	assert.Error(t, err)
}
