package forecast

import "errors"

var (
	// ErrNoViableModel means every candidate order failed to fit.
	ErrNoViableModel = errors.New("no viable model: every candidate order failed to fit")

	ErrRefitFailed       = errors.New("refit at the selected order failed")
	ErrNonFinite         = errors.New("model fit did not reach a finite criterion")
	ErrEmptySeries       = errors.New("station series is empty")
	ErrTargetNotInFuture = errors.New("target month must be after the last observed month")
	ErrInvalidRange      = errors.New("range end must not be before range start")
	ErrHorizonTooFar     = errors.New("target month is beyond the maximum forecast horizon")
)

// IsValidation reports whether err was caused by a bad request rather than
// by the model.
func IsValidation(err error) bool {
	return errors.Is(err, ErrTargetNotInFuture) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrHorizonTooFar)
}
