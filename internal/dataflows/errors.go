package dataflows

import "errors"

// ErrDataUnavailable means every source in a signal's fallback chain
// failed or returned an unusable payload. Fatal in strict mode, absorbed
// into a conservative substitute in lenient mode.
var ErrDataUnavailable = errors.New("market data unavailable")

// ErrInvalidResponse means a source answered but its payload could not be
// parsed into the expected numeric fields. Treated exactly like a source
// failure: the chain falls through to the next source.
var ErrInvalidResponse = errors.New("invalid response shape")
