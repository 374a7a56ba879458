package counter

import "errors"

var (
	ErrIncrementFailed = errors.New("counter: increment failed")
	ErrReadFailed      = errors.New("counter: read failed")
)
