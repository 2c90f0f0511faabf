package scheduler

import "errors"

// ErrInvalidConfig is returned when scheduler configuration is invalid
var ErrInvalidConfig = errors.New("invalid scheduler configuration")
