package export

import "errors"

var (
	ErrValidation         = errors.New("invalid export request")
	ErrUnknownDestination = errors.New("unknown export destination")
	ErrJobNotFound        = errors.New("job not found")
	ErrJobNotCompleted    = errors.New("job is not completed")
)
