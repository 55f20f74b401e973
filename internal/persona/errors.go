package persona

import "errors"

var (
	// ErrConfiguration means the persona catalog itself is unusable, e.g. the default
	// grade has no personas. It is fatal at startup.
	ErrConfiguration = errors.New("persona configuration error")
	// ErrInvalidArgument is returned for caller mistakes such as a nil persona or a negative grade.
	ErrInvalidArgument = errors.New("invalid argument")
)
