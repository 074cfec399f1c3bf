package export

import "fmt"

// SerializationError reports a failure writing an output destination.
type SerializationError struct {
	Path string
	Op   string
	Err  error
}

func (e *SerializationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s output: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
