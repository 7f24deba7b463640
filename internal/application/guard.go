package application

import (
	"fmt"
	"runtime/debug"
)

// guard runs fn and converts a panic into an error so a misbehaving stage
// cannot take down the transport serving the request.
func guard[T any](fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return fn()
}
