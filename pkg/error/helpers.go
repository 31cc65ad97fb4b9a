package error

import "errors"

// IsNotFound reports whether err (or anything it wraps) is a NotFoundError.
func IsNotFound(err error) bool {
	var notFound NotFoundError
	return errors.As(err, &notFound)
}
