package model

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-candidform/pkg/idl"
)

var (
	errNilType      = errors.New("model extractor: type is required")
	errNilFunc      = errors.New("model extractor: function type is required")
	errNotRecursive = errors.New("model extractor: field is not recursive")
)

const fallbackMessage = "An error occurred"

// validatorFor wraps the covariance predicate of t. Panics raised by the
// predicate are reported as rejections.
func validatorFor(t idl.Type) Validator {
	return func(value any) (ok bool, message string) {
		defer func() {
			if r := recover(); r != nil {
				ok, message = false, messageOf(fmt.Sprint(r))
			}
		}()
		if err := t.Covariant(value); err != nil {
			return false, messageOf(err.Error())
		}
		return true, ""
	}
}

func messageOf(msg string) string {
	if msg == "" {
		return fallbackMessage
	}
	return msg
}
