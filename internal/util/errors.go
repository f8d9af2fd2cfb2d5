package util

import (
	"strings"
)

// ConcatErrors merges the non-nil errors of errs into one, nil if there are
// none. The result still matches every merged error with errors.Is/As.
func ConcatErrors(errs ...error) error {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}

	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	default:
		return multiError(filtered)
	}
}

type multiError []error

func (e multiError) Error() string {
	msgs := make([]string, len(e))
	for k, v := range e {
		msgs[k] = v.Error()
	}

	return strings.Join(msgs, "; ")
}

func (e multiError) Unwrap() []error {
	return e
}
