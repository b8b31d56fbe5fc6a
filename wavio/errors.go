package wavio

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is matched by errors.Is for every *FormatError.
var ErrUnsupportedFormat = errors.New("unsupported WAV format")

// FormatError reports a WAV file that violates the supported-format
// contract, naming the field that failed validation.
type FormatError struct {
	Field  string
	Detail string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported WAV format: %s: %s", e.Field, e.Detail)
}

func (e *FormatError) Is(target error) bool { return target == ErrUnsupportedFormat }
