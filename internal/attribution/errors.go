package attribution

import (
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
)

// ValidationError marks a trigger that failed before any network call:
// missing order id, missing store, or an unrecognized store name.
// Handlers map it to a 400-class response.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a trigger validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ErrLedgerWrite marks a failed ledger append. The attribution itself
// succeeded; only the record could not be delivered. Not retried.
var ErrLedgerWrite = eris.New("ledger write failed")
