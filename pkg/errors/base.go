package errors

import (
	"fmt"
	"strings"

	"github.com/cryol/pyapi-zabbix/pkg/redact"
)

/*
Error aggregates several failures into one value, for example the error
returned by a scoped session together with the error of its logout.
*/
type Error struct {
	Errs []error
	Msgs []any
}

/*
NewError collects errors and string messages. Nil errors are skipped and
nil is returned when nothing was collected.
*/
func NewError(errs ...any) error {
	err := &Error{}

	for _, msg := range errs {
		switch v := msg.(type) {
		case error:
			if v != nil {
				err.Errs = append(err.Errs, v)
			}
		case string:
			err.Msgs = append(err.Msgs, v)
		}
	}

	if len(err.Errs) == 0 && len(err.Msgs) == 0 {
		return nil
	}

	if len(err.Errs) == 1 && len(err.Msgs) == 0 {
		return err.Errs[0]
	}

	return err
}

func (err *Error) Error() string {
	parts := make([]string, 0, len(err.Errs)+len(err.Msgs))

	for _, e := range err.Errs {
		parts = append(parts, e.Error())
	}

	for _, msg := range err.Msgs {
		parts = append(parts, fmt.Sprintf("%v", msg))
	}

	return redact.Redact(strings.Join(parts, "\n"))
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (err *Error) Unwrap() []error {
	return err.Errs
}
