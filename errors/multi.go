package errors

import (
	"fmt"
	"strings"
)

// Append combines any number of errors into one. Nil values are ignored. If
// only one non nil error is given, it is returned as it is. Use it to collect
// all validation problems of a model instead of failing on the first one.
//
// The ABCI code of a combined error is the code of the first error.
func Append(errs ...error) error {
	var collected []error
	for _, e := range errs {
		if errIsNil(e) {
			continue
		}
		if m, ok := e.(*multiErr); ok {
			collected = append(collected, m.errs...)
			continue
		}
		collected = append(collected, e)
	}
	switch len(collected) {
	case 0:
		return nil
	case 1:
		return collected[0]
	default:
		return &multiErr{errs: collected}
	}
}

type multiErr struct {
	errs []error
}

var (
	_ coder = (*multiErr)(nil)
	_ error = (*multiErr)(nil)
)

func (m *multiErr) Error() string {
	points := make([]string, len(m.errs))
	for i, err := range m.errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(m.errs), strings.Join(points, "\n\t"))
}

// ABCICode returns the code of the first error, consistent with a fail-fast
// approach.
func (m *multiErr) ABCICode() uint32 {
	return abciCode(m.errs[0])
}
