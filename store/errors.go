package store

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	ErrNoProvider  = errors.New("store: provider is required")
	ErrNoNamespace = errors.New("store: namespace is required")
	ErrNoType      = errors.New("store: value type is required")
)

// InvalidateError reports a failed Invalidate. Either step may fail on its
// own; when the bump succeeded readers already treat the old entry as stale.
type InvalidateError struct {
	Key     string
	BumpErr error
	DelErr  error
}

func (e *InvalidateError) Error() string {
	switch {
	case e.BumpErr != nil && e.DelErr != nil:
		return fmt.Sprintf("invalidate %q: gen bump and delete failed: bump=%v; delete=%v",
			e.Key, e.BumpErr, e.DelErr)
	case e.BumpErr != nil:
		return fmt.Sprintf("invalidate %q: gen bump failed: %v", e.Key, e.BumpErr)
	case e.DelErr != nil:
		return fmt.Sprintf("invalidate %q: delete failed: %v", e.Key, e.DelErr)
	}
	return fmt.Sprintf("invalidate %q: unknown error", e.Key)
}

func (e *InvalidateError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.BumpErr != nil {
		errs = append(errs, e.BumpErr)
	}
	if e.DelErr != nil {
		errs = append(errs, e.DelErr)
	}
	return errs
}
