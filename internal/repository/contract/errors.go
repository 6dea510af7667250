package contract

import "errors"

// ErrConflict reports a write rejected by a unique constraint, e.g. two
// plan writers that raced past the athlete lock.
var ErrConflict = errors.New("conflicting write")
