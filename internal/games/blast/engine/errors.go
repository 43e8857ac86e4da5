package engine

import "errors"

// ErrInvalidPlacement is returned when a placement violates its preconditions:
// the slot is out of range or already used, or the shape does not fit at the anchor.
// Callers avoid it by checking CanPlace first.
var ErrInvalidPlacement = errors.New("invalid placement")
