package attribution

import "github.com/demilade/stride/internal/apperr"

// ErrInvalidHour is returned when a timestamp cannot be reduced to a
// valid hour bucket.
var ErrInvalidHour = &apperr.Error{
	Message: "cannot derive an hour bucket from a zero timestamp",
}
