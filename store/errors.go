package store

import "github.com/demilade/stride/internal/apperr"

var (
	// ErrRepository wraps any failure of the underlying database.
	ErrRepository = &apperr.Error{
		Message: "repository failure",
	}

	// ErrShoeNotFound is returned when a shoe lookup matches nothing.
	ErrShoeNotFound = &apperr.Error{
		Message: "no shoe found matching %q",
	}

	errStrideRunning = &apperr.Error{
		Message: "is stride already running? Only one instance can access the database at a time",
	}
)
