package session

import "github.com/demilade/stride/internal/apperr"

var (
	// ErrShoeArchived is returned when starting a session for a shoe
	// that has been archived.
	ErrShoeArchived = &apperr.Error{
		Message: "%s is archived and cannot be worn",
	}

	// ErrSessionAlreadyActive is returned when starting a session for a
	// shoe that is already being worn.
	ErrSessionAlreadyActive = &apperr.Error{
		Message: "a session is already active for %s",
	}

	// ErrNoActiveSession is returned when ending a session for a shoe
	// that has none.
	ErrNoActiveSession = &apperr.Error{
		Message: "no active session found for %s",
	}
)
