package config

import "github.com/demilade/stride/internal/apperr"

var (
	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errInvalidThreshold = &apperr.Error{
		Message: "auto.inactivity_threshold must be between %v and %v",
	}

	errInvalidInterval = &apperr.Error{
		Message: "auto.interval must be between %v and %v",
	}

	// ErrInvalidLifespan rejects shoes whose estimated lifespan distance
	// is not a positive number of kilometres.
	ErrInvalidLifespan = &apperr.Error{
		Message: "lifespan distance must be greater than zero, got %v",
	}
)
