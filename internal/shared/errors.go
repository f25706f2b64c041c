package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authorization flow errors
	ErrAuthFailed      = fmt.Errorf("authorization failed")
	ErrInvalidEndpoint = fmt.Errorf("invalid authorization endpoint")
	ErrTimeout         = fmt.Errorf("operation timed out")

	// Bridge errors
	ErrUnknownCommand  = fmt.Errorf("unknown bridge command")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrRateLimited     = fmt.Errorf("too many requests")
)
