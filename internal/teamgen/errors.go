package teamgen

import "fmt"

// InvalidRequestError reports malformed generation parameters
type InvalidRequestError struct {
	Field   string
	Message string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid team request: %s %s", e.Field, e.Message)
}

// InsufficientPlayersError reports a pool too small for the requested shape
type InsufficientPlayersError struct {
	Needed    int
	Available int
}

func (e *InsufficientPlayersError) Error() string {
	return fmt.Sprintf("Not enough ready players. Need %d, have %d", e.Needed, e.Available)
}
