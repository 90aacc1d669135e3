package event

import "fmt"

// ErrUnknownKind is returned when an event name is not recognized
type ErrUnknownKind struct {
	Name string
}

func (e ErrUnknownKind) Error() string {
	return fmt.Sprintf("unknown event kind: %s", e.Name)
}

// ErrMalformedInput is returned when a host input document cannot be
// decoded or names no event
type ErrMalformedInput struct {
	Reason string
}

func (e ErrMalformedInput) Error() string {
	return fmt.Sprintf("malformed event input: %s", e.Reason)
}
