package domain

import (
	"fmt"

	"github.com/pkg/errors"

	"graphsync/internal/stream"
)

// ErrEmptyID is returned when an element is created without an id
var ErrEmptyID = errors.New("element id must not be empty")

// IdentityError reports a duplicate add or the removal of a missing element
type IdentityError struct {
	Kind   stream.ElementKind
	ID     string
	Exists bool
}

func (e *IdentityError) Error() string {
	if e.Exists {
		return fmt.Sprintf("%s %q already exists", e.Kind, e.ID)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// EndpointError reports an edge referencing a node that does not exist
type EndpointError struct {
	Edge string
	Node string
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("edge %q references missing node %q", e.Edge, e.Node)
}

// StepError reports a step marker going back in time
type StepError struct {
	Current   float64
	Requested float64
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %v is before current step %v", e.Requested, e.Current)
}

func duplicate(kind stream.ElementKind, id string) error {
	return errors.WithStack(&IdentityError{Kind: kind, ID: id, Exists: true})
}

func missing(kind stream.ElementKind, id string) error {
	return errors.WithStack(&IdentityError{Kind: kind, ID: id})
}

// IsIdentityError reports whether err is an IdentityError
func IsIdentityError(err error) bool {
	var ie *IdentityError
	return errors.As(err, &ie)
}

// IsEndpointError reports whether err is an EndpointError
func IsEndpointError(err error) bool {
	var ee *EndpointError
	return errors.As(err, &ee)
}
