package gateway

import (
	"errors"
	"fmt"
)

// ErrRemote is the single failure kind of the gateway: the call could not be
// made or the response was not 2xx.
var ErrRemote = errors.New("remote call did not succeed")

// ErrInvalidID is wrapped by RemoteError when an id is not positive. No
// request is sent.
var ErrInvalidID = errors.New("id must be positive")

// RemoteError describes a failed gateway call. errors.Is(err, ErrRemote) holds
// for every RemoteError.
type RemoteError struct {
	Op       string
	Resource string
	ID       int
	Status   int
	Err      error
}

func (e *RemoteError) Error() string {
	target := e.Resource
	if e.ID > 0 {
		target = fmt.Sprintf("%s/%d", e.Resource, e.ID)
	}
	switch {
	case e.Err != nil && e.Status > 0:
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, target, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, target, e.Err)
	default:
		return fmt.Sprintf("%s %s: status %d", e.Op, target, e.Status)
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}
