package panorama

import (
	"fmt"
)

// ConnectionError is returned once every connection attempt has failed.
type ConnectionError struct {
	Endpoint string
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to panorama at %s after %d attempt(s): %v", e.Endpoint, e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// RemoteOperationError is returned when the endpoint rejects a command.
type RemoteOperationError struct {
	Op  string
	Raw []byte
	Err error
}

func (e *RemoteOperationError) Error() string {
	msg := fmt.Sprintf("panorama rejected %s", e.Op)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Raw) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, e.Raw)
	}
	return msg
}

func (e *RemoteOperationError) Unwrap() error {
	return e.Err
}

// AuthError is returned when keygen is answered but refused.
type AuthError struct {
	Username string
	Message  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed for %q: %s", e.Username, e.Message)
}
