package ai

import "fmt"

// ConnectError indicates the backend at URL could not be reached at all.
type ConnectError struct {
	URL string
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("cannot reach backend at %s: %v", e.URL, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// APIError captures a non-success HTTP response from a backend.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend api error: %s", e.Status)
	}
	return fmt.Sprintf("backend api error: %s: %s", e.Status, e.Body)
}
