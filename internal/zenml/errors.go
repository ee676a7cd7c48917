package zenml

import (
	"errors"
	"fmt"
)

// Configuration errors surfaced when required connection settings are absent.
// They are fatal to the specific operation, never to the process.
var (
	ErrMissingStoreURL = errors.New("ZENML_STORE_URL environment variable not set")
	ErrMissingAPIKey   = errors.New("ZENML_STORE_API_KEY environment variable not set")

	// ErrNoActiveProject is returned by project-scoped operations when
	// neither an explicit project argument nor ZENML_ACTIVE_PROJECT_ID is
	// available.
	ErrNoActiveProject = errors.New("no active project is configured; set ZENML_ACTIVE_PROJECT_ID or pass an explicit project")
)

// APIError represents a non-2xx response from the ZenML server.
type APIError struct {
	// Status is the HTTP status code returned by the server.
	Status int

	// Message is a short description extracted from the response body.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ZenML server returned HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("ZenML server returned HTTP %d", e.Status)
}

// NotFoundError indicates that a referenced remote entity does not exist.
type NotFoundError struct {
	Resource string
	NameOrID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.NameOrID)
}

// IsNotFound checks if an error is a NotFoundError using error unwrapping.
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// AmbiguousMatchError indicates that a name-or-prefix lookup matched more
// than one remote entity and the caller must disambiguate.
type AmbiguousMatchError struct {
	Resource string
	NameOrID string
	Count    int
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("%s %q matches %d entities; use a unique name or the UUID", e.Resource, e.NameOrID, e.Count)
}
