package dispatch

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/zenml-io/mcp-zenml/internal/zenml"
	"github.com/zenml-io/mcp-zenml/pkg/logging"
)

// filterSyntaxHelp is appended to remote validation failures of list
// operations, where a malformed filter expression is the usual culprit.
const filterSyntaxHelp = " (filters accept 'operator:value' expressions, e.g. " +
	"'contains:train' or 'gte:2024-01-01'; datetime filters also accept " +
	"'range:lower..upper')"

// Translate classifies an operation outcome into the closed result taxonomy.
// It is idempotent: an already-classified *Error passes through with its kind
// intact, so wrapping layers can call it safely without double-translating.
// Unexpected failures are logged once here and surfaced with a sanitized
// message that carries no internals.
func Translate(operation string, payload any, err error) *Result {
	if err == nil {
		// A handler may hand back an already-built result, e.g. to attach a
		// deprecation notice to one argument path of an otherwise current
		// operation.
		if result, ok := payload.(*Result); ok {
			return result
		}
		return success(payload)
	}

	var classified *Error
	if errors.As(err, &classified) {
		return failure(classified.Kind, classified.Message)
	}

	var unknown *UnknownOperationError
	if errors.As(err, &unknown) {
		return failure(KindValidationError, unknown.Error())
	}

	var notFound *zenml.NotFoundError
	if errors.As(err, &notFound) {
		return failure(KindNotFound, notFound.Error())
	}

	var ambiguous *zenml.AmbiguousMatchError
	if errors.As(err, &ambiguous) {
		return failure(KindValidationError, ambiguous.Error())
	}

	if errors.Is(err, zenml.ErrMissingStoreURL) || errors.Is(err, zenml.ErrMissingAPIKey) ||
		errors.Is(err, zenml.ErrNoActiveProject) {
		return failure(KindConfigurationError, err.Error())
	}

	var apiErr *zenml.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden:
			return failure(KindAuthError, apiErr.Error())
		case apiErr.Status == http.StatusNotFound:
			return failure(KindNotFound, apiErr.Error())
		case apiErr.Status >= 400 && apiErr.Status < 500:
			message := apiErr.Error()
			if strings.HasPrefix(operation, "list_") {
				message += filterSyntaxHelp
			}
			return failure(KindValidationError, message)
		default:
			logging.Warn("Dispatcher", "operation %s: %s", operation, apiErr.Error())
			return failure(KindRemoteUnavailable, apiErr.Error())
		}
	}

	if isTransportError(err) {
		logging.Warn("Dispatcher", "operation %s could not reach the ZenML server: %s",
			operation, rootCause(err))
		return failure(KindRemoteUnavailable,
			"ZenML server is unreachable: "+rootCause(err))
	}

	logging.Error("Dispatcher", err, "operation %s failed unexpectedly", operation)
	return failure(KindUnexpected,
		"operation "+operation+" failed unexpectedly; see server diagnostics")
}

// isTransportError recognizes failures of the network path itself, as
// opposed to responses the remote server produced.
func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// rootCause returns the innermost error message, keeping unreachable-server
// messages short instead of relaying the full wrap chain.
func rootCause(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}
