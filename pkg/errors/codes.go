package errors

// Error codes for categorizing errors.
const (
	// CodeOK indicates success (not an error).
	CodeOK = "OK"

	// CodeCancelled indicates the operation was cancelled.
	CodeCancelled = "CANCELLED"

	// CodeInternal indicates internal errors.
	CodeInternal = "INTERNAL"

	// CodeValidation indicates input or configuration validation failed.
	CodeValidation = "VALIDATION_ERROR"

	// CodeTimeout indicates an operation timed out.
	CodeTimeout = "TIMEOUT"

	// Domain-specific error codes

	// CodeMissingReport indicates the discovery report does not exist.
	CodeMissingReport = "MISSING_REPORT"

	// CodeStaleReport indicates the discovery report is older than the threshold.
	CodeStaleReport = "STALE_REPORT"

	// CodeReceiverNotFound indicates a receiver token matched no peer.
	CodeReceiverNotFound = "RECEIVER_NOT_FOUND"

	// CodeMalformedService indicates a service record without a usable address.
	CodeMalformedService = "MALFORMED_SERVICE_RECORD"

	// CodePersist indicates the discovery report could not be read or written.
	CodePersist = "PERSIST_FAILURE"

	// CodeProtocol indicates an exchange with a peer failed for a reason other than a timeout.
	CodeProtocol = "PROTOCOL_ERROR"
)

// ErrorCategory represents a high-level error category.
type ErrorCategory string

const (
	// CategoryPeer covers failures scoped to a single peer; they never abort a batch.
	CategoryPeer ErrorCategory = "PEER_ERROR"

	// CategoryCatalog covers failures of the report as a whole.
	CategoryCatalog ErrorCategory = "CATALOG_ERROR"

	// CategoryResolution covers receiver lookup failures.
	CategoryResolution ErrorCategory = "RESOLUTION_ERROR"

	// CategoryValidation indicates a validation error.
	CategoryValidation ErrorCategory = "VALIDATION_ERROR"

	// CategoryInternal is everything else.
	CategoryInternal ErrorCategory = "INTERNAL_ERROR"
)

// GetCategory returns the category for an error code.
func GetCategory(code string) ErrorCategory {
	switch code {
	case CodeTimeout, CodeMalformedService, CodeProtocol:
		return CategoryPeer

	case CodeMissingReport, CodeStaleReport, CodePersist:
		return CategoryCatalog

	case CodeReceiverNotFound:
		return CategoryResolution

	case CodeValidation:
		return CategoryValidation

	default:
		return CategoryInternal
	}
}

// IsPeerScoped returns true if an error with the given code concerns a single peer
// and must be absorbed by the probe that hit it.
func IsPeerScoped(code string) bool {
	return GetCategory(code) == CategoryPeer
}

// IsAdvisory returns true for codes that inform but never block an operation.
func IsAdvisory(code string) bool {
	return code == CodeStaleReport
}
