package errors

import "errors"

// Process exit statuses used by the command line front end.
const (
	ExitOK               = 0
	ExitFailure          = 1
	ExitUsage            = 2
	ExitMissingReport    = 3
	ExitReceiverNotFound = 4
	ExitPersist          = 5
	ExitPeer             = 6
)

// ExitCode returns the process exit status for an error.
// It maps error codes to stable exit statuses.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	// Check if it's our custom error type
	var customErr Error
	if errors.As(err, &customErr) {
		return codeToExitStatus(customErr.Code())
	}

	// Check sentinel errors
	switch {
	case errors.Is(err, ErrMissingReport):
		return ExitMissingReport
	case errors.Is(err, ErrReceiverNotFound):
		return ExitReceiverNotFound
	case errors.Is(err, ErrInvalidInput):
		return ExitUsage
	case errors.Is(err, ErrTimeout):
		return ExitPeer
	}

	return ExitFailure
}

// codeToExitStatus maps error codes to exit statuses.
func codeToExitStatus(code string) int {
	switch code {
	case CodeOK, CodeStaleReport:
		return ExitOK
	case CodeValidation:
		return ExitUsage
	case CodeMissingReport:
		return ExitMissingReport
	case CodeReceiverNotFound:
		return ExitReceiverNotFound
	case CodePersist:
		return ExitPersist
	case CodeTimeout, CodeProtocol, CodeMalformedService:
		return ExitPeer
	default:
		return ExitFailure
	}
}

// Hint returns advice for the user on how to recover from an error, or "".
func Hint(err error) string {
	switch {
	case IsMissingReport(err):
		return "please run 'opendrop find' first"
	case IsReceiverNotFound(err):
		return "check -r,--receiver format or try 'opendrop find' again"
	case IsStaleReport(err):
		return "consider running 'opendrop find' again"
	case IsTimeout(err):
		return "the receiver did not answer in time; is it awake and nearby?"
	default:
		return ""
	}
}
