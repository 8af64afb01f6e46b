package errors

import "errors"

// IsMissingReport checks if an error indicates the discovery report is absent.
func IsMissingReport(err error) bool {
	if err == nil {
		return false
	}

	var missingErr *MissingReportError
	return errors.As(err, &missingErr) || errors.Is(err, ErrMissingReport)
}

// IsStaleReport checks if an error is the advisory stale report warning.
func IsStaleReport(err error) bool {
	if err == nil {
		return false
	}

	var staleErr *StaleReportError
	return errors.As(err, &staleErr)
}

// IsReceiverNotFound checks if an error indicates no receiver matched.
func IsReceiverNotFound(err error) bool {
	if err == nil {
		return false
	}

	var notFoundErr *ReceiverNotFoundError
	return errors.As(err, &notFoundErr) || errors.Is(err, ErrReceiverNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}

	var validationErr *ValidationError
	return errors.As(err, &validationErr) || errors.Is(err, ErrInvalidInput)
}

// IsTimeout checks if an error indicates a timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}

	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr) || errors.Is(err, ErrTimeout)
}

// IsMalformedService checks if an error describes an unusable service record.
func IsMalformedService(err error) bool {
	if err == nil {
		return false
	}

	var malformedErr *MalformedServiceError
	return errors.As(err, &malformedErr)
}

// IsPersist checks if an error is a report I/O failure.
func IsPersist(err error) bool {
	if err == nil {
		return false
	}

	var persistErr *PersistError
	return errors.As(err, &persistErr)
}

// IsProtocol checks if an error is a non-timeout exchange failure.
func IsProtocol(err error) bool {
	if err == nil {
		return false
	}

	var protocolErr *ProtocolError
	return errors.As(err, &protocolErr)
}

// IsInternal checks if an error is an internal error.
func IsInternal(err error) bool {
	if err == nil {
		return false
	}

	var internalErr *InternalError
	return errors.As(err, &internalErr) || errors.Is(err, ErrInternal)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	if err == nil {
		return CodeOK
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return customErr.Code()
	}

	// Try to infer from sentinel errors
	switch {
	case IsMissingReport(err):
		return CodeMissingReport
	case IsReceiverNotFound(err):
		return CodeReceiverNotFound
	case IsTimeout(err):
		return CodeTimeout
	case IsValidation(err):
		return CodeValidation
	default:
		return CodeInternal
	}
}

// GetErrorMessage extracts a human-readable message from an error.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return customErr.Message()
	}

	return err.Error()
}

// Cause returns the underlying cause of an error.
// It unwraps the error chain until it finds the root cause.
func Cause(err error) error {
	for {
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		underlying := unwrapper.Unwrap()
		if underlying == nil {
			return err
		}
		err = underlying
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
