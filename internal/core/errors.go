package core

import "errors"

// ErrorCode classifies a PURL parse failure.
type ErrorCode string

const (
	InvalidFormat    ErrorCode = "INVALID_FORMAT"
	MissingType      ErrorCode = "MISSING_TYPE"
	MissingName      ErrorCode = "MISSING_NAME"
	UnknownType      ErrorCode = "UNKNOWN_TYPE"
	InvalidComponent ErrorCode = "INVALID_COMPONENT"
)

const defaultComponentDetail = "The PURL contains invalid characters or structure."

// ParseError is returned by Parse for every rejected input.
type ParseError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *ParseError) Error() string {
	return e.Message
}

func newParseError(code ErrorCode, details string) *ParseError {
	return &ParseError{Code: code, Message: ErrorMessage(code, details)}
}

// ErrorMessage returns the user-facing message for code.
// details is the offending type for UnknownType and the decoder detail for
// InvalidComponent; it is ignored otherwise.
func ErrorMessage(code ErrorCode, details string) string {
	switch code {
	case InvalidFormat:
		return `Invalid PURL format. A valid PURL must start with "pkg:" followed by type/name (e.g., pkg:npm/lodash).`
	case MissingType:
		return `Missing package type. The PURL must include a type after "pkg:" (e.g., pkg:npm/lodash).`
	case MissingName:
		return "Missing package name. The PURL must include a package name (e.g., pkg:npm/lodash)."
	case UnknownType:
		return `Unknown package type "` + details + `". This type is not recognized in the official PURL specification.`
	case InvalidComponent:
		if details == "" {
			details = defaultComponentDetail
		}
		return "Invalid PURL component: " + details
	default:
		return "An unknown error occurred while parsing the PURL."
	}
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not a ParseError.
func CodeOf(err error) ErrorCode {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
