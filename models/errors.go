package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeInvalidCarData = "INVALID_CAR_DATA"
	ErrCodeChallenge      = "CHALLENGE_DETECTED"
	ErrCodeFieldsMissing  = "LISTING_FIELDS_MISSING"
	ErrCodeScrapeFailed   = "SCRAPE_FAILED"
	ErrCodeScrapeTimeout  = "SCRAPE_TIMEOUT"
	ErrCodeBrowserCrash   = "BROWSER_CRASH"
	ErrCodeNarration      = "NARRATION_FAILED"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EvalError is the internal error type carrying an error code and a
// user-facing message. It implements the error interface and supports
// error wrapping via Unwrap.
type EvalError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *EvalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// NewEvalError creates a new EvalError with an explicit message.
func NewEvalError(code, message string, err error) *EvalError {
	return &EvalError{Code: code, Message: message, Err: err}
}

// NewLocalizedError creates an EvalError whose user-facing message is the
// fixed text for the given code in the given language.
func NewLocalizedError(code, lang string, err error) *EvalError {
	return &EvalError{Code: code, Message: Message(code, lang), Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *EvalError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
