package pkg

// AppError is the error representation shared by all HTTP handlers.
//
// Code is a stable machine-readable identifier (e.g. ORDER_ALREADY_PAID) that
// POS terminals branch on; Message is for humans.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Retryable  bool
	Err        error
}

// HTTPError is the JSON body returned to clients.
type HTTPError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

func NewDomainError(code, message string, err error, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}

func NewDomainErrorSimple(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// NewTransientError marks the failure as safe to retry by the caller.
func NewTransientError(code, message string, err error, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Retryable: true, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) ToHTTPError() HTTPError {
	return HTTPError{Code: e.Code, Message: e.Message, Retryable: e.Retryable}
}
