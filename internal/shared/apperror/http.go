package apperror

import "errors"

// HTTPError is the transport view of an error.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details string
}

// ToHTTP converts any error into its HTTP representation. Errors that are not
// an *AppError are reported as internal errors with the raw text as details.
func ToHTTP(err error) HTTPError {
	if err == nil {
		return HTTPError{}
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		httpErr := HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
		if appErr.Err != nil {
			httpErr.Details = appErr.Err.Error()
		}
		return httpErr
	}

	return HTTPError{
		Status:  ErrInternal.HTTPStatus,
		Code:    ErrInternal.Code,
		Message: ErrInternal.Message,
		Details: err.Error(),
	}
}
