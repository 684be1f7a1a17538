package employeeerrors

import (
	"go-garage/internal/shared/apperror"
	"net/http"
)

var (
	ErrAllFieldsRequired = apperror.New(
		apperror.CodeInvalidInput,
		"All fields are required",
		http.StatusBadRequest,
	)
	ErrParentUserUIDRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Parent user UID is required",
		http.StatusBadRequest,
	)
	ErrInvalidEmail = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid email format",
		http.StatusBadRequest,
	)
	ErrInvalidPhone = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid phone number",
		http.StatusBadRequest,
	)
	ErrParentUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"Parent user not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrProvisionForbidden = apperror.New(
		apperror.CodeForbidden,
		"Not allowed to provision under this parent",
		http.StatusForbidden,
	)
	ErrLoginIDAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with this login ID already exists",
		http.StatusConflict,
	)
	ErrCreateUserFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to create user",
		http.StatusInternalServerError,
	)
	ErrCreateAuthRecordFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to create authentication record",
		http.StatusInternalServerError,
	)
)
