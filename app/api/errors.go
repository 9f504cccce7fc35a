package api

import (
	"errors"
	"fmt"
	"log/slog"

	"mingle/job"
	"mingle/pagerange"
	"mingle/types"

	"github.com/gofiber/fiber/v2"
)

func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		apiErr    Error
		valErr    ValidationError
		rangeErrs job.RangeErrors
		syntaxErr *pagerange.SyntaxError
		domainErr *types.Error
		fiberErr  *fiber.Error
	)

	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &valErr):
		return c.Status(valErr.Status).JSON(valErr)
	case errors.As(err, &rangeErrs):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(NewRangeValidationError(rangeErrs))
	case errors.As(err, &syntaxErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"code":  fiber.StatusUnprocessableEntity,
			"error": syntaxErr.Reason,
			"token": syntaxErr.Token,
		})
	case errors.As(err, &domainErr):
		apiErr = NewError(statusForKind(domainErr.Kind), domainErr.Error())
	case errors.As(err, &fiberErr):
		apiErr = NewError(fiberErr.Code, fiberErr.Message)
	default:
		apiErr = NewError(fiber.StatusInternalServerError, err.Error())
	}

	if apiErr.Code >= fiber.StatusInternalServerError {
		slog.Error("request failed", "path", c.Path(), "code", apiErr.Code, "error", apiErr.Message)
	} else {
		slog.Info("request rejected", "path", c.Path(), "code", apiErr.Code, "error", apiErr.Message)
	}
	return c.Status(apiErr.Code).JSON(apiErr)
}

func statusForKind(kind types.ErrorKind) int {
	switch kind {
	case types.KindInput:
		return fiber.StatusBadRequest
	case types.KindBounds:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errors,
	}
}

// NewRangeValidationError keys each range error by its form position,
// e.g. "ranges[1]".
func NewRangeValidationError(errs job.RangeErrors) ValidationError {
	m := make(map[string]string, len(errs))
	for _, e := range errs {
		m[fmt.Sprintf("ranges[%d]", e.Index)] = e.Err.Reason
	}
	return NewValidationError(m)
}

// Error implements the Error interface
func (e Error) Error() string {
	return e.Message
}

func NewError(code int, err string) Error {
	return Error{
		Code:    code,
		Message: err,
	}
}

func ErrBadRequest() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid request",
	}
}

func ErrInvalidID() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid id given",
	}
}

func ErrMissingFiles(field string) Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: fmt.Sprintf("no files given in %q", field),
	}
}

func ErrNotFound[T any](arg T, resource string) Error {
	return Error{
		Code:    fiber.StatusNotFound,
		Message: fmt.Sprintf("%s with %v not found", resource, arg),
	}
}
