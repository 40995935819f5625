package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Machine-readable conflict codes surfaced alongside HTTP 409.
const (
	CodeTableNotAvailable   = "TABLE_NOT_AVAILABLE"
	CodeTableHasReservation = "TABLE_HAS_ACTIVE_RESERVATION"
	CodeDuplicateTable      = "DUPLICATE_TABLE_NUMBER"
	CodeInsufficientCap     = "INSUFFICIENT_CAPACITY"
	CodeReservationFinal    = "RESERVATION_CANCELLED"
)

// ValidationError reports malformed or missing input. Mapped to HTTP 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown id or kind. Mapped to HTTP 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError reports a state-machine precondition violation. Mapped to
// HTTP 409 with a machine-readable code; table conflicts also carry the
// offending table's number and current status for the operator.
type ConflictError struct {
	Code          string
	Message       string
	TableNumber   string
	CurrentStatus string
}

func (e *ConflictError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

// StorageError wraps an entity-store failure. Mapped to HTTP 500 and never
// retried here.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// RespondError maps a service error onto the HTTP surface. Every failure body
// has the shape {success:false, message, errorCode?}.
func RespondError(c *gin.Context, err error) {
	var (
		ve *ValidationError
		nf *NotFoundError
		ce *ConflictError
		se *StorageError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": ve.Message})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": nf.Error()})
	case errors.As(err, &ce):
		body := gin.H{"success": false, "message": ce.Message, "errorCode": ce.Code}
		if ce.TableNumber != "" {
			body["tableNumber"] = ce.TableNumber
		}
		if ce.CurrentStatus != "" {
			body["currentStatus"] = ce.CurrentStatus
		}
		c.JSON(http.StatusConflict, body)
	case errors.As(err, &se):
		GetLogger().Error("storage failure", zap.String("op", se.Op), zap.Error(se.Err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server Error"})
	default:
		GetLogger().Error("unexpected failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server Error"})
	}
}
