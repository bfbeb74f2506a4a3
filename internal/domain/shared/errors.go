package shared

import (
	"errors"
	"fmt"
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// SessionExpiredError signals that the game server rejected the session token.
// This is an expected, recoverable condition: the orchestrator answers it with a
// cooldown and a fresh login on the next pass, never with the error state.
type SessionExpiredError struct {
	*DomainError
}

func NewSessionExpiredError(message string) *SessionExpiredError {
	if message == "" {
		message = "invalid or expired session"
	}
	return &SessionExpiredError{DomainError: &DomainError{Message: message}}
}

// IsSessionExpired reports whether err (or anything it wraps) is a session expiry
func IsSessionExpired(err error) bool {
	var se *SessionExpiredError
	return errors.As(err, &se)
}

// ProtocolError is raised when the server answers Success:false with any error
// other than session expiry, or when the response body cannot be decoded.
// Fatal for the current run version.
type ProtocolError struct {
	*DomainError
	ErrorCode string
}

func NewProtocolError(code, message string) *ProtocolError {
	return &ProtocolError{
		DomainError: &DomainError{Message: fmt.Sprintf("server rejected request (%s): %s", code, message)},
		ErrorCode:   code,
	}
}

// Train-related errors

type TrainError struct {
	*DomainError
}

func NewTrainError(message string) *TrainError {
	return &TrainError{DomainError: &DomainError{Message: message}}
}

type TrainBusyError struct {
	*TrainError
	TrainID int
}

func NewTrainBusyError(trainID int) *TrainBusyError {
	return &TrainBusyError{
		TrainError: NewTrainError(fmt.Sprintf("train %d already has an active route", trainID)),
		TrainID:    trainID,
	}
}

// Warehouse errors

type WarehouseError struct {
	*DomainError
	ArticleID int
}

func NewWarehouseError(articleID int, message string) *WarehouseError {
	return &WarehouseError{
		DomainError: &DomainError{Message: message},
		ArticleID:   articleID,
	}
}

// NewInsufficientStockError reports a debit that would take an article negative.
// The store never clamps.
func NewInsufficientStockError(articleID, required, available int) *WarehouseError {
	return NewWarehouseError(articleID,
		fmt.Sprintf("insufficient stock of article %d: need %d, have %d", articleID, required, available))
}

// NewWarehouseOverflowError reports a credit that would exceed warehouse capacity
func NewWarehouseOverflowError(used, max int) *WarehouseError {
	return NewWarehouseError(0,
		fmt.Sprintf("warehouse overflow: used %d exceeds capacity %d", used, max))
}

// ValidationError reports an invalid field value

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
