// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// TransportError covers network failures, non-2xx responses and payloads
// that could not be decoded.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NotFoundError is a lookup that completed but matched nothing.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// ValidationError is raised before any storage or transport is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ExternalAPIError is a failed call to the completion/image service.
type ExternalAPIError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *ExternalAPIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed (%d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Service, e.Message)
}

func NewCampaignNotFound(id string) error {
	return &NotFoundError{Resource: "Campaign", ID: id}
}

func NewTransport(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}

func NewStatus(op string, status int) error {
	return &TransportError{Op: op, StatusCode: status}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
