package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMediaType     = errors.New("invalid media type")
	ErrNoActiveStream       = errors.New("no active camera stream")
	ErrNoDeviceAvailable    = errors.New("no camera device available")
	ErrAlreadyInFlight      = errors.New("dispatch already in flight")
	ErrNoInput              = errors.New("no diagnostic input present")
	ErrNoModel              = errors.New("no model selected")
	ErrNoResult             = errors.New("no diagnosis result present")
	ErrMalformedResponse    = errors.New("malformed model response")
	ErrInvalidSymptomInput  = errors.New("invalid symptom input")
	ErrPersistence          = errors.New("persistence failed")
	ErrInvalidTransition    = errors.New("invalid state transition")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrNoSelection          = errors.New("no option selected")
	ErrSuperseded           = errors.New("result superseded by newer input")
	ErrSessionNotFound      = errors.New("session not found")
)

// DispatchError reports a failed inference call. Status is zero when the
// request never reached the provider (network failure).
type DispatchError struct {
	Status          int
	ProviderMessage string
}

func (e *DispatchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("dispatch failed: %s", e.ProviderMessage)
	}
	return fmt.Sprintf("dispatch failed (status %d): %s", e.Status, e.ProviderMessage)
}
