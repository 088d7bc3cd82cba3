package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

// Class sorts failures by how the pipeline must treat them: transport
// and validation abort the action, resolution is an upload that
// produced no usable artifact, persistence is a local history failure
// that never retroactively fails an already-succeeded share.
type Class int

const (
	ClassTransport Class = iota + 1
	ClassValidation
	ClassResolution
	ClassPersistence
)

var (
	ErrNothingToShare = NewErr("NOTHING_TO_SHARE", "nothing to share: no file selected and clipboard is empty", ClassValidation)
	ErrTitleRequired  = NewErr("TITLE_REQUIRED", "title is required for text shares", ClassValidation)
	ErrNoDomain       = NewErr("NO_DOMAIN", "no domain available", ClassValidation)
	ErrNoShareableURL = NewErr("NO_SHAREABLE_URL", "upload succeeded but no shareable URL was returned by the server", ClassResolution)
)

type Err struct {
	Code   string `json:"code"`
	Msg    string `json:"message"`
	Class  Class  `json:"-"`
	Status int    `json:"-"`
}

func (e *Err) Error() string { return e.Msg }
func NewErr(code, msg string, class Class) *Err {
	return &Err{Code: code, Msg: msg, Class: class}
}

// APIErr builds the transport error for a non-2xx response, preferring
// the server-supplied message over the generic status-derived one.
func APIErr(status int, serverMsg string) *Err {
	msg := serverMsg
	if msg == "" {
		msg = fmt.Sprintf("API error: %d", status)
	}
	return &Err{Code: "API_ERROR", Msg: msg, Class: ClassTransport, Status: status}
}

// NetworkErr marks a request that never produced a response.
func NetworkErr(cause error) *Err {
	return &Err{Code: "NETWORK_ERROR", Msg: cause.Error(), Class: ClassTransport}
}

// ValidationErr marks missing or unusable local input.
func ValidationErr(code string, cause error) *Err {
	return &Err{Code: code, Msg: cause.Error(), Class: ClassValidation}
}

// PersistenceErr tags a history store failure, keeping an existing
// classification if one is already attached.
func PersistenceErr(err error) error {
	if err == nil {
		return nil
	}
	if asErr(err) != nil {
		return err
	}
	return &Err{Code: "PERSISTENCE_ERROR", Msg: err.Error(), Class: ClassPersistence}
}

func asErr(err error) *Err {
	if e, ok := err.(*Err); ok {
		return e
	}
	if e, ok := errors.Cause(err).(*Err); ok {
		return e
	}
	return nil
}

func ClassOf(err error) Class {
	if e := asErr(err); e != nil {
		return e.Class
	}
	return 0
}
func IsTransport(err error) bool   { return ClassOf(err) == ClassTransport }
func IsValidation(err error) bool  { return ClassOf(err) == ClassValidation }
func IsResolution(err error) bool  { return ClassOf(err) == ClassResolution }
func IsPersistence(err error) bool { return ClassOf(err) == ClassPersistence }
