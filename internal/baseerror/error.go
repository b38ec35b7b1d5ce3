package baseerror

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error is an error kind that may have a parent kind. Children unwrap to their
// parent, so errors.Is matches any ancestor of the kind.
type Error struct {
	parent error
	code   codes.Code
	msg    string
}

func New(code codes.Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// New creates a child kind with its own code.
func (err *Error) New(code codes.Code, msg string) *Error {
	return &Error{
		parent: err,
		code:   code,
		msg:    msg,
	}
}

// Errorf returns an instance of the kind with a detailed message. The instance
// keeps the code of the kind and unwraps to it.
func (err *Error) Errorf(format string, args ...interface{}) *Error {
	return &Error{
		parent: err,
		code:   err.code,
		msg:    fmt.Sprintf(format, args...),
	}
}

func (err *Error) Error() string {
	return err.msg
}

func (err *Error) Unwrap() error {
	return err.parent
}

func (err *Error) Code() codes.Code {
	return err.code
}

// GRPCStatus allows the error to be converted with status.FromError.
func (err *Error) GRPCStatus() *status.Status {
	return status.New(err.code, err.msg)
}
