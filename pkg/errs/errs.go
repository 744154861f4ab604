// Package errs provides the error type used across the console. An error
// carries the operation that failed, a Kind that classifies it, and
// optionally the offending parameter.
//
// Modelled on the upspin/diygoapi style:
// - https://commandcenter.blogspot.com/2017/12/error-handling-in-upspin.html
package errs

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Op is the operation that failed, usually "type.Method".
type Op string

// Parameter is the name of the input that caused the error.
type Parameter string

// UserName identifies the actor that triggered the error.
type UserName string

// Kind classifies an error.
type Kind uint8

const (
	Other Kind = iota
	InvalidRequest
	Validation
	Exist
	NotExist
	IO
	Internal
	Unauthenticated
	Unauthorized
	Conflict
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "other_error"
	case InvalidRequest:
		return "invalid_request_error"
	case Validation:
		return "validation_error"
	case Exist:
		return "item_already_exists"
	case NotExist:
		return "item_does_not_exist"
	case IO:
		return "io_error"
	case Internal:
		return "internal_error"
	case Unauthenticated:
		return "unauthenticated_request"
	case Unauthorized:
		return "unauthorized_request"
	case Conflict:
		return "conflict"
	}

	return "unknown_error_kind"
}

type Error struct {
	Op    Op
	Kind  Kind
	Param Parameter
	User  UserName
	Err   error
}

func (e *Error) isZero() bool {
	return e.Op == "" && e.Kind == 0 && e.Param == "" && e.User == "" && e.Err == nil
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	b := new(bytes.Buffer)

	if e.Op != "" {
		b.WriteString(string(e.Op))
	}

	if e.Kind != Other {
		pad(b, ": ")
		b.WriteString(e.Kind.String())
	}

	if e.Param != "" {
		pad(b, ": ")
		b.WriteString("param ")
		b.WriteString(string(e.Param))
	}

	if e.Err != nil {
		var prev *Error
		if errors.As(e.Err, &prev) && !prev.isZero() {
			pad(b, ":\n\t")
		} else {
			pad(b, ": ")
		}

		b.WriteString(e.Err.Error())
	}

	if b.Len() == 0 {
		return "no error"
	}

	return b.String()
}

func pad(b *bytes.Buffer, str string) {
	if b.Len() == 0 {
		return
	}

	b.WriteString(str)
}

// E builds an error value from its arguments. The type of each argument
// determines its meaning; at least one argument is required.
//
//	errs.Op       the operation being performed
//	errs.Kind     the class of error
//	errs.Parameter the offending input
//	errs.UserName the actor
//	string        treated as an error message
//	*errs.Error   copied and used as the underlying error
//	error         the underlying error
//
// If the Kind is not given it is promoted from the underlying *Error.
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("call to errs.E with no arguments")
	}

	e := &Error{}

	for _, arg := range args {
		switch arg := arg.(type) {
		case Op:
			e.Op = arg
		case string:
			e.Err = pkgerrors.New(arg)
		case Kind:
			e.Kind = arg
		case Parameter:
			e.Param = arg
		case UserName:
			e.User = arg
		case *Error:
			cp := *arg
			e.Err = &cp
		case error:
			if hasStack(arg) {
				e.Err = arg
			} else {
				e.Err = pkgerrors.WithStack(arg)
			}
		case nil:
			continue
		default:
			return fmt.Errorf("unknown type %T, value %v in error call", arg, arg)
		}
	}

	var prev *Error
	if !errors.As(e.Err, &prev) {
		return e
	}

	if e.Kind == Other {
		e.Kind = prev.Kind
	}

	if e.Param == "" {
		e.Param = prev.Param
	}

	if e.User == "" {
		e.User = prev.User
	}

	return e
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

func hasStack(err error) bool {
	var st stackTracer
	if errors.As(err, &st) {
		return true
	}

	var e *Error

	return errors.As(err, &e)
}

// Str returns an error that formats as the given text.
func Str(text string) error {
	return pkgerrors.New(text)
}

// KindIs reports whether err is an *Error of the given Kind.
func KindIs(kind Kind, err error) bool {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind != Other {
			return e.Kind == kind
		}

		if e.Err != nil {
			return KindIs(kind, e.Err)
		}
	}

	return false
}

// KindOf returns the Kind of err, or Other.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return Other
}

func (k Kind) HTTPStatus() int {
	switch k {
	case InvalidRequest, Validation:
		return http.StatusBadRequest
	case Exist, Conflict:
		return http.StatusConflict
	case NotExist:
		return http.StatusNotFound
	case Unauthenticated:
		return http.StatusUnauthorized
	case Unauthorized:
		return http.StatusForbidden
	case IO:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
