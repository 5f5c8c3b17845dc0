package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrMissingSignature is returned when an account that must authorize
	// the request did not sign it.
	ErrMissingSignature = Register(2, "missing required signature")

	// ErrNotFound is used when a requested operation cannot be completed
	// due to missing data.
	ErrNotFound = Register(3, "not found")

	// ErrInvalidInstruction is returned when instruction data cannot be
	// decoded into any known instruction.
	ErrInvalidInstruction = Register(4, "invalid instruction")

	// ErrInvalidAccountData is returned when the content of an account, or
	// the identity of an account presented by the caller, does not match
	// what the stored state requires.
	ErrInvalidAccountData = Register(5, "invalid account data")

	// ErrAlreadyInitialized is returned when an account that must be fresh
	// is already in use.
	ErrAlreadyInitialized = Register(6, "account already initialized")

	// ErrHuman is returned when application reaches a code path which should not
	// ever be reached if the code was written as expected by the framework
	ErrHuman = Register(7, "coding error")

	// ErrUninitializedAccount is returned when an operation requires an
	// initialized account and the account holds no state.
	ErrUninitializedAccount = Register(8, "uninitialized account")

	// ErrNotEnoughAccountKeys is returned when an instruction references
	// fewer accounts than it requires.
	ErrNotEnoughAccountKeys = Register(9, "not enough account keys")

	// ErrIllegalOwner is returned when an account that must be owned by the
	// executing program and writable is not.
	ErrIllegalOwner = Register(10, "illegal owner")

	// ErrWrongOwner is returned when an account is not owned by the
	// program that is expected to manage it.
	ErrWrongOwner = Register(11, "incorrect program id")

	// ErrInsufficientFunds is returned when an account balance cannot cover
	// the requested amount.
	ErrInsufficientFunds = Register(12, "insufficient funds")

	// ErrInvalidState is returned when an object is in invalid state
	ErrInvalidState = Register(13, "invalid state")

	// ErrInvalidInput stands for general input problems indication
	ErrInvalidInput = Register(14, "invalid input")

	// ErrTimelocked is returned when a time bound operation is attempted
	// before it is allowed.
	ErrTimelocked = Register(15, "time locked")

	// ErrOverflow s returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrIncorrectAuthority is returned when the authority presented for an
	// account does not match the authority recorded on it.
	ErrIncorrectAuthority = Register(17, "incorrect authority")

	// ErrReadOnly is returned when a program modifies an account that was
	// not passed as writable.
	ErrReadOnly = Register(18, "account is read only")

	// ErrUnbalanced is returned when the sum of balances changed while
	// processing an instruction.
	ErrUnbalanced = Register(19, "sum of account balances changed")

	// ErrInvalidSeeds is returned when an authority cannot be derived from
	// the given seeds.
	ErrInvalidSeeds = Register(20, "invalid seeds")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info
	ErrPanic = Register(111222, "panic")
)

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// Popular root errors are declared in this package, but extensions may want to
// declare custom codes. This function ensures that no error code is used
// twice. Attempt to reuse an error code results in panic.
//
// Use this function only during a program startup phase.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes is keeping track of used codes to ensure their uniqueness. No two
// error instances should share the same error code.
var usedCodes = map[uint32]*Error{
	1: nil, // Error code 1 is restricted for internal errors and must not be used.
}

// Error represents a root error.
//
// Each instance created during the runtime should wrap one of the declared
// root errors. This allows error tests and returning all errors to the client
// in a safe manner.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the numeric code that identifies this error kind.
func (e Error) Code() uint32 {
	return e.code
}

// New returns a new error. Returned instance is having the root cause set to
// this error. Below two lines are equal
//   e.New("my description")
//   Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is basically New with formatting capabilities
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is check if given error instance is of a given kind/type. This involves
// unwrapping given error using the Cause method if available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap extends given error with an additional information.
//
// If the wrapped error does not provide Code method (ie. stdlib errors),
// it will be labeled as internal error.
//
// If err is nil, this returns nil, avoiding the need for an if statement when
// wrapping a error returned at the end of a function
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// If this error does not carry the stacktrace information yet, attach
	// one. This should be done only once per error at the lowest frame
	// possible (most inner wrap).
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with an additional information.
//
// This function works like Wrap function with additional funtionality of
// formatting the input as specified.
func Wrapf(err error, format string, args ...interface{}) error {
	desc := fmt.Sprintf(format, args...)
	return Wrap(err, desc)
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format works like pkg/errors, with additions.
// %s is just the error message
// %+v is the full stack trace
// %v appends a compressed [filename:line] where the error
//    was created
func (e *wrappedError) Format(s fmt.State, verb rune) {
	st := stackTrace(e)
	if verb == 'v' && s.Flag('+') && st != nil {
		fmt.Fprintf(s, "%s%+v", e.Error(), st)
		return
	}
	fmt.Fprint(s, e.Error())
	if verb == 'v' && st != nil && len(st) > 0 {
		fmt.Fprintf(s, " [%v]", st[0])
	}
}

// Recover captures a panic and stop its propagation. If panic happens it is
// transformed into a ErrPanic instance and assigned to given error. Call this
// function using defer in order to work as expected.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// causer is an interface implemented by an error that supports wrapping. Use
// it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}

type stackTracer interface {
	error
	StackTrace() errors.StackTrace
}

// stackTrace returns the first found stack trace frame carried by given error
// or any wrapped error. It returns nil if no stack trace is found.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}
