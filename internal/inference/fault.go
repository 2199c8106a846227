package inference

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnknownCategory indicates a category token outside the supported set.
	ErrUnknownCategory = errors.New("unknown analysis category")
)

// FaultCategory classifies why an inference call failed. Faults are part of
// the domain's data model: a failed call still produces a persistable record.
type FaultCategory string

const (
	// FaultValidation covers request rejection before any network activity.
	FaultValidation FaultCategory = "validation"
	// FaultTransport covers connection, status, and read failures, including
	// streams severed mid-flight.
	FaultTransport FaultCategory = "transport"
	// FaultProtocol covers responses that arrive but cannot be interpreted.
	FaultProtocol FaultCategory = "protocol"
	// FaultUnexpected covers failures outside the anticipated taxonomy.
	FaultUnexpected FaultCategory = "unexpected"
)

// Fault is a classified inference failure. It satisfies error so callers can
// propagate it, and carries a stable category so callers can record it.
type Fault struct {
	Category FaultCategory
	Message  string
	cause    error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s fault: %s", f.Category, f.Message)
}

func (f *Fault) Unwrap() error {
	return f.cause
}

func validationFault(err error) *Fault {
	return &Fault{Category: FaultValidation, Message: err.Error(), cause: err}
}

func transportFault(format string, args ...any) *Fault {
	return &Fault{Category: FaultTransport, Message: fmt.Sprintf(format, args...)}
}

func protocolFault(format string, args ...any) *Fault {
	return &Fault{Category: FaultProtocol, Message: fmt.Sprintf(format, args...)}
}

func unexpectedFault(err error) *Fault {
	return &Fault{Category: FaultUnexpected, Message: err.Error(), cause: err}
}

// AsFault extracts a Fault from an error chain. Errors produced outside the
// client collapse into the unexpected category.
func AsFault(err error) *Fault {
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return &Fault{Category: FaultUnexpected, Message: err.Error(), cause: err}
}

// MapHTTPStatus maps inference errors onto response status codes.
func MapHTTPStatus(err error) int {
	switch AsFault(err).Category {
	case FaultValidation:
		return http.StatusBadRequest
	case FaultTransport, FaultProtocol:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
