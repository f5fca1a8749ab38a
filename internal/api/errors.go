package api

import "fmt"

// FetchErrorKind classifies why a fetch failed.
type FetchErrorKind int

const (
	// Timeout means the outbound call exceeded the client timeout.
	Timeout FetchErrorKind = iota + 1
	// Transport covers connection failures and non-2xx responses.
	Transport
	// Decode means the body was not valid JSON.
	Decode
)

func (k FetchErrorKind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case Transport:
		return "transport"
	case Decode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError is returned by Client.Fetch for every failure.
type FetchError struct {
	Kind   FetchErrorKind
	Detail string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("fetch %s error", e.Kind)
	}
	return fmt.Sprintf("fetch %s error: %s", e.Kind, e.Detail)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, &FetchError{Kind: Timeout}) match on kind alone.
func (e *FetchError) Is(target error) bool {
	t, ok := target.(*FetchError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Detail == "" && t.Err == nil
}

var (
	ErrTimeout   = &FetchError{Kind: Timeout}
	ErrTransport = &FetchError{Kind: Transport}
	ErrDecode    = &FetchError{Kind: Decode}
)
