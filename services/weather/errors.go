package weather

import "fmt"

// ErrorKind classifies a failed service call.
type ErrorKind int

const (
	InvalidInput ErrorKind = iota + 1
	FetchFailed
	APIError
	ParseFailed
	PersistFailed
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidInput:
		return "invalid input"
	case FetchFailed:
		return "fetch failed"
	case APIError:
		return "api error"
	case ParseFailed:
		return "parse failed"
	case PersistFailed:
		return "persist failed"
	default:
		return "unknown error"
	}
}

// Error is the typed failure returned by Service. For ParseFailed, Detail is
// the dotted path of the missing key; for APIError it is the remote message.
type Error struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == ParseFailed:
		return fmt.Sprintf("%s: missing or invalid key %q", e.Kind, e.Detail)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels such as ErrAPI by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Detail == "" && t.Err == nil
}

var (
	ErrInvalidInput  = &Error{Kind: InvalidInput}
	ErrFetchFailed   = &Error{Kind: FetchFailed}
	ErrAPI           = &Error{Kind: APIError}
	ErrParseFailed   = &Error{Kind: ParseFailed}
	ErrPersistFailed = &Error{Kind: PersistFailed}
)
