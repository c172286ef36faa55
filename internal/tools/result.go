package tools

import "fmt"

// ErrorKind classifies a failed tool call so callers can branch without reading text.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindInvalidArguments ErrorKind = "invalid_arguments"
	KindTransport        ErrorKind = "transport"
	KindHTTPStatus       ErrorKind = "http_status"
	KindUpstream         ErrorKind = "upstream"
)

type ToolError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ToolError) Error() string {
	return e.Message
}

// Result is either a value or a ToolError, never both.
type Result struct {
	Value string
	Err   *ToolError
}

func Ok(value string) Result {
	return Result{Value: value}
}

func Err(kind ErrorKind, format string, a ...interface{}) Result {
	return Result{Err: &ToolError{Kind: kind, Message: fmt.Sprintf(format, a...)}}
}

func (r Result) IsErr() bool {
	return r.Err != nil
}

// String renders the result for humans: the value, or the error text.
func (r Result) String() string {
	if r.Err != nil {
		return "Error: " + r.Err.Message
	}
	return r.Value
}
