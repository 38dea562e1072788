package httpapi

// Result is the JSON envelope the frontend's axios interceptor expects:
// - code: 2000 on success
// - type: 'success' | 'error' | 'warning'
// - message: string
// - result: payload
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
	// ResultTokenExpired pairs with HTTP 401; the frontend interceptor
	// redirects to the sign-in page on this code.
	ResultTokenExpired = 60401
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

func FailToken(message string) Result[any] {
	return Result[any]{Code: ResultTokenExpired, Type: "error", Message: message, Result: nil}
}
