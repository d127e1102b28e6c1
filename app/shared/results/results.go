// Package results provides the generic success/failure envelope returned by
// application service operations. Infra errors travel as plain errors; domain
// failures travel in the Failure payload so callers can map them to responses
// without string matching.
package results

// OperationResult carries either a success payload or a domain failure payload.
// At most one side is set.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// Ok wraps a success payload.
func Ok[S any, F any](s S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &s}
}

// Fail wraps a domain failure payload.
func Fail[S any, F any](f F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &f}
}

// IsSuccess reports whether a success payload is present.
func (r OperationResult[S, F]) IsSuccess() bool { return r.Success != nil }

// IsFailure reports whether a failure payload is present.
func (r OperationResult[S, F]) IsFailure() bool { return r.Failure != nil }
