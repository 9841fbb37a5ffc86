// Package results defines the typed operation result passed from services to
// handlers. A service either errors (infrastructure), fails (domain), or
// succeeds; handlers map the latter two onto success/failure topics.
package results

// OperationResult carries the outcome of a service operation.
// Exactly one of Success or Failure is expected to be non-nil when Error is nil.
type OperationResult struct {
	Success any
	Failure any
	Error   error
}

// SuccessResult wraps a success payload.
func SuccessResult(payload any) OperationResult {
	return OperationResult{Success: payload}
}

// FailureResult wraps a domain failure payload.
func FailureResult(payload any) OperationResult {
	return OperationResult{Failure: payload}
}

// HandlerResult is a single outbound message produced by a handler.
type HandlerResult struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// MapToHandlerResults routes the result payload to the success or failure
// topic. A result with neither payload produces no messages.
func (r OperationResult) MapToHandlerResults(successTopic, failureTopic string) []HandlerResult {
	switch {
	case r.Success != nil:
		return []HandlerResult{{Topic: successTopic, Payload: r.Success}}
	case r.Failure != nil:
		return []HandlerResult{{Topic: failureTopic, Payload: r.Failure}}
	default:
		return nil
	}
}
