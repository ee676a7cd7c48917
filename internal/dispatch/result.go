package dispatch

// Result is the uniform outcome of a dispatched operation. Exactly one of
// the two branches is populated: Payload on success, Message on failure.
// Deprecation is set on successful results of deprecated operations.
type Result struct {
	Kind        Kind
	Payload     any
	Message     string
	Deprecation string
}

// OK reports whether the operation succeeded.
func (r *Result) OK() bool {
	return r.Kind == KindSuccess
}

func success(payload any) *Result {
	return &Result{Kind: KindSuccess, Payload: payload}
}

func failure(kind Kind, message string) *Result {
	return &Result{Kind: kind, Message: message}
}
