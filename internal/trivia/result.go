package trivia

import "context"

// Kind tags the outcome of a question fetch. Anything other than KindOK is a
// failure; the remaining kinds only describe why.
type Kind string

const (
	KindOK            Kind = "ok"
	KindTimeout       Kind = "timeout"
	KindCannotConnect Kind = "cannot-connect"
	KindServer        Kind = "server"
	KindUnauthorized  Kind = "unauthorized"
	KindForbidden     Kind = "forbidden"
	KindNotFound      Kind = "not-found"
	KindRejected      Kind = "rejected"
	KindUnknown       Kind = "unknown"
	KindBadData       Kind = "bad-data"
)

// Result is what a Source hands back for one fetch. Questions is only
// meaningful when Kind is KindOK; Err optionally carries the underlying cause.
type Result struct {
	Kind      Kind
	Questions []QuestionRecord
	Err       error
}

func (r Result) OK() bool {
	return r.Kind == KindOK
}

// Source fetches the question set for a refresh.
type Source interface {
	GetQuestions(ctx context.Context) Result
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context) Result

func (f SourceFunc) GetQuestions(ctx context.Context) Result {
	return f(ctx)
}
