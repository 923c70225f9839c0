package wordpair

import "fmt"

// FailureKind различает причины, по которым сработал запасной список.
type FailureKind string

const (
	FailureEmptyResponse    FailureKind = "empty_response"
	FailureMalformedPayload FailureKind = "malformed_payload"
	FailureTransport        FailureKind = "transport"
)

// GenerationError — внутренняя ошибка генерации. Наружу из Generate не уходит.
type GenerationError struct {
	Kind FailureKind
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is позволяет сравнивать по виду: errors.Is(err, &GenerationError{Kind: FailureTransport}).
func (e *GenerationError) Is(target error) bool {
	t, ok := target.(*GenerationError)
	if !ok {
		return false
	}
	return t.Err == nil && t.Kind == e.Kind
}

func failure(kind FailureKind, err error) *GenerationError {
	return &GenerationError{Kind: kind, Err: err}
}
