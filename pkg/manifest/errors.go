package manifest

import "fmt"

// InternalConsistencyError reports a document state the generator
// cannot render. A validated Document can never trigger one; seeing it
// means a bug upstream, so callers must treat it as fatal.
type InternalConsistencyError struct {
	Section string
	Detail  string
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("internal consistency error in %s: %s", e.Section, e.Detail)
}

func newInternalError(section, format string, args ...interface{}) *InternalConsistencyError {
	return &InternalConsistencyError{Section: section, Detail: fmt.Sprintf(format, args...)}
}
