package load

import "fmt"

// EvalError reports a failure to evaluate inline script text in the
// environment. It is the only error surfaced by the loader: hung loads are
// silently unresolved and duplicate requests are the expected
// de-duplication path, not errors.
type EvalError struct {
	Text  string
	Cause error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("eval error in inline script (%d bytes): %v", len(e.Text), e.Cause)
}

func (e *EvalError) Unwrap() error {
	return e.Cause
}
