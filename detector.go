package load

import "sync"

// oneShot wraps fn so the body runs at most once no matter how many times the
// returned function is invoked. Legacy environments can raise the completion
// event for a single resource more than once; every completion source the
// loader observes goes through this latch.
func oneShot(fn func()) func() {
	var once sync.Once
	return func() {
		once.Do(fn)
	}
}
