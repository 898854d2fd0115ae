package load

// Scheduler defers work to a later scheduling tick. The loader uses it to
// normalize completion delivery: even when an environment signals completion
// synchronously, callbacks are delivered on a subsequent tick so callers see
// consistent asynchronous semantics.
type Scheduler interface {
	Defer(fn func())
}

// goScheduler is the default Scheduler; it defers onto a new goroutine.
type goScheduler struct{}

func (goScheduler) Defer(fn func()) {
	go fn()
}
