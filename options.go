package load

// Option is a modifier for loaders
type Option func(*Loader)

// WithScheduler returns an option that replaces the default goroutine-based
// scheduler. Tests use this to pump deferred work deterministically.
func WithScheduler(s Scheduler) Option {
	return func(l *Loader) {
		l.sched = s
	}
}

// WithExtension returns an option that registers an extension to a loader
func WithExtension(ext Extension) Option {
	return func(l *Loader) {
		if err := l.Use(ext); err != nil {
			panic(err)
		}
	}
}

type requestConfig struct {
	group  string
	onLoad func()
}

// RequestOption is a modifier for a single Request or Evaluate call
type RequestOption func(*requestConfig)

// WithGroup tags the requested resource with a logical group name. At most
// one resource per group is current; loading a new resource in a group
// removes the prior group-mates once the new load completes.
func WithGroup(name string) RequestOption {
	return func(cfg *requestConfig) {
		cfg.group = name
	}
}

// WithOnLoad registers a callback to run when the requested resource is
// available. For an already-loaded resource the callback runs synchronously;
// otherwise it is delivered after completion, in registration order relative
// to other callers.
func WithOnLoad(fn func()) RequestOption {
	return func(cfg *requestConfig) {
		cfg.onLoad = fn
	}
}
