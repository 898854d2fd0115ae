package load

import (
	"context"
	"sort"
	"sync"
)

// Loader coordinates asynchronous loading of script resources into an
// Environment. It guarantees at-most-one in-flight load per resource
// identifier, delivers completion callbacks in registration order, and
// replaces same-group resources only after their successor finishes loading.
//
// All mutations of the environment's handle namespace performed by the
// loader happen under a single lock; callback delivery happens outside it.
type Loader struct {
	mu      sync.Mutex
	env     Environment
	sched   Scheduler
	exts    []Extension
	pending *callbackSet
}

// New creates a loader over env with optional configuration
func New(env Environment, opts ...Option) *Loader {
	l := &Loader{
		env:     env,
		sched:   goScheduler{},
		pending: newCallbackSet(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Use registers an extension to the loader
func (l *Loader) Use(ext Extension) error {
	l.mu.Lock()
	l.exts = append(l.exts, ext)
	sort.SliceStable(l.exts, func(i, j int) bool {
		return l.exts[i].Order() < l.exts[j].Order()
	})
	l.mu.Unlock()

	return ext.Init(l)
}

// Request asks for the resource at locator, returning its live handle.
//
// Behavior depends on the resource's current state:
//   - already loaded: a WithOnLoad callback runs synchronously and the
//     existing handle is returned, with no environment mutation
//   - currently loading: a WithOnLoad callback joins the pending set for
//     that identifier; no second handle is created and no second fetch is
//     issued
//   - absent: a new handle is injected and its completion wired up; on the
//     first completion signal the loaded marker is set, prior same-group
//     handles are removed, and all pending callbacks are delivered in
//     registration order
func (l *Loader) Request(locator string, opts ...RequestOption) Handle {
	var cfg requestConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	id := Identify(locator)
	op := &Operation{
		Kind:    OpRequest,
		Locator: locator,
		ID:      id,
		Group:   cfg.group,
		Loader:  l,
	}

	result, _ := l.wrap(op, func() (any, error) {
		return l.request(id, locator, cfg), nil
	})
	h, _ := result.(Handle)
	return h
}

func (l *Loader) request(id, locator string, cfg requestConfig) Handle {
	l.mu.Lock()

	if h, ok := l.env.Lookup(id); ok {
		if h.Attr(AttrLoaded) == attrLoadedTrue {
			l.mu.Unlock()
			if cfg.onLoad != nil {
				cfg.onLoad()
			}
			return h
		}

		// In flight: join the pending set instead of fetching again.
		if cfg.onLoad != nil {
			l.pending.register(id, cfg.onLoad)
		}
		l.mu.Unlock()
		return h
	}

	// Capture the group-mates to supersede before injecting the successor.
	// They stay attached until the new load completes, so a failed successor
	// never costs the group its current resource.
	var supersede []Handle
	if cfg.group != "" {
		supersede = l.env.ByGroup(cfg.group)
	}

	h := l.env.Inject(id, locator, cfg.group)
	if cfg.onLoad != nil {
		l.pending.register(id, cfg.onLoad)
	}
	l.mu.Unlock()

	h.OnComplete(oneShot(func() {
		l.sched.Defer(func() {
			l.finish(h, supersede)
		})
	}))
	return h
}

// finish runs on the scheduling tick after a load's first completion signal.
// supersede is threaded through explicitly from the originating request.
func (l *Loader) finish(h Handle, supersede []Handle) {
	l.mu.Lock()

	// A release or a group supersession may have detached the handle while
	// the load was in flight; its completion must not be observed.
	cur, ok := l.env.Lookup(h.ID())
	if !ok || cur != h {
		l.mu.Unlock()
		return
	}

	h.SetAttr(AttrLoaded, attrLoadedTrue)
	for _, old := range supersede {
		if old == h {
			continue
		}
		l.env.Remove(old)
		l.pending.abandon(old.ID())
	}
	cbs := l.pending.take(h.ID())
	l.mu.Unlock()

	op := &Operation{
		Kind:    OpComplete,
		Locator: h.Locator(),
		ID:      h.ID(),
		Group:   h.Group(),
		Loader:  l,
	}
	l.wrap(op, func() (any, error) {
		for _, cb := range cbs {
			cb()
		}
		return nil, nil
	})
}

// Release unloads the resource at locator: pending callbacks are abandoned
// and the handle is detached. An in-flight fetch is not canceled; its
// completion simply is never observed.
func (l *Loader) Release(locator string) {
	id := Identify(locator)
	op := &Operation{
		Kind:    OpRelease,
		Locator: locator,
		ID:      id,
		Loader:  l,
	}

	l.wrap(op, func() (any, error) {
		l.mu.Lock()
		l.pending.abandon(id)
		if h, ok := l.env.Lookup(id); ok {
			l.env.Remove(h)
		}
		l.mu.Unlock()
		return nil, nil
	})
}

// Evaluate executes literal script text in the environment immediately. If cb
// is non-nil it runs synchronously after a successful evaluation.
func (l *Loader) Evaluate(text string, cb func()) error {
	op := &Operation{
		Kind:   OpEvaluate,
		Loader: l,
	}

	_, err := l.wrap(op, func() (any, error) {
		if err := l.env.Eval(text); err != nil {
			return nil, &EvalError{Text: text, Cause: err}
		}
		return nil, nil
	})
	if err != nil {
		return err
	}
	if cb != nil {
		cb()
	}
	return nil
}

// wrap chains registered extensions around fn (middleware pattern, last
// registered wraps first) and routes errors to their OnError hooks.
func (l *Loader) wrap(op *Operation, fn func() (any, error)) (any, error) {
	l.mu.Lock()
	exts := make([]Extension, len(l.exts))
	copy(exts, l.exts)
	l.mu.Unlock()

	next := fn
	for i := len(exts) - 1; i >= 0; i-- {
		ext := exts[i]
		currentNext := next
		next = func() (any, error) {
			return ext.Wrap(context.Background(), currentNext, op)
		}
	}

	result, err := next()
	if err != nil {
		for _, ext := range exts {
			ext.OnError(err, op, l)
		}
	}
	return result, err
}
