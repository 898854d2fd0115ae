// Package envtest provides a deterministic in-memory load.Environment, a
// manually pumped load.Scheduler, and instrumentation for asserting on
// network fetches, evaluations and handle lifecycles in tests.
package envtest

import (
	"sync"

	load "github.com/loadfn/load-go"
)

// Env is an in-memory Environment. Loads complete only when the test calls
// Complete, except for locators already in the shared cache, which signal
// completion synchronously at injection time (the way a host serves a cached
// resource). The primary context and its secondary context share the cache
// and the fetch counters, mirroring a host whose byte cache spans contexts.
type Env struct {
	mu        sync.Mutex
	handles   map[string]*Handle
	injected  map[string]*Handle
	order     []string
	events    []string
	secondary *Env
	evalErr   func(text string) error

	shared *sharedState
}

// sharedState spans the primary and secondary contexts.
type sharedState struct {
	mu      sync.Mutex
	cached  map[string]bool
	fetches map[string]int
}

// New constructs an empty primary environment.
func New() *Env {
	return &Env{
		handles:  make(map[string]*Handle),
		injected: make(map[string]*Handle),
		shared: &sharedState{
			cached:  make(map[string]bool),
			fetches: make(map[string]int),
		},
	}
}

// FailEval makes Eval consult fn first; a non-nil return is surfaced as the
// evaluation error.
func (e *Env) FailEval(fn func(text string) error) {
	e.evalErr = fn
}

// Lookup implements load.Environment.
func (e *Env) Lookup(id string) (load.Handle, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.handles[id]
	if !ok {
		return nil, false
	}
	return h, true
}

// ByGroup implements load.Environment.
func (e *Env) ByGroup(group string) []load.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []load.Handle
	for _, id := range e.order {
		if h := e.handles[id]; h != nil && h.group == group {
			out = append(out, h)
		}
	}
	return out
}

// Inject implements load.Environment. A locator already in the shared cache
// signals completion before Inject returns, exercising the caller's handling
// of synchronous completion.
func (e *Env) Inject(id, locator, group string) load.Handle {
	h := &Handle{
		id:      id,
		locator: locator,
		group:   group,
		attrs:   make(map[string]string),
	}

	e.mu.Lock()
	e.handles[id] = h
	e.injected[id] = h
	e.order = append(e.order, id)
	e.events = append(e.events, "inject:"+locator)
	e.mu.Unlock()

	e.shared.mu.Lock()
	cached := e.shared.cached[locator]
	if !cached {
		e.shared.fetches[locator]++
	}
	e.shared.mu.Unlock()

	if cached {
		h.complete()
	}
	return h
}

// Remove implements load.Environment.
func (e *Env) Remove(h load.Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cur, ok := e.handles[h.ID()]
	if !ok || load.Handle(cur) != h {
		return
	}
	delete(e.handles, h.ID())
	for i, id := range e.order {
		if id == h.ID() {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	e.events = append(e.events, "remove:"+h.Locator())
}

// Eval implements load.Environment.
func (e *Env) Eval(text string) error {
	if e.evalErr != nil {
		if err := e.evalErr(text); err != nil {
			return err
		}
	}
	e.mu.Lock()
	e.events = append(e.events, "eval:"+text)
	e.mu.Unlock()
	return nil
}

// Secondary implements load.Environment. The secondary context is created
// lazily and reused; it shares the cache and fetch counters with the primary.
func (e *Env) Secondary() load.Environment {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.secondary == nil {
		e.secondary = &Env{
			handles:  make(map[string]*Handle),
			injected: make(map[string]*Handle),
			shared:   e.shared,
		}
	}
	return e.secondary
}

// Complete signals load completion for the handle injected for locator, in
// the primary or the secondary context, and marks the locator cached. The
// signal reaches the handle even after it was detached: removal does not
// interrupt a dispatched fetch. Calling Complete again re-raises the signal,
// the way legacy hosts fire redundant load events. It reports whether a
// handle was found.
func (e *Env) Complete(locator string) bool {
	e.shared.mu.Lock()
	e.shared.cached[locator] = true
	e.shared.mu.Unlock()

	id := load.Identify(locator)
	e.mu.Lock()
	h, ok := e.injected[id]
	sec := e.secondary
	e.mu.Unlock()

	if ok {
		h.complete()
		return true
	}
	if sec != nil {
		return sec.Complete(locator)
	}
	return false
}

// Fetches returns how many network fetches were issued for locator across
// the primary and secondary contexts. Injections served from the shared
// cache do not count.
func (e *Env) Fetches(locator string) int {
	e.shared.mu.Lock()
	defer e.shared.mu.Unlock()
	return e.shared.fetches[locator]
}

// Attached returns the locators of currently attached primary handles in
// insertion order.
func (e *Env) Attached() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.handles[id].locator)
	}
	return out
}

// Primed reports whether the secondary context holds a handle for locator.
func (e *Env) Primed(locator string) bool {
	e.mu.Lock()
	sec := e.secondary
	e.mu.Unlock()
	if sec == nil {
		return false
	}
	_, ok := sec.Lookup(load.Identify(locator))
	return ok
}

// Events returns a snapshot of recorded primary-context events
// ("inject:<locator>", "eval:<text>", "remove:<locator>") in order.
func (e *Env) Events() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make([]string, len(e.events))
	copy(cp, e.events)
	return cp
}

// Handle is the in-memory load.Handle implementation.
type Handle struct {
	mu      sync.Mutex
	id      string
	locator string
	group   string
	attrs   map[string]string
	fns     []func()
	done    bool
}

func (h *Handle) ID() string      { return h.id }
func (h *Handle) Locator() string { return h.locator }
func (h *Handle) Group() string   { return h.group }

func (h *Handle) Attr(name string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.attrs[name]
}

func (h *Handle) SetAttr(name, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.attrs[name] = value
}

// OnComplete implements load.Handle. If the handle already completed, fn runs
// synchronously, the way hosts answer for cached resources.
func (h *Handle) OnComplete(fn func()) {
	h.mu.Lock()
	if h.done {
		h.mu.Unlock()
		fn()
		return
	}
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
}

func (h *Handle) complete() {
	h.mu.Lock()
	h.done = true
	fns := make([]func(), len(h.fns))
	copy(fns, h.fns)
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Scheduler is a manually pumped load.Scheduler. Deferred work queues up
// until the test calls Pump, making tick boundaries explicit.
type Scheduler struct {
	mu    sync.Mutex
	queue []func()
}

// NewScheduler constructs an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Defer implements load.Scheduler.
func (s *Scheduler) Defer(fn func()) {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
}

// Pump runs deferred work, including work deferred while pumping, until the
// queue drains. It returns the number of tasks run.
func (s *Scheduler) Pump() int {
	n := 0
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return n
		}
		fn := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		fn()
		n++
	}
}

// Len returns the number of queued tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
