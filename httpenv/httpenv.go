// Package httpenv implements load.Environment over net/http.
//
// Script bodies are fetched with a singleflight group so concurrent
// injections of the same URL share one request, and cached in a body cache
// shared between the primary context and its secondary (cache-priming)
// context. Execution is delegated to a host-supplied hook; the secondary
// context carries no hook, so priming fetches without executing.
package httpenv

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	load "github.com/loadfn/load-go"
)

// ExecuteFunc runs a fetched script body in the host.
type ExecuteFunc func(locator string, body []byte) error

// EvalFunc runs literal inline script text in the host.
type EvalFunc func(text string) error

// Env is an HTTP-backed load.Environment.
type Env struct {
	client  *http.Client
	baseURL *url.URL
	execute ExecuteFunc
	eval    EvalFunc
	logger  *slog.Logger

	sf    *singleflight.Group
	cache *bodyCache

	mu        sync.Mutex
	handles   map[string]*handle
	order     []string
	secondary *Env
}

// Option is a modifier for environments
type Option func(*Env)

// WithClient replaces the default http.DefaultClient.
func WithClient(c *http.Client) Option {
	return func(e *Env) {
		e.client = c
	}
}

// WithBaseURL resolves relative locators against base. It panics on an
// unparsable base, like a malformed flag value at startup.
func WithBaseURL(base string) Option {
	u, err := url.Parse(base)
	if err != nil {
		panic(fmt.Sprintf("httpenv: bad base URL %q: %v", base, err))
	}
	return func(e *Env) {
		e.baseURL = u
	}
}

// WithExecuteFunc sets the hook that runs fetched script bodies.
func WithExecuteFunc(fn ExecuteFunc) Option {
	return func(e *Env) {
		e.execute = fn
	}
}

// WithEvalFunc sets the hook that runs inline script text.
func WithEvalFunc(fn EvalFunc) Option {
	return func(e *Env) {
		e.eval = fn
	}
}

// WithLogger replaces the default slog.Default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Env) {
		e.logger = logger
	}
}

// New constructs a primary environment with optional configuration
func New(opts ...Option) *Env {
	e := &Env{
		client:  http.DefaultClient,
		logger:  slog.Default(),
		sf:      &singleflight.Group{},
		cache:   newBodyCache(),
		handles: make(map[string]*handle),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
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

// Inject implements load.Environment. The fetch runs on its own goroutine;
// the handle signals completion once the body is fetched and, in the primary
// context, executed.
func (e *Env) Inject(id, locator, group string) load.Handle {
	h := &handle{
		id:      id,
		locator: locator,
		group:   group,
		attrs:   make(map[string]string),
	}

	e.mu.Lock()
	e.handles[id] = h
	e.order = append(e.order, id)
	e.mu.Unlock()

	go e.fetch(h)
	return h
}

func (e *Env) fetch(h *handle) {
	target := e.resolve(h.locator)
	log := e.logger.With(
		"fetch_id", uuid.NewString(),
		"locator", h.locator,
		"url", target,
	)

	body, err := e.load(target)
	if err != nil {
		// No error channel toward the loader: a failed fetch leaves the
		// handle permanently incomplete and its observers parked.
		log.Error("script fetch failed", "error", err)
		return
	}

	if e.execute != nil {
		if err := e.execute(h.locator, body); err != nil {
			log.Error("script execution failed", "error", err)
			return
		}
	}

	log.Debug("script ready", "bytes", len(body))
	h.complete()
}

// load returns target's body, serving repeats from the shared cache and
// collapsing concurrent fetches of the same URL into one request.
func (e *Env) load(target string) ([]byte, error) {
	if body, ok := e.cache.get(target); ok {
		return body, nil
	}

	v, err, _ := e.sf.Do(target, func() (any, error) {
		if body, ok := e.cache.get(target); ok {
			return body, nil
		}

		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		resp, err := e.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: unexpected status %s", target, resp.Status)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		e.cache.put(target, body)
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (e *Env) resolve(locator string) string {
	if e.baseURL == nil {
		return locator
	}
	ref, err := url.Parse(locator)
	if err != nil {
		return locator
	}
	return e.baseURL.ResolveReference(ref).String()
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
}

// Eval implements load.Environment. Without an eval hook inline scripts are
// dropped with a warning: this adapter has nothing to run them in.
func (e *Env) Eval(text string) error {
	if e.eval == nil {
		e.logger.Warn("inline script dropped: no eval hook configured", "bytes", len(text))
		return nil
	}
	return e.eval(text)
}

// Secondary implements load.Environment. The secondary context shares the
// client, the singleflight group and the body cache, but has no execute
// hook: anything injected into it is fetched without being run.
func (e *Env) Secondary() load.Environment {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.secondary == nil {
		e.secondary = &Env{
			client:  e.client,
			baseURL: e.baseURL,
			logger:  e.logger,
			sf:      e.sf,
			cache:   e.cache,
			handles: make(map[string]*handle),
		}
	}
	return e.secondary
}

type bodyCache struct {
	mu     sync.Mutex
	bodies map[string][]byte
}

func newBodyCache() *bodyCache {
	return &bodyCache{bodies: make(map[string][]byte)}
}

func (c *bodyCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.bodies[key]
	return body, ok
}

func (c *bodyCache) put(key string, body []byte) {
	c.mu.Lock()
	c.bodies[key] = body
	c.mu.Unlock()
}

type handle struct {
	mu      sync.Mutex
	id      string
	locator string
	group   string
	attrs   map[string]string
	fns     []func()
	done    bool
}

func (h *handle) ID() string      { return h.id }
func (h *handle) Locator() string { return h.locator }
func (h *handle) Group() string   { return h.group }

func (h *handle) Attr(name string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.attrs[name]
}

func (h *handle) SetAttr(name, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.attrs[name] = value
}

func (h *handle) OnComplete(fn func()) {
	h.mu.Lock()
	if h.done {
		h.mu.Unlock()
		fn()
		return
	}
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
}

func (h *handle) complete() {
	h.mu.Lock()
	h.done = true
	fns := make([]func(), len(h.fns))
	copy(fns, h.fns)
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
