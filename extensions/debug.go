package extensions

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	load "github.com/loadfn/load-go"
)

// StateDebugExtension tracks each resource's lifecycle across loader
// operations and logs a registry dump when an operation fails.
//
// Usage:
//
//	// Structured JSON logging
//	ext := extensions.NewStateDebugExtension(slog.NewJSONHandler(os.Stdout, nil))
//
//	// Silent (for testing)
//	ext := extensions.NewStateDebugExtension(extensions.NewSilentHandler())
//
//	loader.Use(ext)
type StateDebugExtension struct {
	load.BaseExtension

	mu       sync.Mutex
	states   map[string]string
	locators map[string]string
	groups   map[string][]string
	logger   *slog.Logger
}

// Resource lifecycle states tracked by StateDebugExtension.
const (
	stateLoading  = "loading"
	stateLoaded   = "loaded"
	stateReleased = "released"
	statePrimed   = "primed"
)

// NewStateDebugExtension creates a new state debug extension
func NewStateDebugExtension(logHandler slog.Handler) *StateDebugExtension {
	return &StateDebugExtension{
		BaseExtension: load.NewBaseExtension("state-debug"),
		states:        make(map[string]string),
		locators:      make(map[string]string),
		groups:        make(map[string][]string),
		logger:        slog.New(logHandler),
	}
}

// Wrap records lifecycle transitions after each operation
func (e *StateDebugExtension) Wrap(ctx context.Context, next func() (any, error), op *load.Operation) (any, error) {
	result, err := next()
	if err != nil || op.ID == "" {
		return result, err
	}

	e.mu.Lock()
	switch op.Kind {
	case load.OpRequest:
		if e.states[op.ID] != stateLoaded {
			e.states[op.ID] = stateLoading
		}
		e.track(op)
	case load.OpComplete:
		e.states[op.ID] = stateLoaded
		e.track(op)
	case load.OpRelease:
		if _, known := e.states[op.ID]; known {
			e.states[op.ID] = stateReleased
		}
	case load.OpPrime:
		if _, known := e.states[op.ID]; !known {
			e.states[op.ID] = statePrimed
			e.track(op)
		}
	}
	e.mu.Unlock()

	return result, err
}

// OnError logs the registry dump when an operation fails
func (e *StateDebugExtension) OnError(err error, op *load.Operation, l *load.Loader) {
	e.logger.Error("loader operation failed",
		"kind", string(op.Kind),
		"locator", op.Locator,
		"error", err.Error(),
		"registry", e.Dump(),
	)
}

// track assumes e.mu is held.
func (e *StateDebugExtension) track(op *load.Operation) {
	if op.Locator != "" {
		e.locators[op.ID] = op.Locator
	}
	group := op.Group
	if group == "" {
		group = "(ungrouped)"
	}
	for _, id := range e.groups[group] {
		if id == op.ID {
			return
		}
	}
	e.groups[group] = append(e.groups[group], op.ID)
}

// Dump renders the tracked registry as a grouped tree.
func (e *StateDebugExtension) Dump() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.groups) == 0 {
		return "\n(empty - no resources tracked)"
	}

	groupNames := make([]string, 0, len(e.groups))
	for name := range e.groups {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	var sb strings.Builder
	sb.WriteString("\n")
	for _, name := range groupNames {
		ids := e.groups[name]
		sb.WriteString(fmt.Sprintf("  %s\n", name))
		for i, id := range ids {
			label := e.locators[id]
			if label == "" {
				label = id
			}
			line := fmt.Sprintf("%s [%s]", label, e.states[id])
			if i == len(ids)-1 {
				sb.WriteString(fmt.Sprintf("    └─> %s\n", line))
			} else {
				sb.WriteString(fmt.Sprintf("    ├─> %s\n", line))
			}
		}
	}
	return sb.String()
}

// SilentHandler is a slog.Handler that discards all log output
// Useful for testing when you don't want log output
type SilentHandler struct{}

// NewSilentHandler creates a new silent log handler
func NewSilentHandler() *SilentHandler {
	return &SilentHandler{}
}

func (h *SilentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return false
}

func (h *SilentHandler) Handle(ctx context.Context, record slog.Record) error {
	return nil
}

func (h *SilentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *SilentHandler) WithGroup(name string) slog.Handler {
	return h
}
