package load

import "context"

// Extension provides hooks into the loader's operation lifecycle
type Extension interface {
	// Name returns the extension's name
	Name() string

	// Order determines extension execution order (lower = earlier)
	Order() int

	// Init is called when the extension is registered to a loader
	Init(l *Loader) error

	// Wrap intercepts operations (request, release, evaluate, prime, complete)
	Wrap(ctx context.Context, next func() (any, error), op *Operation) (any, error)

	// OnError handles errors raised by an operation
	OnError(err error, op *Operation, l *Loader)
}

// BaseExtension provides default implementations for Extension methods
type BaseExtension struct {
	name string
}

// NewBaseExtension creates a new base extension with the given name
func NewBaseExtension(name string) BaseExtension {
	return BaseExtension{name: name}
}

func (e *BaseExtension) Name() string {
	return e.name
}

func (e *BaseExtension) Order() int {
	return 100
}

func (e *BaseExtension) Init(l *Loader) error {
	return nil
}

func (e *BaseExtension) Wrap(ctx context.Context, next func() (any, error), op *Operation) (any, error) {
	return next()
}

func (e *BaseExtension) OnError(err error, op *Operation, l *Loader) {
}

// Operation describes what operation is happening
type Operation struct {
	Kind    OperationKind
	Locator string
	ID      string
	Group   string
	Loader  *Loader
}

// OperationKind represents the type of operation
type OperationKind string

const (
	// OpRequest indicates a resource request
	OpRequest OperationKind = "request"
	// OpRelease indicates an explicit unload
	OpRelease OperationKind = "release"
	// OpEvaluate indicates inline script evaluation
	OpEvaluate OperationKind = "evaluate"
	// OpPrime indicates a cache-priming fetch
	OpPrime OperationKind = "prime"
	// OpComplete indicates a load finishing and its callbacks being delivered
	OpComplete OperationKind = "complete"
)
