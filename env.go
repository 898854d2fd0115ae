package load

// AttrLoaded is the handle attribute the loader sets once a resource's load
// has completed. Environments store it like any other attribute; callers can
// read it through Handle.Attr to distinguish loaded from in-flight handles.
const AttrLoaded = "data-loaded"

const attrLoadedTrue = "true"

// Environment is the capability set the loader needs from its host. A real
// host wires this to its document (see the httpenv package for an HTTP-backed
// implementation); tests substitute a fake (see the envtest package).
//
// Implementations must return the same Handle value for the same live
// element across calls: the loader compares handles by interface identity to
// decide whether a completion signal still refers to an attached resource.
type Environment interface {
	// Lookup returns the live handle registered under id, if any.
	Lookup(id string) (Handle, bool)

	// ByGroup returns all live handles carrying the given group tag, in
	// insertion order.
	ByGroup(group string) []Handle

	// Inject creates a new live handle for locator under id, attaches it to
	// the environment, and starts the host's native load for it. Injecting
	// into a secondary context (see Secondary) fetches without executing.
	Inject(id, locator, group string) Handle

	// Remove detaches h from the environment. It must not interrupt an
	// already-dispatched fetch; it only makes the handle unreachable via
	// Lookup and ByGroup.
	Remove(h Handle)

	// Eval executes literal script text in the environment.
	Eval(text string) error

	// Secondary returns an isolated context used for cache priming. It is
	// created lazily on first use and reused afterwards.
	Secondary() Environment
}

// Handle is the environment-resident representation of a requested resource.
type Handle interface {
	// ID returns the identifier the handle was injected under.
	ID() string

	// Locator returns the resource locator the handle was created for.
	Locator() string

	// Group returns the logical group tag, or "" if none.
	Group() string

	// Attr reads a string attribute by name; missing attributes read as "".
	Attr(name string) string

	// SetAttr writes a string attribute.
	SetAttr(name, value string)

	// OnComplete arranges for fn to run when the underlying load finishes.
	// Environments may signal synchronously for already-cached resources and
	// may signal more than once; the loader absorbs both behaviors.
	OnComplete(fn func())
}
