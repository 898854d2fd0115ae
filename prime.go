package load

// Prime requests the resource's bytes ahead of need without executing them.
//
// If a live handle for the locator's identifier already exists in the primary
// environment the call is a no-op: the resource is already loaded or loading
// there. Otherwise the environment's secondary context is ensured and, one
// scheduling tick later, a fetch-only request is injected into it under the
// same identifier. Priming an already-primed identifier is a no-op.
//
// The tick deferral tolerates environments that need the secondary context
// fully attached before it can carry a request.
func (l *Loader) Prime(locator string) {
	id := Identify(locator)
	op := &Operation{
		Kind:    OpPrime,
		Locator: locator,
		ID:      id,
		Loader:  l,
	}

	l.wrap(op, func() (any, error) {
		l.mu.Lock()
		_, inPrimary := l.env.Lookup(id)
		l.mu.Unlock()
		if inPrimary {
			return nil, nil
		}

		sec := l.env.Secondary()
		l.sched.Defer(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if _, ok := sec.Lookup(id); ok {
				return
			}
			sec.Inject(id, locator, "")
		})
		return nil, nil
	})
}
