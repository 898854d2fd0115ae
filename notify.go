package load

// callbackSet maps a resource identifier to the ordered list of callbacks
// awaiting that resource's completion. Delivery order is registration order.
// All methods assume the caller holds the loader's lock.
type callbackSet struct {
	byID map[string][]func()
}

func newCallbackSet() *callbackSet {
	return &callbackSet{byID: make(map[string][]func())}
}

// register appends fn to id's pending callbacks.
func (s *callbackSet) register(id string, fn func()) {
	s.byID[id] = append(s.byID[id], fn)
}

// take returns id's pending callbacks in registration order and clears them.
func (s *callbackSet) take(id string) []func() {
	fns := s.byID[id]
	delete(s.byID, id)
	return fns
}

// abandon drops id's pending callbacks without delivering them.
func (s *callbackSet) abandon(id string) {
	delete(s.byID, id)
}
