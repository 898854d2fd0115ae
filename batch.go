package load

// Execute processes pr's queue items strictly in document order with a single
// advancing cursor: external items go through Request, inline items are
// evaluated synchronously, empty items are skipped. Item N+1 is never
// dispatched before item N's side effect has completed, regardless of
// per-item latency. onDone, if non-nil, runs after the last item; for an
// empty queue it runs synchronously.
func (l *Loader) Execute(pr ParseResult, onDone func()) {
	l.step(pr.Items, 0, onDone)
}

func (l *Loader) step(items []Item, i int, onDone func()) {
	for ; i < len(items); i++ {
		item := items[i]
		switch item.Kind {
		case ItemExternal:
			next := i + 1
			l.Request(item.Locator,
				WithGroup(item.Group),
				WithOnLoad(func() {
					l.step(items, next, onDone)
				}),
			)
			return
		case ItemInline:
			// Evaluation failures are routed to extension OnError hooks by
			// Evaluate; the batch keeps advancing either way.
			_ = l.Evaluate(item.Text, nil)
		}
	}

	if onDone != nil {
		onDone()
	}
}

// PrimeBatch primes every external item of pr. Inline and empty items are
// ignored.
func (l *Loader) PrimeBatch(pr ParseResult) {
	for _, item := range pr.Items {
		if item.Kind == ItemExternal {
			l.Prime(item.Locator)
		}
	}
}
