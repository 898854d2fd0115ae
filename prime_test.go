package load_test

import (
	"testing"

	load "github.com/loadfn/load-go"
)

func TestPrimeFetchesWithoutExecuting(t *testing.T) {
	l, env, sched := newLoader(t)

	l.Prime("later.js")
	if env.Primed("later.js") {
		t.Fatal("prime injected before the next tick")
	}

	sched.Pump()

	if !env.Primed("later.js") {
		t.Fatal("prime never reached the secondary context")
	}
	if got := env.Fetches("later.js"); got != 1 {
		t.Errorf("expected 1 fetch, got %d", got)
	}
	if got := len(env.Attached()); got != 0 {
		t.Errorf("prime touched the primary context: %d handles", got)
	}
	wantEvents(t, env)
}

func TestPrimeIsIdempotent(t *testing.T) {
	l, env, sched := newLoader(t)

	l.Prime("later.js")
	sched.Pump()
	l.Prime("later.js")
	sched.Pump()

	if got := env.Fetches("later.js"); got != 1 {
		t.Errorf("expected a single fetch across repeated primes, got %d", got)
	}
}

func TestPrimeThenRequestSingleFetch(t *testing.T) {
	l, env, sched := newLoader(t)

	l.Prime("app.js")
	sched.Pump()
	env.Complete("app.js")

	fired := false
	l.Request("app.js", load.WithOnLoad(func() { fired = true }))
	sched.Pump()

	if !fired {
		t.Fatal("request after prime never delivered its callback")
	}
	if got := env.Fetches("app.js"); got != 1 {
		t.Errorf("request after prime issued a second fetch: %d total", got)
	}
}

func TestPrimeNoOpWhenPrimaryHasHandle(t *testing.T) {
	l, env, sched := newLoader(t)

	l.Request("app.js")
	l.Prime("app.js")
	sched.Pump()

	if env.Primed("app.js") {
		t.Error("prime injected despite a live primary handle")
	}
	if got := env.Fetches("app.js"); got != 1 {
		t.Errorf("expected 1 fetch, got %d", got)
	}
}

func TestPrimeBatchPrimesExternalItemsOnly(t *testing.T) {
	l, env, sched := newLoader(t)

	pr := load.Parse(`<script src="a.js"></script><script>x()</script><script src="b.js" class="g"></script>`)
	l.PrimeBatch(pr)
	sched.Pump()

	if !env.Primed("a.js") || !env.Primed("b.js") {
		t.Error("external items not primed")
	}
	wantEvents(t, env)
}
