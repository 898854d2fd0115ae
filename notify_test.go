package load

import "testing"

func TestCallbackSetDeliveryOrder(t *testing.T) {
	set := newCallbackSet()

	var order []int
	for i := 1; i <= 4; i++ {
		i := i
		set.register("id", func() { order = append(order, i) })
	}

	for _, fn := range set.take("id") {
		fn()
	}

	if len(order) != 4 {
		t.Fatalf("expected 4 callbacks, got %d", len(order))
	}
	for i, got := range order {
		if got != i+1 {
			t.Errorf("callback %d delivered out of order: got %d", i, got)
		}
	}
}

func TestCallbackSetTakeClears(t *testing.T) {
	set := newCallbackSet()
	set.register("id", func() {})

	if got := set.take("id"); len(got) != 1 {
		t.Fatalf("expected 1 callback, got %d", len(got))
	}
	if got := set.take("id"); len(got) != 0 {
		t.Errorf("expected cleared set, got %d callbacks", len(got))
	}
}

func TestCallbackSetAbandon(t *testing.T) {
	set := newCallbackSet()
	fired := false
	set.register("id", func() { fired = true })
	set.register("other", func() {})

	set.abandon("id")

	if got := set.take("id"); len(got) != 0 {
		t.Errorf("expected abandoned set, got %d callbacks", len(got))
	}
	if fired {
		t.Error("abandoned callback fired")
	}
	if got := set.take("other"); len(got) != 1 {
		t.Errorf("abandon touched an unrelated identifier: got %d callbacks", len(got))
	}
}

func TestOneShot(t *testing.T) {
	count := 0
	fn := oneShot(func() { count++ })

	fn()
	fn()
	fn()

	if count != 1 {
		t.Errorf("expected single invocation, got %d", count)
	}
}
