package load

import (
	"strings"
	"testing"
)

func TestIdentifyDeterministic(t *testing.T) {
	locators := []string{
		"a.js",
		"https://cdn.example.com/app.js",
		"https://cdn.example.com/app.js?v=2",
		"/static/vendor/jquery.min.js",
		"",
	}

	for _, locator := range locators {
		first := Identify(locator)
		second := Identify(locator)
		if first != second {
			t.Errorf("Identify(%q) not deterministic: %q vs %q", locator, first, second)
		}
		if !strings.HasPrefix(first, idPrefix) {
			t.Errorf("Identify(%q) = %q, missing %q prefix", locator, first, idPrefix)
		}
	}
}

func TestIdentifyDistinct(t *testing.T) {
	corpus := []string{
		"a.js", "b.js", "a.js?v=1", "a.js?v=2", "A.js",
		"https://cdn.example.com/a.js",
		"https://cdn.example.com/b.js",
		"https://other.example.com/a.js",
		"/a.js", "./a.js", "../a.js",
	}

	seen := make(map[string]string, len(corpus))
	for _, locator := range corpus {
		id := Identify(locator)
		if prior, ok := seen[id]; ok {
			t.Fatalf("collision: Identify(%q) == Identify(%q) == %q", locator, prior, id)
		}
		seen[id] = locator
	}
}
