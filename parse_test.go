package load

import "testing"

func TestParseSingleExternal(t *testing.T) {
	pr := Parse(`<script src="a.js"></script>rest`)

	if pr.Original != `<script src="a.js"></script>rest` {
		t.Errorf("original markup not preserved: %q", pr.Original)
	}
	if pr.Stripped != "rest" {
		t.Errorf("expected stripped %q, got %q", "rest", pr.Stripped)
	}
	if len(pr.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(pr.Items))
	}
	item := pr.Items[0]
	if item.Kind != ItemExternal || item.Locator != "a.js" || item.Group != "" {
		t.Errorf("unexpected item: %+v", item)
	}
}

func TestParseEmptyInput(t *testing.T) {
	pr := Parse("")
	if pr.Original != "" || pr.Stripped != "" || len(pr.Items) != 0 {
		t.Errorf("expected empty result, got %+v", pr)
	}
}

func TestParseNoScripts(t *testing.T) {
	markup := "<div>hello</div><p>world</p>"
	pr := Parse(markup)
	if pr.Stripped != markup {
		t.Errorf("non-script markup altered: %q", pr.Stripped)
	}
	if len(pr.Items) != 0 {
		t.Errorf("expected no items, got %d", len(pr.Items))
	}
}

func TestParseMixedQueue(t *testing.T) {
	markup := `<p>before</p>` +
		`<script src="a.js" class="app"></script>` +
		`<script>doWork();</script>` +
		`<script src='b.js'></script>` +
		`<script></script>` +
		`<p>after</p>`

	pr := Parse(markup)

	if len(pr.Items) != 4 {
		t.Fatalf("expected 4 items, got %d: %+v", len(pr.Items), pr.Items)
	}

	want := []Item{
		{Kind: ItemExternal, Locator: "a.js", Group: "app"},
		{Kind: ItemInline, Text: "doWork();"},
		{Kind: ItemExternal, Locator: "b.js"},
		{Kind: ItemEmpty},
	}
	for i, w := range want {
		if pr.Items[i] != w {
			t.Errorf("item %d: expected %+v, got %+v", i, w, pr.Items[i])
		}
	}

	if pr.Stripped != "<p>before</p><p>after</p>" {
		t.Errorf("unexpected stripped markup: %q", pr.Stripped)
	}
	if pr.Original != markup {
		t.Error("original markup not preserved")
	}
}

func TestParseAttributeVariants(t *testing.T) {
	tests := []struct {
		name    string
		markup  string
		locator string
		group   string
	}{
		{"double quoted", `<script src="x/y.js"></script>`, "x/y.js", ""},
		{"single quoted", `<script src='x.js' class='grp'></script>`, "x.js", "grp"},
		{"unquoted", `<script src=x.js></script>`, "x.js", ""},
		{"uppercase tag", `<SCRIPT SRC="x.js"></SCRIPT>`, "x.js", ""},
		{"attrs reordered", `<script class="grp" type="text/javascript" src="x.js"></script>`, "x.js", "grp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := Parse(tt.markup)
			if len(pr.Items) != 1 {
				t.Fatalf("expected 1 item, got %d", len(pr.Items))
			}
			item := pr.Items[0]
			if item.Kind != ItemExternal {
				t.Fatalf("expected external item, got %+v", item)
			}
			if item.Locator != tt.locator {
				t.Errorf("expected locator %q, got %q", tt.locator, item.Locator)
			}
			if item.Group != tt.group {
				t.Errorf("expected group %q, got %q", tt.group, item.Group)
			}
		})
	}
}

func TestParseInlineKeepsVerbatimText(t *testing.T) {
	pr := Parse("<script>\n  if (a < b) { run(); }\n</script>")
	if len(pr.Items) != 1 || pr.Items[0].Kind != ItemInline {
		t.Fatalf("expected 1 inline item, got %+v", pr.Items)
	}
	if pr.Items[0].Text != "\n  if (a < b) { run(); }\n" {
		t.Errorf("inline text altered: %q", pr.Items[0].Text)
	}
}

func TestParseExternalWinsOverInlineText(t *testing.T) {
	// A src attribute makes the construct external even when the tag body
	// carries text; the body is not evaluated.
	pr := Parse(`<script src="a.js">fallback();</script>`)
	if len(pr.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(pr.Items))
	}
	if pr.Items[0].Kind != ItemExternal || pr.Items[0].Locator != "a.js" {
		t.Errorf("unexpected item: %+v", pr.Items[0])
	}
}
