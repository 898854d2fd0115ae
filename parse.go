package load

import (
	"regexp"
	"strings"
)

// ItemKind discriminates the variants of a queue item.
type ItemKind uint8

const (
	// ItemEmpty is a matched construct with neither a locator nor text.
	ItemEmpty ItemKind = iota
	// ItemExternal references a resource by locator, optionally grouped.
	ItemExternal
	// ItemInline carries literal script text.
	ItemInline
)

// Item is one executable entry of a parsed queue.
type Item struct {
	Kind    ItemKind
	Locator string
	Group   string
	Text    string
}

// ParseResult holds the original markup, the markup with executable items
// stripped out, and the ordered item queue. Treat it as immutable once
// produced; Execute and PrimeBatch only read it.
type ParseResult struct {
	Original string
	Stripped string
	Items    []Item
}

var (
	scriptRe = regexp.MustCompile(`(?is)<script\b([^>]*)>(.*?)</script\s*>`)
	srcRe    = regexp.MustCompile(`(?i)\bsrc\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s>]+))`)
	groupRe  = regexp.MustCompile(`(?i)\bclass\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s>]+))`)
)

// Parse scans markup for script-tag constructs in document order and extracts
// them into an ordered item queue. A construct with a src attribute becomes
// an external item (its class attribute, if any, is the group name); one with
// inner text becomes an inline item; one with neither becomes an empty item.
// Matched constructs are removed from the stripped markup; everything else
// passes through untouched. Empty input yields an empty result without
// scanning.
func Parse(markup string) ParseResult {
	if markup == "" {
		return ParseResult{}
	}

	matches := scriptRe.FindAllStringSubmatchIndex(markup, -1)
	if matches == nil {
		return ParseResult{Original: markup, Stripped: markup}
	}

	var stripped strings.Builder
	items := make([]Item, 0, len(matches))
	last := 0
	for _, m := range matches {
		stripped.WriteString(markup[last:m[0]])
		last = m[1]

		attrs := markup[m[2]:m[3]]
		inner := markup[m[4]:m[5]]
		items = append(items, parseItem(attrs, inner))
	}
	stripped.WriteString(markup[last:])

	return ParseResult{
		Original: markup,
		Stripped: stripped.String(),
		Items:    items,
	}
}

func parseItem(attrs, inner string) Item {
	if src := firstSubmatch(srcRe, attrs); src != "" {
		return Item{
			Kind:    ItemExternal,
			Locator: src,
			Group:   firstSubmatch(groupRe, attrs),
		}
	}
	if strings.TrimSpace(inner) != "" {
		return Item{Kind: ItemInline, Text: inner}
	}
	return Item{Kind: ItemEmpty}
}

// firstSubmatch returns the first non-empty capture group of re's first match
// in s. The attribute patterns capture double-quoted, single-quoted and bare
// values as alternatives, so exactly one group is populated per match.
func firstSubmatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}
