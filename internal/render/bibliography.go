package render

import (
	"fmt"
	"strings"
)

// BibEntry is a single bibliography record.
type BibEntry struct {
	Type   string
	Key    string
	Fields [][2]string // ordered name/value pairs
}

// CLRS is the reference every chapter builds on.
var CLRS = BibEntry{
	Type: "book",
	Key:  "CLRS",
	Fields: [][2]string{
		{"author", "Thomas H. Cormen and Charles E. Leiserson and Ronald L. Rivest and Clifford Stein"},
		{"title", "Introduction to Algorithms"},
		{"edition", "Fourth"},
		{"publisher", "The MIT Press"},
		{"year", "2022"},
		{"address", "Cambridge, Massachusetts"},
	},
}

// Bibliography renders entries in BibTeX syntax. It defaults to CLRS alone.
func Bibliography(entries ...BibEntry) string {
	if len(entries) == 0 {
		entries = []BibEntry{CLRS}
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		width := 0
		for _, f := range e.Fields {
			width = max(width, len(f[0]))
		}
		fmt.Fprintf(&b, "@%s{%s,\n", e.Type, e.Key)
		for _, f := range e.Fields {
			fmt.Fprintf(&b, "    %-*s = {%s},\n", width, f[0], f[1])
		}
		b.WriteString("}\n")
	}
	return b.String()
}
