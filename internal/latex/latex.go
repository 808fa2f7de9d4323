// Package latex holds the escaping rules and content types shared by the
// chapter assembler and the document renderer.
package latex

import "strings"

// Trusted is author-controlled LaTeX that is inserted into documents as is.
// Anything held in a plain string is treated as text and escaped.
type Trusted string

// String returns the raw LaTeX.
func (t Trusted) String() string { return string(t) }

// specials lists the characters LaTeX treats as syntax, in replacement order.
var specials = []struct{ from, to string }{
	{"%", `\%`},
	{"$", `\$`},
	{"#", `\#`},
	{"&", `\&`},
	{"_", `\_`},
	{"{", `\{`},
	{"}", `\}`},
}

// Escape prefixes each LaTeX special character with a backslash. Replacements
// run in a fixed order over the whole string. Escaping is not idempotent:
// escaping already escaped text escapes it again.
func Escape(s string) string {
	for _, sp := range specials {
		s = strings.ReplaceAll(s, sp.from, sp.to)
	}
	return s
}

// textReplacer escapes running text in a single pass so the braces of the
// inserted commands are not escaped again.
var textReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	"^", `\textasciicircum{}`,
	"~", `\textasciitilde{}`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"&", `\&`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
)

// EscapeText escapes s for running text. Beyond the characters Escape
// handles it also replaces backslash, caret and tilde with their text-mode
// commands, which Escape leaves alone.
func EscapeText(s string) string {
	return textReplacer.Replace(s)
}

// Text escapes s and marks the result as safe to insert.
func Text(s string) Trusted {
	return Trusted(Escape(s))
}

// Join concatenates trusted blocks separated by sep.
func Join(blocks []Trusted, sep string) Trusted {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = string(b)
	}
	return Trusted(strings.Join(parts, sep))
}
