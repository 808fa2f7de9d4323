package chapters

import (
	"strings"

	"git.home.luguber.info/inful/clrsreport/internal/latex"
	"git.home.luguber.info/inful/clrsreport/internal/manifest"
)

// Exercises renders an unnumbered appendix chapter listing exercise pseudocode.
// Unlike chapter pseudocode, exercise pseudocode is typeset as running text, so
// every line is escaped first.
func Exercises(items []manifest.Item) latex.Trusted {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\\chapter*{Exercises}\n\\addcontentsline{toc}{chapter}{Exercises}\n")
	for _, it := range items {
		b.WriteString("\n\\section*{" + latex.Escape(it.Title) + "}\n")
		if !it.HasPseudocode() {
			b.WriteString(PlaceholderNotice + "\n")
			continue
		}
		b.WriteString("\\begin{flushleft}\\ttfamily\n")
		b.WriteString(TypesetLines(*it.Pseudocode))
		b.WriteString("\n\\end{flushleft}\n")
	}
	return latex.Trusted(b.String())
}

// lineBreak ends a typeset line. \newline takes no optional argument, so a
// following line that starts with "[" is not read as a spacing length.
const lineBreak = "\\newline\n"

// TypesetLines escapes pseudocode and keeps its line structure and indentation.
func TypesetLines(pseudocode string) string {
	lines := strings.Split(strings.TrimRight(pseudocode, "\n"), "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		indent := len(line) - len(trimmed)
		if trimmed == "" {
			out[i] = `\mbox{}`
			continue
		}
		out[i] = strings.Repeat("~", indent) + latex.EscapeText(trimmed)
	}
	return strings.Join(out, lineBreak)
}
