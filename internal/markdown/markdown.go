// Package markdown converts Markdown chapter fragments into LaTeX body text.
//
// Only the constructs that show up in hand-written analysis notes are mapped:
// headings, paragraphs, emphasis, code spans, code blocks, lists, block quotes,
// links and thematic breaks. Raw HTML is dropped.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/clrsreport/internal/latex"
)

// ParseBody parses a Markdown body into a Goldmark AST.
func ParseBody(body []byte) gmast.Node {
	md := goldmark.New()
	return md.Parser().Parse(text.NewReader(body))
}

// ToLaTeX converts a Markdown document into LaTeX suitable for a chapter body.
// Headings start at \section because the caller emits the \chapter line.
func ToLaTeX(body []byte) latex.Trusted {
	c := &converter{src: body}
	c.block(ParseBody(body))
	return latex.Trusted(strings.TrimRight(c.out.String(), "\n") + "\n")
}

type converter struct {
	src []byte
	out strings.Builder
}

var headingCommands = map[int]string{
	1: `\section`,
	2: `\subsection`,
	3: `\subsubsection`,
}

func (c *converter) block(n gmast.Node) {
	switch node := n.(type) {
	case *gmast.Heading:
		cmd, ok := headingCommands[node.Level]
		if !ok {
			cmd = `\paragraph`
		}
		c.out.WriteString(cmd + "{")
		c.inlineChildren(node)
		c.out.WriteString("}\n\n")
	case *gmast.Paragraph:
		c.inlineChildren(node)
		c.out.WriteString("\n\n")
	case *gmast.TextBlock:
		c.inlineChildren(node)
		c.out.WriteString("\n")
	case *gmast.FencedCodeBlock, *gmast.CodeBlock:
		c.out.WriteString("\\begin{verbatim}\n")
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			c.out.Write(seg.Value(c.src))
		}
		c.out.WriteString("\\end{verbatim}\n\n")
	case *gmast.List:
		env := "itemize"
		if node.IsOrdered() {
			env = "enumerate"
		}
		c.out.WriteString("\\begin{" + env + "}\n")
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			c.out.WriteString("\\item ")
			c.blockChildren(item)
		}
		c.out.WriteString("\\end{" + env + "}\n\n")
	case *gmast.Blockquote:
		c.out.WriteString("\\begin{quote}\n")
		c.blockChildren(node)
		c.out.WriteString("\\end{quote}\n\n")
	case *gmast.ThematicBreak:
		c.out.WriteString("\\noindent\\rule{\\linewidth}{0.4pt}\n\n")
	case *gmast.HTMLBlock:
	default:
		c.blockChildren(n)
	}
}

func (c *converter) blockChildren(n gmast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		c.block(child)
	}
}

func (c *converter) inlineChildren(n gmast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		c.inline(child)
	}
}

func (c *converter) inline(n gmast.Node) {
	switch node := n.(type) {
	case *gmast.Text:
		c.out.WriteString(latex.EscapeText(string(node.Segment.Value(c.src))))
		switch {
		case node.HardLineBreak():
			c.out.WriteString("\\\\\n")
		case node.SoftLineBreak():
			c.out.WriteString("\n")
		}
	case *gmast.String:
		c.out.WriteString(latex.EscapeText(string(node.Value)))
	case *gmast.Emphasis:
		cmd := `\emph{`
		if node.Level >= 2 {
			cmd = `\textbf{`
		}
		c.out.WriteString(cmd)
		c.inlineChildren(node)
		c.out.WriteString("}")
	case *gmast.CodeSpan:
		c.out.WriteString(`\texttt{`)
		c.inlineChildren(node)
		c.out.WriteString("}")
	case *gmast.Link:
		c.inlineChildren(node)
		c.out.WriteString(` (\texttt{` + latex.EscapeText(string(node.Destination)) + "})")
	case *gmast.AutoLink:
		c.out.WriteString(`\texttt{` + latex.EscapeText(string(node.URL(c.src))) + "}")
	case *gmast.RawHTML:
	default:
		c.inlineChildren(n)
	}
}
