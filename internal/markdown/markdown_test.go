package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLaTeX_HeadingsAndParagraphs(t *testing.T) {
	got := string(ToLaTeX([]byte("# Loop invariants\n\nThe subarray A[1:i-1] is *sorted*.\n\n## Termination\n\nIt **ends**.\n")))

	assert.Contains(t, got, `\section{Loop invariants}`)
	assert.Contains(t, got, `The subarray A[1:i-1] is \emph{sorted}.`)
	assert.Contains(t, got, `\subsection{Termination}`)
	assert.Contains(t, got, `It \textbf{ends}.`)
	assert.True(t, strings.HasSuffix(got, "\n"))
	assert.False(t, strings.HasSuffix(got, "\n\n"))
}

func TestToLaTeX_EscapesText(t *testing.T) {
	got := string(ToLaTeX([]byte("Costs c_i & 100% of $n$ and `key_value`.\n")))

	assert.Contains(t, got, `Costs c\_i \& 100\% of \$n\$ and \texttt{key\_value}.`)
}

func TestToLaTeX_CodeBlockIsVerbatim(t *testing.T) {
	src := "Pseudocode:\n\n```\nfor i = 2 to n\n    key = A[i]\n```\n"
	got := string(ToLaTeX([]byte(src)))

	assert.Contains(t, got, "\\begin{verbatim}\nfor i = 2 to n\n    key = A[i]\n\\end{verbatim}")
}

func TestToLaTeX_Lists(t *testing.T) {
	got := string(ToLaTeX([]byte("- stable\n- in place\n\n1. first\n2. second\n")))

	assert.Contains(t, got, "\\begin{itemize}\n\\item stable\n\\item in place\n\\end{itemize}")
	assert.Contains(t, got, "\\begin{enumerate}\n\\item first\n\\item second\n\\end{enumerate}")
}

func TestToLaTeX_LinksAndHTML(t *testing.T) {
	got := string(ToLaTeX([]byte("See [CLRS](https://mitpress.mit.edu) <b>now</b>.\n")))

	assert.Contains(t, got, `See CLRS (\texttt{https://mitpress.mit.edu})`)
	assert.NotContains(t, got, "<b>")
}

func TestToLaTeX_TextModeCharacters(t *testing.T) {
	got := string(ToLaTeX([]byte("Runs in O(n^2) time, see C:\\temp and ~home.\n\nUse `a^b`.\n")))

	assert.Contains(t, got, `Runs in O(n\textasciicircum{}2) time, see C:\textbackslash{}temp and \textasciitilde{}home.`)
	assert.Contains(t, got, `Use \texttt{a\textasciicircum{}b}.`)
	assert.NotContains(t, got, "n^2")
}
