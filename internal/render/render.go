// Package render fills the fixed report skeleton with assembled content.
//
// Render is pure: it performs no I/O and identical input yields identical output.
// Plain string fields are escaped by the template; latex.Trusted fields are not.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"git.home.luguber.info/inful/clrsreport/internal/latex"
)

var (
	// ErrListingTerminator is returned when listing text would close its environment early.
	ErrListingTerminator = errors.New(`listing text contains \end{lstlisting}`)
	// ErrUnsafeFileName is returned for resource names containing LaTeX syntax.
	ErrUnsafeFileName = errors.New("file name contains LaTeX special characters")
)

// Meta carries title page and bibliography metadata.
type Meta struct {
	Title    string
	Author   string
	Date     string // empty renders \today
	Revision string // empty omits the revision line
	BibFile  string // bibliography resource, e.g. CLRS_Analysis_Report.bib
}

// Input is everything the document skeleton needs.
type Input struct {
	Meta           Meta
	Chapters       latex.Trusted
	Listing        string
	ListingCaption string
	Exercises      latex.Trusted
}

var funcs = template.FuncMap{
	"esc": latex.Escape,
	"raw": func(t latex.Trusted) string { return string(t) },
	"literal": func(s string) (string, error) {
		if strings.Contains(s, `\end{lstlisting}`) {
			return "", ErrListingTerminator
		}
		return strings.Trim(s, "\n"), nil
	},
	"file": func(name string) (string, error) {
		if strings.ContainsAny(name, `%$#&{}\ `) {
			return "", fmt.Errorf("%w: %q", ErrUnsafeFileName, name)
		}
		return name, nil
	},
}

var documentTemplate = template.Must(template.New("report").Delims("<<", ">>").Funcs(funcs).Parse(skeleton))

// Render substitutes in into the document skeleton.
func Render(in Input) (string, error) {
	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, in); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return buf.String(), nil
}

const skeleton = `\documentclass[12pt, a4paper]{report}
\usepackage[utf8]{inputenc}
\usepackage{amsmath, amssymb, listings, xcolor, csquotes, babel}
\usepackage{algorithm}
\usepackage{algpseudocode}
\lstdefinelanguage{Rust}{
    keywords={as, break, const, continue, crate, else, enum, extern, false, fn, for, if, impl, in, let, loop, match, mod, move, mut, pub, ref, return, Self, self, static, struct, super, trait, true, type, unsafe, use, where, while},
    keywordstyle=\color{blue}\bfseries,
    identifierstyle=\color{black},
    comment=[l]{//},
    morecomment=[s]{/*}{*/},
    commentstyle=\color{gray}\ttfamily,
    string=[b]{"},
    stringstyle=\color{red}\ttfamily,
    showstringspaces=false
}
\usepackage[
    backend=bibtex,
    style=numeric,
    citestyle=numeric
]{biblatex}
\addbibresource{<< file .Meta.BibFile >>}

\title{<< esc .Meta.Title >>}
\author{<< esc .Meta.Author >>}
\date{<< if .Meta.Date >><< esc .Meta.Date >><< else >>\today<< end >><< if .Meta.Revision >>\\ \small Revision \texttt{<< esc .Meta.Revision >>}<< end >>}

\lstset{
    language=Rust,
    basicstyle=\ttfamily\footnotesize,
    breaklines=true,
    captionpos=b,
    frame=single,
    showstringspaces=false
}

\begin{document}
\maketitle
\tableofcontents

% --- Dynamic chapters injected here ---
<< raw .Chapters >>
\chapter{Example: Insertion Sort (Inline)}
\section{Implementation Listing}
\begin{lstlisting}[caption={<< esc .ListingCaption >>}]
<< literal .Listing >>
\end{lstlisting}
<< if .Exercises >>
<< raw .Exercises >>
<< end >>
\chapter*{References}
\addcontentsline{toc}{chapter}{References}
\nocite{CLRS}
\printbibliography

\end{document}
`
