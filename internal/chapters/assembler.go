// Package chapters turns manifest items into LaTeX chapter blocks.
package chapters

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/clrsreport/internal/latex"
	"git.home.luguber.info/inful/clrsreport/internal/logfields"
	"git.home.luguber.info/inful/clrsreport/internal/manifest"
	"git.home.luguber.info/inful/clrsreport/internal/markdown"
)

// Strategy names how a chapter's content was sourced.
type Strategy string

const (
	StrategyFragment    Strategy = "fragment"
	StrategyMarkdown    Strategy = "markdown"
	StrategyPseudocode  Strategy = "pseudocode"
	StrategyPlaceholder Strategy = "placeholder"
)

// Fragment file suffixes looked up in the chapters directory, in priority order.
const (
	FragmentSuffix = ".tex"
	MarkdownSuffix = ".md"
)

// PlaceholderNotice is the body of a chapter that has no content yet.
const PlaceholderNotice = `\textit{(No content available yet.)}`

// Block is one assembled chapter.
type Block struct {
	ID       string
	Strategy Strategy
	Source   string // fragment path, empty for inline strategies
	Content  latex.Trusted
}

// Assembler decides the inclusion strategy for each chapter.
type Assembler struct {
	chaptersDir string
}

// NewAssembler returns an Assembler reading fragments from chaptersDir.
func NewAssembler(chaptersDir string) *Assembler {
	return &Assembler{chaptersDir: chaptersDir}
}

// Blocks assembles every item in manifest order. It never fails: an item
// without any content becomes a placeholder chapter.
func (a *Assembler) Blocks(items []manifest.Item) []Block {
	blocks := make([]Block, 0, len(items))
	for _, it := range items {
		b := a.block(it)
		slog.Debug("Assembled chapter", logfields.Chapter(it.ID), logfields.Strategy(string(b.Strategy)))
		blocks = append(blocks, b)
	}
	return blocks
}

// Assemble returns the chapter blocks joined by blank lines.
func (a *Assembler) Assemble(items []manifest.Item) latex.Trusted {
	return Join(a.Blocks(items))
}

// Join concatenates blocks, separating them with one blank line.
func Join(blocks []Block) latex.Trusted {
	if len(blocks) == 0 {
		return ""
	}
	parts := make([]latex.Trusted, len(blocks))
	for i, b := range blocks {
		parts[i] = latex.Trusted(strings.TrimRight(string(b.Content), "\n"))
	}
	return latex.Join(parts, "\n\n") + "\n"
}

func (a *Assembler) block(it manifest.Item) Block {
	if a.chaptersDir != "" {
		tex := filepath.Join(a.chaptersDir, it.ID+FragmentSuffix)
		if isFile(tex) {
			return Block{ID: it.ID, Strategy: StrategyFragment, Source: tex, Content: InputDirective(tex)}
		}

		md := filepath.Join(a.chaptersDir, it.ID+MarkdownSuffix)
		if isFile(md) {
			data, err := os.ReadFile(md)
			if err == nil {
				return Block{ID: it.ID, Strategy: StrategyMarkdown, Source: md, Content: MarkdownChapter(it.Title, data)}
			}
			slog.Warn("Chapter fragment unreadable; falling back", logfields.Chapter(it.ID), logfields.Path(md), logfields.Error(err))
		}
	}

	if it.HasPseudocode() {
		return Block{ID: it.ID, Strategy: StrategyPseudocode, Content: PseudocodeChapter(it.Title, *it.Pseudocode)}
	}
	return Block{ID: it.ID, Strategy: StrategyPlaceholder, Content: PlaceholderChapter(it.Title)}
}

func isFile(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}

// InputDirective includes a prepared fragment by absolute path so it resolves
// from any compiler working directory.
func InputDirective(path string) latex.Trusted {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return latex.Trusted(fmt.Sprintf(`\input{%s}`, filepath.ToSlash(path)))
}

// PseudocodeChapter wraps author pseudocode in a verbatim block. Pseudocode is
// not escaped; verbatim prints it literally.
func PseudocodeChapter(title, pseudocode string) latex.Trusted {
	return latex.Trusted(fmt.Sprintf("\\chapter{%s}\n\\section*{Pseudocode}\n\\begin{verbatim}\n%s\n\\end{verbatim}",
		latex.Escape(title), strings.TrimRight(pseudocode, "\n")))
}

// PlaceholderChapter marks a chapter that has no content yet.
func PlaceholderChapter(title string) latex.Trusted {
	return latex.Trusted(fmt.Sprintf("\\chapter{%s}\n%s", latex.Escape(title), PlaceholderNotice))
}

// MarkdownChapter converts a Markdown fragment into a chapter.
func MarkdownChapter(title string, body []byte) latex.Trusted {
	return latex.Trusted(fmt.Sprintf("\\chapter{%s}\n%s", latex.Escape(title), markdown.ToLaTeX(body)))
}
