//go:build cgo

package highlight

import (
	"context"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Cython-only words the python grammar sees as plain identifiers.
var cythonKeywords = map[string]bool{
	"cdef": true, "cpdef": true, "cimport": true, "ctypedef": true,
	"nogil": true, "gil": true, "inline": true, "readonly": true,
	"public": true, "extern": true, "struct": true, "union": true,
	"enum": true, "fused": true, "noexcept": true,
}

var wordOperators = map[string]bool{
	"and": true, "or": true, "not": true, "in": true, "is": true,
}

// TreeSitter highlights Python-shaped source with the tree-sitter python grammar.
type TreeSitter struct {
	mu     sync.Mutex
	parser *sitter.Parser
}

// NewTreeSitter creates a tree-sitter backed highlighter.
func NewTreeSitter() (Highlighter, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &TreeSitter{parser: parser}, nil
}

// Name returns "treesitter".
func (h *TreeSitter) Name() string { return "treesitter" }

// StyleDefs returns the CSS for the token classes emitted by Highlight.
func (h *TreeSitter) StyleDefs(scope string) string {
	return styleDefs(scope)
}

// Highlight wraps every token of src in a classed span. Text between tokens
// is escaped as is; tokens spanning several lines are split per line.
func (h *TreeSitter) Highlight(src string) (string, error) {
	h.mu.Lock()
	tree, err := h.parser.ParseCtx(context.Background(), nil, []byte(src))
	h.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("tree-sitter parse: %w", err)
	}

	var b strings.Builder
	b.Grow(len(src) * 2)
	cursor := 0

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		class := tokenClass(n, src)
		if class == "" && n.ChildCount() > 0 {
			for i := 0; i < int(n.ChildCount()); i++ {
				walk(n.Child(i))
			}
			return
		}
		start, end := int(n.StartByte()), int(n.EndByte())
		if start < cursor || end > len(src) || start >= end {
			return
		}
		b.WriteString(Escape(src[cursor:start]))
		writeToken(&b, class, src[start:end])
		cursor = end
	}
	walk(tree.RootNode())
	b.WriteString(Escape(src[cursor:]))
	return b.String(), nil
}

func tokenClass(n *sitter.Node, src string) string {
	typ := n.Type()
	switch typ {
	case "comment":
		return classComment
	case "string", "concatenated_string":
		return classString
	case "integer":
		return classInteger
	case "float":
		return classFloat
	case "true", "false", "none":
		return classKeywordConst
	case "decorator":
		return classDecorator
	case "identifier":
		return identifierClass(n, src)
	}
	if n.IsNamed() || n.ChildCount() > 0 {
		return ""
	}
	switch {
	case wordOperators[typ]:
		return classOperatorWord
	case isWord(typ):
		return classKeyword
	case strings.ContainsAny(typ, "()[]{},:;."):
		return classPunctuation
	default:
		return classOperator
	}
}

func identifierClass(n *sitter.Node, src string) string {
	text := src[n.StartByte():n.EndByte()]
	if cythonKeywords[text] {
		return classKeyword
	}
	if text == "self" {
		return classBuiltinPseudo
	}
	if p := n.Parent(); p != nil {
		if name := p.ChildByFieldName("name"); name != nil && name.StartByte() == n.StartByte() {
			switch p.Type() {
			case "function_definition":
				return classFunction
			case "class_definition":
				return classClass
			}
		}
	}
	return className
}

func writeToken(b *strings.Builder, class, text string) {
	if class == "" {
		b.WriteString(Escape(text))
		return
	}
	for i, part := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		if part == "" {
			continue
		}
		fmt.Fprintf(b, `<span class="%s">%s</span>`, class, Escape(part))
	}
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && r != '_' {
			return false
		}
	}
	return true
}
