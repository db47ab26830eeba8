//go:build !cgo

package highlight

// NewTreeSitter reports ErrUnavailable: the tree-sitter backend needs cgo.
func NewTreeSitter() (Highlighter, error) {
	return nil, ErrUnavailable
}
