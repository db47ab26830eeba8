package annotate

import (
	"fmt"
	"html"

	"cyannotate/internal/source"
)

// Item is a named, styled inline marker produced by the code generator.
// Size is the amount of output text the marker logically spans.
type Item struct {
	Style string
	Text  string
	Tag   string
	Size  int
}

// Start returns the opening markup for the marker.
func (it Item) Start() string {
	return fmt.Sprintf("<span class='cython tag %s' title='%s'>%s",
		html.EscapeString(it.Style), html.EscapeString(it.Text), html.EscapeString(it.Tag))
}

// End returns the logical size of the marker and its closing markup.
func (it Item) End() (int, string) {
	return it.Size, "</span>"
}

// Annotation pairs an Item with the position it was recorded at.
type Annotation struct {
	Pos  source.Pos
	Item Item
}
