package report

import (
	"fmt"
	"strings"

	"cyannotate/internal/classify"
)

// Scope is the CSS class every report element carries.
const Scope = "cython"

const cssTemplate = `
body.cython { font-family: courier; font-size: 12; }

.cython.tag  {  }
.cython.line { margin: 0em }
.cython.code  { font-size: 9; color: #444444; display: none; margin: 0px 0px 0px 20px;  }
`

// Tag styles used by annotation items.
const cssTags = `
.cython.code .coerce  { color: #008000; border: 1px dotted #008000 }
.cython.code .py_attr { color: #FF0000; font-weight: bold; }
.cython.code .c_attr  { color: #0000FF; }
.cython.code .py_call { color: #FF0000; font-weight: bold; }
.cython.code .c_call  { color: #0000FF; }
`

var categoryColors = map[classify.Category]string{
	classify.CategoryRuntimeCall:   "red",
	classify.CategoryRuntimeMacro:  "#FF7000",
	classify.CategoryInternalCall:  "#FF3000",
	classify.CategoryInternalMacro: "#FF7000",
	classify.CategoryRefNanny:      "#FFA000",
	classify.CategoryErrorGoto:     "#FFA000",
}

const defaultCategoryColor = "#FFA000"

const script = `function toggleDiv(id) {
    theDiv = id.nextElementSibling
    if (theDiv.style.display != 'block') theDiv.style.display = 'block';
    else theDiv.style.display = 'none';
}`

// BucketColor returns the background color of a score bucket: full yellow
// at 0 fading as the score grows.
func BucketColor(score int) string {
	score = classify.Clamp(score)
	return fmt.Sprintf("FFFF%02x", int(255/(1+float64(score)/10.0)))
}

// stylesheet builds the embedded CSS: base template, one color per category
// of the active rule set, one rule per score bucket and the highlighter's
// own definitions.
func stylesheet(categories []classify.Category, highlighterDefs string) string {
	var b strings.Builder
	b.WriteString(cssTemplate)
	b.WriteByte('\n')
	for _, cat := range categories {
		color, ok := categoryColors[cat]
		if !ok {
			color = defaultCategoryColor
		}
		fmt.Fprintf(&b, ".cython.code .%s  { color: %s; }\n", cat, color)
	}
	b.WriteString(cssTags)
	for i := 0; i <= classify.MaxScore; i++ {
		fmt.Fprintf(&b, "\n.cython.score-%d {background-color: #%s;}", i, BucketColor(i))
	}
	b.WriteString(highlighterDefs)
	return b.String()
}
