package highlight

import (
	"fmt"
	"strings"
)

// Token classes use the short names of the pygments HTML formatter.
const (
	classKeyword       = "k"
	classKeywordConst  = "kc"
	classOperatorWord  = "ow"
	classOperator      = "o"
	classPunctuation   = "p"
	classComment       = "c1"
	classString        = "s"
	classInteger       = "mi"
	classFloat         = "mf"
	className          = "n"
	classFunction      = "nf"
	classClass         = "nc"
	classBuiltinPseudo = "bp"
	classDecorator     = "nd"
)

// styleOrder keeps StyleDefs output byte-stable.
var styleOrder = []struct {
	class string
	rule  string
}{
	{classComment, "color: #408080; font-style: italic"},
	{classKeyword, "color: #008000; font-weight: bold"},
	{classKeywordConst, "color: #008000; font-weight: bold"},
	{classOperator, "color: #666666"},
	{classOperatorWord, "color: #AA22FF; font-weight: bold"},
	{classInteger, "color: #666666"},
	{classFloat, "color: #666666"},
	{classString, "color: #BA2121"},
	{classFunction, "color: #0000FF"},
	{classClass, "color: #0000FF; font-weight: bold"},
	{classDecorator, "color: #AA22FF"},
	{classBuiltinPseudo, "color: #008000"},
}

func styleDefs(scope string) string {
	var b strings.Builder
	for _, s := range styleOrder {
		fmt.Fprintf(&b, "\n%s .%s { %s }", scope, s.class, s.rule)
	}
	return b.String()
}
