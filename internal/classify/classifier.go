package classify

import (
	"fmt"
	"maps"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MaxScore is the highest visual bucket; scores are clamped to it.
const MaxScore = 254

const defaultMemoSize = 4096

// Counts holds one counter per category of a rule set.
type Counts map[Category]int

// Result is the classification of one line of generated code.
type Result struct {
	Markup string // text with every match wrapped in <span class='CATEGORY'>
	Counts Counts
	Score  int
}

// Classifier applies a compiled RuleSet to generated code. It is safe for
// concurrent use; results are memoized per input text.
type Classifier struct {
	set        *RuleSet
	rules      []rule
	categories []Category
	memo       *lru.Cache[string, Result]
}

// Options tunes a Classifier.
type Options struct {
	MemoSize int // 0 selects the default, negative disables memoization
}

// New compiles set into a Classifier.
func New(set *RuleSet, opts Options) (*Classifier, error) {
	if set == nil {
		set = DefaultRuleSet()
	}
	c := &Classifier{
		set:        set,
		rules:      make([]rule, 0, len(set.Rules)),
		categories: set.Categories(),
	}
	if len(set.Rules) == 0 {
		return nil, fmt.Errorf("%w: rule set %q has no rules", ErrInvalidRule, set.Label())
	}
	for _, spec := range set.Rules {
		r, err := compileRule(spec)
		if err != nil {
			return nil, err
		}
		c.rules = append(c.rules, r)
	}
	known := make(map[Category]bool, len(c.categories))
	for _, cat := range c.categories {
		known[cat] = true
	}
	for name, w := range set.Weights {
		if !known[Category(name)] {
			return nil, fmt.Errorf("%w: weight for %q", ErrUnknownCategory, name)
		}
		if w < 0 {
			return nil, fmt.Errorf("%w: negative weight %d for %q", ErrInvalidRule, w, name)
		}
	}

	size := opts.MemoSize
	if size == 0 {
		size = defaultMemoSize
	}
	if size > 0 {
		memo, err := lru.New[string, Result](size)
		if err != nil {
			return nil, err
		}
		c.memo = memo
	}
	return c, nil
}

// MustDefault returns a Classifier over the built-in rule set.
func MustDefault() *Classifier {
	c, err := New(DefaultRuleSet(), Options{})
	if err != nil {
		panic(err)
	}
	return c
}

// RuleSet returns the rule set the classifier was compiled from.
func (c *Classifier) RuleSet() *RuleSet {
	return c.set
}

// Categories returns the categories of the rule set in declaration order.
func (c *Classifier) Categories() []Category {
	return append([]Category(nil), c.categories...)
}

// Classify scans text once, left to right. At every position the longest
// applicable rule wins, ties go to the rule declared first; the match is
// wrapped and counted, everything else passes through unchanged.
// text is expected to be HTML-escaped already.
func (c *Classifier) Classify(text string) Result {
	if c.memo != nil {
		if res, ok := c.memo.Get(text); ok {
			res.Counts = maps.Clone(res.Counts)
			return res
		}
	}
	res := c.classify(text)
	if c.memo != nil {
		c.memo.Add(text, Result{Markup: res.Markup, Counts: maps.Clone(res.Counts), Score: res.Score})
	}
	return res
}

func (c *Classifier) classify(text string) Result {
	counts := c.newCounts()
	var b strings.Builder
	b.Grow(len(text))

	last := 0
	for i := 0; i < len(text); {
		best, n := c.longestAt(text, i)
		if n == 0 {
			i++
			continue
		}
		b.WriteString(text[last:i])
		fmt.Fprintf(&b, "<span class='%s'>%s</span>", best.category, text[i:i+n])
		counts[best.category]++
		i += n
		last = i
	}
	b.WriteString(text[last:])

	return Result{Markup: b.String(), Counts: counts, Score: c.Score(counts)}
}

func (c *Classifier) longestAt(text string, i int) (*rule, int) {
	var (
		best  *rule
		bestN int
	)
	for k := range c.rules {
		if n := c.rules[k].match(text, i); n > bestN {
			best, bestN = &c.rules[k], n
		}
	}
	return best, bestN
}

func (c *Classifier) newCounts() Counts {
	counts := make(Counts, len(c.categories))
	for _, cat := range c.categories {
		counts[cat] = 0
	}
	return counts
}

// Score weighs counts with the rule set weights and clamps the sum to MaxScore.
func (c *Classifier) Score(counts Counts) int {
	score := 0
	for cat, n := range counts {
		score += c.set.Weight(cat) * n
	}
	return Clamp(score)
}

// Clamp limits score to the range of visual buckets.
func Clamp(score int) int {
	switch {
	case score < 0:
		return 0
	case score > MaxScore:
		return MaxScore
	default:
		return score
	}
}
